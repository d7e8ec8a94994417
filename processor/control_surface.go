// control_surface.go - thread-safe parameter API callable from any control thread
package processor

import (
	"github.com/hyperpolymath/volumod/compressor"
	"github.com/hyperpolymath/volumod/control"
	"github.com/hyperpolymath/volumod/dsp"
	"github.com/hyperpolymath/volumod/eq"
	"github.com/hyperpolymath/volumod/noise"
)

// pushCommand enqueues cmd and warns when doing so overwrote a pending,
// not-yet-drained command of the same Kind - that command's effect is
// lost, superseded by this one.
func (p *Processor) pushCommand(kind control.Kind, apply func()) {
	if p.queue.Push(control.Command{Kind: kind, Apply: apply}) {
		p.logger.Warn("control command overwritten before being applied", "kind", kind)
	}
}

// SetBypass sets the bypass flag. Idempotent: setting the same value
// twice leaves engine state unchanged.
func (p *Processor) SetBypass(bypass bool) {
	p.bypass.Store(bypass)
	if bypass {
		p.state.Store(uint32(StateBypassed))
	} else if LifecycleState(p.state.Load()) == StateBypassed {
		p.state.Store(uint32(StateIdle))
	}
	p.logger.Info("bypass set", "bypass", bypass)
}

// ToggleBypass flips the bypass flag and returns the new value.
func (p *Processor) ToggleBypass() bool {
	next := !p.bypass.Load()
	p.SetBypass(next)
	return next
}

// IsBypassed reports the current bypass flag.
func (p *Processor) IsBypassed() bool {
	return p.bypass.Load()
}

// SetNormalizerTarget clamps target to [-60, 0] LUFS (ConfigInvalid
// inputs are clamped, never rejected) and stores it for the audio thread
// to pick up at the top of its next block.
func (p *Processor) SetNormalizerTarget(lufs float64) {
	p.targetLUFS.Store(dsp.Clamp(lufs, -60, 0))
}

// SetCompressionMode enqueues a mode switch, applied atomically at the
// top of the next process() call.
func (p *Processor) SetCompressionMode(mode compressor.Mode) {
	p.pushCommand(control.KindCompressionMode, func() { p.compressor.SetMode(mode) })
	p.logger.Debug("compression mode queued", "mode", mode)
}

// SetNoiseReductionMode enqueues a noise-reducer mode switch.
func (p *Processor) SetNoiseReductionMode(mode noise.Mode) {
	p.pushCommand(control.KindNoiseMode, func() { p.reducer.SetMode(mode) })
	p.logger.Debug("noise reduction mode queued", "mode", mode)
}

// SetEQPreset enqueues a full 10-band preset application.
func (p *Processor) SetEQPreset(preset eq.Preset, name string) {
	p.pushCommand(control.KindEQPreset, func() { p.equalizer.ApplyPreset(preset) })
	p.presetMu.Lock()
	p.presetName = name
	p.presetMu.Unlock()
	p.logger.Info("eq preset queued", "preset", name)
}

// SetEQBand enqueues a single band gain change, clamped to [-24, +24] dB.
func (p *Processor) SetEQBand(index int, gainDB float64) {
	gainDB = dsp.Clamp(gainDB, -24, 24)
	p.pushCommand(control.KindEQBand, func() { p.equalizer.SetBand(index, gainDB) })
}

// EnableVoiceEnhancement toggles the noise reducer's voice-band shaping.
func (p *Processor) EnableVoiceEnhancement(enable bool) {
	p.pushCommand(control.KindOther, func() { p.reducer.VoiceEnhance = enable })
}

// StartNoiseLearning begins (re)learning the noise floor.
func (p *Processor) StartNoiseLearning() {
	p.pushCommand(control.KindNoiseLearn, p.reducer.StartLearning)
	p.logger.Info("noise learning started")
}

// StopNoiseLearning freezes the learned noise floor.
func (p *Processor) StopNoiseLearning() {
	p.pushCommand(control.KindNoiseLearn, p.reducer.StopLearning)
	p.logger.Info("noise learning stopped")
}

// GetLevels returns the most recently measured input/output RMS levels in
// dB, as a best-effort snapshot (see spec.md §5).
func (p *Processor) GetLevels() (inDB, outDB float64) {
	return p.inputLevelDB.Load(), p.outputLevelDB.Load()
}

// GetStats returns frames processed and reported underruns.
func (p *Processor) GetStats() (frames, underruns uint64) {
	return p.framesProcessed.Load(), p.underruns.Load()
}

// ReportUnderrun lets the host-owned audio callback record an underrun it
// detected at the platform I/O layer - that detection itself is outside
// this engine's scope (spec.md §1).
func (p *Processor) ReportUnderrun() {
	p.underruns.Add(1)
}

// GetState returns a full snapshot matching spec.md §6's
// processor_get_state.
func (p *Processor) GetState() Snapshot {
	p.presetMu.Lock()
	preset := p.presetName
	p.presetMu.Unlock()

	return Snapshot{
		State:           LifecycleState(p.state.Load()),
		Bypass:          p.bypass.Load(),
		InputLevelDB:    p.inputLevelDB.Load(),
		OutputLevelDB:   p.outputLevelDB.Load(),
		GainReductionDB: p.gainReductionDB.Load(),
		FramesProcessed: p.framesProcessed.Load(),
		Underruns:       p.underruns.Load(),
		PresetName:      preset,
	}
}

// Reset enqueues a full chain reset, applied atomically at the top of the
// next process() call so it can never interleave with in-flight DSP.
func (p *Processor) Reset() {
	p.pushCommand(control.KindReset, func() {
		p.reducer.Reset()
		p.normalizer.Reset()
		p.compressor.Reset()
		p.equalizer.Reset()
		p.limiter.Reset()
	})
	p.framesProcessed.Store(0)
	p.gainReductionDB.Store(0)
	p.logger.Info("processor reset queued")
}
