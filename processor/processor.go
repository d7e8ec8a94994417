// processor.go - owns the E->F->G->H->I chain and exposes the control/metering surface
package processor

import (
	"os"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/hyperpolymath/volumod/audioblock"
	"github.com/hyperpolymath/volumod/compressor"
	"github.com/hyperpolymath/volumod/control"
	"github.com/hyperpolymath/volumod/dsp"
	"github.com/hyperpolymath/volumod/eq"
	"github.com/hyperpolymath/volumod/limiter"
	"github.com/hyperpolymath/volumod/loudness"
	"github.com/hyperpolymath/volumod/noise"
)

// Processor implements spec.md §4.J: it exclusively owns one instance
// each of the noise reducer, normalizer, compressor, equalizer and
// limiter, runs them in strict order once per process call, and exposes
// a thread-safe control/metering surface to other threads.
type Processor struct {
	config Config

	reducer    *noise.Reducer
	normalizer *loudness.Normalizer
	compressor *compressor.Compressor
	equalizer  *eq.Equalizer
	limiter    *limiter.Limiter

	queue  *control.Queue
	logger *log.Logger

	bypass atomic.Bool
	state  atomic.Uint32

	enableNoise      atomic.Bool
	enableNormalizer atomic.Bool
	enableCompressor atomic.Bool
	enableEQ         atomic.Bool
	enableLimiter    atomic.Bool

	targetLUFS control.Float64

	inputLevelDB    control.Float64
	outputLevelDB   control.Float64
	gainReductionDB control.Float64
	framesProcessed atomic.Uint64
	underruns       atomic.Uint64

	presetMu   sync.Mutex
	presetName string
}

// New constructs a Processor from cfg. Every buffer the chain needs is
// allocated here, once, from cfg.SampleRate/Channels - process never
// reallocates afterward.
func New(cfg Config) *Processor {
	sr := float64(cfg.SampleRate)

	p := &Processor{
		config:     cfg,
		reducer:    noise.New(sr, cfg.Channels),
		normalizer: loudness.New(sr, cfg.TargetLUFS),
		compressor: compressor.New(sr, compressor.ModeModerate),
		equalizer:  eq.New(sr, cfg.Channels),
		limiter:    limiter.New(sr),
		queue:      control.NewQueue(),
		logger:     log.New(os.Stderr),
		presetName: "flat",
	}

	p.enableNoise.Store(cfg.EnableNoiseReducer)
	p.enableNormalizer.Store(cfg.EnableNormalizer)
	p.enableCompressor.Store(cfg.EnableCompressor)
	p.enableEQ.Store(cfg.EnableEQ)
	p.enableLimiter.Store(cfg.EnableLimiter)
	p.targetLUFS.Store(cfg.TargetLUFS)
	p.inputLevelDB.Store(-120)
	p.outputLevelDB.Store(-120)
	p.state.Store(uint32(StateIdle))

	return p
}

// SetLogger overrides the default logger (useful for tests/embedders that
// want quieter or redirected output). Never call from the audio thread.
func (p *Processor) SetLogger(l *log.Logger) {
	p.logger = l
}

// Process implements spec.md §4.J. It is the sole real-time entry point:
// it must not allocate, lock a contended mutex, or perform I/O on any
// path reachable once DSP begins.
func (p *Processor) Process(b *audioblock.Block) {
	p.queue.Drain()

	if len(b.Samples) == 0 {
		return
	}

	if p.bypass.Load() || LifecycleState(p.state.Load()) == StateBypassed {
		return
	}

	p.state.Store(uint32(StateActive))
	p.normalizer.TargetLUFS = p.targetLUFS.Load()

	p.inputLevelDB.Store(dsp.LinearToDB(b.RMS()))

	if p.enableNoise.Load() && p.reducer.Enabled {
		p.reducer.Process(b)
	}
	if p.enableNormalizer.Load() {
		p.normalizer.Process(b)
	}
	if p.enableCompressor.Load() {
		p.compressor.Process(b)
		p.gainReductionDB.Store(p.compressor.GainReductionDB())
	}
	if p.enableEQ.Load() {
		p.equalizer.Process(b)
	}
	if p.enableLimiter.Load() {
		p.limiter.Process(b)
	}

	p.outputLevelDB.Store(dsp.LinearToDB(b.RMS()))
	p.framesProcessed.Add(uint64(b.FrameCount()))
}
