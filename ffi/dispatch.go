// dispatch.go - routes decoded Commands to a Processor and builds Responses
package ffi

import (
	"github.com/hyperpolymath/volumod/compressor"
	"github.com/hyperpolymath/volumod/eq"
	"github.com/hyperpolymath/volumod/noise"
	"github.com/hyperpolymath/volumod/processor"
)

// presetNames maps the wire preset index (param_int) to an eq.Preset and
// its display name, in the order spec.md §4.H lists them.
var presetNames = []struct {
	preset eq.Preset
	name   string
}{
	{eq.PresetFlat, "flat"},
	{eq.PresetSpeech, "speech"},
	{eq.PresetMusic, "music"},
	{eq.PresetBassBoost, "bass_boost"},
	{eq.PresetTrebleBoost, "treble_boost"},
	{eq.PresetLoudness, "loudness"},
	{eq.PresetHearingAid, "hearing_aid"},
	{eq.PresetNightMode, "night_mode"},
}

// Dispatch applies cmd to p and returns the wire Response. p == nil
// surfaces spec.md §7's UninitializedProcessor case; an out-of-range
// CmdType surfaces UnknownCommand. Dispatch never panics.
func Dispatch(p *processor.Processor, cmd Command) Response {
	if p == nil {
		return Response{Success: false, ErrorMessage: ErrUninitialized.Error()}
	}
	if !cmd.CmdType.Valid() {
		return Response{Success: false, ErrorMessage: ErrUnknownCommand.Error()}
	}

	switch cmd.CmdType {
	case CmdSetBypass:
		p.SetBypass(cmd.ParamInt != 0)

	case CmdSetPreset:
		idx := int(cmd.ParamInt)
		if idx < 0 || idx >= len(presetNames) {
			return Response{Success: false, ErrorMessage: "preset index out of range"}
		}
		entry := presetNames[idx]
		p.SetEQPreset(entry.preset, entry.name)

	case CmdSetNormalizerTarget:
		p.SetNormalizerTarget(float64(cmd.ParamFloat))

	case CmdSetCompressionMode:
		p.SetCompressionMode(compressor.Mode(cmd.ParamInt))

	case CmdSetNoiseMode:
		p.SetNoiseReductionMode(noise.Mode(cmd.ParamInt))

	case CmdSetEQBand:
		p.SetEQBand(int(cmd.ParamInt), float64(cmd.ParamFloat))

	case CmdStartNoiseLearn:
		p.StartNoiseLearning()

	case CmdStopNoiseLearn:
		p.StopNoiseLearning()

	case CmdReset:
		p.Reset()

	case CmdGetState, CmdGetLevels:
		// handled below, uniformly, by returning current state

	default:
		return Response{Success: false, ErrorMessage: ErrUnknownCommand.Error()}
	}

	return Response{Success: true, State: stateToWire(p)}
}

func stateToWire(p *processor.Processor) WireProcessorState {
	snap := p.GetState()
	return WireProcessorState{
		IsActive:        snap.State == processor.StateActive,
		IsBypassed:      snap.Bypass,
		InputDB:         float32(snap.InputLevelDB),
		OutputDB:        float32(snap.OutputLevelDB),
		GainReductionDB: float32(snap.GainReductionDB),
		PresetName:      snap.PresetName,
	}
}
