package ffi

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hyperpolymath/volumod/processor"
)

func TestDispatch_NilProcessorReturnsUninitialized(t *testing.T) {
	resp := Dispatch(nil, Command{CmdType: CmdGetState})
	assert.False(t, resp.Success)
	assert.Equal(t, ErrUninitialized.Error(), resp.ErrorMessage)
}

func TestDispatch_UnknownCommandTypeIsRejected(t *testing.T) {
	p := processor.New(processor.DefaultConfig())
	resp := Dispatch(p, Command{CmdType: cmdTypeCount})
	assert.False(t, resp.Success)
	assert.Equal(t, ErrUnknownCommand.Error(), resp.ErrorMessage)
}

func TestDispatch_SetBypassTogglesState(t *testing.T) {
	p := processor.New(processor.DefaultConfig())
	resp := Dispatch(p, Command{CmdType: CmdSetBypass, ParamInt: 1})
	assert.True(t, resp.Success)
	assert.True(t, p.IsBypassed())
	assert.True(t, resp.State.IsBypassed)
}

func TestDispatch_SetPresetOutOfRangeIsRejected(t *testing.T) {
	p := processor.New(processor.DefaultConfig())
	resp := Dispatch(p, Command{CmdType: CmdSetPreset, ParamInt: int32(len(presetNames) + 1)})
	assert.False(t, resp.Success)
}

func TestDispatch_SetPresetAppliesByIndex(t *testing.T) {
	p := processor.New(processor.DefaultConfig())
	resp := Dispatch(p, Command{CmdType: CmdSetPreset, ParamInt: 3}) // bass_boost, per presetNames order
	assert.True(t, resp.Success)
	assert.Equal(t, "bass_boost", resp.State.PresetName)
}

func TestDispatch_GetStateReturnsCurrentSnapshot(t *testing.T) {
	p := processor.New(processor.DefaultConfig())
	resp := Dispatch(p, Command{CmdType: CmdGetState})
	assert.True(t, resp.Success)
	assert.False(t, resp.State.IsBypassed)
}
