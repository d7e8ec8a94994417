// wire.go - little-endian binary wire format for IPC/extension bridges (spec.md §6)
package ffi

import (
	"encoding/binary"
	"errors"
	"io"
)

// CommandType enumerates the FFI command tags from spec.md §6.
type CommandType uint8

const (
	CmdSetBypass CommandType = iota
	CmdSetPreset
	CmdSetNormalizerTarget
	CmdSetCompressionMode
	CmdSetNoiseMode
	CmdSetEQBand
	CmdStartNoiseLearn
	CmdStopNoiseLearn
	CmdReset
	CmdGetState
	CmdGetLevels
	cmdTypeCount
)

// Sentinel errors so callers can errors.Is against the taxonomy in
// spec.md §7 instead of string-matching error messages.
var (
	ErrUninitialized  = errors.New("processor not initialized")
	ErrUnknownCommand = errors.New("unknown command type")
	ErrShortBuffer    = errors.New("buffer too short for wire format")
)

// Command is the wire form of a single control request.
type Command struct {
	CmdType     CommandType
	ParamInt    int32
	ParamFloat  float32
	ParamString string
	ParamBytes  []byte
}

// Valid reports whether CmdType falls in the enumerated range (spec.md
// §7's UnknownCommand case).
func (c CommandType) Valid() bool {
	return c < cmdTypeCount
}

// EncodeCommand writes cmd in the wire layout: u8 tag, i32, f32, a
// u32-length-prefixed UTF-8 string, then a u32-length-prefixed byte blob.
func EncodeCommand(w io.Writer, cmd Command) error {
	if err := binary.Write(w, binary.LittleEndian, uint8(cmd.CmdType)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, cmd.ParamInt); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, cmd.ParamFloat); err != nil {
		return err
	}
	if err := writeLengthPrefixed(w, []byte(cmd.ParamString)); err != nil {
		return err
	}
	return writeLengthPrefixed(w, cmd.ParamBytes)
}

// DecodeCommand reads a Command in the EncodeCommand layout.
func DecodeCommand(r io.Reader) (Command, error) {
	var cmd Command

	var tag uint8
	if err := binary.Read(r, binary.LittleEndian, &tag); err != nil {
		return cmd, err
	}
	cmd.CmdType = CommandType(tag)
	if !cmd.CmdType.Valid() {
		return cmd, ErrUnknownCommand
	}

	if err := binary.Read(r, binary.LittleEndian, &cmd.ParamInt); err != nil {
		return cmd, err
	}
	if err := binary.Read(r, binary.LittleEndian, &cmd.ParamFloat); err != nil {
		return cmd, err
	}

	str, err := readLengthPrefixed(r)
	if err != nil {
		return cmd, err
	}
	cmd.ParamString = string(str)

	cmd.ParamBytes, err = readLengthPrefixed(r)
	if err != nil {
		return cmd, err
	}

	return cmd, nil
}

// WireProcessorState is the wire form of spec.md §6's
// processor_get_state result.
type WireProcessorState struct {
	IsActive        bool
	IsBypassed      bool
	InputDB         float32
	OutputDB        float32
	GainReductionDB float32
	PresetName      string
}

// Response is the wire form of an FFI reply.
type Response struct {
	Success      bool
	ErrorMessage string
	State        WireProcessorState
	Data         []byte
}

// EncodeResponse writes resp in the wire layout described in spec.md §6.
func EncodeResponse(w io.Writer, resp Response) error {
	success := uint8(0)
	if resp.Success {
		success = 1
	}
	if err := binary.Write(w, binary.LittleEndian, success); err != nil {
		return err
	}
	if err := writeLengthPrefixed(w, []byte(resp.ErrorMessage)); err != nil {
		return err
	}
	if err := encodeState(w, resp.State); err != nil {
		return err
	}
	return writeLengthPrefixed(w, resp.Data)
}

// DecodeResponse reads a Response in the EncodeResponse layout.
func DecodeResponse(r io.Reader) (Response, error) {
	var resp Response

	var success uint8
	if err := binary.Read(r, binary.LittleEndian, &success); err != nil {
		return resp, err
	}
	resp.Success = success != 0

	errMsg, err := readLengthPrefixed(r)
	if err != nil {
		return resp, err
	}
	resp.ErrorMessage = string(errMsg)

	resp.State, err = decodeState(r)
	if err != nil {
		return resp, err
	}

	resp.Data, err = readLengthPrefixed(r)
	if err != nil {
		return resp, err
	}
	return resp, nil
}

func encodeState(w io.Writer, s WireProcessorState) error {
	flags := [2]uint8{boolByte(s.IsActive), boolByte(s.IsBypassed)}
	if err := binary.Write(w, binary.LittleEndian, flags); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, s.InputDB); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, s.OutputDB); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, s.GainReductionDB); err != nil {
		return err
	}
	return writeLengthPrefixed(w, []byte(s.PresetName))
}

func decodeState(r io.Reader) (WireProcessorState, error) {
	var s WireProcessorState
	var flags [2]uint8
	if err := binary.Read(r, binary.LittleEndian, &flags); err != nil {
		return s, err
	}
	s.IsActive = flags[0] != 0
	s.IsBypassed = flags[1] != 0

	if err := binary.Read(r, binary.LittleEndian, &s.InputDB); err != nil {
		return s, err
	}
	if err := binary.Read(r, binary.LittleEndian, &s.OutputDB); err != nil {
		return s, err
	}
	if err := binary.Read(r, binary.LittleEndian, &s.GainReductionDB); err != nil {
		return s, err
	}

	name, err := readLengthPrefixed(r)
	if err != nil {
		return s, err
	}
	s.PresetName = string(name)
	return s, nil
}

// AudioData is the wire form of one host audio callback's payload.
type AudioData struct {
	Samples     []float32
	SampleRate  uint32
	Channels    uint8
	FrameCount  uint32
	TimestampMs uint64
}

// EncodeAudioData writes ad in the wire layout from spec.md §6.
func EncodeAudioData(w io.Writer, ad AudioData) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(ad.Samples))); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, ad.Samples); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, ad.SampleRate); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, ad.Channels); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, ad.FrameCount); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, ad.TimestampMs)
}

// DecodeAudioData reads an AudioData in the EncodeAudioData layout.
func DecodeAudioData(r io.Reader) (AudioData, error) {
	var ad AudioData
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return ad, err
	}
	ad.Samples = make([]float32, n)
	if err := binary.Read(r, binary.LittleEndian, ad.Samples); err != nil {
		return ad, err
	}
	if err := binary.Read(r, binary.LittleEndian, &ad.SampleRate); err != nil {
		return ad, err
	}
	if err := binary.Read(r, binary.LittleEndian, &ad.Channels); err != nil {
		return ad, err
	}
	if err := binary.Read(r, binary.LittleEndian, &ad.FrameCount); err != nil {
		return ad, err
	}
	if err := binary.Read(r, binary.LittleEndian, &ad.TimestampMs); err != nil {
		return ad, err
	}
	return ad, nil
}

// MeterData is the wire form of a metering snapshot.
type MeterData struct {
	InputPeakDB   float32
	InputRMSDB    float32
	OutputPeakDB  float32
	OutputRMSDB   float32
	GainReduction float32
	TimestampMs   uint64
}

// EncodeMeterData writes md in the wire layout from spec.md §6.
func EncodeMeterData(w io.Writer, md MeterData) error {
	return binary.Write(w, binary.LittleEndian, md)
}

// DecodeMeterData reads a MeterData in the EncodeMeterData layout.
func DecodeMeterData(r io.Reader) (MeterData, error) {
	var md MeterData
	err := binary.Read(r, binary.LittleEndian, &md)
	return md, err
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func writeLengthPrefixed(w io.Writer, data []byte) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(data))); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	_, err := w.Write(data)
	return err
}

func readLengthPrefixed(r io.Reader) ([]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
