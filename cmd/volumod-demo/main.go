// main.go - minimal playback harness: feeds a test tone through the VoluMod
// engine and plays the result via oto. Demonstrates the external boundary
// from spec.md §1/§6; it is not part of the core and owns no DSP of its own.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/hyperpolymath/volumod/audioblock"
	"github.com/hyperpolymath/volumod/processor"
)

const (
	exitOK                = 0
	exitInitFailed        = 1
	exitAudioDeviceFailed = 2

	framesPerBlock = 512
)

func main() {
	sampleRate := flag.Int("sr", 48000, "sample rate in Hz")
	targetLUFS := flag.Float64("target", -14, "normalizer target loudness in LUFS")
	flag.Parse()

	cfg := processor.DefaultConfig()
	cfg.SampleRate = *sampleRate
	cfg.TargetLUFS = *targetLUFS

	proc := processor.New(cfg)
	if proc == nil {
		fmt.Fprintln(os.Stderr, "volumod: failed to initialize processor")
		os.Exit(exitInitFailed)
	}

	sink, err := newEngineSink(proc, cfg.SampleRate, cfg.Channels)
	if err != nil {
		fmt.Fprintln(os.Stderr, "volumod: audio device open failed:", err)
		os.Exit(exitAudioDeviceFailed)
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: cfg.Channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   4096,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "volumod: audio device open failed:", err)
		os.Exit(exitAudioDeviceFailed)
	}
	<-ready

	player := ctx.NewPlayer(sink)
	player.Play()
	defer player.Close()

	time.Sleep(10 * time.Second)
	os.Exit(exitOK)
}

// engineSink generates a -20 dBFS 1 kHz test tone, runs it through the
// processor one block at a time, and serves the result as bytes for oto.
type engineSink struct {
	proc       *processor.Processor
	block      *audioblock.Block
	channels   int
	sampleRate int
	phase      float64
	byteBuf    []byte
	bufPos     int
}

func newEngineSink(proc *processor.Processor, sampleRate, channels int) (*engineSink, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("invalid audio configuration: sr=%d ch=%d", sampleRate, channels)
	}
	return &engineSink{
		proc:       proc,
		block:      audioblock.New(framesPerBlock, channels, sampleRate),
		channels:   channels,
		sampleRate: sampleRate,
	}, nil
}

func (s *engineSink) Read(p []byte) (int, error) {
	if s.bufPos >= len(s.byteBuf) {
		s.fillBlock()
	}
	n := copy(p, s.byteBuf[s.bufPos:])
	s.bufPos += n
	return n, nil
}

func (s *engineSink) fillBlock() {
	const amplitude = 0.1 // -20 dBFS
	freq := 1000.0
	step := freq / float64(s.sampleRate)

	for f := 0; f < s.block.FrameCount(); f++ {
		v := float32(amplitude * math.Sin(2*math.Pi*s.phase))
		s.phase += step
		if s.phase >= 1 {
			s.phase -= 1
		}
		for ch := 0; ch < s.channels; ch++ {
			s.block.Set(f, ch, v)
		}
	}

	s.proc.Process(s.block)

	needed := len(s.block.Samples) * 4
	if cap(s.byteBuf) < needed {
		s.byteBuf = make([]byte, needed)
	}
	s.byteBuf = s.byteBuf[:needed]
	for i, sample := range s.block.Samples {
		bits := math.Float32bits(sample)
		s.byteBuf[i*4+0] = byte(bits)
		s.byteBuf[i*4+1] = byte(bits >> 8)
		s.byteBuf[i*4+2] = byte(bits >> 16)
		s.byteBuf[i*4+3] = byte(bits >> 24)
	}
	s.bufPos = 0
}
