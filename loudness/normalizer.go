// normalizer.go - K-weighted integrated loudness estimator driving a smoothed broadband gain
package loudness

import (
	"math"

	"github.com/hyperpolymath/volumod/audioblock"
	"github.com/hyperpolymath/volumod/dsp"
)

// IntegrationMode selects how block energy is folded into the running
// integrated-loudness estimate. See spec.md §9 / SPEC_FULL.md §10.
type IntegrationMode int

const (
	// IntegrationLegacy preserves the specified (and likely buggy)
	// behavior: block_sum * frame_count is accumulated, weighting longer
	// blocks quadratically.
	IntegrationLegacy IntegrationMode = iota
	// IntegrationConventional accumulates block_sum only, matching
	// conventional loudness-integration practice.
	IntegrationConventional
)

const (
	defaultMaxGainDB       = 12
	defaultMinGainDB       = -24
	defaultGateThresholdDB = -70
	gainSmoothTimeMs       = 100
	shortTermWindowMs      = 400
)

type kWeighting struct {
	shelf dsp.Biquad // highshelf 1500 Hz +4 dB
	hp    dsp.Biquad // highpass 38 Hz Q 0.5
}

func newKWeighting(sampleRate float64) kWeighting {
	var k kWeighting
	k.shelf.Configure(dsp.FilterHighShelf, 1500, sampleRate, 0.707, 4)
	k.hp.Configure(dsp.FilterHighpass, 38, sampleRate, 0.5, 0)
	return k
}

func (k *kWeighting) process(x float64) float64 {
	return k.hp.Process(k.shelf.Process(x))
}

// Normalizer implements spec.md §4.F.
type Normalizer struct {
	TargetLUFS float64

	maxGainDB       float64
	minGainDB       float64
	gateThresholdDB float64

	integrationMode IntegrationMode
	integratedSum   float64
	sampleCount     uint64

	currentGain     float64
	gainSmoothCoef  float64
	sampleRate      float64
	kLeft, kRight   kWeighting

	// short-term metering window (SPEC_FULL.md §10) - does not affect gain
	shortTerm      []float64
	shortTermPos   int
	shortTermFull  bool
}

// New builds a Normalizer for the given sample rate and target LUFS.
func New(sampleRate float64, targetLUFS float64) *Normalizer {
	windowBlocks := int(shortTermWindowMs*sampleRate/1000) / 512
	if windowBlocks < 1 {
		windowBlocks = 1
	}
	return &Normalizer{
		TargetLUFS:      targetLUFS,
		maxGainDB:       defaultMaxGainDB,
		minGainDB:       defaultMinGainDB,
		gateThresholdDB: defaultGateThresholdDB,
		currentGain:     1,
		gainSmoothCoef:  dsp.SmoothCoef(gainSmoothTimeMs, sampleRate),
		sampleRate:      sampleRate,
		kLeft:           newKWeighting(sampleRate),
		kRight:          newKWeighting(sampleRate),
		shortTerm:       make([]float64, windowBlocks),
	}
}

// SetIntegrationMode switches the energy-accumulation convention. See
// IntegrationMode.
func (n *Normalizer) SetIntegrationMode(m IntegrationMode) {
	n.integrationMode = m
}

// Process implements spec.md §4.F steps 1-8.
func (n *Normalizer) Process(b *audioblock.Block) {
	frames := b.FrameCount()
	if frames == 0 {
		return
	}

	var blockSum float64
	for f := 0; f < frames; f++ {
		l := float64(b.Get(f, 0))
		var r float64
		if b.Channels > 1 {
			r = float64(b.Get(f, 1))
		} else {
			r = l
		}
		kl := n.kLeft.process(l)
		kr := n.kRight.process(r)
		blockSum += kl*kl + kr*kr
	}

	meanSqBlock := blockSum / (float64(frames) * 2)
	blockLUFS := -120.0
	if meanSqBlock > 0 {
		blockLUFS = -0.691 + 10*math.Log10(meanSqBlock)
	}

	n.recordShortTerm(meanSqBlock)

	if blockLUFS < n.gateThresholdDB {
		return
	}

	switch n.integrationMode {
	case IntegrationConventional:
		n.integratedSum += blockSum
	default:
		n.integratedSum += blockSum * float64(frames)
	}
	n.sampleCount += uint64(frames)

	integratedLUFS := -120.0
	denom := float64(n.sampleCount) * 2
	if n.integratedSum > 0 && denom > 0 {
		integratedLUFS = -0.691 + 10*math.Log10(n.integratedSum/denom)
	}

	gainDB := dsp.Clamp(n.TargetLUFS-integratedLUFS, n.minGainDB, n.maxGainDB)
	targetGain := dsp.DBToLinear(gainDB)

	n.currentGain += n.gainSmoothCoef * (targetGain - n.currentGain)
	b.ApplyGain(n.currentGain)
}

func (n *Normalizer) recordShortTerm(meanSq float64) {
	if len(n.shortTerm) == 0 {
		return
	}
	n.shortTerm[n.shortTermPos] = meanSq
	n.shortTermPos++
	if n.shortTermPos >= len(n.shortTerm) {
		n.shortTermPos = 0
		n.shortTermFull = true
	}
}

// ShortTermLUFS reports a sliding short-term loudness estimate for
// metering only; it never feeds back into the gain decision.
func (n *Normalizer) ShortTermLUFS() float64 {
	count := n.shortTermPos
	if n.shortTermFull {
		count = len(n.shortTerm)
	}
	if count == 0 {
		return dsp.SilenceFloorDB
	}
	var sum float64
	for i := 0; i < count; i++ {
		sum += n.shortTerm[i]
	}
	mean := sum / float64(count)
	if mean <= 0 {
		return dsp.SilenceFloorDB
	}
	return -0.691 + 10*math.Log10(mean)
}

// CurrentGainDB reports the current smoothed gain in dB, for metering.
func (n *Normalizer) CurrentGainDB() float64 {
	return dsp.LinearToDB(n.currentGain)
}

// Reset clears integration state, filter state, and the smoothed gain.
func (n *Normalizer) Reset() {
	n.integratedSum = 0
	n.sampleCount = 0
	n.currentGain = 1
	n.kLeft.shelf.Reset()
	n.kLeft.hp.Reset()
	n.kRight.shelf.Reset()
	n.kRight.hp.Reset()
	for i := range n.shortTerm {
		n.shortTerm[i] = 0
	}
	n.shortTermPos = 0
	n.shortTermFull = false
}
