package synth

import (
	"math"

	"github.com/PixPMusic/gopher-pads/internal/mapping"
)

// Oscillator generates waveforms
type Oscillator struct {
	Waveform   mapping.Waveform
	Phase      float64
	Frequency  float64
	SampleRate float64
}

// NewOscillator creates a new oscillator
func NewOscillator(w mapping.Waveform, sampleRate float64) *Oscillator {
	return &Oscillator{Waveform: w, SampleRate: sampleRate}
}

// Sample generates the next sample value (-1.0 to 1.0)
func (o *Oscillator) Sample() float64 {
	if o.Frequency <= 0 {
		return 0
	}

	v := o.value()

	o.Phase += o.Frequency / o.SampleRate
	if o.Phase >= 1.0 {
		o.Phase -= math.Floor(o.Phase)
	}
	return v
}

func (o *Oscillator) value() float64 {
	p := o.Phase
	switch o.Waveform {
	case mapping.Triangle:
		if p < 0.5 {
			return 4.0*p - 1.0
		}
		return 3.0 - 4.0*p
	case mapping.Sawtooth:
		return 2.0*p - 1.0
	case mapping.Square:
		if p < 0.5 {
			return 1.0
		}
		return -1.0
	default:
		return math.Sin(2 * math.Pi * p)
	}
}
