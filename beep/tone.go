// Package beep generates the CHIP-8 buzzer: a single square wave that
// sounds while the sound timer is running.
package beep

import (
	"github.com/go-audio/audio"
)

const (
	// SampleRate of generated audio.
	SampleRate = 44100

	// Frequency of the tone in Hz.
	Frequency = 440

	// BitDepth of generated samples.
	BitDepth = 16

	// default amplitude, well below full scale
	defaultVolume = 0x1800
)

// Format is mono at SampleRate.
var Format = &audio.Format{
	NumChannels: 1,
	SampleRate:  SampleRate,
}

// Tone is a square wave generator. The phase carries over between calls so
// consecutive buffers join without clicks.
type Tone struct {
	Frequency int
	Volume    int

	phase int
}

// NewTone returns the default tone.
func NewTone() *Tone {
	return &Tone{
		Frequency: Frequency,
		Volume:    defaultVolume,
	}
}

// Generate n samples. When on is false the buffer is silent and the phase
// restarts, so every beep begins on the same edge.
func (t *Tone) Generate(on bool, n int) *audio.IntBuffer {
	buf := &audio.IntBuffer{
		Format:         Format,
		Data:           make([]int, n),
		SourceBitDepth: BitDepth,
	}

	if !on || t.Frequency <= 0 {
		t.phase = 0
		return buf
	}

	period := SampleRate / t.Frequency
	if period < 2 {
		period = 2
	}

	for i := range buf.Data {
		if t.phase < period/2 {
			buf.Data[i] = t.Volume
		} else {
			buf.Data[i] = -t.Volume
		}

		if t.phase++; t.phase == period {
			t.phase = 0
		}
	}

	return buf
}

// SamplesPerFrame is the number of samples covering one 60 Hz frame.
const SamplesPerFrame = SampleRate / 60

// PCM16 packs 16-bit samples little-endian, the layout SDL queues.
func PCM16(buf *audio.IntBuffer) []byte {
	b := make([]byte, 0, len(buf.Data)*2)

	for _, s := range buf.Data {
		v := uint16(int16(s))
		b = append(b, byte(v), byte(v>>8))
	}

	return b
}
