package beep

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/chip8vm/chip8vm/logger"
)

// Recorder keeps every generated buffer in memory and writes them to a WAV
// file when closed. Long sessions hold a lot of audio, so it's only meant
// for testing ROM sound.
type Recorder struct {
	filename string
	data     []int
}

// NewRecorder returns a recorder that will write to filename.
func NewRecorder(filename string) *Recorder {
	return &Recorder{
		filename: filename,
		data:     make([]int, 0, SampleRate),
	}
}

// Record appends a buffer.
func (r *Recorder) Record(buf *audio.IntBuffer) {
	r.data = append(r.data, buf.Data...)
}

// Samples is the number of samples recorded so far.
func (r *Recorder) Samples() int {
	return len(r.data)
}

// Close writes the recording.
func (r *Recorder) Close() (rerr error) {
	f, err := os.Create(r.filename)
	if err != nil {
		return fmt.Errorf("beep: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("beep: %w", err)
		}
	}()

	enc := wav.NewEncoder(f, SampleRate, BitDepth, 1, 1)

	logger.Logf("beep", "writing %d samples to %s", len(r.data), r.filename)

	buf := &audio.IntBuffer{
		Format:         Format,
		Data:           r.data,
		SourceBitDepth: BitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("beep: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("beep: %w", err)
	}

	return nil
}
