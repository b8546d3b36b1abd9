package main

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/chip8vm/chip8vm/beep"
	"github.com/chip8vm/chip8vm/logger"
)

const (
	// frames of audio allowed to queue before the device is considered
	// behind and skipped
	maxQueuedFrames = 4
)

var (
	/// Audio device the buzzer tone is queued on. Zero when audio failed
	/// to open.
	///
	AudioDevice sdl.AudioDeviceID

	/// Tone is the buzzer.
	///
	Tone = beep.NewTone()

	/// Recorder of the buzzer, non-nil when -wav was given.
	///
	Recorder *beep.Recorder
)

/// InitAudio opens a 16-bit mono device for the buzzer.
///
func InitAudio() error {
	if Options.Wav != "" {
		Recorder = beep.NewRecorder(Options.Wav)
	}

	spec := &sdl.AudioSpec{
		Freq:     beep.SampleRate,
		Format:   sdl.AUDIO_S16LSB,
		Channels: 1,
		Samples:  uint16(beep.SamplesPerFrame),
	}

	var err error
	var actualSpec sdl.AudioSpec

	AudioDevice, err = sdl.OpenAudioDevice("", false, spec, &actualSpec, 0)
	if err != nil {
		return err
	}

	// start playing immediately, silence is queued while not beeping
	sdl.PauseAudioDevice(AudioDevice, false)

	return nil
}

/// UpdateAudio queues one frame of the tone, on while the sound timer runs.
///
func UpdateAudio() {
	on := Machine != nil && !Machine.Paused() && Machine.VM.Beeping()

	buf := Tone.Generate(on, beep.SamplesPerFrame)

	if Recorder != nil {
		Recorder.Record(buf)
	}

	if AudioDevice == 0 {
		return
	}

	if sdl.GetQueuedAudioSize(AudioDevice) > maxQueuedFrames*beep.SamplesPerFrame*2 {
		sdl.ClearQueuedAudio(AudioDevice)
	}

	if err := sdl.QueueAudio(AudioDevice, beep.PCM16(buf)); err != nil {
		logger.Logf("audio", "%v", err)
	}
}

/// CloseAudio shuts down the device and writes the recording.
///
func CloseAudio() {
	if AudioDevice != 0 {
		sdl.CloseAudioDevice(AudioDevice)
	}

	if Recorder != nil {
		if err := Recorder.Close(); err != nil {
			logger.Logf("audio", "%v", err)
		}
	}
}
