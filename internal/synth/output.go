package synth

import (
	"fmt"

	"github.com/ebitengine/oto/v3"
)

// Output plays a Synth on the default audio device
type Output struct {
	ctx    *oto.Context
	player *oto.Player
}

// Start opens the audio device and begins streaming s
func Start(s *Synth) (*Output, error) {
	op := &oto.NewContextOptions{
		SampleRate:   int(s.sampleRate),
		ChannelCount: 1, // Mono
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio device: %w", err)
	}
	<-ready

	player := ctx.NewPlayer(s)
	player.SetBufferSize(int(s.sampleRate) / 20 * 2) // 50ms of 16-bit samples
	player.Play()

	return &Output{ctx: ctx, player: player}, nil
}

// Close stops playback
func (o *Output) Close() error {
	if err := o.player.Close(); err != nil {
		return fmt.Errorf("failed to close audio player: %w", err)
	}
	return nil
}
