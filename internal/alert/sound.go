package alert

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"

	"github.com/verte-zerg/pomotui/internal/session"
)

//go:embed assets/bell.wav
var defaultBell []byte

// DefaultMaxPlayback bounds how long a cue may play.
const DefaultMaxPlayback = 5 * time.Second

// Clip is an encoded sound ready to be decoded.
type Clip struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// DefaultClip returns the embedded bell.
func DefaultClip() Clip {
	return Clip{
		Name: "bell.wav",
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(defaultBell)), nil
		},
	}
}

// FileClip returns a clip read from path on every play, so a missing file only
// fails the cue that needs it.
func FileClip(path string) Clip {
	return Clip{
		Name: path,
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
}

// Player plays a clip for at most limit.
type Player interface {
	Play(ctx context.Context, clip Clip, limit time.Duration) error
}

// Sound plays a cue on every phase switch.
type Sound struct {
	clip   Clip
	player Player
	limit  time.Duration
}

// NewSound returns a Sound sink. A zero limit uses DefaultMaxPlayback.
func NewSound(clip Clip, player Player, limit time.Duration) *Sound {
	if limit <= 0 {
		limit = DefaultMaxPlayback
	}
	return &Sound{clip: clip, player: player, limit: limit}
}

// Name implements Sink.
func (s *Sound) Name() string {
	return "sound"
}

// Handle implements Sink.
func (s *Sound) Handle(ctx context.Context, _ session.Transition) error {
	if err := s.player.Play(ctx, s.clip, s.limit); err != nil {
		return fmt.Errorf("failed to play %s: %w", s.clip.Name, err)
	}
	return nil
}

// SpeakerPlayer plays clips through the default audio device. The speaker is
// initialised once with the sample rate of the first clip; later clips are resampled.
type SpeakerPlayer struct {
	mu         sync.Mutex
	sampleRate beep.SampleRate
}

// NewSpeakerPlayer returns a player using the system speaker.
func NewSpeakerPlayer() *SpeakerPlayer {
	return &SpeakerPlayer{}
}

// Play implements Player.
func (p *SpeakerPlayer) Play(ctx context.Context, clip Clip, limit time.Duration) error {
	rc, err := clip.Open()
	if err != nil {
		return err
	}
	stream, format, err := decodeClip(clip.Name, rc)
	if err != nil {
		_ = rc.Close()
		return fmt.Errorf("failed to decode: %w", err)
	}
	defer func() {
		_ = stream.Close()
	}()

	rate, err := p.ensureSpeaker(format.SampleRate)
	if err != nil {
		return err
	}
	var s beep.Streamer = stream
	if format.SampleRate != rate {
		s = beep.Resample(4, format.SampleRate, rate, s)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(beep.Take(rate.N(limit), s), beep.Callback(func() {
		close(done)
	})))
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Clear()
		return ctx.Err()
	}
}

func (p *SpeakerPlayer) ensureSpeaker(rate beep.SampleRate) (beep.SampleRate, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sampleRate != 0 {
		return p.sampleRate, nil
	}
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return 0, fmt.Errorf("failed to open audio device: %w", err)
	}
	p.sampleRate = rate
	return rate, nil
}

func decodeClip(name string, rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp3":
		return mp3.Decode(rc)
	case ".wav", "":
		return wav.Decode(rc)
	default:
		return nil, beep.Format{}, fmt.Errorf("unsupported audio format %q", filepath.Ext(name))
	}
}
