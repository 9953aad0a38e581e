package audio

import (
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeSink records started playbacks and lets the test trigger completion.
type fakeSink struct {
	started []*fakePlayback
	err     error
}

func (s *fakeSink) Start(samples []float32, sampleRate int, done func()) (Playback, error) {
	if s.err != nil {
		return nil, s.err
	}
	pb := &fakePlayback{done: done, samples: samples}
	s.started = append(s.started, pb)
	return pb, nil
}

type fakePlayback struct {
	done    func()
	samples []float32
	stopped atomic.Bool
}

func (p *fakePlayback) Stop() { p.stopped.Store(true) }

// finish simulates the sink reaching the end of the buffer.
func (p *fakePlayback) finish() { p.done() }

type fakeSpeech struct {
	started []*fakePlayback
	err     error
	texts   []string
}

func (s *fakeSpeech) Speak(text string, done func()) (Playback, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.texts = append(s.texts, text)
	pb := &fakePlayback{done: done}
	s.started = append(s.started, pb)
	return pb, nil
}

func pcm(n int) string {
	return base64.StdEncoding.EncodeToString(make([]byte, 2*n))
}

func TestPlayer_SynthesizedPlaybackCompletesOnce(t *testing.T) {
	sink := &fakeSink{}
	p := NewPlayer(sink, nil, 24000, testLogger())

	var completions atomic.Int32
	p.Play(pcm(10), "hello", func() { completions.Add(1) })

	if p.State() != Playing {
		t.Fatalf("state %q, want %q", p.State(), Playing)
	}
	if len(sink.started) != 1 {
		t.Fatalf("%d playbacks started, want 1", len(sink.started))
	}
	if len(sink.started[0].samples) != 10 {
		t.Errorf("%d samples, want 10", len(sink.started[0].samples))
	}

	sink.started[0].finish()
	if got := completions.Load(); got != 1 {
		t.Errorf("%d completions, want 1", got)
	}
	if p.State() != Idle {
		t.Errorf("state %q after completion, want %q", p.State(), Idle)
	}
}

func TestPlayer_SecondPlaySupersedesFirst(t *testing.T) {
	sink := &fakeSink{}
	p := NewPlayer(sink, nil, 24000, testLogger())

	var first, second atomic.Int32
	p.Play(pcm(4), "", func() { first.Add(1) })
	p.Play(pcm(4), "", func() { second.Add(1) })

	if len(sink.started) != 2 {
		t.Fatalf("%d playbacks started, want 2", len(sink.started))
	}
	if !sink.started[0].stopped.Load() {
		t.Error("first playback was not stopped before the second started")
	}

	// Even if the superseded playback's done callback still fires, it must
	// not signal completion.
	sink.started[0].finish()
	if first.Load() != 0 {
		t.Error("superseded playback signalled completion")
	}

	sink.started[1].finish()
	if second.Load() != 1 {
		t.Errorf("second playback completions = %d, want 1", second.Load())
	}
}

func TestPlayer_FallbackToSpeechOnBadPCM(t *testing.T) {
	sink := &fakeSink{}
	sp := &fakeSpeech{}
	p := NewPlayer(sink, sp, 24000, testLogger())

	p.Play("!!!not-base64!!!", "read this aloud", nil)

	if len(sink.started) != 0 {
		t.Errorf("sink started %d playbacks, want 0", len(sink.started))
	}
	if len(sp.started) != 1 {
		t.Fatalf("speech started %d utterances, want 1", len(sp.started))
	}
	if sp.texts[0] != "read this aloud" {
		t.Errorf("speech text %q", sp.texts[0])
	}
}

func TestPlayer_FallbackToSpeechWhenNoBytes(t *testing.T) {
	sp := &fakeSpeech{}
	p := NewPlayer(&fakeSink{}, sp, 24000, testLogger())

	p.Play("", "the answer text", nil)
	if len(sp.started) != 1 {
		t.Fatalf("speech started %d utterances, want 1", len(sp.started))
	}
}

func TestPlayer_NothingAvailableCompletesImmediately(t *testing.T) {
	p := NewPlayer(nil, nil, 24000, testLogger())

	ch := make(chan struct{})
	p.Play("", "", func() { close(ch) })

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("completion never signalled")
	}
	if p.State() != Idle {
		t.Errorf("state %q, want %q", p.State(), Idle)
	}
}

func TestPlayer_StopIdempotent(t *testing.T) {
	sink := &fakeSink{}
	p := NewPlayer(sink, nil, 24000, testLogger())

	// Stopping with nothing playing must not panic or error.
	p.Stop()
	p.Stop()

	var completions atomic.Int32
	p.Play(pcm(4), "", func() { completions.Add(1) })
	p.Stop()
	p.Stop()

	if !sink.started[0].stopped.Load() {
		t.Error("playback not stopped")
	}
	// A stopped playback never signals completion.
	sink.started[0].finish()
	if completions.Load() != 0 {
		t.Errorf("%d completions after stop, want 0", completions.Load())
	}
	if p.State() != Idle {
		t.Errorf("state %q, want %q", p.State(), Idle)
	}
}

func TestPlayer_SinkStartErrorFallsBack(t *testing.T) {
	sink := &fakeSink{err: fmt.Errorf("device busy")}
	sp := &fakeSpeech{}
	p := NewPlayer(sink, sp, 24000, testLogger())

	p.Play(pcm(4), "fallback text", nil)
	if len(sp.started) != 1 {
		t.Fatalf("speech started %d utterances, want 1", len(sp.started))
	}
}
