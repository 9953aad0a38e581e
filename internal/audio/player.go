package audio

import (
	"log/slog"
	"sync"
)

// Sink is the platform audio-output capability. Start begins playback of
// decoded samples and must invoke done exactly once, when playback finishes
// or is stopped. May be absent.
type Sink interface {
	Start(samples []float32, sampleRate int, done func()) (Playback, error)
}

// Speech is the platform text-to-speech capability used when no synthesized
// bytes are available or they fail to decode. May be absent.
type Speech interface {
	Speak(text string, done func()) (Playback, error)
}

// Playback is an in-flight utterance or sample buffer. Stop releases it;
// stopping an already-finished playback is a no-op.
type Playback interface {
	Stop()
}

// State of the playback slot.
type State string

const (
	Idle    State = "idle"
	Playing State = "playing"
)

// Player owns the single playback slot. Play always stops whatever is in
// flight before starting, so at most one playback is ever active, and a
// superseded playback's completion is never signalled.
type Player struct {
	sink       Sink
	speech     Speech
	sampleRate int
	log        *slog.Logger

	mu      sync.Mutex
	gen     uint64
	current Playback
	state   State
}

func NewPlayer(sink Sink, speech Speech, sampleRate int, log *slog.Logger) *Player {
	return &Player{
		sink:       sink,
		speech:     speech,
		sampleRate: sampleRate,
		log:        log,
		state:      Idle,
	}
}

// Play starts a new playback from an optional base64 PCM16 payload and an
// optional source text, signalling onDone exactly once when this playback
// completes. If the payload is empty or malformed it falls back to platform
// speech; if neither capability can serve, onDone fires immediately. Returns
// the playback generation, which identifies this playback until superseded.
func (p *Player) Play(pcmBase64, sourceText string, onDone func()) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
	p.gen++
	gen := p.gen

	// done runs on the sink's goroutine; it only lands if this playback is
	// still the current one.
	done := func() {
		p.mu.Lock()
		if p.gen != gen {
			p.mu.Unlock()
			return
		}
		p.current = nil
		p.state = Idle
		p.mu.Unlock()
		if onDone != nil {
			onDone()
		}
	}

	if pcmBase64 != "" && p.sink != nil {
		samples, err := DecodePCM16(pcmBase64)
		if err == nil {
			pb, startErr := p.sink.Start(samples, p.sampleRate, done)
			if startErr == nil {
				p.current = pb
				p.state = Playing
				return gen
			}
			p.log.Warn("audio sink start failed, falling back", "error", startErr)
		} else {
			p.log.Warn("pcm decode failed, falling back", "error", err)
		}
	}

	if sourceText != "" && p.speech != nil {
		pb, err := p.speech.Speak(sourceText, done)
		if err == nil {
			p.current = pb
			p.state = Playing
			return gen
		}
		p.log.Warn("platform speech failed", "error", err)
	}

	// Nothing can play: still complete exactly once.
	p.state = Idle
	if onDone != nil {
		go onDone()
	}
	return gen
}

// Stop releases any in-flight playback. Idempotent; stopping an idle player
// does nothing. A stopped playback never signals completion.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Player) stopLocked() {
	if p.current != nil {
		// Bump the generation first so the stopped playback's done callback
		// cannot land.
		p.gen++
		p.current.Stop()
		p.current = nil
	}
	p.state = Idle
}

// State reports whether a playback is active.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}
