package audio

import "time"

// NullSink consumes samples in real time without producing sound. It stands
// in for a platform output device in headless deployments so the playback
// slot, stop semantics and completion signals all behave normally.
type NullSink struct{}

func (NullSink) Start(samples []float32, sampleRate int, done func()) (Playback, error) {
	if sampleRate <= 0 {
		sampleRate = 24000
	}
	d := time.Duration(len(samples)) * time.Second / time.Duration(sampleRate)
	return &timerPlayback{timer: time.AfterFunc(d, done)}, nil
}

type timerPlayback struct {
	timer *time.Timer
}

func (p *timerPlayback) Stop() {
	p.timer.Stop()
}
