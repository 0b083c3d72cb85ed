// Package audio plays alarm sounds through the system audio device. A
// ringing alarm loops its sound until stopped, optionally ramping the
// volume up from quiet so the wake-up isn't a jump scare.
package audio

import (
	"bytes"
	"log"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Gradual-volume ramp: start at 10% and step +10% every 3 seconds to 100%.
const (
	rampStartVolume = 0.1
	rampStepVolume  = 0.1
	rampInterval    = 3 * time.Second
)

// Global audio context singleton. oto allows a single context per process;
// its format is fixed by whichever sound initializes it first.
var (
	globalAudioCtx     *oto.Context
	globalAudioCtxOnce sync.Once
	audioCtxReady      bool
)

func initAudioContext(format *Format) {
	globalAudioCtxOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   format.SampleRate,
			ChannelCount: format.Channels,
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			log.Printf("Failed to initialize audio context: %v", err)
			return
		}

		// Wait for the hardware audio devices to be ready
		<-readyChan

		globalAudioCtx = ctx
		audioCtxReady = true
		log.Println("Audio context initialized successfully")
	})
}

// Player is the live, stoppable playback of one ringing alarm.
type Player struct {
	stopChan chan struct{}
	player   *oto.Player

	mu      sync.Mutex
	volume  float64
	stopped bool
}

// PlayLoop starts looping raw PCM audio data and returns a Player to
// control it. Returns nil when the audio device is unavailable; callers
// treat a nil player as "no sound" and keep the alarm ringing through the
// other channels.
func PlayLoop(format *Format, data []byte, gradual bool) *Player {
	initAudioContext(format)

	if !audioCtxReady || globalAudioCtx == nil {
		log.Printf("Audio context not ready")
		return nil
	}

	p := &Player{
		stopChan: make(chan struct{}),
		volume:   1.0,
	}
	if gradual {
		p.volume = rampStartVolume
		go p.rampLoop()
	}

	go p.playLoop(data)

	return p
}

func (p *Player) playLoop(data []byte) {
	// Loop the alarm sound until stopped.
	for {
		p.mu.Lock()
		if p.stopped {
			p.mu.Unlock()
			return
		}
		p.player = globalAudioCtx.NewPlayer(bytes.NewReader(data))
		p.player.SetVolume(p.volume)
		p.player.Play()
		p.mu.Unlock()

		for p.player.IsPlaying() {
			select {
			case <-p.stopChan:
				p.player.Pause()
				p.player.Close()
				log.Println("Audio player closed")
				return
			case <-time.After(10 * time.Millisecond):
				// Continue checking
			}
		}

		if err := p.player.Close(); err != nil {
			log.Printf("Failed to close audio player: %v", err)
		}

		select {
		case <-p.stopChan:
			return
		default:
			// Loop again
		}
	}
}

// rampLoop steps the volume toward full every rampInterval. The current
// level is carried across loop iterations so re-created oto players pick
// it up.
func (p *Player) rampLoop() {
	ticker := time.NewTicker(rampInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopChan:
			return
		case <-ticker.C:
			p.mu.Lock()
			p.volume += rampStepVolume
			if p.volume >= 1.0 {
				p.volume = 1.0
			}
			if p.player != nil {
				p.player.SetVolume(p.volume)
			}
			done := p.volume >= 1.0
			p.mu.Unlock()
			if done {
				return
			}
		}
	}
}

// Stop ends playback. Safe to call on a nil player and safe to call twice.
func (p *Player) Stop() {
	if p == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.stopped {
		p.stopped = true
		close(p.stopChan)

		if p.player != nil {
			p.player.Pause()
		}

		log.Println("Audio playback stopped")
	}
}
