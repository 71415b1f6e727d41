// Package chime plays a short generated tone when a switch toggles. Audio
// is best-effort: if the speaker cannot initialize, Play is a silent no-op.
package chime

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"
)

const sampleRate = beep.SampleRate(44100)

var (
	initOnce sync.Once
	ready    bool
)

func setup() {
	initOnce.Do(func() {
		err := speaker.Init(sampleRate, sampleRate.N(time.Second/10))
		if err != nil {
			zap.S().Warnf("chime: speaker init: %s", err)
			return
		}
		ready = true
	})
}

// Play emits a short 880 Hz click.
func Play() {
	setup()
	if !ready {
		return
	}
	tone, err := generators.SinTone(sampleRate, 880)
	if err != nil {
		zap.S().Warnf("chime: tone: %s", err)
		return
	}
	speaker.Play(beep.Take(sampleRate.N(80*time.Millisecond), tone))
}
