package ui

import "time"

// gbFrameHz is the real hardware's frame rate: 4194304 Hz / 70224 cycles
// per frame.
const gbFrameHz = 4194304.0 / 70224.0

// syncAudioMuteState mutes output while paused or menu-driven, and resets
// pacing/audio state on every transition so resuming doesn't replay stale
// buffered audio against a stale wall-clock delta.
func (a *App) syncAudioMuteState() {
	muted := a.paused || a.showMenu
	if muted == a.audioMuted {
		return
	}
	a.audioMuted = muted
	a.lastTime = time.Now()
	a.frameAcc = 0
	if a.m != nil {
		a.m.APUClearAudioLatency()
	}
}

// adjustAudioForFastForwardEdge trims the audio buffer on fast-forward
// transitions so the audio thread doesn't drift far out of sync with
// emulation: entering fast-forward caps the buffer tightly, leaving it
// drops the buffer outright to resync with video/input.
func (a *App) adjustAudioForFastForwardEdge(prevFast bool) {
	if a.m == nil || prevFast == a.fast {
		return
	}
	if a.fast {
		a.m.APUCapBufferedStereo(1920) // ~40ms at 48kHz
	} else {
		a.m.APUClearAudioLatency()
	}
	a.applyPlayerBufferSize()
}

// advanceEmulation paces whole-frame emulation steps against wall-clock
// time using a fractional-frame accumulator, decoupled from ebiten's own
// ~60Hz Update cadence, then lets the audio pump adapt its target buffer.
func (a *App) advanceEmulation() {
	now := time.Now()
	dt := now.Sub(a.lastTime).Seconds()
	if dt < 0 {
		dt = 0
	}
	a.lastTime = now

	speed := 1.0
	if a.fast {
		speed = float64(max(2, a.turbo))
	}
	a.frameAcc += dt * gbFrameHz * speed

	steps := 0
	for a.frameAcc >= 1.0 && steps < 10 { // cap to avoid a spiral of death
		if a.shouldRenderThisFrame() {
			a.m.StepFrame()
		} else {
			a.m.StepFrameNoRender()
		}
		a.frameAcc -= 1.0
		steps++
	}

	a.updateAdaptiveAudioTarget()
	a.trimAudioBuffer()
}

func (a *App) shouldRenderThisFrame() bool {
	if !a.skipOn {
		return true
	}
	if a.skipCtr < a.skipN {
		a.skipCtr++
		return false
	}
	a.skipCtr = 0
	return true
}
