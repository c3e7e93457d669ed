package ui

import (
	"encoding/binary"
	"time"

	"github.com/pebblecore/dmgcore/internal/emu"
)

// apuStream is an io.Reader pulled by ebiten's audio.Player: it drains
// stereo PCM frames from the APU's ring buffer and converts them to
// 16-bit little-endian frames, padding with silence (and counting an
// underrun) whenever the emulator hasn't produced enough in time.
type apuStream struct {
	m          *emu.Machine
	mono       bool
	muted      *bool
	lowLatency bool

	underruns  int
	lastWant   int
	lastPulled int
}

func (s *apuStream) Read(p []byte) (int, error) {
	if len(p) == 0 || s == nil || s.m == nil {
		return 0, nil
	}
	if len(p) < 4 { // smaller than one stereo frame
		clear(p)
		return len(p), nil
	}
	if s.muted != nil && *s.muted {
		clear(p)
		time.Sleep(5 * time.Millisecond)
		return len(p), nil
	}

	maxReq := len(p) / 4
	capFrames := 2048 // ~42.7ms at 48kHz
	if s.lowLatency {
		capFrames = 1024 // ~21.3ms
	}
	if maxReq > capFrames {
		maxReq = capFrames
	}

	want := s.waitForBufferedFrames(maxReq)
	if want <= 0 {
		return s.emitSilence(p, 256, maxReq), nil
	}

	pulled := s.pullAndConvert(p, want)
	if pulled == 0 {
		return s.emitSilence(p, 128, maxReq), nil
	}
	s.lastWant, s.lastPulled = pulled, pulled
	return pulled * 4, nil
}

// waitForBufferedFrames returns how many stereo frames to pull this call,
// waiting a short, latency-mode-dependent interval for at least one to
// arrive if none are buffered yet.
func (s *apuStream) waitForBufferedFrames(maxReq int) int {
	if buf := s.m.APUBufferedStereo(); buf > 0 {
		if buf < maxReq {
			return buf
		}
		return maxReq
	}
	waitDur := 15 * time.Millisecond
	if s.lowLatency {
		waitDur = 8 * time.Millisecond
	}
	deadline := time.Now().Add(waitDur)
	for time.Now().Before(deadline) {
		if b := s.m.APUBufferedStereo(); b > 0 {
			if b > maxReq {
				return maxReq
			}
			return b
		}
		time.Sleep(time.Millisecond)
	}
	return 0
}

func (s *apuStream) emitSilence(p []byte, frames, maxReq int) int {
	if frames > maxReq {
		frames = maxReq
	}
	for i := 0; i < frames*4 && i+3 < len(p); i += 4 {
		binary.LittleEndian.PutUint16(p[i:], 0)
		binary.LittleEndian.PutUint16(p[i+2:], 0)
	}
	s.underruns++
	s.lastWant, s.lastPulled = frames, frames
	return frames * 4
}

func (s *apuStream) pullAndConvert(p []byte, want int) int {
	pulled, i := 0, 0
	for pulled < want {
		frames := s.m.APUPullStereo(want - pulled)
		if len(frames) == 0 {
			break
		}
		for j := 0; j+1 < len(frames) && i+3 < len(p); j += 2 {
			l, r := frames[j], frames[j+1]
			if s.mono {
				mixed := int16((int32(l) + int32(r)) / 2)
				binary.LittleEndian.PutUint16(p[i:], uint16(mixed))
				binary.LittleEndian.PutUint16(p[i+2:], uint16(mixed))
			} else {
				binary.LittleEndian.PutUint16(p[i:], uint16(l))
				binary.LittleEndian.PutUint16(p[i+2:], uint16(r))
			}
			i += 4
			pulled++
		}
	}
	return pulled
}

// ensureAudioPlayer lazily creates the audio player on the first Update so
// window creation isn't blocked on audio device init. It sets audioMuted,
// but syncAudioMuteState, later in the same Update, resets the flag to the
// pause/menu state, so output does not wait for buffered headroom.
func (a *App) ensureAudioPlayer() {
	if a.audioPlayer != nil {
		return
	}
	a.audioMuted = true
	a.m.APUClearAudioLatency()
	a.audioSrc = a.newAudioSource()
	if p, err := a.audioCtx.NewPlayer(a.audioSrc); err == nil {
		a.audioPlayer = p
		a.applyPlayerBufferSize()
		a.audioPlayer.Play()
	}
}

func (a *App) newAudioSource() *apuStream {
	return &apuStream{m: a.m, mono: !a.cfg.AudioStereo, muted: &a.audioMuted, lowLatency: a.cfg.AudioLowLatency}
}

// restartAudioPlayer tears down and recreates the player, e.g. after a
// stereo/mono toggle, after letting a few silent frames elapse so the new
// stream starts from a clean buffer.
func (a *App) restartAudioPlayer() {
	if a.audioPlayer != nil {
		a.audioPlayer.Close()
		a.audioPlayer = nil
	}
	for i := 0; i < 12; i++ {
		a.m.StepFrame()
	}
	a.audioSrc = a.newAudioSource()
	if p, err := a.audioCtx.NewPlayer(a.audioSrc); err == nil {
		a.audioPlayer = p
		a.applyPlayerBufferSize()
		a.audioPlayer.Play()
	}
}

// applyPlayerBufferSize sets the ebiten audio player's own internal buffer:
// small (~20ms) in low-latency mode or while fast-forwarding, larger
// (~40ms) otherwise.
func (a *App) applyPlayerBufferSize() {
	if a.audioPlayer == nil {
		return
	}
	bufMs := 40
	if a.cfg.AudioLowLatency || a.fast {
		bufMs = 20
	}
	a.audioPlayer.SetBufferSize(time.Duration(bufMs) * time.Millisecond)
}

// updateAdaptiveAudioTarget raises the target buffer on underrun and decays
// it slowly while stable, keeping latency low in the common case without
// starving the audio thread when the host can't keep up.
func (a *App) updateAdaptiveAudioTarget() {
	if !a.cfg.AudioAdaptive || a.audioSrc == nil || a.cfg.AudioLowLatency {
		return
	}
	const maxFrames = 48000 * 200 / 1000 // ~200ms
	if a.targetFrames > maxFrames {
		a.targetFrames = maxFrames
	}
	if a.audioSrc.underruns > 0 {
		a.stableTicks = 0
		a.targetFrames = min(a.targetFrames+800, maxFrames)
		a.audioSrc.underruns = 0
		return
	}
	a.stableTicks++
	if a.stableTicks <= 90 {
		return
	}
	const minFrames = 48000 * 40 / 1000 // ~40ms
	a.targetFrames = max(a.targetFrames-400, minFrames)
	a.stableTicks = 0
}

// trimAudioBuffer caps queued audio at target+10ms when low-latency mode is
// on (target ~35ms, or ~30ms while fast-forwarding); with low-latency mode
// off it applies no cap. It also clears audioMuted once more than 1024
// frames are buffered.
func (a *App) trimAudioBuffer() {
	target := a.targetFrames
	if a.cfg.AudioLowLatency {
		target = 48000 * 35 / 1000 // ~35ms
	}
	if a.fast {
		target = min(target, 48000*30/1000) // ~30ms while fast-forwarding
	}

	buffered := a.m.APUBufferedStereo()
	if a.audioMuted && buffered > 1024 { // ~20ms
		a.audioMuted = false
	}
	if a.cfg.AudioLowLatency {
		ceiling := target + 48000*10/1000 // target + 10ms
		if buffered > ceiling {
			a.m.APUCapBufferedStereo(ceiling)
		}
	}
}
