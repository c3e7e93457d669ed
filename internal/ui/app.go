package ui

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/pebblecore/dmgcore/internal/emu"
)

// App is an ebiten.Game implementation wrapping a Machine: it turns
// Update/Draw calls into emulation steps and framebuffer blits, and layers
// a small menu/settings overlay and an adaptive-latency audio pump on top.
type App struct {
	cfg    Config
	m      *emu.Machine
	tex    *ebiten.Image
	paused bool
	fast   bool

	turbo   int  // turbo speed multiplier (1 = off)
	skipOn  bool // whether to skip rendering frames
	skipN   int  // render 1 of (skipN+1) frames
	skipCtr int  // counter for frame skip

	lastTime   time.Time
	frameAcc   float64 // accumulated fractional frames
	audioMuted bool

	audioCtx    *audio.Context
	audioPlayer *audio.Player
	audioSrc    *apuStream

	showMenu  bool
	menuIdx   int    // selection index for current menu
	menuMode  string // "main" | "rom" | "keys" | "settings"
	showStats bool   // debug: audio buffer stats overlay

	targetFrames int // desired stereo frames buffered
	stableTicks  int // ticks since the last underrun

	romList []string
	romSel  int
	romOff  int // scroll offset for the ROM list

	keysOff int // scroll offset for the keybindings list

	editingROMDir bool
	romDirInput   string
	settingsOff   int // scroll offset for the settings list

	toastMsg   string
	toastUntil time.Time
}

// NewApp loads persisted settings (merged with cfg), sizes the window, and
// opens the ROM picker automatically if no cartridge is loaded yet.
func NewApp(cfg Config, m *emu.Machine) *App {
	cfg = loadSettings(cfg)
	cfg.Defaults()
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(160*cfg.Scale, 144*cfg.Scale)

	a := &App{cfg: cfg, m: m, turbo: 1}
	a.lastTime = time.Now()

	a.audioCtx = audio.NewContext(48000)
	if cfg.AudioBufferMs <= 0 {
		cfg.AudioBufferMs = 125
	}
	a.targetFrames = (cfg.AudioBufferMs * 48000) / 1000

	if m != nil && m.ROMPath() == "" {
		a.showMenu = true
		a.menuMode = "rom"
		a.romList = a.findROMs()
	}
	if m != nil && m.ROMPath() != "" {
		a.setWindowTitleForROM()
	}
	a.romDirInput = cfg.ROMsDir
	return a
}

func (a *App) Run() error { return ebiten.RunGame(a) }

// SaveSettings persists the current settings to disk.
func (a *App) SaveSettings() { a.saveSettings() }

func (a *App) setWindowTitleForROM() {
	title := a.cfg.Title
	if t := a.m.ROMTitle(); t != "" {
		title = a.cfg.Title + " - [" + t + "]"
	}
	ebiten.SetWindowTitle(title)
}

func (a *App) Update() error {
	a.ensureAudioPlayer()

	prevFast := a.fast
	a.handleTransportInput()
	a.syncAudioMuteState()
	a.adjustAudioForFastForwardEdge(prevFast)

	if a.showMenu {
		a.handleMenuInput()
	}

	if !a.showMenu && !a.paused {
		a.advanceEmulation()
	}

	return nil
}

func (a *App) Layout(outW, outH int) (int, int) { return 160, 144 }

// toast displays a short message at the top-left for a couple of seconds.
func (a *App) toast(msg string) {
	a.toastMsg = msg
	a.toastUntil = time.Now().Add(2 * time.Second)
}
