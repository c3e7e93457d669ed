package ui

import (
	"fmt"
	"image/color"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

func (a *App) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(160, 144)
	}
	a.tex.WritePixels(a.m.Framebuffer())
	screen.DrawImage(a.tex, nil)

	if a.showStats {
		a.drawStatsOverlay(screen)
	}
	if a.toastMsg != "" && time.Now().Before(a.toastUntil) {
		ebitenutil.DebugPrintAt(screen, a.truncateText(a.toastMsg, a.maxCharsForText(6)), 6, 4)
	}
	if a.showMenu {
		a.drawMenuOverlay(screen)
	}
}

func (a *App) drawStatsOverlay(screen *ebiten.Image) {
	bf := a.m.APUBufferedStereo()
	ms := (bf * 1000) / 48000
	var und, lp, lw int
	if a.audioSrc != nil {
		und, lp, lw = a.audioSrc.underruns, a.audioSrc.lastPulled, a.audioSrc.lastWant
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Buf: %d (~%dms)", bf, ms), 4, 4)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Under: %d  Read: %d/%d", und, lp, lw), 4, 18)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Turbo: x%d  Skip: %v", a.turbo, a.skipOn), 4, 32)
}

func (a *App) drawMenuOverlay(screen *ebiten.Image) {
	overlay := ebiten.NewImage(160, 144)
	overlay.Fill(color.RGBA{0, 0, 0, 140})
	screen.DrawImage(overlay, nil)

	switch a.menuMode {
	case "main":
		a.drawMainMenu(screen)
	case "rom":
		a.drawROMMenu(screen)
	case "keys":
		a.drawKeysMenu(screen)
	case "settings":
		a.drawSettingsMenu(screen)
	}
}

func (a *App) drawMainMenu(screen *ebiten.Image) {
	lines := []string{"Menu:", "  Switch ROM", "  Settings", "  Keybindings", "  Close"}
	for i, s := range lines {
		prefix := "  "
		if i == a.menuIdx+1 {
			prefix = "> "
		}
		ebitenutil.DebugPrintAt(screen, prefix+s, 10, 10+i*14)
	}
	hint := a.truncateText("F11: Fullscreen  Backspace: Back", a.maxCharsForText(10))
	ebitenutil.DebugPrintAt(screen, hint, 10, 10+len(lines)*14)
}

func (a *App) drawROMMenu(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, "Select ROM (Enter to load, Backspace/Esc to return)", 10, 10)
	ebitenutil.DebugPrintAt(screen, a.truncateText("Dir: "+a.cfg.ROMsDir, a.maxCharsForText(10)), 10, 24)
	if len(a.romList) == 0 {
		ebitenutil.DebugPrintAt(screen, "No ROMs found", 10, 40)
		return
	}

	const baseY = 40
	maxRows := max(1, (144-baseY)/14)
	end := min(a.romOff+maxRows, len(a.romList))
	visible := a.romList[a.romOff:end]
	maxChars := max(1, a.maxCharsForText(10)-2) // account for "> " prefix

	for i, p := range visible {
		name := a.truncateText(filepath.Base(p), maxChars)
		prefix := "  "
		if a.romOff+i == a.romSel {
			prefix = "> "
		}
		ebitenutil.DebugPrintAt(screen, prefix+name, 10, baseY+i*14)
	}
	if a.romOff > 0 {
		ebitenutil.DebugPrintAt(screen, "^", 2, baseY)
	}
	if end < len(a.romList) {
		ebitenutil.DebugPrintAt(screen, "v", 2, baseY+(maxRows-1)*14)
	}
}

func (a *App) drawKeysMenu(screen *ebiten.Image) {
	cursorY := a.drawWrappedTitle(screen, "Keybindings (Up/Down to scroll, Backspace/Esc to return)")
	baseY := cursorY + 4
	maxRows := max(1, (144-baseY)/14)

	rows := keyBindingRows
	if a.keysOff < 0 {
		a.keysOff = 0
	}
	if a.keysOff > len(rows)-1 {
		a.keysOff = len(rows) - 1
	}
	end := min(a.keysOff+maxRows, len(rows))
	maxChars := a.maxCharsForText(10)
	for i := a.keysOff; i < end; i++ {
		ebitenutil.DebugPrintAt(screen, a.truncateText(rows[i], maxChars), 10, baseY+(i-a.keysOff)*14)
	}
	if a.keysOff > 0 {
		ebitenutil.DebugPrintAt(screen, "^", 2, baseY)
	}
	if end < len(rows) {
		ebitenutil.DebugPrintAt(screen, "v", 2, baseY+(maxRows-1)*14)
	}
}

func (a *App) drawSettingsMenu(screen *ebiten.Image) {
	baseY := a.drawWrappedTitle(screen, "Settings (Up/Down select; Left/Right change; Enter: edit/apply; Backspace/Esc: back)")

	romDir := a.cfg.ROMsDir
	if a.editingROMDir {
		romDir = a.romDirInput + "_"
	}
	items := []string{
		fmt.Sprintf("Scale: %dx", a.cfg.Scale),
		fmt.Sprintf("Audio: %s", onOff(a.cfg.AudioStereo, "Stereo", "Mono")),
		fmt.Sprintf("Audio Adaptive: %s", onOff(a.cfg.AudioAdaptive, "On", "Off")),
		fmt.Sprintf("Low-Latency Audio: %s", onOff(a.cfg.AudioLowLatency, "On", "Off")),
		fmt.Sprintf("ROMs Dir: %s", a.truncateText(romDir, a.maxCharsForText(10)-11)),
	}

	maxRows := max(1, (144-baseY)/14)
	end := min(a.settingsOff+maxRows, len(items))
	for i := a.settingsOff; i < end; i++ {
		prefix := "  "
		if i == a.menuIdx {
			prefix = "> "
		}
		line := a.truncateText(prefix+items[i], a.maxCharsForText(10))
		ebitenutil.DebugPrintAt(screen, line, 10, baseY+(i-a.settingsOff)*14)
	}
	if a.settingsOff > 0 {
		ebitenutil.DebugPrintAt(screen, "^", 2, baseY)
	}
	if end < len(items) {
		ebitenutil.DebugPrintAt(screen, "v", 2, baseY+(maxRows-1)*14)
	}
}

// drawWrappedTitle prints a word-wrapped title starting at y=10 and returns
// the y coordinate immediately below it.
func (a *App) drawWrappedTitle(screen *ebiten.Image, title string) int {
	cursorY := 10
	for _, w := range a.wrapText(title, a.maxCharsForText(10)) {
		ebitenutil.DebugPrintAt(screen, w, 10, cursorY)
		cursorY += 14
	}
	return cursorY
}

func onOff(v bool, yes, no string) string {
	if v {
		return yes
	}
	return no
}
