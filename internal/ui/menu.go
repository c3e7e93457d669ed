package ui

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// handleMenuInput dispatches keyboard input to whichever menu screen is
// currently active. The main gameplay/transport bindings are already
// handled by handleTransportInput before this runs.
func (a *App) handleMenuInput() {
	switch a.menuMode {
	case "main":
		a.handleMainMenuInput()
	case "rom":
		a.handleROMMenuInput()
	case "keys":
		a.handleKeysMenuInput()
	case "settings":
		a.handleSettingsMenuInput()
	}
}

const mainMenuItemCount = 4

func (a *App) handleMainMenuInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.menuIdx > 0 {
		a.menuIdx--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.menuIdx < mainMenuItemCount-1 {
		a.menuIdx++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		switch a.menuIdx {
		case 0:
			a.romList = a.findROMs()
			a.romSel, a.romOff = 0, 0
			a.menuMode = "rom"
		case 1:
			a.menuMode = "settings"
			a.menuIdx = 0
			a.editingROMDir = false
		case 2:
			a.menuMode = "keys"
			a.keysOff = 0
		case 3:
			a.showMenu = false
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.showMenu = false
	}
}

func (a *App) handleROMMenuInput() {
	n := len(a.romList)
	if n == 0 {
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
			a.menuMode = "main"
		}
		return
	}

	const baseY = 40
	maxRows := max(1, (144-baseY)/14)

	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.romSel > 0 {
		a.romSel--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.romSel < n-1 {
		a.romSel++
	}
	a.romOff = clampScroll(a.romOff, a.romSel, n, maxRows)

	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		a.loadSelectedROM()
		a.menuMode = "main"
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.menuMode = "main"
	}
}

func (a *App) loadSelectedROM() {
	path := a.romList[a.romSel]
	if err := a.m.LoadROMFromFile(path); err != nil {
		a.toast("ROM load failed: " + err.Error())
		return
	}
	a.toast("Loaded ROM: " + filepath.Base(path))
	if strings.HasSuffix(strings.ToLower(path), ".gb") {
		sav := strings.TrimSuffix(path, ".gb") + ".sav"
		if data, err := os.ReadFile(sav); err == nil {
			_ = a.m.LoadBattery(data)
		}
	}
	a.setWindowTitleForROM()
}

func (a *App) handleKeysMenuInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.keysOff > 0 {
		a.keysOff--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		a.keysOff++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.menuMode = "main"
	}
}

// clampScroll keeps a scroll offset within [0, total-1] and within maxRows
// of the current selection, so the selected row is always visible.
func clampScroll(offset, selected, total, maxRows int) int {
	if selected < offset {
		offset = selected
	}
	if selected >= offset+maxRows {
		offset = selected - maxRows + 1
	}
	if offset < 0 {
		offset = 0
	}
	if offset > total-1 {
		offset = total - 1
	}
	return offset
}

var keyBindingRows = []string{
	"Z: A",
	"X: B",
	"Enter: Start",
	"RightShift: Select",
	"Arrows: D-Pad",
	"P: Pause",
	"N: Step (when paused)",
	"Tab: Fast-forward",
	"R: Reset",
	"B: Reset with Boot ROM",
	"Esc: Open/Close Menu",
}
