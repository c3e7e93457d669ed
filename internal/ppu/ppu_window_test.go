package ppu

import "testing"

// tickWholeLines advances the PPU by n complete 456-dot scanlines.
func tickWholeLines(p *PPU, n int) { p.Tick(456 * n) }

func enableWindowed(p *PPU, wy, wx byte) {
	p.CPUWrite(0xFF40, 0x80|0x01|0x20) // LCD + BG + window
	p.CPUWrite(0xFF4A, wy)
	p.CPUWrite(0xFF4B, wx)
}

func TestWindowLineCounterStartsAtZeroOnActivationRow(t *testing.T) {
	p := New(nil)
	enableWindowed(p, 10, 7) // WX=7 -> on-screen column 0

	tickWholeLines(p, 10)
	if ly := p.CPURead(0xFF44); ly != 10 {
		t.Fatalf("LY = %d, want 10", ly)
	}
	p.Tick(80) // enter drawing mode so the line is captured

	if got := p.LineRegs(10).WinLine; got != 0 {
		t.Fatalf("WinLine on the WY row = %d, want 0", got)
	}
}

func TestWindowLineCounterIncrementsEachVisibleRow(t *testing.T) {
	p := New(nil)
	enableWindowed(p, 10, 7)

	tickWholeLines(p, 11)
	p.Tick(80)

	if got := p.LineRegs(11).WinLine; got != 1 {
		t.Fatalf("WinLine one row after WY = %d, want 1", got)
	}
}

func TestWindowNeverActivatesWhenWXPastVisibleRange(t *testing.T) {
	p := New(nil)
	enableWindowed(p, 5, 200) // WX=200 is off the 166-column limit

	tickWholeLines(p, 8)

	for y := 5; y <= 12; y++ {
		if got := p.LineRegs(y).WinLine; got != 0 {
			t.Fatalf("LineRegs(%d).WinLine = %d, want 0 (window never visible)", y, got)
		}
	}
}
