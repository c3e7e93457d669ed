package ppu

import "testing"

// statMode masks STAT (FF41) down to its 2-bit mode field.
func statMode(p *PPU) byte { return p.CPURead(0xFF41) & 0x03 }

// irqRecorder collects the interrupt bits a PPU requests during a test,
// replacing a raw append-to-slice callback with named accessors.
type irqRecorder struct {
	bits []int
}

func (r *irqRecorder) record(bit int) { r.bits = append(r.bits, bit) }

func (r *irqRecorder) count(bit int) int {
	n := 0
	for _, b := range r.bits {
		if b == bit {
			n++
		}
	}
	return n
}

func newRecordingPPU() (*PPU, *irqRecorder) {
	rec := &irqRecorder{}
	return New(rec.record), rec
}

func TestPPUModeSequenceAcrossOneScanline(t *testing.T) {
	p, _ := newRecordingPPU()
	p.CPUWrite(0xFF40, 0x80) // LCD on

	if m := statMode(p); m != 2 {
		t.Fatalf("mode after LCD enable = %d, want 2 (OAM scan)", m)
	}

	p.Tick(80)
	if m := statMode(p); m != 3 {
		t.Fatalf("mode at dot 80 = %d, want 3 (drawing)", m)
	}

	p.Tick(172)
	if m := statMode(p); m != 0 {
		t.Fatalf("mode at dot 252 = %d, want 0 (HBlank)", m)
	}

	p.Tick(456 - 252)
	if ly := p.CPURead(0xFF44); ly != 1 {
		t.Fatalf("LY after one full line = %d, want 1", ly)
	}
	if m := statMode(p); m != 2 {
		t.Fatalf("mode at start of next line = %d, want 2", m)
	}
}

func TestPPUEntersVBlankAndRaisesBothInterrupts(t *testing.T) {
	p, rec := newRecordingPPU()
	p.CPUWrite(0xFF41, 1<<4) // STAT VBlank source enabled
	p.CPUWrite(0xFF40, 0x80)

	p.Tick(144 * 456)

	if rec.count(0) == 0 {
		t.Fatal("expected a VBlank (IF bit 0) interrupt at LY=144")
	}
	if rec.count(1) == 0 {
		t.Fatal("expected a STAT (IF bit 1) interrupt alongside VBlank when its source is enabled")
	}
}

func TestPPUSuppressesVBlankSTATWhenSourceDisabled(t *testing.T) {
	p, rec := newRecordingPPU()
	p.CPUWrite(0xFF40, 0x80) // STAT left at 0: no sources enabled

	p.Tick(144 * 456)

	if rec.count(0) == 0 {
		t.Fatal("VBlank IF request must fire regardless of STAT sources")
	}
	if rec.count(1) != 0 {
		t.Fatal("STAT interrupt fired with no enabled source")
	}
}

func TestPPURaisesSTATOnHBlankAndLYCCoincidence(t *testing.T) {
	p, rec := newRecordingPPU()
	p.CPUWrite(0xFF41, (1<<3)|(1<<5)|(1<<6)) // HBlank, OAM, LYC sources
	p.CPUWrite(0xFF45, 2)                    // LYC = 2
	p.CPUWrite(0xFF40, 0x80)

	p.Tick(80 + 172) // enter HBlank on line 0
	if rec.count(1) == 0 {
		t.Fatal("expected STAT interrupt on HBlank")
	}

	rec.bits = rec.bits[:0]
	p.Tick((456 - (80 + 172)) + 456 + 1) // finish line 0, all of line 1, into line 2
	if rec.count(1) == 0 {
		t.Fatal("expected STAT interrupt on LY==LYC coincidence at LY=2")
	}
}
