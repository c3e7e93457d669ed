package emu

import (
	"os"
	"testing"
)

// minimalROM builds the smallest synthetic cartridge ParseHeader/NewCartridge
// will accept: 32KiB, ROM-only, valid header checksum, an infinite loop at
// the entry point so a test can safely single-step it without running off
// into uninitialized memory.
func minimalROM() []byte {
	rom := make([]byte, 0x8000)
	copy(rom[0x0134:0x0144], []byte("TESTROM"))
	rom[0x0147] = 0x00 // ROM ONLY
	rom[0x0148] = 0x00 // 32KiB
	rom[0x0149] = 0x00 // no RAM

	var hsum byte
	for addr := 0x0134; addr <= 0x014C; addr++ {
		hsum = hsum - rom[addr] - 1
	}
	rom[0x014D] = hsum

	// JP 0x0100 at the entry point: a one-instruction infinite loop.
	rom[0x0100] = 0xC3
	rom[0x0101] = 0x00
	rom[0x0102] = 0x01
	return rom
}

func TestSetCyclesPerFrame(t *testing.T) {
	m := New(Config{})
	if m.cyclesPerFrame != cyclesPerFrame {
		t.Fatalf("default cyclesPerFrame = %d, want %d", m.cyclesPerFrame, cyclesPerFrame)
	}
	m.SetCyclesPerFrame(1000)
	if m.cyclesPerFrame != 1000 {
		t.Fatalf("cyclesPerFrame after override = %d, want 1000", m.cyclesPerFrame)
	}
	m.SetCyclesPerFrame(0)
	if m.cyclesPerFrame != cyclesPerFrame {
		t.Fatalf("cyclesPerFrame after reset = %d, want default %d", m.cyclesPerFrame, cyclesPerFrame)
	}
}

func TestStepInstructionAdvancesPC(t *testing.T) {
	m := New(Config{})
	if err := m.LoadCartridge(minimalROM(), nil); err != nil {
		t.Fatalf("LoadCartridge: %v", err)
	}
	if got := m.PC(); got != 0x0100 {
		t.Fatalf("PC after post-boot reset = %04X, want 0100", got)
	}
	// JP 0x0100 always lands back on itself.
	for i := 0; i < 3; i++ {
		cyc := m.StepInstruction()
		if cyc <= 0 {
			t.Fatalf("StepInstruction returned non-positive cycle count %d", cyc)
		}
		if got := m.PC(); got != 0x0100 {
			t.Fatalf("PC after JP loop iteration %d = %04X, want 0100", i, got)
		}
	}
}

func TestLoadCartridgeFromFilesKeepsBootROM(t *testing.T) {
	dir := t.TempDir()
	romPath := dir + "/test.gb"
	bootPath := dir + "/boot.bin"

	if err := os.WriteFile(romPath, minimalROM(), 0644); err != nil {
		t.Fatalf("write rom: %v", err)
	}
	boot := make([]byte, 0x100)
	boot[0] = 0x00 // NOP, harmless first boot instruction
	if err := os.WriteFile(bootPath, boot, 0644); err != nil {
		t.Fatalf("write boot: %v", err)
	}

	m := New(Config{})
	if err := m.LoadCartridgeFromFiles(romPath, bootPath); err != nil {
		t.Fatalf("LoadCartridgeFromFiles: %v", err)
	}
	if got := m.PC(); got != 0x0000 {
		t.Fatalf("PC with boot ROM loaded = %04X, want 0000 (boot ROM must not be silently dropped)", got)
	}
	if m.ROMPath() != romPath {
		t.Fatalf("ROMPath() = %q, want %q", m.ROMPath(), romPath)
	}
}

func TestLoadROMFromFileNoBoot(t *testing.T) {
	dir := t.TempDir()
	romPath := dir + "/test.gb"
	if err := os.WriteFile(romPath, minimalROM(), 0644); err != nil {
		t.Fatalf("write rom: %v", err)
	}

	m := New(Config{})
	if err := m.LoadROMFromFile(romPath); err != nil {
		t.Fatalf("LoadROMFromFile: %v", err)
	}
	if got := m.PC(); got != 0x0100 {
		t.Fatalf("PC with no boot ROM = %04X, want 0100", got)
	}
}
