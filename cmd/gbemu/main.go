package main

import (
	"flag"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pebblecore/dmgcore/internal/cart"
	"github.com/pebblecore/dmgcore/internal/emu"
	"github.com/pebblecore/dmgcore/internal/ui"
)

type CLIFlags struct {
	CartPath string // bare positional argument
	BootROM  string // -b PATH
	Cycles   int    // -c N, cycles-per-frame override (0 = default)
	BreakHex string // -br ADDR, hex PC to break at before running
	Verbose  bool   // -v

	Scale   int
	Title   string
	SaveRAM bool // persist battery RAM next to ROM (.sav)

	// headless
	Headless bool
	Frames   int
	PNGOut   string
	Expect   string // expected framebuffer CRC32 hex (e.g., "1a2b3c4d")
}

func parseFlags() CLIFlags {
	var f CLIFlags
	flag.StringVar(&f.BootROM, "b", "", "optional boot program")
	flag.IntVar(&f.Cycles, "c", 0, "override cycles-per-frame (0 = 154*456 default)")
	flag.StringVar(&f.BreakHex, "br", "", "break at PC (hex, e.g. 0x0100) before running")
	flag.BoolVar(&f.Verbose, "v", false, "verbose diagnostics")

	flag.IntVar(&f.Scale, "scale", 3, "window scale")
	flag.StringVar(&f.Title, "title", "gbemu", "window title")
	flag.BoolVar(&f.SaveRAM, "save", true, "persist battery RAM to ROM.sav on exit and load on start")

	// headless options
	flag.BoolVar(&f.Headless, "headless", false, "run without a window")
	flag.IntVar(&f.Frames, "frames", 300, "frames to run in headless mode")
	flag.StringVar(&f.PNGOut, "outpng", "", "write last framebuffer to PNG at path")
	flag.StringVar(&f.Expect, "expect", "", "assert framebuffer CRC32 (hex)")
	flag.Parse()

	f.CartPath = flag.Arg(0)
	return f
}

func runHeadless(m *emu.Machine, frames int, pngPath, expectCRC string) error {
	if frames <= 0 {
		frames = 1
	}

	start := time.Now()
	for i := 0; i < frames; i++ {
		m.StepFrame()
	}
	dur := time.Since(start)

	fb := m.Framebuffer() // RGBA 160x144*4
	crc := crc32.ChecksumIEEE(fb)
	fps := float64(frames) / dur.Seconds()

	log.Printf("headless: frames=%d elapsed=%s fps=%.2f fb_crc32=%08x",
		frames, dur.Truncate(time.Millisecond), fps, crc)

	if pngPath != "" {
		if err := saveFramePNG(fb, 160, 144, pngPath); err != nil {
			return fmt.Errorf("write PNG: %w", err)
		}
		log.Printf("wrote %s", pngPath)
	}

	if expectCRC != "" {
		want := strings.TrimPrefix(strings.ToLower(expectCRC), "0x")
		got := fmt.Sprintf("%08x", crc)
		if got != want {
			return fmt.Errorf("checksum mismatch: got %s, want %s", got, want)
		}
	}
	return nil
}

func saveFramePNG(pix []byte, w, h int, path string) error {
	img := &image.RGBA{
		Pix:    make([]byte, len(pix)),
		Stride: 4 * w,
		Rect:   image.Rect(0, 0, w, h),
	}
	copy(img.Pix, pix)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func mustRead(path string) []byte {
	if path == "" {
		return nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read %s: %v", path, err)
	}
	return b
}

// runToBreakpoint single-steps the CPU until PC reaches target, logging
// progress under -v. Gives up (with a warning) after a generous instruction
// cap so a ROM that never reaches the address doesn't hang the CLI forever.
func runToBreakpoint(m *emu.Machine, target uint16, verbose bool) {
	const maxInstr = 50_000_000
	for i := 0; i < maxInstr; i++ {
		if m.PC() == target {
			if verbose {
				log.Printf("break: reached PC=0x%04X after %d instructions", target, i)
			}
			return
		}
		m.StepInstruction()
	}
	log.Printf("break: PC=0x%04X not reached within %d instructions, continuing", target, maxInstr)
}

func main() {
	f := parseFlags()
	if f.CartPath == "" {
		log.Fatal("usage: gbemu [-b boot.bin] [-c N] [-br ADDR] [-v] <cartridge.gb>")
	}
	if rom := mustRead(f.CartPath); len(rom) >= 0x150 && f.Verbose {
		if h, err := cart.ParseHeader(rom); err == nil {
			log.Printf("ROM: %q type=%s banks=%d ram=%dB", h.Title, h.CartTypeStr, h.ROMBanks, h.RAMSizeBytes)
			if !h.ChecksumOK {
				log.Printf("warning: header checksum mismatch (continuing)")
			}
		}
	}

	emuCfg := emu.Config{
		Trace: f.Verbose,
		// LimitFPS stays off: the headless benchmark wants max speed, and the
		// windowed UI already paces itself via ebiten's own game loop.
	}
	m := emu.New(emuCfg)
	if f.Cycles > 0 {
		m.SetCyclesPerFrame(f.Cycles)
	}
	cartPath := f.CartPath
	if abs, err := filepath.Abs(cartPath); err == nil {
		cartPath = abs
	}
	if err := m.LoadCartridgeFromFiles(cartPath, f.BootROM); err != nil {
		log.Fatalf("load cartridge: %v", err)
	}

	if f.BreakHex != "" {
		addr, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(f.BreakHex), "0x"), 16, 16)
		if err != nil {
			log.Fatalf("invalid -br address %q: %v", f.BreakHex, err)
		}
		runToBreakpoint(m, uint16(addr), f.Verbose)
	}

	// Battery RAM: load .sav if present
	var savPath string
	if f.SaveRAM {
		savPath = strings.TrimSuffix(f.CartPath, ".gb") + ".sav"
		if data, err := os.ReadFile(savPath); err == nil {
			if err := m.LoadBattery(data); err == nil {
				log.Printf("loaded save RAM: %s (%d bytes)", savPath, len(data))
			}
		}
	}

	if f.Headless {
		if err := runHeadless(m, f.Frames, f.PNGOut, f.Expect); err != nil {
			log.Printf("headless run failed: %v", err)
			os.Exit(1)
		}
		if f.SaveRAM && savPath != "" {
			if data := m.SaveBattery(); data != nil {
				if err := os.WriteFile(savPath, data, 0644); err == nil {
					log.Printf("wrote %s", savPath)
				}
			}
		}
		return
	}

	uiCfg := ui.Config{Title: f.Title, Scale: f.Scale}
	app := ui.NewApp(uiCfg, m)
	if err := app.Run(); err != nil {
		log.Printf("run failed: %v", err)
		os.Exit(1)
	}
	app.SaveSettings()

	// UI exit: save battery RAM if enabled
	if f.SaveRAM {
		outSav := savPath
		if outSav == "" && m.ROMPath() != "" && strings.HasSuffix(strings.ToLower(m.ROMPath()), ".gb") {
			outSav = strings.TrimSuffix(m.ROMPath(), ".gb") + ".sav"
		}
		if outSav != "" {
			if data := m.SaveBattery(); data != nil {
				if err := os.WriteFile(outSav, data, 0644); err == nil {
					log.Printf("wrote %s", outSav)
				}
			}
		}
	}
}
