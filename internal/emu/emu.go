package emu

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/pebblecore/dmgcore/internal/bus"
	"github.com/pebblecore/dmgcore/internal/cart"
	"github.com/pebblecore/dmgcore/internal/cpu"
)

// cyclesPerFrame is the number of CPU T-cycles in one DMG video frame:
// 154 lines * 456 dots, which at 4.194304 MHz yields a ~59.7275 Hz refresh.
const cyclesPerFrame = 154 * 456

// frameDuration is the wall-clock period LimitFPS paces StepFrame to.
const frameDuration = time.Second / 60

// Buttons captures the instantaneous state of all eight joypad inputs.
type Buttons struct {
	A, B, Start, Select   bool
	Up, Down, Left, Right bool
}

func (b Buttons) mask() byte {
	var m byte
	if b.Right {
		m |= bus.JoypRight
	}
	if b.Left {
		m |= bus.JoypLeft
	}
	if b.Up {
		m |= bus.JoypUp
	}
	if b.Down {
		m |= bus.JoypDown
	}
	if b.A {
		m |= bus.JoypA
	}
	if b.B {
		m |= bus.JoypB
	}
	if b.Select {
		m |= bus.JoypSelectBtn
	}
	if b.Start {
		m |= bus.JoypStart
	}
	return m
}

// Machine aggregates the CPU and Bus (which itself owns the PPU, APU, and
// cartridge) plus the host-facing framebuffer surface.
type Machine struct {
	cfg Config

	bus *bus.Bus
	cpu *cpu.CPU

	romPath  string
	romTitle string

	cyclesPerFrame int
	lastFrame      time.Time

	fb [160 * 144 * 4]byte // RGBA8888, row-major
}

// New constructs a Machine with an empty ROM-only cartridge; call
// LoadCartridge or LoadROMFromFile before stepping it.
func New(cfg Config) *Machine {
	m := &Machine{cfg: cfg, cyclesPerFrame: cyclesPerFrame}
	m.bus = bus.New(make([]byte, 0x8000))
	m.cpu = cpu.New(m.bus)
	m.cpu.ResetNoBoot()
	return m
}

// SetCyclesPerFrame overrides the scheduler's per-frame cycle budget; n<=0
// restores the documented 154*456 default. Intended for CLI/debug tooling
// that wants to slow down or speed up the emulated clock.
func (m *Machine) SetCyclesPerFrame(n int) {
	if n > 0 {
		m.cyclesPerFrame = n
	} else {
		m.cyclesPerFrame = cyclesPerFrame
	}
}

// PC returns the CPU program counter, for CLI breakpoint/trace tooling.
func (m *Machine) PC() uint16 { return m.cpu.PC }

// StepInstruction advances exactly one CPU instruction (plus the matching
// APU/PPU ticks) and returns its cycle cost. Used by breakpoint-driven CLI
// tooling that needs finer granularity than a whole frame.
func (m *Machine) StepInstruction() int {
	cyc := m.cpu.Step()
	if cyc <= 0 {
		cyc = 4
	}
	m.bus.APU().Tick(cyc)
	m.bus.PPU().Tick(cyc)
	return cyc
}

// LoadCartridge wires a fresh Bus/CPU around the given ROM image. If boot is
// non-empty it is mapped at 0x0000-0x00FF and the CPU starts at PC=0; with no
// boot ROM the CPU starts in the documented post-boot register state.
func (m *Machine) LoadCartridge(rom []byte, boot []byte) error {
	h, err := cart.ParseHeader(rom)
	if err != nil {
		return fmt.Errorf("parse cartridge header: %w", err)
	}
	c := cart.NewCartridge(rom)
	m.bus = bus.NewWithCartridge(c)
	m.cpu = cpu.New(m.bus)
	if len(boot) > 0 {
		m.bus.SetBootROM(boot)
		m.cpu.SetPC(0x0000)
	} else {
		m.ResetPostBoot()
	}
	m.romTitle = h.Title
	return nil
}

// LoadROMFromFile loads a cartridge image from disk with no boot ROM.
func (m *Machine) LoadROMFromFile(path string) error {
	return m.LoadCartridgeFromFiles(path, "")
}

// LoadCartridgeFromFiles loads a cartridge image (and, if bootPath is
// non-empty, a boot program) from disk, recording romPath/romTitle for
// later battery-save and window-title use.
func (m *Machine) LoadCartridgeFromFiles(romPath, bootPath string) error {
	data, err := os.ReadFile(romPath)
	if err != nil {
		return err
	}
	var boot []byte
	if bootPath != "" {
		boot, err = os.ReadFile(bootPath)
		if err != nil {
			return err
		}
	}
	if err := m.LoadCartridge(data, boot); err != nil {
		return err
	}
	m.romPath = romPath
	return nil
}

// LoadBattery restores external cartridge RAM from a battery-save image.
func (m *Machine) LoadBattery(data []byte) error {
	if bb, ok := m.bus.Cart().(cart.BatteryBacked); ok {
		bb.LoadRAM(data)
		return nil
	}
	return fmt.Errorf("cartridge has no battery-backed RAM")
}

// SaveBattery returns the current external cartridge RAM, or nil if the
// cartridge has none.
func (m *Machine) SaveBattery() []byte {
	if bb, ok := m.bus.Cart().(cart.BatteryBacked); ok {
		return bb.SaveRAM()
	}
	return nil
}

// ROMPath returns the path LoadROMFromFile loaded, if any.
func (m *Machine) ROMPath() string { return m.romPath }

// ROMTitle returns the cartridge header title, if a ROM is loaded.
func (m *Machine) ROMTitle() string { return m.romTitle }

// ResetPostBoot puts registers and key I/O registers into the documented
// DMG post-boot-ROM state, without actually executing the boot ROM.
func (m *Machine) ResetPostBoot() {
	m.cpu.ResetNoBoot()
	m.cpu.SetPC(0x0100)
	m.bus.Write(0xFF00, 0xCF)
	m.bus.Write(0xFF07, 0xF8)
	m.bus.Write(0xFF0F, 0xE1)
	m.bus.Write(0xFF40, 0x91)
	m.bus.Write(0xFF41, 0x85)
	m.bus.Write(0xFF47, 0xFC)
	m.bus.Write(0xFF24, 0x77)
	m.bus.Write(0xFF25, 0xF3)
	m.bus.Write(0xFF26, 0xF1)
}

// ResetWithBoot sets PC to 0x0000 and leaves the other registers and the
// boot ROM overlay as they are. Execution restarts in the boot ROM only
// while a loaded boot ROM is still mapped (no nonzero write to 0xFF50 since
// it was loaded); otherwise it restarts from cartridge address 0x0000.
func (m *Machine) ResetWithBoot() {
	m.cpu.SetPC(0x0000)
}

// SetSerialWriter routes the cartridge's serial-port byte stream to w.
func (m *Machine) SetSerialWriter(w io.Writer) { m.bus.SetSerialWriter(w) }

// SetButtons updates which joypad buttons are currently held.
func (m *Machine) SetButtons(b Buttons) { m.bus.SetJoypadState(b.mask()) }

// StepFrame advances CPU, timer, APU, and PPU by one video frame's worth of
// cycles and composes the resulting scanlines into the RGBA framebuffer.
// If Config.LimitFPS is set it paces itself to ~60 Hz wall-clock.
func (m *Machine) StepFrame() {
	m.stepFrameCycles()
	m.composeFramebuffer()
	m.pace()
}

// StepFrameNoRender advances one frame without touching the framebuffer;
// used by headless test-ROM runners that only care about CPU/serial state.
func (m *Machine) StepFrameNoRender() {
	m.stepFrameCycles()
	m.pace()
}

func (m *Machine) pace() {
	if !m.cfg.LimitFPS {
		return
	}
	now := time.Now()
	if !m.lastFrame.IsZero() {
		if elapsed := now.Sub(m.lastFrame); elapsed < frameDuration {
			time.Sleep(frameDuration - elapsed)
		}
	}
	m.lastFrame = time.Now()
}

func (m *Machine) stepFrameCycles() {
	budget := m.cyclesPerFrame
	for budget > 0 {
		if m.cfg.Trace {
			log.Printf("pc=%04X op=%02X", m.cpu.PC, m.bus.Read(m.cpu.PC))
		}
		cyc := m.cpu.Step()
		if cyc <= 0 {
			cyc = 4
		}
		m.bus.APU().Tick(cyc)
		m.bus.PPU().Tick(cyc)
		budget -= cyc
	}
}

func (m *Machine) composeFramebuffer() {
	src := m.bus.PPU().Framebuffer()
	for i, argb := range src {
		o := i * 4
		m.fb[o+0] = byte(argb >> 16) // R
		m.fb[o+1] = byte(argb >> 8)  // G
		m.fb[o+2] = byte(argb)       // B
		m.fb[o+3] = byte(argb >> 24) // A
	}
}

// Framebuffer returns the 160x144 RGBA8888 pixel buffer for the most
// recently composed frame, suitable for ebiten's Image.WritePixels.
func (m *Machine) Framebuffer() []byte { return m.fb[:] }

// APUPullStereo drains up to max buffered stereo sample frames
// (interleaved int16 L,R) for playback.
func (m *Machine) APUPullStereo(max int) []int16 { return m.bus.APU().PullStereo(max) }

// APUBufferedStereo reports how many stereo frames are currently queued.
func (m *Machine) APUBufferedStereo() int { return m.bus.APU().StereoAvailable() }

// APUCapBufferedStereo drops the oldest queued frames past max, bounding
// playback latency after a stall.
func (m *Machine) APUCapBufferedStereo(max int) { m.bus.APU().CapBuffered(max) }

// APUClearAudioLatency discards all queued audio frames.
func (m *Machine) APUClearAudioLatency() { m.bus.APU().ClearBuffered() }
