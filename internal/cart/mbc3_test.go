package cart

import "testing"

// fakeClock lets a test pin nowUnix to a controllable value and restores the
// real clock function on return.
func fakeClock(t *testing.T, start int64) *int64 {
	t.Helper()
	prev := nowUnix
	cur := start
	nowUnix = func() int64 { return cur }
	t.Cleanup(func() { nowUnix = prev })
	return &cur
}

func TestMBC3LatchFreezesRegistersAgainstLiveDrift(t *testing.T) {
	fakeClock(t, 100)

	m := NewMBC3(make([]byte, 0x8000), 0x2000)
	m.Write(0x0000, 0x0A) // RAM/RTC enable

	m.rtcSec, m.rtcMin, m.rtcHour, m.rtcDay = 5, 6, 7, 0x101
	m.Write(0x6000, 0x01) // 0->1 edge latches the registers above

	m.Write(0x4000, 0x08) // select seconds
	if got := m.Read(0xA000); got != 5 {
		t.Fatalf("latched seconds = %d, want 5", got)
	}

	m.rtcSec = 30 // live register moves, latched copy must not
	if got := m.Read(0xA000); got != 5 {
		t.Fatalf("latched seconds after live write = %d, want still 5", got)
	}

	m.Write(0x4000, 0x0B) // day counter, low byte
	if got := m.Read(0xA000); got != byte(0x101&0xFF) {
		t.Fatalf("latched day-low = %#02x, want %#02x", got, byte(0x101&0xFF))
	}

	m.Write(0x4000, 0x0C) // day counter, high byte + flags
	status := m.Read(0xA000)
	if status&0x01 == 0 {
		t.Fatal("day-high status byte: bit 8 of the day counter not set")
	}
	if status&0x40 != 0 {
		t.Fatal("day-high status byte: halt flag set unexpectedly")
	}
}

func TestMBC3ClockAdvancesAndWrapsOnRead(t *testing.T) {
	clock := fakeClock(t, 100)

	m := NewMBC3(make([]byte, 0x8000), 0x2000)
	m.rtcSec, m.rtcMin, m.rtcHour, m.rtcDay = 30, 59, 23, 0x1FF
	m.lastRTCWallSec = *clock

	*clock = 120 // +20s: no minute rollover
	m.Read(0x0000)
	if m.rtcSec != 50 || m.rtcMin != 59 {
		t.Fatalf("after +20s: sec=%d min=%d, want sec=50 min=59", m.rtcSec, m.rtcMin)
	}

	*clock = 180 // +60s: minute/hour/day all roll over, day counter overflows
	m.Read(0x0001)
	if m.rtcSec != 50 || m.rtcMin != 0 || m.rtcHour != 0 || m.rtcDay != 0 || !m.rtcCarry {
		t.Fatalf("after +60s rollover: %02d:%02d:%02d day=%d carry=%v, want 00:00:50 day=0 carry=true",
			m.rtcHour, m.rtcMin, m.rtcSec, m.rtcDay, m.rtcCarry)
	}
}

func TestMBC3HaltStopsTheClock(t *testing.T) {
	clock := fakeClock(t, 100)

	m := NewMBC3(make([]byte, 0x8000), 0x2000)
	m.rtcSec, m.rtcHalt = 10, true
	m.lastRTCWallSec = *clock

	*clock = 200
	m.Read(0x0000)
	if m.rtcSec != 10 {
		t.Fatalf("halted clock seconds = %d, want unchanged 10", m.rtcSec)
	}
}

func TestMBC3BatteryRoundTripPreservesClock(t *testing.T) {
	clock := fakeClock(t, 100)
	rom := make([]byte, 0x8000)

	m := NewMBC3(rom, 0x2000)
	m.rtcSec, m.rtcMin, m.rtcHour, m.rtcDay = 30, 59, 23, 0x1FF
	m.lastRTCWallSec = *clock
	*clock = 180
	m.Read(0x0000) // force the clock to advance and roll over before saving

	saved := m.SaveRAM()
	restored := NewMBC3(rom, 0x2000)
	restored.LoadRAM(saved)

	if restored.rtcSec != m.rtcSec || restored.rtcMin != m.rtcMin ||
		restored.rtcHour != m.rtcHour || restored.rtcDay != m.rtcDay {
		t.Fatalf("restored clock %02d:%02d:%02d day=%d != saved %02d:%02d:%02d day=%d",
			restored.rtcHour, restored.rtcMin, restored.rtcSec, restored.rtcDay,
			m.rtcHour, m.rtcMin, m.rtcSec, m.rtcDay)
	}
}
