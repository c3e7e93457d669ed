package cart

import "testing"

// markedROM returns a ROM where the first byte of bank n is n itself, so
// bank-selection bugs show up as a simple byte mismatch.
func markedROM(banks int) []byte {
	rom := make([]byte, banks*0x4000)
	for bank := 0; bank < banks; bank++ {
		rom[bank*0x4000] = byte(bank)
	}
	return rom
}

func TestMBC1FixedBankIsAlwaysBankZero(t *testing.T) {
	m := NewMBC1(markedROM(8), 0)
	if got := m.Read(0x0000); got != 0 {
		t.Fatalf("fixed bank read = %#02x, want 0x00", got)
	}
}

func TestMBC1SwitchableBankDefaultsToOne(t *testing.T) {
	m := NewMBC1(markedROM(8), 0)
	if got := m.Read(0x4000); got != 1 {
		t.Fatalf("switchable bank at reset = %#02x, want 0x01", got)
	}
}

func TestMBC1SwitchableBankFollowsSelectRegister(t *testing.T) {
	m := NewMBC1(markedROM(8), 0)
	m.Write(0x2000, 0x03)
	if got := m.Read(0x4000); got != 3 {
		t.Fatalf("after selecting bank 3, read = %#02x, want 0x03", got)
	}
}

func TestMBC1BankZeroWriteRemapsToOne(t *testing.T) {
	m := NewMBC1(markedROM(8), 0)
	m.Write(0x2000, 0x03)
	m.Write(0x2000, 0x00)
	if got := m.Read(0x4000); got != 1 {
		t.Fatalf("writing 0 to the bank register = %#02x, want remap to 0x01", got)
	}
}

func TestMBC1RAMBankingInMode1(t *testing.T) {
	m := NewMBC1(markedROM(8), 32*1024)
	m.Write(0x0000, 0x0A) // RAM enable
	m.Write(0x6000, 0x01) // banking mode 1
	m.Write(0x4000, 0x02) // RAM bank 2

	m.Write(0xA000, 0x77)
	if got := m.Read(0xA000); got != 0x77 {
		t.Fatalf("RAM bank 2 round-trip = %#02x, want 0x77", got)
	}
}

func TestMBC1RAMDisabledReadsOpenBus(t *testing.T) {
	m := NewMBC1(markedROM(8), 32*1024)
	m.Write(0xA000, 0x42) // RAM never enabled: write is dropped
	if got := m.Read(0xA000); got != 0xFF {
		t.Fatalf("disabled RAM read = %#02x, want 0xFF", got)
	}
}

func TestMBC1BatteryRoundTrip(t *testing.T) {
	m := NewMBC1(markedROM(2), 8*1024)
	m.Write(0x0000, 0x0A)
	m.Write(0xA000, 0x99)

	saved := m.SaveRAM()
	fresh := NewMBC1(markedROM(2), 8*1024)
	fresh.LoadRAM(saved)
	fresh.Write(0x0000, 0x0A)
	if got := fresh.Read(0xA000); got != 0x99 {
		t.Fatalf("restored RAM byte = %#02x, want 0x99", got)
	}
}
