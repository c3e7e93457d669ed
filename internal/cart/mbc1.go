package cart

// MBC1 banks up to 2MB of ROM and 32KB of external RAM. It has no RTC or
// battery-backed clock; SaveRAM/LoadRAM only ever move the RAM array.
type MBC1 struct {
	rom bankedRegion
	ram bankedRegion

	bank5    byte // primary bank select, 0x2000-0x3FFF write target
	bank2    byte // secondary 2-bit select, 0x4000-0x5FFF write target
	bankMode byte // 0: secondary bits extend the ROM bank; 1: they pick a RAM bank
	ramGate  ramEnableLatch
}

func NewMBC1(rom []byte, ramSize int) *MBC1 {
	m := &MBC1{
		rom:   newBankedRegion(rom, 0x4000),
		ram:   newBankedRegion(make([]byte, ramSize), 0x2000),
		bank5: 1,
	}
	return m
}

func (m *MBC1) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		return m.rom.readAt(m.lowAreaBank(), addr)
	case addr < 0x8000:
		return m.rom.readAt(m.highAreaBank(), addr-0x4000)
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramGate.on() || !m.ram.present() {
			return 0xFF
		}
		return m.ram.readAt(m.ramBank(), addr-0xA000)
	default:
		return 0xFF
	}
}

func (m *MBC1) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		m.ramGate.apply(value)
	case addr < 0x4000:
		m.bank5 = value & 0x1F
		if m.bank5 == 0 {
			m.bank5 = 1
		}
	case addr < 0x6000:
		m.bank2 = value & 0x03
	case addr < 0x8000:
		m.bankMode = value & 0x01
	case addr >= 0xA000 && addr <= 0xBFFF:
		if m.ramGate.on() && m.ram.present() {
			m.ram.writeAt(m.ramBank(), addr-0xA000, value)
		}
	}
}

// lowAreaBank returns the bank mapped at 0x0000-0x3FFF: fixed bank 0 in
// banking mode 0, or bank2<<5 in mode 1 (the "large ROM, small RAM" quirk
// where the secondary register also reaches into the low window).
func (m *MBC1) lowAreaBank() int {
	if m.bankMode == 0 {
		return 0
	}
	return int(m.bank2) << 5
}

// highAreaBank returns the bank mapped at 0x4000-0x7FFF: always the full
// 7-bit combination of bank5 and bank2, regardless of banking mode.
func (m *MBC1) highAreaBank() int {
	return int(m.bank5) | int(m.bank2)<<5
}

func (m *MBC1) ramBank() int {
	if m.bankMode == 1 {
		return int(m.bank2)
	}
	return 0
}

func (m *MBC1) SaveRAM() []byte     { return m.ram.snapshot() }
func (m *MBC1) LoadRAM(data []byte) { copy(m.ram.data, data) }
