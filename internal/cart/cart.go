package cart

// Cartridge defines the minimal interface the Bus needs for ROM/RAM banking.
// Implementations can be ROM-only or MBC variants. Addresses are CPU addresses.
type Cartridge interface {
	// Read returns a byte for ROM (0x0000-0x7FFF) and external RAM (0xA000-0xBFFF).
	Read(addr uint16) byte
	// Write handles MBC control writes (0x0000-0x7FFF) and external RAM writes (0xA000-0xBFFF).
	Write(addr uint16, value byte)
}

// BatteryBacked is an optional interface for cartridges with external RAM to be
// persisted by the (out-of-scope) file-I/O collaborator. Implementations return
// a copy of RAM bytes (nil if no RAM) and accept data to load.
type BatteryBacked interface {
	SaveRAM() []byte
	LoadRAM(data []byte)
}

// Family identifies the banking scheme a cartridge type byte decodes to.
type Family int

const (
	FamilyNone Family = iota
	FamilyMBC1
	FamilyMBC2
	FamilyMBC3
	FamilyMBC5
)

// NewCartridge picks an implementation based on the ROM header. Unknown MBC
// types fall back to MBC1 banking rules, per spec section 7 kind 5.
func NewCartridge(rom []byte) Cartridge {
	h, err := ParseHeader(rom)
	if err != nil {
		return NewROMOnly(rom)
	}
	switch FamilyOf(h.CartType) {
	case FamilyNone:
		return NewROMOnly(rom)
	case FamilyMBC1:
		return NewMBC1(rom, h.RAMSizeBytes)
	case FamilyMBC2:
		return NewMBC2(rom)
	case FamilyMBC3:
		return NewMBC3(rom, h.RAMSizeBytes)
	case FamilyMBC5:
		return NewMBC5(rom, h.RAMSizeBytes)
	default:
		return NewMBC1(rom, h.RAMSizeBytes)
	}
}

// FamilyOf decodes a cartridge-type header byte into a banking family.
// Unrecognized codes report FamilyMBC1; callers should warn and proceed
// with MBC1 banking rules (spec section 7 kind 5).
func FamilyOf(cartType byte) Family {
	switch cartType {
	case 0x00, 0x08, 0x09:
		return FamilyNone
	case 0x01, 0x02, 0x03:
		return FamilyMBC1
	case 0x05, 0x06:
		return FamilyMBC2
	case 0x0F, 0x10, 0x11, 0x12, 0x13:
		return FamilyMBC3
	case 0x19, 0x1A, 0x1B, 0x1C, 0x1D, 0x1E:
		return FamilyMBC5
	default:
		return FamilyMBC1
	}
}
