package cart

import (
	"encoding/binary"
	"errors"
	"strings"
)

// headerEnd is the last byte address (inclusive) of the cartridge header.
const headerEnd = 0x014F

// nintendoLogo is the fixed bitmap every licensed cartridge carries at
// 0x0104-0x0133. Homebrew and test ROMs frequently omit or corrupt it, so a
// mismatch here is logged by callers, never treated as a parse failure.
var nintendoLogo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B, 0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E, 0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC, 0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

// Header offsets, per the documented cartridge layout.
const (
	offTitle          = 0x0134
	offTitleEnd       = 0x0144
	offCGBFlag        = 0x0143
	offNewLicensee    = 0x0144
	offSGBFlag        = 0x0146
	offCartType       = 0x0147
	offROMSizeCode    = 0x0148
	offRAMSizeCode    = 0x0149
	offDestination    = 0x014A
	offOldLicensee    = 0x014B
	offROMVersion     = 0x014C
	offHeaderChecksum = 0x014D
	offGlobalChecksum = 0x014E
)

// Header is the decoded contents of a cartridge's header block, plus a
// handful of derived fields (sizes in bytes, bank counts, a human label for
// the cartridge type) callers want for logging without re-deriving them.
type Header struct {
	Title          string
	CGBFlag        byte
	NewLicensee    string
	SGBFlag        byte
	CartType       byte
	ROMSizeCode    byte
	RAMSizeCode    byte
	Destination    byte
	OldLicensee    byte
	ROMVersion     byte
	HeaderChecksum byte
	GlobalChecksum uint16

	ROMSizeBytes int
	ROMBanks     int
	RAMSizeBytes int
	CartTypeStr  string

	// LogoOK and ChecksumOK record whether the two self-check fields the
	// header carries actually hold on this image; a mismatch is never fatal,
	// only worth surfacing to a -v caller.
	LogoOK     bool
	ChecksumOK bool
}

// ParseHeader decodes the 0x0100-0x014F header block out of rom. It never
// rejects a ROM for a bad logo or checksum — those are recorded on the
// Header (LogoOK/ChecksumOK) for the caller to warn about — only a ROM too
// short to contain the header at all is an error.
func ParseHeader(rom []byte) (*Header, error) {
	if len(rom) < headerEnd+1 {
		return nil, errors.New("ROM too small to contain header")
	}

	h := &Header{
		Title:          strings.TrimRight(string(rom[offTitle:offTitleEnd]), "\x00"),
		CGBFlag:        rom[offCGBFlag],
		NewLicensee:    string(rom[offNewLicensee : offNewLicensee+2]),
		SGBFlag:        rom[offSGBFlag],
		CartType:       rom[offCartType],
		ROMSizeCode:    rom[offROMSizeCode],
		RAMSizeCode:    rom[offRAMSizeCode],
		Destination:    rom[offDestination],
		OldLicensee:    rom[offOldLicensee],
		ROMVersion:     rom[offROMVersion],
		HeaderChecksum: rom[offHeaderChecksum],
		GlobalChecksum: binary.BigEndian.Uint16(rom[offGlobalChecksum : offGlobalChecksum+2]),
		LogoOK:         hasValidLogo(rom),
		ChecksumOK:     HeaderChecksumOK(rom),
	}

	h.ROMSizeBytes, h.ROMBanks = romSizeTable.lookup(h.ROMSizeCode)
	h.RAMSizeBytes = ramSizeTable[h.RAMSizeCode]
	h.CartTypeStr = FamilyOf(h.CartType).label()

	return h, nil
}

func hasValidLogo(rom []byte) bool {
	for i, want := range nintendoLogo {
		if rom[0x0104+i] != want {
			return false
		}
	}
	return true
}

// HeaderChecksumOK recomputes the Pan Docs header checksum over
// 0x0134-0x014C and compares it against the stored byte at 0x014D.
func HeaderChecksumOK(rom []byte) bool {
	if len(rom) < offHeaderChecksum+1 {
		return false
	}
	var sum byte
	for _, b := range rom[offTitle:offROMVersion] {
		sum = sum - b - 1
	}
	sum = sum - rom[offROMVersion] - 1
	return sum == rom[offHeaderChecksum]
}

// romSizeEntry pairs a size-code's total ROM capacity with its bank count
// (each bank is 16KiB, matching the MBC address-space windowing scheme).
type romSizeEntry struct {
	bytes int
	banks int
}

type romSizeLookup map[byte]romSizeEntry

func (t romSizeLookup) lookup(code byte) (size, banks int) {
	e := t[code]
	return e.bytes, e.banks
}

var romSizeTable = romSizeLookup{
	0x00: {32 * 1024, 2},
	0x01: {64 * 1024, 4},
	0x02: {128 * 1024, 8},
	0x03: {256 * 1024, 16},
	0x04: {512 * 1024, 32},
	0x05: {1024 * 1024, 64},
	0x06: {2048 * 1024, 128},
	0x07: {4096 * 1024, 256},
	0x08: {8192 * 1024, 512},
	0x52: {1152 * 1024, 72},
	0x53: {1280 * 1024, 80},
	0x54: {1536 * 1024, 96},
}

var ramSizeTable = map[byte]int{
	0x00: 0,
	0x02: 8 * 1024,
	0x03: 32 * 1024,
	0x04: 128 * 1024,
	0x05: 64 * 1024,
}

// label gives a short human-readable name for a banking family, used for
// -v diagnostics only.
func (f Family) label() string {
	switch f {
	case FamilyNone:
		return "ROM ONLY"
	case FamilyMBC1:
		return "MBC1 (variants)"
	case FamilyMBC2:
		return "MBC2 (variants)"
	case FamilyMBC3:
		return "MBC3 (variants)"
	case FamilyMBC5:
		return "MBC5 (variants)"
	default:
		return "Other/unknown"
	}
}
