package ppu

import "sort"

// Sprite is an OAM entry selected for a scanline, already translated into
// screen-space coordinates (X = OAM X - 8, Y = OAM Y - 16).
type Sprite struct {
	X, Y     int
	Tile     byte
	Attr     byte
	OAMIndex int
}

// scanSpritesForLine collects up to 10 OAM entries whose Y-extent contains
// ly, in ascending OAM-index order, per the hardware's per-scanline cap.
func (p *PPU) scanSpritesForLine(ly int, tall bool) []Sprite {
	height := 8
	if tall {
		height = 16
	}
	var out []Sprite
	for i := 0; i < 40 && len(out) < 10; i++ {
		base := i * 4
		oy := int(p.oam[base+0]) - 16
		ox := int(p.oam[base+1]) - 8
		tile := p.oam[base+2]
		attr := p.oam[base+3]
		if ly >= oy && ly < oy+height {
			out = append(out, Sprite{X: ox, Y: oy, Tile: tile, Attr: attr, OAMIndex: i})
		}
	}
	return out
}

// ComposeSpriteLine renders sprite pixels for scanline ly against the
// already-composed background/window color indices bgci, respecting
// behind-BG priority and the per-scanline X/OAM-index draw order: sprites
// are sorted ascending by X (ties by OAM index), and lower X draws last so
// it ends up on top. Returns the winning color index per pixel (0 =
// transparent) and whether OBP1 (rather than OBP0) applies to that pixel.
func ComposeSpriteLine(mem VRAMReader, sprites []Sprite, ly int, bgci [160]byte, tall bool) (ci [160]byte, useOBP1 [160]bool) {
	height := 8
	if tall {
		height = 16
	}
	ordered := append([]Sprite(nil), sprites...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].X != ordered[j].X {
			return ordered[i].X < ordered[j].X
		}
		return ordered[i].OAMIndex < ordered[j].OAMIndex
	})

	for i := len(ordered) - 1; i >= 0; i-- {
		s := ordered[i]
		row := ly - s.Y
		if row < 0 || row >= height {
			continue
		}
		yflip := s.Attr&0x40 != 0
		xflip := s.Attr&0x20 != 0
		behind := s.Attr&0x80 != 0
		palSelect := s.Attr&0x10 != 0

		tile := s.Tile
		if tall {
			tile &^= 0x01
		}
		r := row
		if yflip {
			r = height - 1 - row
		}
		tileNum := int(tile)
		if tall && r >= 8 {
			tileNum++
			r -= 8
		}
		addr := uint16(0x8000 + tileNum*16 + r*2)
		lo := mem.Read(addr)
		hi := mem.Read(addr + 1)

		for px := 0; px < 8; px++ {
			x := s.X + px
			if x < 0 || x >= 160 {
				continue
			}
			bit := 7 - px
			if xflip {
				bit = px
			}
			idx := ((hi>>uint(bit))&1)<<1 | ((lo >> uint(bit)) & 1)
			if idx == 0 {
				continue
			}
			if behind && bgci[x] != 0 {
				continue
			}
			ci[x] = idx
			useOBP1[x] = palSelect
		}
	}
	return
}
