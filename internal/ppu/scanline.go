package ppu

// tileRowSource describes one horizontal strip of tilemap to pull pixels
// from: which map, which addressing mode, which map row, and where in the
// 32-tile-wide row to start.
type tileRowSource struct {
	mem              VRAMReader
	mapBase          uint16
	signedAddressing bool
	mapRow           uint16 // 0..31
	fineY            byte   // 0..7, vertical offset within the tile row
}

func (s tileRowSource) tileIndexAddr(col uint16) uint16 {
	return s.mapBase + s.mapRow*32 + (col & 31)
}

// fillRow drains 160 color indices starting at outStart, pulling fresh tile
// rows from src as the queue empties, beginning at tile column startCol and
// discarding discardPixels leading pixels (used to drop sub-tile SCX
// scroll). Both the background and window scanline renderers are this one
// loop with different tileRowSource/startCol/discard inputs.
func fillRow(src tileRowSource, startCol uint16, discardPixels int, out *[160]byte, outStart int) {
	var q pixelQueue
	f := newTileFetcher(src.mem, &q)

	col := startCol
	f.loadRow(src.tileIndexAddr(col), src.signedAddressing, src.fineY)
	for i := 0; i < discardPixels; i++ {
		q.pop()
	}

	for x := outStart; x < 160; x++ {
		if q.len() == 0 {
			col++
			f.loadRow(src.tileIndexAddr(col), src.signedAddressing, src.fineY)
		}
		out[x] = q.pop()
	}
}

// RenderBGScanlineUsingFetcher renders 160 background pixels for scanline
// ly, honoring the SCX/SCY scroll registers.
func RenderBGScanlineUsingFetcher(mem VRAMReader, mapBase uint16, tileData8000 bool, scx, scy, ly byte) [160]byte {
	var out [160]byte

	bgY := uint16(ly) + uint16(scy)
	src := tileRowSource{
		mem:              mem,
		mapBase:          mapBase,
		signedAddressing: !tileData8000,
		mapRow:           (bgY >> 3) & 31,
		fineY:            byte(bgY & 7),
	}

	startCol := uint16(scx) >> 3
	fillRow(src, startCol, int(scx&7), &out, 0)
	return out
}

// RenderWindowScanlineUsingFetcher renders the window layer starting at
// screen column wxStart (WX-7), with winLine counting scanlines since the
// window was activated. Columns before wxStart are left at color index 0
// for the caller to blend against the background layer.
func RenderWindowScanlineUsingFetcher(mem VRAMReader, mapBase uint16, tileData8000 bool, wxStart int, winLine byte) [160]byte {
	var out [160]byte
	if wxStart >= 160 {
		return out
	}
	if wxStart < 0 {
		wxStart = 0
	}

	src := tileRowSource{
		mem:              mem,
		mapBase:          mapBase,
		signedAddressing: !tileData8000,
		mapRow:           (uint16(winLine) >> 3) & 31,
		fineY:            winLine & 7,
	}

	fillRow(src, 0, 0, &out, wxStart)
	return out
}
