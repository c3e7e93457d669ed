package ppu

import "testing"

// bitPlaneColor replicates the row fetcher's bit-interleaving so tests can
// state expectations as "tile N, pixel I" instead of hand-expanding bits.
func bitPlaneColor(lo, hi byte, pixel int) byte {
	bit := 7 - byte(pixel)
	return (hi>>bit)&1<<1 | (lo>>bit)&1
}

// layTileRow writes a tile's index into the map and its two bit-plane bytes
// into tile data, using lo=tile and hi=^tile so every tile's row is
// distinguishable from its neighbors.
func layTileRow(mem planeVRAM, mapBase uint16, mapSlot, tileNum int, fineY byte) {
	mem[mapBase+uint16(mapSlot)] = byte(tileNum)
	base := uint16(0x8000+tileNum*16) + uint16(fineY)*2
	mem[base] = byte(tileNum)
	mem[base+1] = ^byte(tileNum)
}

func TestRenderBGScanlineDiscardsSCXFractionThenWrapsTiles(t *testing.T) {
	mapBase := uint16(0x9800)
	mem := planeVRAM{}
	for tile := 0; tile < 32; tile++ {
		layTileRow(mem, mapBase, tile, tile, 0)
	}

	out := RenderBGScanlineUsingFetcher(mem, mapBase, true, 5, 0, 0)

	// scx=5 drops the first 5 of tile 0's 8 pixels, leaving its last 3.
	for i := 0; i < 3; i++ {
		if want := bitPlaneColor(0, ^byte(0), i+5); out[i] != want {
			t.Fatalf("tile0 tail px %d = %d, want %d", i, out[i], want)
		}
	}
	// Tile 1 follows immediately, starting fresh at its own pixel 0.
	for i := 0; i < 8; i++ {
		if want := bitPlaneColor(1, ^byte(1), i); out[3+i] != want {
			t.Fatalf("tile1 px %d = %d, want %d", i, out[3+i], want)
		}
	}
}

func TestRenderBGScanlineSelectsMapRowAndFineYFromSCY(t *testing.T) {
	// ly=0, scy=11 -> bgY=11 -> map row 1 (pixel rows 8-15), fineY=3.
	mapBase := uint16(0x9800)
	mem := planeVRAM{}
	const fineY = byte(3)
	layTileRow(mem, mapBase, 32+0, 0, fineY)
	layTileRow(mem, mapBase, 32+1, 1, fineY)

	out := RenderBGScanlineUsingFetcher(mem, mapBase, true, 0, 11, 0)

	for i := 0; i < 8; i++ {
		if want := bitPlaneColor(0, ^byte(0), i); out[i] != want {
			t.Fatalf("row-1 tile0 px %d = %d, want %d", i, out[i], want)
		}
	}
	for i := 0; i < 8; i++ {
		if want := bitPlaneColor(1, ^byte(1), i); out[8+i] != want {
			t.Fatalf("row-1 tile1 px %d = %d, want %d", i, out[8+i], want)
		}
	}
}
