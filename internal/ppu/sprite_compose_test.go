package ppu

import "testing"

// soleRow lays a single 8-pixel opaque row (lo, hi) at the sprite tile
// address every sprite in these tests shares (tile 0, row 0).
func soleRow(mem planeVRAM, lo, hi byte) {
	mem[0x8000] = lo
	mem[0x8001] = hi
}

func TestComposeSpriteLineHonorsBehindBGPriority(t *testing.T) {
	mem := planeVRAM{}
	soleRow(mem, 0x80, 0x00) // single opaque pixel at the sprite's leftmost column
	sprite := Sprite{X: 10, Y: 5, Tile: 0, Attr: 0, OAMIndex: 0}

	var bgci [160]byte
	out, _ := ComposeSpriteLine(mem, []Sprite{sprite}, 5, bgci, false)
	if out[10] == 0 {
		t.Fatal("opaque sprite pixel over transparent background must be drawn")
	}

	sprite.Attr = 1 << 7 // behind-BG priority
	bgci[10] = 1
	out, _ = ComposeSpriteLine(mem, []Sprite{sprite}, 5, bgci, false)
	if out[10] != 0 {
		t.Fatal("behind-BG sprite must be hidden when the background pixel is non-zero")
	}
}

func TestComposeSpriteLineBreaksOverlapTiesByLeftmostX(t *testing.T) {
	mem := planeVRAM{}
	soleRow(mem, 0xFF, 0x00) // full opaque row for every sprite tile

	left := Sprite{X: 19, Y: 0, Tile: 0, Attr: 0x10, OAMIndex: 5} // palette-select set
	right := Sprite{X: 20, Y: 0, Tile: 0, Attr: 0, OAMIndex: 3}

	var bgci [160]byte
	out, useOBP1 := ComposeSpriteLine(mem, []Sprite{left, right}, 0, bgci, false)
	if out[20] == 0 {
		t.Fatal("overlapping sprites at x=20 must resolve to a drawn pixel")
	}
	if !useOBP1[20] {
		t.Fatal("at x=20 the leftmost sprite (X=19) must draw on top despite its higher OAM index")
	}
}

func TestComposeSpriteLineLowerOAMIndexWinsAtEqualX(t *testing.T) {
	mem := planeVRAM{}
	soleRow(mem, 0xFF, 0x00)

	low := Sprite{X: 30, Y: 0, Tile: 0, Attr: 0x10, OAMIndex: 0} // palette-select set
	high := Sprite{X: 30, Y: 0, Tile: 0, Attr: 0, OAMIndex: 7}

	var bgci [160]byte
	_, useOBP1 := ComposeSpriteLine(mem, []Sprite{high, low}, 0, bgci, false)
	if !useOBP1[30] {
		t.Fatal("at equal X, the lower OAM index must draw on top, so its palette selection should win")
	}
}
