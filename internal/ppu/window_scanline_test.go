package ppu

import "testing"

func TestRenderWindowScanlineLeavesPreWindowPixelsAtZero(t *testing.T) {
	mapBase := uint16(0x9800)
	mem := planeVRAM{}
	const fineY = byte(2)
	mem[mapBase+0] = 0
	mem[0x8000+0*16+uint16(fineY)*2] = 0xAA
	mem[0x8000+0*16+uint16(fineY)*2+1] = 0x0F
	mem[mapBase+1] = 1
	mem[0x8000+1*16+uint16(fineY)*2] = 0x55
	mem[0x8000+1*16+uint16(fineY)*2+1] = 0xF0

	const wxStart = 20
	out := RenderWindowScanlineUsingFetcher(mem, mapBase, true, wxStart, fineY)

	for x := 0; x < wxStart; x++ {
		if out[x] != 0 {
			t.Fatalf("pre-window column %d = %d, want 0 (untouched)", x, out[x])
		}
	}
	for i := 0; i < 8; i++ {
		if want := bitPlaneColor(0xAA, 0x0F, i); out[wxStart+i] != want {
			t.Fatalf("window tile0 px %d = %d, want %d", i, out[wxStart+i], want)
		}
	}
	for i := 0; i < 8; i++ {
		if want := bitPlaneColor(0x55, 0xF0, i); out[wxStart+8+i] != want {
			t.Fatalf("window tile1 px %d = %d, want %d", i, out[wxStart+8+i], want)
		}
	}
}

func TestRenderWindowScanlineClampsOutOfRangeStart(t *testing.T) {
	mem := planeVRAM{}
	if out := RenderWindowScanlineUsingFetcher(mem, 0x9800, true, 160, 0); out != ([160]byte{}) {
		t.Fatalf("wxStart >= 160 should render nothing, got non-zero output")
	}
}
