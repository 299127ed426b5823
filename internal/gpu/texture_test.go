package gpu

import (
	"testing"

	"golang.org/x/mobile/gl"
)

func TestClassifyPixelFormatDepth24Has32Bpp(t *testing.T) {
	pf := ClassifyPixelFormat(24, 32, true)
	if pf.Alpha {
		t.Fatalf("depth-24 pixmaps packed into 32bpp must not be treated as carrying real alpha")
	}
	if pf.GLFormat != bgra {
		t.Fatalf("expected BGRA for LSB-first 32bpp data, got %v", pf.GLFormat)
	}
}

func TestClassifyPixelFormatDepth32HasAlpha(t *testing.T) {
	pf := ClassifyPixelFormat(32, 32, true)
	if !pf.Alpha {
		t.Fatalf("depth-32 (true ARGB) pixmaps must be treated as carrying real alpha")
	}
}

func TestClassifyPixelFormatInternalMatchesFormat(t *testing.T) {
	for _, bpp := range []int{24, 32} {
		for _, lsb := range []bool{true, false} {
			pf := ClassifyPixelFormat(24, bpp, lsb)
			if pf.Internal != pf.GLFormat {
				t.Fatalf("bpp=%d lsb=%v: GL ES2 requires internalformat == format, got internal=%v format=%v", bpp, lsb, pf.Internal, pf.GLFormat)
			}
		}
	}
}

func TestClassifyPixelFormatMSBFirstUsesPlainOrder(t *testing.T) {
	pf := ClassifyPixelFormat(32, 32, false)
	if pf.GLFormat != gl.RGBA {
		t.Fatalf("expected plain RGBA for MSB-first data, got %v", pf.GLFormat)
	}
}

func TestForceOpaqueLSBFirst(t *testing.T) {
	pix := []byte{1, 2, 3, 0x00, 4, 5, 6, 0x11}
	ForceOpaque(pix, true)
	if pix[3] != 0xFF || pix[7] != 0xFF {
		t.Fatalf("expected alpha bytes at offset 3 forced opaque, got %v", pix)
	}
	if pix[0] != 1 || pix[4] != 4 {
		t.Fatalf("expected color bytes untouched, got %v", pix)
	}
}

func TestForceOpaqueMSBFirst(t *testing.T) {
	pix := []byte{0x00, 1, 2, 3, 0x11, 4, 5, 6}
	ForceOpaque(pix, false)
	if pix[0] != 0xFF || pix[4] != 0xFF {
		t.Fatalf("expected alpha bytes at offset 0 forced opaque, got %v", pix)
	}
}
