package gpu

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestScreenTransformOriginMapsToTopLeftClipCorner(t *testing.T) {
	r := &Renderer{ScreenW: 1920, ScreenH: 1080}
	a := r.screenTransform(0, 0, 1, 1)

	// The unit quad's (0,0) corner maps through translation only: tx, ty.
	tx, ty := a[2], a[5]
	if tx != -1 {
		t.Fatalf("expected x=0 to map to clip x=-1, got %v", tx)
	}
	if ty != 1 {
		t.Fatalf("expected y=0 to map to clip y=+1 (Y-up), got %v", ty)
	}
}

func TestScreenTransformFillsScreen(t *testing.T) {
	r := &Renderer{ScreenW: 800, ScreenH: 600}
	a := r.screenTransform(0, 0, 800, 600)

	// The opposite unit-quad corner (1,1) should map to clip (+1,-1).
	x := a[0]*1 + a[2]
	y := a[4]*1 + a[5]
	if math.Abs(float64(x)-1) > 1e-5 {
		t.Fatalf("expected full-screen quad far edge to reach clip x=1, got %v", x)
	}
	if math.Abs(float64(y)+1) > 1e-5 {
		t.Fatalf("expected full-screen quad far edge to reach clip y=-1, got %v", y)
	}
}

func TestF32BytesRoundTripsLittleEndian(t *testing.T) {
	b := f32Bytes(binary.LittleEndian, 1.5, -2.25)
	if len(b) != 8 {
		t.Fatalf("expected 8 bytes for 2 float32s, got %d", len(b))
	}
	bits := binary.LittleEndian.Uint32(b[0:4])
	got := math.Float32frombits(bits)
	if got != 1.5 {
		t.Fatalf("round trip mismatch: got %v, want 1.5", got)
	}
}
