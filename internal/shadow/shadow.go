// Package shadow builds the Gaussian-blurred drop shadow bitmaps the
// repaint driver draws behind windows. The convolution itself is computed
// once at startup into presummed corner/edge tables (opacityLevels wide),
// and per-window shadow images are assembled from those tables rather than
// recomputed from scratch, mirroring commoner.c's make_gaussian_map /
// presum_gaussian / make_shadow.
package shadow

import "math"

// opacityLevels is the number of quantized opacity buckets the presummed
// tables are indexed by: commoner.c indexes shadow_top/shadow_corner with
// an "opacity" in [0, 25] inclusive, i.e. 26 levels.
const opacityLevels = 26

// Map is a square Gaussian convolution kernel, normalized to sum to 1.
type Map struct {
	Size int // size = ceil(3r)+1, rounded down to even
	data []float64
}

// NewMap builds the convolution map for blur radius r.
func NewMap(r float64) *Map {
	size := evenFloor(int(math.Ceil(r*3)) + 1)
	center := size / 2

	m := &Map{Size: size, data: make([]float64, size*size)}
	var total float64
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			g := gaussian(r, float64(x-center), float64(y-center))
			total += g
			m.data[y*size+x] = g
		}
	}
	for i := range m.data {
		m.data[i] /= total
	}
	return m
}

// evenFloor matches the C `& ~1`: round down to the nearest even integer.
func evenFloor(n int) int {
	return n &^ 1
}

func gaussian(r, x, y float64) float64 {
	return (1 / math.Sqrt(2*math.Pi*r)) * math.Exp(-(x*x+y*y)/(2*r*r))
}

// sumGaussian sums the Gaussian map over a width x height tile whose
// top-left corner is (x, y) relative to the map's center, scaled by
// opacity and quantized to a byte (commoner.c's sum_gaussian).
func (m *Map) sumGaussian(opacity float64, x, y, width, height int) byte {
	center := m.Size / 2

	fxStart := center - x
	if fxStart < 0 {
		fxStart = 0
	}
	fxEnd := width + center - x
	if fxEnd > m.Size {
		fxEnd = m.Size
	}

	fyStart := center - y
	if fyStart < 0 {
		fyStart = 0
	}
	fyEnd := height + center - y
	if fyEnd > m.Size {
		fyEnd = m.Size
	}

	var v float64
	for fy := fyStart; fy < fyEnd; fy++ {
		row := fy * m.Size
		for fx := fxStart; fx < fxEnd; fx++ {
			v += m.data[row+fx]
		}
	}
	if v > 1 {
		v = 1
	}
	return byte(v * opacity * 255.0)
}

// Tables holds the presummed top-edge and corner shadow tables built once
// from a Map, indexed by quantized opacity level (0..25) and position.
type Tables struct {
	size   int
	top    []byte // [opacityLevels][size+1]
	corner []byte // [opacityLevels][size+1][size+1]
	gmap   *Map
}

func (t *Tables) topAt(opacity, x int) byte     { return t.top[opacity*(t.size+1)+x] }
func (t *Tables) cornerAt(opacity, y, x int) byte {
	stride := t.size + 1
	return t.corner[opacity*stride*stride+y*stride+x]
}

// NewTables presums m into the top/corner tables, matching commoner.c's
// presum_gaussian exactly (including the symmetric corner fill).
func NewTables(m *Map) *Tables {
	size := m.Size
	center := size / 2
	stride := size + 1

	t := &Tables{
		size:   size,
		top:    make([]byte, opacityLevels*stride),
		corner: make([]byte, opacityLevels*stride*stride),
		gmap:   m,
	}

	for x := 0; x <= size; x++ {
		full := m.sumGaussian(1, x-center, center, size*2, size*2)
		t.top[25*stride+x] = full
		for opacity := 0; opacity < 25; opacity++ {
			t.top[opacity*stride+x] = byte(int(full) * opacity / 25)
		}

		for y := 0; y <= x; y++ {
			v := m.sumGaussian(1, x-center, y-center, size*2, size*2)
			t.corner[25*stride*stride+y*stride+x] = v
			t.corner[25*stride*stride+x*stride+y] = v
			for opacity := 0; opacity < 25; opacity++ {
				scaled := byte(int(v) * opacity / 25)
				t.corner[opacity*stride*stride+y*stride+x] = scaled
				t.corner[opacity*stride*stride+x*stride+y] = scaled
			}
		}
	}
	return t
}

// Image is an 8-bit alpha bitmap, (w+size)x(h+size) pixels, ready to upload
// as a single-channel GL texture (gpu.UploadAlphaMask uses ALPHA).
type Image struct {
	W, H int
	Pix  []byte // row-major, one byte per pixel
}

// Render assembles the shadow bitmap for a window of logical size
// width x height at the given opacity (0..1), using the presummed tables
// where possible and falling back to a direct Gaussian sum at the edges,
// exactly mirroring commoner.c's make_shadow.
func (t *Tables) Render(opacity float64, width, height int) *Image {
	gsize := t.size
	swidth := width + gsize
	sheight := height + gsize
	center := gsize / 2
	opacityInt := int(opacity * 25)

	data := make([]byte, swidth*sheight)

	var d byte
	if gsize > 0 {
		d = t.topAt(opacityInt, gsize)
	} else {
		d = t.gmap.sumGaussian(opacity, center, center, width, height)
	}
	for i := range data {
		data[i] = d
	}

	ylimit := gsize
	if ylimit > sheight/2 {
		ylimit = (sheight + 1) / 2
	}
	xlimit := gsize
	if xlimit > swidth/2 {
		xlimit = (swidth + 1) / 2
	}

	for y := 0; y < ylimit; y++ {
		for x := 0; x < xlimit; x++ {
			var d byte
			if xlimit == gsize && ylimit == gsize {
				d = t.cornerAt(opacityInt, y, x)
			} else {
				d = t.gmap.sumGaussian(opacity, x-center, y-center, width, height)
			}
			data[y*swidth+x] = d
			data[(sheight-y-1)*swidth+x] = d
			data[(sheight-y-1)*swidth+(swidth-x-1)] = d
			data[y*swidth+(swidth-x-1)] = d
		}
	}

	xDiff := swidth - gsize*2
	if xDiff > 0 && ylimit > 0 {
		for y := 0; y < ylimit; y++ {
			var d byte
			if ylimit == gsize {
				d = t.topAt(opacityInt, y)
			} else {
				d = t.gmap.sumGaussian(opacity, center, y-center, width, height)
			}
			fillRow(data, y*swidth+gsize, xDiff, d)
			fillRow(data, (sheight-y-1)*swidth+gsize, xDiff, d)
		}
	}

	for x := 0; x < xlimit; x++ {
		var d byte
		if xlimit == gsize {
			d = t.topAt(opacityInt, x)
		} else {
			d = t.gmap.sumGaussian(opacity, x-center, center, width, height)
		}
		for y := gsize; y < sheight-gsize; y++ {
			data[y*swidth+x] = d
			data[y*swidth+(swidth-x-1)] = d
		}
	}

	return &Image{W: swidth, H: sheight, Pix: data}
}

func fillRow(data []byte, start, n int, v byte) {
	for i := 0; i < n; i++ {
		data[start+i] = v
	}
}

// WindowClass carries the subset of a window's classification that the
// shadow attachment policy needs, decoupled from the compositor package to
// avoid an import cycle.
type WindowClass struct {
	Type             string // e.g. "normal", "dialog", "dock", "desktop", "menu"...
	OverrideRedirect bool
	Solid            bool // true if the window has no alpha channel
	GTKFrameExtent   bool // a frame-extents helper window created by GTK's client-side decorations
}

// byType mirrors commoner.c's win_type_shadow[NUM_WINTYPES] table: only
// these window types get a shadow at all.
var byType = map[string]bool{
	"normal": true,
	"dialog": true,
	"dock":   true,
	"desktop": false,
	"menu":    false,
}

// solidAllowedTypes restricts shadows on non-ARGB (solid) windows to the
// same three types win_extents special-cases: a solid normal, dialog or
// dock window still gets a shadow, a solid popup menu never does.
var solidAllowedTypes = map[string]bool{
	"normal": true,
	"dialog": true,
	"dock":   true,
}

// Wanted reports whether a window of the given classification should carry
// a shadow, mirroring commoner.c's win_extents shadow_type computation.
func Wanted(w WindowClass) bool {
	if w.Type == "" || !byType[w.Type] {
		return false
	}
	if w.OverrideRedirect && w.Type == "normal" {
		return false
	}
	if w.GTKFrameExtent {
		return false
	}
	if !w.Solid {
		return true
	}
	return solidAllowedTypes[w.Type]
}
