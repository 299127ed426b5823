package compositor

import "testing"

type fakeClientTree struct {
	wmState  map[uint32]bool
	children map[uint32][]uint32
}

func (f *fakeClientTree) HasWMState(win uint32) bool  { return f.wmState[win] }
func (f *fakeClientTree) Children(win uint32) []uint32 { return f.children[win] }

func TestFindClientWinSelf(t *testing.T) {
	tree := &fakeClientTree{wmState: map[uint32]bool{1: true}}
	got, ok := FindClientWin(tree, 1)
	if !ok || got != 1 {
		t.Fatalf("got (%d, %v), want (1, true)", got, ok)
	}
}

func TestFindClientWinDescendsThroughReparenting(t *testing.T) {
	tree := &fakeClientTree{
		wmState:  map[uint32]bool{3: true},
		children: map[uint32][]uint32{1: {2}, 2: {3}},
	}
	got, ok := FindClientWin(tree, 1)
	if !ok || got != 3 {
		t.Fatalf("got (%d, %v), want (3, true)", got, ok)
	}
}

func TestFindClientWinNoneFound(t *testing.T) {
	tree := &fakeClientTree{children: map[uint32][]uint32{1: {2}}}
	_, ok := FindClientWin(tree, 1)
	if ok {
		t.Fatalf("expected no client window to be found")
	}
}

func TestIsGTKFrameExtent(t *testing.T) {
	cases := []struct {
		present bool
		count   int
		want    bool
	}{
		{true, 4, true},
		{true, 3, false},
		{false, 4, false},
		{false, 0, false},
	}
	for _, c := range cases {
		if got := IsGTKFrameExtent(c.count, c.present); got != c.want {
			t.Fatalf("IsGTKFrameExtent(%d, %v) = %v, want %v", c.count, c.present, got, c.want)
		}
	}
}
