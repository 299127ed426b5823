package compositor

import (
	"testing"

	"golang.org/x/mobile/gl"
)

func TestBackgroundNeedsRefreshInitiallyTrue(t *testing.T) {
	var b Background
	if !b.NeedsRefresh(5) {
		t.Fatalf("expected a fresh Background to need a refresh")
	}
}

func TestBackgroundNeedsRefreshFalseWhenUnchanged(t *testing.T) {
	var b Background
	b.SetTexture(5, gl.Texture{Value: 1})
	if b.NeedsRefresh(5) {
		t.Fatalf("expected no refresh needed when the pixmap ID is unchanged")
	}
}

func TestBackgroundNeedsRefreshTrueWhenPixmapChanges(t *testing.T) {
	var b Background
	b.SetTexture(5, gl.Texture{Value: 1})
	if !b.NeedsRefresh(6) {
		t.Fatalf("expected refresh needed when the pixmap ID changes")
	}
}

func TestBackgroundNeedsRefreshTrueWithoutTexture(t *testing.T) {
	var b Background
	b.pixmap = 5
	if !b.NeedsRefresh(5) {
		t.Fatalf("expected refresh needed when the pixmap matches but no texture was built yet")
	}
}

func TestBackgroundClearForcesRefresh(t *testing.T) {
	var b Background
	b.SetTexture(5, gl.Texture{Value: 1})
	b.Clear()
	if !b.NeedsRefresh(5) {
		t.Fatalf("expected refresh needed after Clear")
	}
	if _, ok := b.Texture(); ok {
		t.Fatalf("expected no texture after Clear")
	}
}

func TestUsableGeometryExactMatch(t *testing.T) {
	g := RootPixmapGeometry{Width: 1920, Height: 1080, Depth: 24}
	if !UsableGeometry(g, 1920, 1080) {
		t.Fatalf("expected exact geometry match to be usable")
	}
}

func TestUsableGeometryMismatchRejected(t *testing.T) {
	cases := []struct {
		g             RootPixmapGeometry
		screenW, screenH int32
	}{
		{RootPixmapGeometry{Width: 1024, Height: 768}, 1920, 1080},
		{RootPixmapGeometry{Width: 1920, Height: 720}, 1920, 1080},
	}
	for _, c := range cases {
		if UsableGeometry(c.g, c.screenW, c.screenH) {
			t.Fatalf("expected geometry %+v against screen %dx%d to be unusable", c.g, c.screenW, c.screenH)
		}
	}
}
