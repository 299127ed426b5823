package compositor

import (
	"testing"

	"github.com/BurntSushi/xgb/xproto"
	"golang.org/x/mobile/gl"
)

func newLoop() *Loop {
	r := NewRegistry()
	return &Loop{Registry: r, Configure: NewConfigureCoalescer(ConfigureCoalesceWindow)}
}

func TestHandleEventCreateNotifyAddsWindow(t *testing.T) {
	l := newLoop()
	l.HandleEvent(xproto.CreateNotifyEvent{
		Window: 7, X: 1, Y: 2, Width: 100, Height: 50, BorderWidth: 1,
	})
	w, ok := l.Registry.FindWin(7)
	if !ok {
		t.Fatalf("expected window 7 to be registered")
	}
	if w.X != 1 || w.Y != 2 || w.Width != 100 || w.Height != 50 {
		t.Fatalf("unexpected geometry: %+v", w)
	}
	if !l.Dirty {
		t.Fatalf("expected CreateNotify to mark the loop dirty")
	}
}

func TestHandleEventDestroyNotifyRemovesWindow(t *testing.T) {
	l := newLoop()
	l.Registry.AddWin(7, 0)
	l.HandleEvent(xproto.DestroyNotifyEvent{Window: 7})
	if _, ok := l.Registry.FindWin(7); ok {
		t.Fatalf("expected window 7 to be removed")
	}
}

func TestHandleEventMapNotifySetsMappedAndTargetsOpaque(t *testing.T) {
	l := newLoop()
	w := l.Registry.AddWin(7, 0)
	w.Fade.Unmapped = true
	w.Fade.TargetOpacity = 0
	l.HandleEvent(xproto.MapNotifyEvent{Window: 7})
	if !w.Mapped || w.Fade.Unmapped || w.Fade.TargetOpacity != Opaque {
		t.Fatalf("unexpected state after MapNotify: %+v", w)
	}
}

func TestHandleEventUnmapNotifyTargetsZero(t *testing.T) {
	l := newLoop()
	w := l.Registry.AddWin(7, 0)
	w.Mapped = true
	w.Fade.TargetOpacity = Opaque
	l.HandleEvent(xproto.UnmapNotifyEvent{Window: 7})
	if w.Mapped || !w.Fade.Unmapped || w.Fade.TargetOpacity != 0 {
		t.Fatalf("unexpected state after UnmapNotify: %+v", w)
	}
}

func TestHandleEventConfigureNotifyUpdatesGeometryAndStacking(t *testing.T) {
	l := newLoop()
	l.Registry.AddWin(1, 0)
	l.Registry.AddWin(2, 0)
	assertOrder(t, l.Registry, 2, 1)

	l.HandleEvent(xproto.ConfigureNotifyEvent{
		Window: 2, X: 5, Y: 6, Width: 200, Height: 150, AboveSibling: 1,
	})
	w, _ := l.Registry.FindWin(2)
	if w.X != 5 || w.Y != 6 || w.Width != 200 || w.Height != 150 {
		t.Fatalf("unexpected geometry after ConfigureNotify: %+v", w)
	}
	assertOrder(t, l.Registry, 1, 2)
}

func TestHandleEventConfigureNotifyUnknownWindowIgnored(t *testing.T) {
	l := newLoop()
	l.HandleEvent(xproto.ConfigureNotifyEvent{Window: 99})
}

func TestHandleEventCirculateNotifyOnTop(t *testing.T) {
	l := newLoop()
	l.Registry.AddWin(1, 0)
	l.Registry.AddWin(2, 0)
	assertOrder(t, l.Registry, 2, 1)

	l.HandleEvent(xproto.CirculateNotifyEvent{Window: 2, Place: xproto.PlaceOnTop})
	assertOrder(t, l.Registry, 1, 2)
	if !l.Dirty {
		t.Fatalf("expected CirculateNotify to mark the loop dirty")
	}
}

func TestHandleEventCirculateNotifyOnBottom(t *testing.T) {
	l := newLoop()
	l.Registry.AddWin(1, 0)
	l.Registry.AddWin(2, 0)
	assertOrder(t, l.Registry, 2, 1)

	l.HandleEvent(xproto.CirculateNotifyEvent{Window: 1, Place: xproto.PlaceOnBottom})
	assertOrder(t, l.Registry, 1, 2)
}

func TestHandleEventFocusInOutAppliesInactiveOpacity(t *testing.T) {
	l := newLoop()
	l.InactiveOpacity = 0.5
	a := l.Registry.AddWin(1, 0)
	a.Mapped = true
	b := l.Registry.AddWin(2, 0)
	b.Mapped = true

	l.HandleEvent(xproto.FocusInEvent{Event: 1})
	if a.Fade.TargetOpacity != Opaque {
		t.Fatalf("focused window should target full opacity, got %d", a.Fade.TargetOpacity)
	}
	if b.Fade.TargetOpacity == Opaque {
		t.Fatalf("unfocused window should be dimmed")
	}

	l.HandleEvent(xproto.FocusOutEvent{Event: 1})
	if l.Focused != 0 {
		t.Fatalf("expected focus to clear")
	}
}

func TestHandleEventSelectionClearOfOwnWindowRequestsExit(t *testing.T) {
	l := newLoop()
	l.SelectionWindow = 42
	l.HandleEvent(xproto.SelectionClearEvent{Owner: 42})
	if !l.exitRequested {
		t.Fatalf("expected losing the selection to request exit")
	}
}

func TestHandleEventSelectionClearOfOtherWindowIgnored(t *testing.T) {
	l := newLoop()
	l.SelectionWindow = 42
	l.HandleEvent(xproto.SelectionClearEvent{Owner: 7})
	if l.exitRequested {
		t.Fatalf("expected an unrelated SelectionClear to be ignored")
	}
}

func TestHandleEventExposeOnRootMarksDirty(t *testing.T) {
	l := newLoop()
	l.Root = 1
	l.HandleEvent(xproto.ExposeEvent{Window: 1})
	if !l.Dirty {
		t.Fatalf("expected Expose on the root window to mark the loop dirty")
	}
}

func TestHandleEventExposeOnOtherWindowIgnored(t *testing.T) {
	l := newLoop()
	l.Root = 1
	l.HandleEvent(xproto.ExposeEvent{Window: 2})
	if l.Dirty {
		t.Fatalf("expected Expose on a non-root window to be ignored")
	}
}

func TestSetTargetOpacitySnapsWhenFadingDisabled(t *testing.T) {
	l := newLoop()
	w := l.Registry.AddWin(1, 0)
	l.setTargetOpacity(w, Opaque)
	if w.Fade.Opacity != Opaque {
		t.Fatalf("expected opacity to snap to target with no animator, got %d", w.Fade.Opacity)
	}
}

func TestStepAnimationsClearsTextureOnFadeOutFinish(t *testing.T) {
	l := newLoop()
	l.Animator = NewAnimator()
	w := l.Registry.AddWin(1, 0)
	w.SetTexture(gl.Texture{Value: 5})
	w.Fade.Opacity = 1
	w.Fade.TargetOpacity = 0
	w.Fade.Unmapped = true

	for i := 0; i < 50 && w.HasTexture(); i++ {
		l.stepAnimations()
	}
	if w.HasTexture() {
		t.Fatalf("expected texture to be cleared once fade-out finished")
	}
}
