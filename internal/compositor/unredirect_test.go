package compositor

import "testing"

func fullscreenWindow(screenW, screenH int32) *Window {
	return &Window{
		X: 0, Y: 0, Width: screenW, Height: screenH,
		Mapped:     true,
		Fade:       FadeState{Opacity: Opaque},
		WindowType: "normal",
	}
}

func TestIsFullscreenExactMatch(t *testing.T) {
	w := fullscreenWindow(1920, 1080)
	if !IsFullscreen(w, 1920, 1080) {
		t.Fatalf("expected exact-size window to be fullscreen")
	}
}

func TestIsFullscreenRejectsOffsetOrigin(t *testing.T) {
	w := fullscreenWindow(1920, 1080)
	w.X = 10
	if IsFullscreen(w, 1920, 1080) {
		t.Fatalf("expected a window with x > 0 to not be fullscreen")
	}
}

func TestIsFullscreenRejectsUndersized(t *testing.T) {
	w := fullscreenWindow(1920, 1080)
	w.Width = 1024
	if IsFullscreen(w, 1920, 1080) {
		t.Fatalf("expected an undersized window to not be fullscreen")
	}
}

func TestCheckUnredirectDisabledKeepsCurrent(t *testing.T) {
	w := fullscreenWindow(1920, 1080)
	got := CheckUnredirect([]*Window{w}, 1920, 1080, false, true)
	if got != KeepCurrent {
		t.Fatalf("got %v, want KeepCurrent when unredirect-if-possible is disabled", got)
	}
}

func TestCheckUnredirectFullscreenOpaqueTriggersUnredirect(t *testing.T) {
	w := fullscreenWindow(1920, 1080)
	got := CheckUnredirect([]*Window{w}, 1920, 1080, true, true)
	if got != ShouldUnredirect {
		t.Fatalf("got %v, want ShouldUnredirect", got)
	}
}

func TestCheckUnredirectAlreadyUnredirectedKeepsCurrent(t *testing.T) {
	w := fullscreenWindow(1920, 1080)
	got := CheckUnredirect([]*Window{w}, 1920, 1080, true, false)
	if got != KeepCurrent {
		t.Fatalf("got %v, want KeepCurrent: already unredirected, nothing to do", got)
	}
}

func TestCheckUnredirectNoFullscreenWindowTriggersRedirect(t *testing.T) {
	w := fullscreenWindow(1920, 1080)
	w.Width = 800
	got := CheckUnredirect([]*Window{w}, 1920, 1080, true, false)
	if got != ShouldRedirect {
		t.Fatalf("got %v, want ShouldRedirect: no fullscreen window, must be redirected", got)
	}
}

func TestCheckUnredirectTransparentFullscreenDoesNotUnredirect(t *testing.T) {
	w := fullscreenWindow(1920, 1080)
	w.Fade.Opacity = Opaque / 2
	got := CheckUnredirect([]*Window{w}, 1920, 1080, true, true)
	if got != KeepCurrent {
		t.Fatalf("got %v, want KeepCurrent: a translucent fullscreen window must not trigger unredirect", got)
	}
}

func TestCheckUnredirectExcludedTypeIgnored(t *testing.T) {
	w := fullscreenWindow(1920, 1080)
	w.WindowType = "splash"
	got := CheckUnredirect([]*Window{w}, 1920, 1080, true, false)
	if got != ShouldRedirect {
		t.Fatalf("got %v, want ShouldRedirect: a fullscreen splash window must not count as unredirect-possible", got)
	}
}

func TestCheckUnredirectUnmappedIgnored(t *testing.T) {
	w := fullscreenWindow(1920, 1080)
	w.Mapped = false
	got := CheckUnredirect([]*Window{w}, 1920, 1080, true, false)
	if got != ShouldRedirect {
		t.Fatalf("got %v, want ShouldRedirect: an unmapped window must not count", got)
	}
}
