package compositor

// excludedFromUnredirect lists window types that should never trigger
// fullscreen unredirection even when they happen to cover the whole
// screen: splash screens, menus and notification popups are exactly the
// kind of fullscreen-sized-but-transient window compositing still needs
// to sit underneath.
var excludedFromUnredirect = map[string]bool{
	"splash":        true,
	"tooltip":       true,
	"notify":        true,
	"menu":          true,
	"dropdown_menu": true,
	"popup_menu":    true,
	"combo":         true,
	"dnd":           true,
}

// IsFullscreen reports whether a window's bounds (including its border)
// fully cover a screenW x screenH root window, matching is_fullscreen.
func IsFullscreen(w *Window, screenW, screenH int32) bool {
	if w.X > 0 || w.Y > 0 {
		return false
	}
	right := w.X + w.Width + w.BorderWidth*2
	bottom := w.Y + w.Height + w.BorderWidth*2
	return right >= screenW && bottom >= screenH
}

// unredirectCandidate reports whether w alone makes unredirection
// possible: viewable, undamaged by transparency, covering the screen, and
// not one of the types check_unredirect always excludes.
func unredirectCandidate(w *Window, screenW, screenH int32) bool {
	if !w.Mapped || w.destroyed {
		return false
	}
	if w.Fade.Opacity != Opaque {
		return false
	}
	if excludedFromUnredirect[w.WindowType] {
		return false
	}
	return IsFullscreen(w, screenW, screenH)
}

// UnredirectDecision is the result of evaluating whether the compositor
// should currently have windows redirected (composited) or not.
type UnredirectDecision int

const (
	// KeepCurrent means neither should_redir nor should_unredir fired:
	// the current redirected/unredirected state should be left alone.
	KeepCurrent UnredirectDecision = iota
	// ShouldRedirect means a previously unredirected compositor must
	// redirect all windows again (redir_start).
	ShouldRedirect
	// ShouldUnredirect means a fullscreen opaque window makes
	// compositing pointless right now (redir_stop).
	ShouldUnredirect
)

// CheckUnredirect evaluates check_unredirect's policy: when unredirection
// of fullscreen windows is enabled, an opaque window that covers the
// entire screen (and isn't one of the always-excluded transient types)
// means the compositor gains nothing by staying redirected.
func CheckUnredirect(windows []*Window, screenW, screenH int32, enabled, redirected bool) UnredirectDecision {
	if !enabled {
		return KeepCurrent
	}

	possible := false
	for _, w := range windows {
		if unredirectCandidate(w, screenW, screenH) {
			possible = true
			break
		}
	}

	if possible {
		if redirected {
			return ShouldUnredirect
		}
		return KeepCurrent
	}
	if !redirected {
		return ShouldRedirect
	}
	return KeepCurrent
}
