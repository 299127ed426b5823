package compositor

import (
	"errors"
	"time"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/damage"
	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xproto"
	"golang.org/x/mobile/gl"

	"github.com/dancingmirror/commoner/internal/shadow"
)

// ErrSelectionLost is returned by Run once a SelectionClear reports that
// another process has taken over the compositing manager selection,
// matching the original's exit-on-SelectionClear behavior in register_cm.
var ErrSelectionLost = errors.New("compositor: lost the compositing manager selection")

// EventSource abstracts the one xgb.Conn method the dispatch loop needs,
// so HandleEvent's per-event-type routing can be exercised without a
// live X connection; Loop.Run uses it to pull events off the wire.
type EventSource interface {
	WaitForEvent() (xgb.Event, error)
}

// WindowSource abstracts the per-window X queries the loop performs when a
// window is created, mapped, or damaged: classifying its type (classify.go),
// finding its WM_STATE-bearing client window (clientwin.go), tracking its
// damage object, and turning damaged contents into a GL texture.
type WindowSource interface {
	TypeProbe
	ClientProbe

	MatchesOpacity(atom xproto.Atom) bool
	WindowOpacity(win uint32) (uint32, bool)

	CreateDamage(win uint32) (damageID uint32, ok bool)
	SubtractDamage(damageID uint32)

	FetchTexture(win uint32) (gl.Texture, bool)
}

// BackgroundSource abstracts the root-background pixmap queries
// background.go's tracker is driven by once a PropertyNotify on
// _XROOTPMAP_ID/_XSETROOT_ID arrives.
type BackgroundSource interface {
	MatchesRootBackground(atom xproto.Atom) bool
	RootPixmap() (RootPixmap, bool)
	FetchBackgroundTexture(p RootPixmap) (gl.Texture, RootPixmapGeometry, bool)
}

// ShadowSource builds the shadow texture a newly classified window needs,
// from the presummed tables internal/shadow computes once at startup.
type ShadowSource interface {
	BuildShadowTexture(opacity float64, width, height int32) (tex gl.Texture, w, h int32, ok bool)
}

// Redirector issues the composite redirect/unredirect calls
// unredirect.go's CheckUnredirect decides between.
type Redirector interface {
	RedirectAll() error
	UnredirectAll() error
}

// ExistingWindow describes a window discovered at startup via QueryTree,
// replayed through the same classify/damage-tracking path a CreateNotify
// gets: a compositor launched onto an already-running session must adopt
// every window that already exists rather than waiting for new ones.
type ExistingWindow struct {
	ID                               uint32
	X, Y, Width, Height, BorderWidth int32
	Depth                            uint8
	OverrideRedirect                 bool
	Mapped                           bool
}

// Loop drives commoner's single-threaded, event-driven main loop: pull
// the next X event, mutate the registry/driver state it implies, and
// repaint once nothing is immediately pending, matching the original's
// poll()-select()-dispatch cycle in events.c.
type Loop struct {
	Registry  *Registry
	Driver    *Driver
	Configure *ConfigureCoalescer

	ScreenW, ScreenH int32
	Root             uint32

	// Windows, Backgrounds, Shadows and Redirect are the connection-
	// specific wrappers (see internal/compositor/xadapters.go) that issue
	// the actual X/GL calls the dispatch logic below decides to make; any
	// of them may be left nil (as the tests do) to exercise the pure
	// registry/state-machine logic without a live connection.
	Windows     WindowSource
	Backgrounds BackgroundSource
	Shadows     ShadowSource
	Redirect    Redirector

	// RootBG tracks the last root background pixmap/texture seen, so a
	// PropertyNotify that doesn't actually change the published pixmap is
	// a no-op (background.go's NeedsRefresh).
	RootBG *Background

	// Animator steps every window's fade state once per FadeDelta tick;
	// a nil Animator (fading disabled) skips ticking and snaps opacity
	// directly to its target instead.
	Animator  *Animator
	FadeDelta time.Duration

	ShadowOpacity      float64
	ShadowDX, ShadowDY int32

	// InactiveOpacity is the fade target applied to every window except
	// the currently focused one; 0 (or >= 1) disables inactive dimming.
	InactiveOpacity float64
	Focused         uint32

	// UnredirEnabled mirrors --unredir-if-possible; redirected tracks
	// whether the compositor currently has windows redirected, so
	// checkUnredirect only issues a composite call on an actual
	// transition.
	UnredirEnabled bool
	redirected     bool

	// SelectionWindow is the window commoner used to claim the
	// compositing-manager selection; losing it (SelectionClear) means
	// another compositor took over and this one should exit.
	SelectionWindow uint32
	exitRequested   bool

	damageIndex map[uint32]*Window

	// Dirty is set by HandleEvent whenever the event implies the next
	// repaint should actually run; Run clears it after painting.
	Dirty bool
}

// SetRedirected records the compositor's redirected/unredirected state as
// established at startup (main.go redirects every subwindow before the
// loop starts), so the first CheckUnredirect call sees accurate state.
func (l *Loop) SetRedirected(v bool) { l.redirected = v }

// AdoptExisting registers wins (given bottom-to-top, matching QueryTree's
// stacking order) as if each had just been created, classifying window
// type, tracking damage, and seeding fade state for windows already mapped.
func (l *Loop) AdoptExisting(wins []ExistingWindow) {
	var below uint32
	for _, ew := range wins {
		w := l.Registry.AddWin(ew.ID, below)
		w.X, w.Y = ew.X, ew.Y
		w.Width, w.Height = ew.Width, ew.Height
		w.BorderWidth = ew.BorderWidth
		w.Depth = ew.Depth
		w.OverrideRedirect = ew.OverrideRedirect
		w.Mapped = ew.Mapped
		if w.Mapped {
			l.setTargetOpacity(w, Opaque)
		}
		l.classify(w)
		l.trackDamage(w)
		below = ew.ID
	}
	l.Dirty = true
}

// HandleEvent applies a single X event to the registry, matching the
// per-type handlers in original_source/commoner.c's event switch
// (map_win/unmap_win/add_win/destroy_win/restack_win equivalents plus the
// damage/focus/background/selection handling events.c's select() loop
// dispatches on).
func (l *Loop) HandleEvent(ev xgb.Event) {
	switch e := ev.(type) {
	case xproto.CreateNotifyEvent:
		w := l.Registry.AddWin(uint32(e.Window), 0)
		w.X, w.Y = int32(e.X), int32(e.Y)
		w.Width, w.Height = int32(e.Width), int32(e.Height)
		w.BorderWidth = int32(e.BorderWidth)
		w.OverrideRedirect = e.OverrideRedirect
		l.classify(w)
		l.trackDamage(w)
		l.Dirty = true

	case xproto.DestroyNotifyEvent:
		if w, ok := l.Registry.FindWin(uint32(e.Window)); ok {
			delete(l.damageIndex, w.DamageID)
		}
		l.Registry.Destroy(uint32(e.Window))
		l.Dirty = true

	case xproto.MapNotifyEvent:
		if w, ok := l.Registry.FindWin(uint32(e.Window)); ok {
			w.Mapped = true
			w.Fade.Unmapped = false
			l.setTargetOpacity(w, Opaque)
			if w.WindowType == "" {
				l.classify(w)
			}
			l.applyInactiveOpacity()
			l.Dirty = true
		}

	case xproto.UnmapNotifyEvent:
		if w, ok := l.Registry.FindWin(uint32(e.Window)); ok {
			w.Mapped = false
			w.Fade.Unmapped = true
			l.setTargetOpacity(w, 0)
			l.Dirty = true
		}

	case xproto.ConfigureNotifyEvent:
		l.handleConfigure(e)

	case xproto.CirculateNotifyEvent:
		if e.Place == xproto.PlaceOnTop {
			l.Registry.MoveToTop(uint32(e.Window))
		} else {
			l.Registry.MoveToBottom(uint32(e.Window))
		}
		l.Dirty = true

	case xproto.ReparentNotifyEvent:
		// Reparenting doesn't change stacking or geometry on its own;
		// the client-window walk re-runs lazily the next time the
		// window's type is (re)classified.

	case xproto.ExposeEvent:
		if uint32(e.Window) == l.Root {
			l.Dirty = true
		}

	case xproto.PropertyNotifyEvent:
		l.handleProperty(e)

	case xproto.FocusInEvent:
		l.Focused = uint32(e.Event)
		l.applyInactiveOpacity()

	case xproto.FocusOutEvent:
		if uint32(e.Event) == l.Focused {
			l.Focused = 0
		}
		l.applyInactiveOpacity()

	case xproto.SelectionClearEvent:
		if l.SelectionWindow != 0 && uint32(e.Owner) == l.SelectionWindow {
			l.exitRequested = true
		}

	case damage.NotifyEvent:
		l.handleDamage(e)

	case shape.NotifyEvent:
		// Only rectangular clip regions are modeled; a non-rectangular
		// shape still repaints with its bounding box, matching
		// ShapeBounding's extents rather than the exact region.
		l.Dirty = true

	default:
		// Any other extension event (xfixes selection-notify, etc.)
		// carries no state this loop tracks.
	}
}

// handleConfigure applies a ConfigureNotify's geometry and restacks the
// window, then asks the coalescer whether this is actually the moment
// to mark the frame dirty (see spec.md's configure-storm scenario): a
// burst of ConfigureNotify events during a drag only needs to repaint
// at the coalescer's cadence, not once per event.
func (l *Loop) handleConfigure(e xproto.ConfigureNotifyEvent) {
	w, ok := l.Registry.FindWin(uint32(e.Window))
	if !ok {
		return
	}
	w.X, w.Y = int32(e.X), int32(e.Y)
	w.Width, w.Height = int32(e.Width), int32(e.Height)
	w.BorderWidth = int32(e.BorderWidth)
	l.Registry.Restack(uint32(e.Window), uint32(e.AboveSibling))

	if l.Configure != nil && l.Configure.Request(time.Now()) {
		l.Dirty = true
	}
}

// handleProperty dispatches a PropertyNotify to the root-background
// tracker or a window's _NET_WM_WINDOW_OPACITY, whichever it names.
func (l *Loop) handleProperty(e xproto.PropertyNotifyEvent) {
	if uint32(e.Window) == l.Root {
		if l.Backgrounds != nil && l.Backgrounds.MatchesRootBackground(e.Atom) {
			l.refreshBackground()
		}
		return
	}

	w, ok := l.Registry.FindWin(uint32(e.Window))
	if !ok || l.Windows == nil || !l.Windows.MatchesOpacity(e.Atom) {
		return
	}
	if v, ok := l.Windows.WindowOpacity(w.Handle.ID); ok {
		l.setTargetOpacity(w, v)
	} else {
		l.setTargetOpacity(w, Opaque)
	}
	l.Dirty = true
}

// refreshBackground re-reads the root pixmap and rebuilds its texture if
// the tracker says it actually changed, matching update_root_background.
func (l *Loop) refreshBackground() {
	if l.RootBG == nil {
		return
	}
	pixmap, ok := l.Backgrounds.RootPixmap()
	if !ok {
		l.RootBG.Clear()
		l.Driver.HasRootBackground = false
		l.Dirty = true
		return
	}
	if !l.RootBG.NeedsRefresh(pixmap) {
		return
	}
	tex, geom, ok := l.Backgrounds.FetchBackgroundTexture(pixmap)
	if !ok || !UsableGeometry(geom, l.ScreenW, l.ScreenH) {
		return
	}
	l.RootBG.SetTexture(pixmap, tex)
	l.Driver.RootBackgroundTexture = tex
	l.Driver.HasRootBackground = true
	l.Dirty = true
}

// handleDamage looks up the window a damage object belongs to, re-fetches
// its texture, and acknowledges the damage so the server keeps reporting,
// matching paint_all's XDamageSubtract-then-redraw sequence.
func (l *Loop) handleDamage(e damage.NotifyEvent) {
	w, ok := l.damageIndex[uint32(e.Damage)]
	if !ok {
		return
	}
	if l.Windows != nil {
		l.Windows.SubtractDamage(uint32(e.Damage))
		if tex, ok := l.Windows.FetchTexture(w.Handle.ID); ok {
			w.SetTexture(tex)
		}
	}
	l.Dirty = true
}

// classify runs the window-type and client-window walks and decides the
// window's shadow, matching determine_wintype/find_client_win/
// win_extents's shadow_type computation at add_win time.
func (l *Loop) classify(w *Window) {
	if l.Windows == nil {
		return
	}
	w.WindowType = ClassifyWindowType(l.Windows, w.Handle.ID)
	if cw, ok := FindClientWin(l.Windows, w.Handle.ID); ok {
		w.ClientWin = cw
	}

	w.ShadowWanted = shadow.Wanted(shadow.WindowClass{
		Type:             w.WindowType,
		OverrideRedirect: w.OverrideRedirect,
		Solid:            w.Depth != 32,
	})
	if w.ShadowWanted && l.Shadows != nil {
		if tex, sw, sh, ok := l.Shadows.BuildShadowTexture(l.ShadowOpacity, w.Width, w.Height); ok {
			w.SetShadowTexture(tex)
			w.ShadowWidth, w.ShadowHeight = sw, sh
			w.ShadowDX, w.ShadowDY = l.ShadowDX, l.ShadowDY
		}
	}
}

// trackDamage creates win's damage object and indexes it so handleDamage
// can map a damage.NotifyEvent back to its window.
func (l *Loop) trackDamage(w *Window) {
	if l.Windows == nil {
		return
	}
	did, ok := l.Windows.CreateDamage(w.Handle.ID)
	if !ok {
		return
	}
	w.DamageID = did
	if l.damageIndex == nil {
		l.damageIndex = make(map[uint32]*Window)
	}
	l.damageIndex[did] = w
}

// setTargetOpacity sets a window's fade target, snapping its current
// opacity straight there when fading is disabled (l.Animator == nil), so
// a window still appears/disappears immediately rather than staying
// invisible forever with nothing ever stepping its opacity.
func (l *Loop) setTargetOpacity(w *Window, target uint32) {
	w.Fade.TargetOpacity = target
	if l.Animator == nil {
		w.Fade.Opacity = target
	}
}

// applyInactiveOpacity retargets every window's opacity to InactiveOpacity
// except the currently focused one, matching a compositor's inactive-dim
// policy driven off FocusIn/FocusOut.
func (l *Loop) applyInactiveOpacity() {
	if l.InactiveOpacity <= 0 || l.InactiveOpacity >= 1 {
		return
	}
	inactive := uint32(l.InactiveOpacity * float64(Opaque))
	for _, w := range l.Registry.Windows() {
		if !w.Mapped {
			continue
		}
		target := Opaque
		if w.Handle.ID != l.Focused {
			target = inactive
		}
		if w.Fade.TargetOpacity != target {
			l.setTargetOpacity(w, target)
			l.Dirty = true
		}
	}
}

// stepAnimations advances every window's fade state by one tick, matching
// fade_step's unconditional per-timer-fire step, and reclaims the texture
// of any window that finished fading out while unmapped.
func (l *Loop) stepAnimations() {
	if l.Animator == nil {
		return
	}
	for _, w := range l.Registry.Windows() {
		if l.Animator.Step(&w.Fade) {
			l.Dirty = true
		}
		if w.Fade.Finished {
			w.ClearTexture()
			w.Fade.Finished = false
		}
	}
}

// checkUnredirect runs unredirect.go's policy against the current window
// list and issues the composite call on an actual state transition,
// matching check_unredirect's redir_start/redir_stop calls.
func (l *Loop) checkUnredirect() {
	if l.Redirect == nil {
		return
	}
	switch CheckUnredirect(l.Registry.Windows(), l.ScreenW, l.ScreenH, l.UnredirEnabled, l.redirected) {
	case ShouldRedirect:
		if err := l.Redirect.RedirectAll(); err == nil {
			l.redirected = true
		}
	case ShouldUnredirect:
		if err := l.Redirect.UnredirectAll(); err == nil {
			l.redirected = false
		}
	}
}

// Run pulls events from src until it returns an error, applying each to
// the registry and repainting through drv once the event stream goes
// quiet, matching the original's "drain all pending X events, then
// paint once" loop structure. A background goroutine pumps src so events
// and the fade-animation ticker can be waited on together, mirroring
// events.c's select() with a timeout used to drive fade_step between
// X events.
func (l *Loop) Run(src EventSource) error {
	events := make(chan xgb.Event)
	errs := make(chan error, 1)
	go func() {
		for {
			ev, err := src.WaitForEvent()
			if err != nil {
				errs <- err
				return
			}
			events <- ev
		}
	}()

	var tick <-chan time.Time
	if l.Animator != nil && l.FadeDelta > 0 {
		ticker := time.NewTicker(l.FadeDelta)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case ev := <-events:
			if ev != nil {
				l.HandleEvent(ev)
			}
		case <-tick:
			l.stepAnimations()
		case err := <-errs:
			return err
		}

		if l.exitRequested {
			return ErrSelectionLost
		}
		if l.Dirty {
			l.Driver.Paint()
			l.checkUnredirect()
			l.Dirty = false
		}
	}
}
