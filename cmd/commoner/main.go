// Commoner is an X11 compositing manager: it redirects every top-level
// window into off-screen storage, draws them into a GPU-backed overlay
// with drop shadows and opacity fading, and composites the desktop's
// background pixmap underneath.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/composite"
	"github.com/BurntSushi/xgb/damage"
	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/dancingmirror/commoner/internal/compositor"
	"github.com/dancingmirror/commoner/internal/config"
	"github.com/dancingmirror/commoner/internal/gpu"
	"github.com/dancingmirror/commoner/internal/shadow"
	"github.com/dancingmirror/commoner/internal/xlog"
)

const daemonChildEnv = "COMMONER_DAEMON_CHILD"

func main() {
	opts, err := config.ParseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if opts.ShowVersion {
		fmt.Println("commoner (development build)")
		os.Exit(0)
	}

	if opts.Daemonize && os.Getenv(daemonChildEnv) == "" {
		daemonize()
		return
	}

	log := xlog.New("commoner: ", opts.Debug)

	if err := run(opts, log); err != nil {
		fmt.Fprintln(os.Stderr, "commoner:", err)
		os.Exit(1)
	}
}

// daemonize re-execs the current binary with daemonChildEnv set and its
// own session, matching daemonize()'s fork/setsid/fork/chdir/redirect
// sequence: Go's runtime can't safely call the raw fork(2) the original
// uses once other goroutines exist, so the double fork is replaced by a
// single re-exec into a new session, which gives the same "detach from
// the controlling terminal, survive the parent's exit" guarantee.
func daemonize() {
	devnull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		fmt.Fprintln(os.Stderr, "commoner: open /dev/null:", err)
		os.Exit(1)
	}
	defer devnull.Close()

	cmd := exec.Command(os.Args[0], os.Args[1:]...)
	cmd.Env = append(os.Environ(), daemonChildEnv+"=1")
	cmd.Stdin = devnull
	cmd.Stdout = devnull
	cmd.Stderr = devnull
	cmd.Dir = "/"
	cmd.SysProcAttr = daemonSysProcAttr()

	if err := cmd.Start(); err != nil {
		fmt.Fprintln(os.Stderr, "commoner: failed to start daemon:", err)
		os.Exit(1)
	}
	os.Exit(0)
}

// rootEventMask is the set of root-window events the compositor needs:
// SubstructureNotify for create/destroy/map/unmap/configure/circulate/
// reparent, PropertyChange for the root background atoms, Exposure for
// damage on the root window itself, and FocusChange to drive the
// inactive-window dim policy.
const rootEventMask = xproto.EventMaskSubstructureNotify |
	xproto.EventMaskPropertyChange |
	xproto.EventMaskExposure |
	xproto.EventMaskFocusChange

func run(opts config.Options, log *xlog.Logger) error {
	conn, err := xgb.NewConnDisplay(opts.Display)
	if err != nil {
		return fmt.Errorf("connect to X display: %w", err)
	}
	defer conn.Close()

	if err := composite.Init(conn); err != nil {
		return fmt.Errorf("query Composite extension: %w", err)
	}
	if err := damage.Init(conn); err != nil {
		return fmt.Errorf("query Damage extension: %w", err)
	}
	if err := shape.Init(conn); err != nil {
		return fmt.Errorf("query Shape extension: %w", err)
	}

	setup := xproto.Setup(conn)
	screen := setup.Roots[conn.DefaultScreen]

	selOwner := &compositor.XSelectionOwner{Conn: conn, Root: screen.Root}
	selWin, err := compositor.AcquireManagerSelection(selOwner, conn.DefaultScreen)
	if err != nil {
		return err
	}
	log.Debugf("acquired compositing manager selection on window 0x%x", selWin)

	err = xproto.ChangeWindowAttributesChecked(
		conn, screen.Root, xproto.CwEventMask, []uint32{rootEventMask},
	).Check()
	if err != nil {
		return fmt.Errorf("select root window events: %w", err)
	}

	surface, err := gpu.NewGLXSurface(opts.Display)
	if err != nil {
		return fmt.Errorf("create GLX surface: %w", err)
	}
	defer surface.Close()

	glctx, ok := gpu.NewContext(uint32(screen.Root), surface.Bind)
	if !ok {
		return errors.New("failed to bind GL context to the root window")
	}

	renderer, err := gpu.NewRenderer(glctx, int(screen.WidthInPixels), int(screen.HeightInPixels))
	if err != nil {
		return fmt.Errorf("create GPU renderer: %w", err)
	}
	defer renderer.Release()

	registry := compositor.NewRegistry()

	driver := &compositor.Driver{
		Registry: registry,
		Surface:  renderer,
		ScreenW:  int32(screen.WidthInPixels),
		ScreenH:  int32(screen.HeightInPixels),
	}

	windows, err := compositor.NewXWindowSource(conn, glctx)
	if err != nil {
		return fmt.Errorf("prepare window property atoms: %w", err)
	}
	backgrounds, err := compositor.NewXBackgroundSource(conn, glctx, screen.Root)
	if err != nil {
		return fmt.Errorf("prepare root background atoms: %w", err)
	}
	redirector := &compositor.XRedirector{Conn: conn, Root: screen.Root}
	shadows := &compositor.XShadowSource{
		Ctx:    glctx,
		Tables: shadow.NewTables(shadow.NewMap(float64(opts.ShadowRadius))),
	}

	var animator *compositor.Animator
	if opts.FadeEnabled {
		animator = &compositor.Animator{FadeInStep: opts.FadeInStep, FadeOutStep: opts.FadeOutStep}
	}

	loop := &compositor.Loop{
		Registry:  registry,
		Driver:    driver,
		Configure: compositor.NewConfigureCoalescer(compositor.ConfigureCoalesceWindow),
		ScreenW:   int32(screen.WidthInPixels),
		ScreenH:   int32(screen.HeightInPixels),
		Root:      uint32(screen.Root),

		Windows:     windows,
		Backgrounds: backgrounds,
		Shadows:     shadows,
		Redirect:    redirector,

		RootBG: &compositor.Background{},

		Animator:  animator,
		FadeDelta: opts.FadeDelta,

		ShadowOpacity: opts.ShadowOpacity,
		ShadowDX:      int32(opts.ShadowLeft),
		ShadowDY:      int32(opts.ShadowTop),

		InactiveOpacity: opts.InactiveOpacity,

		UnredirEnabled: opts.UnredirIfPossible,

		SelectionWindow: selWin,
	}

	if err := redirector.RedirectAll(); err != nil {
		return fmt.Errorf("redirect root subwindows: %w", err)
	}
	loop.SetRedirected(true)

	if err := adoptExistingWindows(conn, loop, screen.Root); err != nil {
		log.Debugf("adopting pre-existing windows: %v", err)
	}

	return loop.Run(conn)
}

// adoptExistingWindows walks the root window's current children and
// registers them with loop as though each had just been created, so
// windows already on screen when commoner starts are composited
// immediately instead of only after their next geometry change.
func adoptExistingWindows(conn *xgb.Conn, loop *compositor.Loop, root xproto.Window) error {
	tree, err := xproto.QueryTree(conn, root).Reply()
	if err != nil {
		return fmt.Errorf("query root window tree: %w", err)
	}

	existing := make([]compositor.ExistingWindow, 0, len(tree.Children))
	for _, child := range tree.Children {
		geom, err := xproto.GetGeometry(conn, xproto.Drawable(child)).Reply()
		if err != nil {
			continue
		}
		attrs, err := xproto.GetWindowAttributes(conn, child).Reply()
		if err != nil {
			continue
		}
		existing = append(existing, compositor.ExistingWindow{
			ID:               uint32(child),
			X:                int32(geom.X),
			Y:                int32(geom.Y),
			Width:            int32(geom.Width),
			Height:           int32(geom.Height),
			BorderWidth:      int32(geom.BorderWidth),
			Depth:            geom.Depth,
			OverrideRedirect: attrs.OverrideRedirect,
			Mapped:           attrs.MapState == xproto.MapStateViewable,
		})
	}
	loop.AdoptExisting(existing)
	return nil
}
