package gpu

import (
	"runtime"

	"golang.org/x/mobile/gl"
)

// NativeSurface creates (or recreates, on resize) the platform GL surface
// backing win and returns true once it is current on the calling
// goroutine. It is the one piece of context bring-up that is inherently
// platform-specific (GLX/EGL against the X11 connection) and is supplied
// by a build-tag-separated file, the way gldriver splits surfaceCreate
// across per-platform files never included in this tree.
type NativeSurface func(win uint32) bool

// NewContext creates a GL ES context with a dedicated worker goroutine
// pumping its call queue, pinning that goroutine to an OS thread so the
// platform's GL context-current state stays valid across calls.
// Mirrors gldriver's NewContext/surfaceCreate split exactly.
func NewContext(win uint32, surface NativeSurface) (gl.Context, bool) {
	glctx, worker := gl.NewContext()

	okCh := make(chan bool, 1)
	go func() {
		runtime.LockOSThread()
		ok := surface(win)
		okCh <- ok
		if !ok {
			return
		}
		workAvailable := worker.WorkAvailable()
		for {
			<-workAvailable
			worker.DoWork()
		}
	}()
	return glctx, <-okCh
}
