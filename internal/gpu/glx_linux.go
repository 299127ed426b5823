// +build linux

package gpu

/*
#cgo LDFLAGS: -lGL -lX11
#include <X11/Xlib.h>
#include <GL/glx.h>
#include <stdlib.h>

static GLXContext commoner_create_context(Display *dpy, int screen) {
	int attribs[] = {
		GLX_RGBA,
		GLX_DOUBLEBUFFER,
		GLX_RED_SIZE, 8,
		GLX_GREEN_SIZE, 8,
		GLX_BLUE_SIZE, 8,
		GLX_ALPHA_SIZE, 8,
		GLX_DEPTH_SIZE, 0,
		None,
	};
	XVisualInfo *vi = glXChooseVisual(dpy, screen, attribs);
	if (vi == NULL) {
		return NULL;
	}
	GLXContext ctx = glXCreateContext(dpy, vi, NULL, True);
	XFree(vi);
	return ctx;
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// GLXSurface binds an X window to a GLX-backed GL context over a dedicated
// Xlib connection, the way the teacher's gldriver splits surface bring-up
// into a per-platform cgo file (cocoa.go, win32.go): glXCreateContext and
// glXMakeCurrent have no pure-Go binding, so a second, cgo-only Xlib
// connection is opened purely to drive GLX, alongside the xgb protocol
// connection the rest of the compositor uses for everything else.
type GLXSurface struct {
	dpy    *C.Display
	screen C.int
	ctx    C.GLXContext
}

// NewGLXSurface opens a second Xlib connection to the same display the
// xgb connection uses, purely to drive GLX context creation.
func NewGLXSurface(displayName string) (*GLXSurface, error) {
	var cname *C.char
	if displayName != "" {
		cname = C.CString(displayName)
		defer C.free(unsafe.Pointer(cname))
	}

	dpy := C.XOpenDisplay(cname)
	if dpy == nil {
		return nil, fmt.Errorf("gpu: XOpenDisplay(%q) failed", displayName)
	}

	screen := C.XDefaultScreen(dpy)
	ctx := C.commoner_create_context(dpy, screen)
	if ctx == nil {
		C.XCloseDisplay(dpy)
		return nil, fmt.Errorf("gpu: glXChooseVisual/glXCreateContext found no suitable visual")
	}

	return &GLXSurface{dpy: dpy, screen: screen, ctx: ctx}, nil
}

// Bind implements NativeSurface: makes win (an X window on the same
// display) current for the GLX context on the calling OS thread.
func (s *GLXSurface) Bind(win uint32) bool {
	return C.glXMakeCurrent(s.dpy, C.GLXDrawable(win), s.ctx) != 0
}

// Close releases the GLX context and its dedicated Xlib connection.
func (s *GLXSurface) Close() {
	C.glXDestroyContext(s.dpy, s.ctx)
	C.XCloseDisplay(s.dpy)
}
