package compositor

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// XSelectionOwner implements SelectionOwner against a live X connection,
// grounded on register_cm's XInternAtom/XGetSelectionOwner/
// XCreateSimpleWindow/Xutf8SetWMProperties/XSetSelectionOwner sequence.
type XSelectionOwner struct {
	Conn *xgb.Conn
	Root xproto.Window
}

func (x *XSelectionOwner) atom(name string) (xproto.Atom, error) {
	return internAtom(x.Conn, name)
}

// CurrentOwner implements SelectionOwner.
func (x *XSelectionOwner) CurrentOwner(atomName string) (uint32, error) {
	a, err := x.atom(atomName)
	if err != nil {
		return 0, err
	}
	reply, err := xproto.GetSelectionOwner(x.Conn, a).Reply()
	if err != nil {
		return 0, err
	}
	return uint32(reply.Owner), nil
}

// CreateOwnerWindow implements SelectionOwner: a 1x1 unmapped window,
// matching register_cm's XCreateSimpleWindow(..., 0, 0, 1, 1, ...), with
// WM_NAME/_NET_WM_NAME set to name via UTF8_STRING properties in place
// of Xutf8SetWMProperties (which also sets WM_CLASS/WM_ICON_NAME; those
// aren't read by anything that queries the compositor's selection
// window, so they're not reproduced here).
func (x *XSelectionOwner) CreateOwnerWindow(name string) (uint32, error) {
	id, err := x.Conn.NewId()
	if err != nil {
		return 0, err
	}
	win := xproto.Window(id)

	err = xproto.CreateWindowChecked(
		x.Conn, 0, win, x.Root,
		0, 0, 1, 1, 0,
		xproto.WindowClassInputOutput, 0,
		0, nil,
	).Check()
	if err != nil {
		return 0, err
	}

	utf8String, err := x.atom("UTF8_STRING")
	if err != nil {
		return 0, err
	}
	for _, propName := range []string{"_NET_WM_NAME", "WM_NAME"} {
		prop, err := x.atom(propName)
		if err != nil {
			return 0, err
		}
		err = xproto.ChangePropertyChecked(
			x.Conn, xproto.PropModeReplace, win, prop, utf8String, 8,
			uint32(len(name)), []byte(name),
		).Check()
		if err != nil {
			return 0, err
		}
	}

	return uint32(win), nil
}

// SetOwner implements SelectionOwner.
func (x *XSelectionOwner) SetOwner(atomName string, win uint32) error {
	a, err := x.atom(atomName)
	if err != nil {
		return err
	}
	return xproto.SetSelectionOwnerChecked(
		x.Conn, xproto.Window(win), a, xproto.TimeCurrentTime,
	).Check()
}
