package compositor

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// internAtom looks up (creating if necessary) the X atom for name, the
// InternAtom round-trip register_cm, the background tracker, and the
// opacity/window-type property readers all need.
func internAtom(conn *xgb.Conn, name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, err
	}
	return reply.Atom, nil
}
