package compositor

// ClientProbe abstracts the WM_STATE presence check and child walk
// find_client_win needs, so the depth-first search for the
// WM_STATE-bearing client window inside a possibly-reparented frame can
// be tested without a live X connection.
type ClientProbe interface {
	HasWMState(win uint32) bool
	Children(win uint32) []uint32
}

// FindClientWin walks win's subtree depth-first looking for the first
// descendant (including win itself) carrying a WM_STATE property,
// matching find_client_win's handling of window manager reparenting:
// the window a client actually draws into is often several levels below
// the top-level frame the window manager created.
func FindClientWin(p ClientProbe, win uint32) (uint32, bool) {
	if p.HasWMState(win) {
		return win, true
	}
	for _, child := range p.Children(win) {
		if client, ok := FindClientWin(p, child); ok {
			return client, true
		}
	}
	return 0, false
}

// IsGTKFrameExtent reports whether a window is one of GTK's invisible
// client-side-decoration helper windows: such windows carry a
// _GTK_FRAME_EXTENTS property with exactly 4 CARDINAL values (left,
// right, top, bottom) and must never receive their own drop shadow.
func IsGTKFrameExtent(cardinalCount int, propertyPresent bool) bool {
	return propertyPresent && cardinalCount == 4
}
