package compositor

// windowTypeAtoms maps _NET_WM_WINDOW_TYPE atom names to the canonical
// type strings the rest of the compositor switches on, in the same
// priority order commoner.c's win_type[] array checks them.
var windowTypeAtoms = []struct {
	atom string
	name string
}{
	{"_NET_WM_WINDOW_TYPE_DESKTOP", "desktop"},
	{"_NET_WM_WINDOW_TYPE_DOCK", "dock"},
	{"_NET_WM_WINDOW_TYPE_TOOLBAR", "toolbar"},
	{"_NET_WM_WINDOW_TYPE_MENU", "menu"},
	{"_NET_WM_WINDOW_TYPE_UTILITY", "utility"},
	{"_NET_WM_WINDOW_TYPE_SPLASH", "splash"},
	{"_NET_WM_WINDOW_TYPE_DIALOG", "dialog"},
	{"_NET_WM_WINDOW_TYPE_NORMAL", "normal"},
	{"_NET_WM_WINDOW_TYPE_DROPDOWN_MENU", "dropdown_menu"},
	{"_NET_WM_WINDOW_TYPE_POPUP_MENU", "popup_menu"},
	{"_NET_WM_WINDOW_TYPE_TOOLTIP", "tooltip"},
	{"_NET_WM_WINDOW_TYPE_NOTIFICATION", "notify"},
	{"_NET_WM_WINDOW_TYPE_COMBO", "combo"},
	{"_NET_WM_WINDOW_TYPE_DND", "dnd"},
}

// typeByAtom returns the canonical type name for a single
// _NET_WM_WINDOW_TYPE atom name, or "" if it names no recognized type.
func typeByAtom(atom string) string {
	for _, e := range windowTypeAtoms {
		if e.atom == atom {
			return e.name
		}
	}
	return ""
}

// firstRecognizedType scans the window's own _NET_WM_WINDOW_TYPE property
// values (already resolved from atoms to names by the caller) in the
// order they were set on the window and returns the first one that
// matches a recognized type, or "" if none do.
func firstRecognizedType(propertyAtoms []string) string {
	for _, a := range propertyAtoms {
		if t := typeByAtom(a); t != "" {
			return t
		}
	}
	return ""
}

// TypeProbe abstracts the pieces of window-tree introspection
// classifyWindowType needs: a window's own _NET_WM_WINDOW_TYPE atoms and
// its immediate children, so the depth-first walk of determine_wintype
// can be unit tested without a live X connection.
type TypeProbe interface {
	OwnTypeAtoms(win uint32) []string
	Children(win uint32) []uint32
}

// classifyWindowType reproduces determine_wintype's depth-first search:
// check win's own property, then recurse into each child in order: the
// first recognized type anywhere in the subtree wins. If nothing in the
// subtree declares a type, win itself (the original top-level query) is
// classified "normal" — WM_STATE-bearing client windows with no explicit
// _NET_WM_WINDOW_TYPE are ordinary application windows by convention.
func classifyWindowType(p TypeProbe, win uint32, top uint32) string {
	if t := firstRecognizedType(p.OwnTypeAtoms(win)); t != "" {
		return t
	}
	for _, child := range p.Children(win) {
		if t := classifyWindowType(p, child, top); t != "" {
			return t
		}
	}
	if win == top {
		return "normal"
	}
	return ""
}

// ClassifyWindowType runs classifyWindowType starting from win as its own
// top, matching determine_wintype(dpy, id, id) at add_win time.
func ClassifyWindowType(p TypeProbe, win uint32) string {
	return classifyWindowType(p, win, win)
}
