package compositor

import (
	"errors"
	"testing"
)

type fakeSelectionOwner struct {
	owner        uint32
	createErr    error
	setErr       error
	createdName  string
	nextWin      uint32
	setOwnerAtom string
	setOwnerWin  uint32
}

func (f *fakeSelectionOwner) CurrentOwner(atom string) (uint32, error) {
	return f.owner, nil
}

func (f *fakeSelectionOwner) CreateOwnerWindow(name string) (uint32, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.createdName = name
	return f.nextWin, nil
}

func (f *fakeSelectionOwner) SetOwner(atom string, win uint32) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.setOwnerAtom = atom
	f.setOwnerWin = win
	return nil
}

func TestSelectionNameFormatsScreenNumber(t *testing.T) {
	if got := SelectionName(0); got != "_NET_WM_CM_S0" {
		t.Fatalf("got %q, want _NET_WM_CM_S0", got)
	}
	if got := SelectionName(2); got != "_NET_WM_CM_S2" {
		t.Fatalf("got %q, want _NET_WM_CM_S2", got)
	}
}

func TestAcquireManagerSelectionSucceedsWhenUnowned(t *testing.T) {
	f := &fakeSelectionOwner{nextWin: 77}
	win, err := AcquireManagerSelection(f, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if win != 77 {
		t.Fatalf("got window %d, want 77", win)
	}
	if f.createdName != "commoner" {
		t.Fatalf("got window name %q, want commoner", f.createdName)
	}
	if f.setOwnerAtom != "_NET_WM_CM_S0" || f.setOwnerWin != 77 {
		t.Fatalf("selection not installed on the right atom/window: %q/%d", f.setOwnerAtom, f.setOwnerWin)
	}
}

func TestAcquireManagerSelectionFailsWhenAlreadyOwned(t *testing.T) {
	f := &fakeSelectionOwner{owner: 42}
	_, err := AcquireManagerSelection(f, 0)
	if !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("got err %v, want ErrAlreadyRunning", err)
	}
	if f.createdName != "" {
		t.Fatalf("expected no owner window to be created when already running")
	}
}

func TestAcquireManagerSelectionPropagatesCreateError(t *testing.T) {
	wantErr := errors.New("x11 boom")
	f := &fakeSelectionOwner{createErr: wantErr}
	_, err := AcquireManagerSelection(f, 0)
	if err == nil || !errors.Is(err, wantErr) {
		t.Fatalf("got %v, want wrapped %v", err, wantErr)
	}
}
