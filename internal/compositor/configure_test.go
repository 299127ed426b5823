package compositor

import (
	"testing"
	"time"
)

func TestConfigureCoalescerServicesFirstRequestImmediately(t *testing.T) {
	c := NewConfigureCoalescer(ConfigureCoalesceWindow)
	t0 := time.Unix(0, 0)

	if !c.Idle() {
		t.Fatalf("expected fresh coalescer to be idle")
	}
	if !c.Request(t0) {
		t.Fatalf("expected the first request to be serviced immediately")
	}
	if c.Idle() {
		t.Fatalf("expected coalescer to be cooling down after servicing")
	}
}

func TestConfigureCoalescerMergesBurstWithinWindow(t *testing.T) {
	c := NewConfigureCoalescer(ConfigureCoalesceWindow)
	t0 := time.Unix(0, 0)

	c.Request(t0)
	if c.Request(t0.Add(500 * time.Microsecond)) {
		t.Fatalf("expected a request well within the coalescing window to be merged, not serviced")
	}
	if c.Request(t0.Add(1900 * time.Microsecond)) {
		t.Fatalf("expected a request still within the window to be merged")
	}
}

func TestConfigureCoalescerServicesAfterWindowElapses(t *testing.T) {
	c := NewConfigureCoalescer(ConfigureCoalesceWindow)
	t0 := time.Unix(0, 0)

	c.Request(t0)
	if !c.Request(t0.Add(3 * time.Millisecond)) {
		t.Fatalf("expected a request after the coalescing window to be serviced")
	}
}

func TestConfigureCoalescerStormCollapsesToTwoServices(t *testing.T) {
	c := NewConfigureCoalescer(ConfigureCoalesceWindow)
	t0 := time.Unix(0, 0)

	serviced := 0
	// A dense storm of 50 events inside the first 2ms window should only
	// ever be serviced once (the first one); one more after the window
	// elapses brings the total to two.
	for i := 0; i < 50; i++ {
		if c.Request(t0.Add(time.Duration(i) * 30 * time.Microsecond)) {
			serviced++
		}
	}
	if c.Request(t0.Add(5 * time.Millisecond)) {
		serviced++
	}
	if serviced != 2 {
		t.Fatalf("expected a dense storm plus one late request to service exactly twice, got %d", serviced)
	}
}
