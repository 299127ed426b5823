package compositor

import "time"

// ConfigureCoalesceWindow is the minimum spacing between two successive
// configure-event processing passes, matching CONFIGURE_TIMEOUT_MS in the
// original compositor: a storm of ConfigureNotify events (e.g. an
// interactive resize) is serviced at most once per window rather than on
// every single event.
const ConfigureCoalesceWindow = 2 * time.Millisecond

// ConfigureCoalescer decides when a burst of configure requests should
// actually be serviced, mirroring check_paint's g_configure_needed /
// configure_timer_started state machine. The first request in an idle
// period is serviced immediately; subsequent requests are merged until
// ConfigureCoalesceWindow has elapsed since that service.
type ConfigureCoalescer struct {
	window   time.Duration
	cooling  bool
	deadline time.Time
}

// NewConfigureCoalescer returns a coalescer using window as its debounce
// interval.
func NewConfigureCoalescer(window time.Duration) *ConfigureCoalescer {
	return &ConfigureCoalescer{window: window}
}

// Request records that a configure event arrived at now and reports
// whether the caller should service pending configures immediately.
// While cooling down from a previous service, repeated requests return
// false until window has elapsed, at which point the next request is
// serviced and a new cooldown begins.
func (c *ConfigureCoalescer) Request(now time.Time) bool {
	if !c.cooling {
		c.cooling = true
		c.deadline = now.Add(c.window)
		return true
	}
	if now.Before(c.deadline) {
		return false
	}
	c.cooling = true
	c.deadline = now.Add(c.window)
	return true
}

// Idle reports whether Request has never been called, i.e. the very next
// call is guaranteed to service immediately.
func (c *ConfigureCoalescer) Idle() bool { return !c.cooling }
