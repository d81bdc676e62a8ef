// Package domain contains the core domain types for the ramp context.
package domain

// Window is an inclusive block-height range to scan.
type Window struct {
	From uint64
	To   uint64
}

// Len returns the number of heights in the window.
func (w Window) Len() uint64 {
	if w.To < w.From {
		return 0
	}
	return w.To - w.From + 1
}

// NextWindow computes the range to scan given the last checked height and
// the current chain head. On the first scan (lastChecked == nil) it
// bootstraps with the trailing lookback heights. A head at or behind
// lastChecked yields no window.
func NextWindow(lastChecked *uint64, current uint64, lookback uint64) (Window, bool) {
	if lastChecked == nil {
		from := uint64(0)
		if current > lookback {
			from = current - lookback
		}
		return Window{From: from, To: current}, true
	}
	if current <= *lastChecked {
		return Window{}, false
	}
	return Window{From: *lastChecked + 1, To: current}, true
}
