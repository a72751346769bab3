package entities

import "time"

// Timings holds the pauses and waits used while driving a search widget
type Timings struct {
	TypeSettle   time.Duration
	SelectSettle time.Duration
	SelectPause  time.Duration
	CancelPause  time.Duration
	ResetPause   time.Duration
	WaitTimeout  time.Duration

	// PollInterval switches settling from a fixed pause to polling for the
	// results container, bounded by the settle delay. Zero keeps the pause.
	PollInterval time.Duration
}

// DefaultTimings - returns the delays the widget is known to need
func DefaultTimings() Timings {
	return Timings{
		TypeSettle:   500 * time.Millisecond,
		SelectSettle: 1500 * time.Millisecond,
		SelectPause:  300 * time.Millisecond,
		CancelPause:  150 * time.Millisecond,
		ResetPause:   1500 * time.Millisecond,
		WaitTimeout:  5 * time.Second,
	}
}

// WithDefaults - fills zero durations from DefaultTimings, PollInterval excluded
func (t Timings) WithDefaults() Timings {
	d := DefaultTimings()
	if t.TypeSettle == 0 {
		t.TypeSettle = d.TypeSettle
	}
	if t.SelectSettle == 0 {
		t.SelectSettle = d.SelectSettle
	}
	if t.SelectPause == 0 {
		t.SelectPause = d.SelectPause
	}
	if t.CancelPause == 0 {
		t.CancelPause = d.CancelPause
	}
	if t.ResetPause == 0 {
		t.ResetPause = d.ResetPause
	}
	if t.WaitTimeout == 0 {
		t.WaitTimeout = d.WaitTimeout
	}
	return t
}
