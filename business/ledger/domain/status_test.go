package domain

import "testing"

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{name: "pending_to_processing", from: StatusPending, to: StatusProcessing, want: true},
		{name: "pending_to_completed", from: StatusPending, to: StatusCompleted, want: true},
		{name: "pending_to_failed", from: StatusPending, to: StatusFailed, want: true},
		{name: "processing_to_completed", from: StatusProcessing, to: StatusCompleted, want: true},
		{name: "processing_to_failed", from: StatusProcessing, to: StatusFailed, want: true},
		{name: "processing_to_pending", from: StatusProcessing, to: StatusPending, want: false},
		{name: "completed_to_failed", from: StatusCompleted, to: StatusFailed, want: false},
		{name: "failed_to_completed", from: StatusFailed, to: StatusCompleted, want: false},
		{name: "completed_to_pending", from: StatusCompleted, to: StatusPending, want: false},
		{name: "completed_to_completed", from: StatusCompleted, to: StatusCompleted, want: false},
		{name: "unknown_from", from: Status("confirming"), to: StatusCompleted, want: false},
		{name: "unknown_to", from: StatusPending, to: Status("confirming"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestStatus_Terminal(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusProcessing} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
	for _, s := range []Status{StatusCompleted, StatusFailed} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
}

func TestNormalizeHash(t *testing.T) {
	if NormalizeHash(" 0xABCdef ") != "0xabcdef" {
		t.Errorf("NormalizeHash did not trim and lower-case")
	}
	if NormalizeHash("") != "" {
		t.Errorf("NormalizeHash of empty string should stay empty")
	}
}
