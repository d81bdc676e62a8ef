package domain

import "testing"

func TestNextWindow(t *testing.T) {
	ptr := func(v uint64) *uint64 { return &v }

	tests := []struct {
		name        string
		lastChecked *uint64
		current     uint64
		lookback    uint64
		wantFrom    uint64
		wantTo      uint64
		wantOK      bool
	}{
		{"advance by five", ptr(100), 105, 5, 101, 105, true},
		{"advance by one", ptr(100), 101, 5, 101, 101, true},
		{"head unchanged", ptr(100), 100, 5, 0, 0, false},
		{"head behind cursor", ptr(100), 99, 5, 0, 0, false},
		{"bootstrap", nil, 50, 5, 45, 50, true},
		{"bootstrap near genesis", nil, 3, 5, 0, 3, true},
		{"bootstrap at genesis", nil, 0, 5, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, ok := NextWindow(tt.lastChecked, tt.current, tt.lookback)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if w.From != tt.wantFrom || w.To != tt.wantTo {
				t.Fatalf("window = [%d,%d], want [%d,%d]", w.From, w.To, tt.wantFrom, tt.wantTo)
			}
		})
	}
}

func TestWindowLen(t *testing.T) {
	if got := (Window{From: 101, To: 105}).Len(); got != 5 {
		t.Fatalf("Len = %d, want 5", got)
	}
	if got := (Window{From: 5, To: 4}).Len(); got != 0 {
		t.Fatalf("inverted window Len = %d, want 0", got)
	}
}
