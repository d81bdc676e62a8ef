package asset

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
)

func TestFromWei(t *testing.T) {
	tests := []struct {
		name string
		wei  string
		want string
	}{
		{name: "one_ether", wei: "1000000000000000000", want: "1"},
		{name: "half_ether", wei: "500000000000000000", want: "0.5"},
		{name: "one_wei", wei: "1", want: "0.000000000000000001"},
		{name: "zero", wei: "0", want: "0"},
		{name: "typical_transfer", wei: "20000000000000000", want: "0.02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wei, ok := new(big.Int).SetString(tt.wei, 10)
			if !ok {
				t.Fatalf("bad wei literal %q", tt.wei)
			}
			got := FromWei(wei)
			want := decimal.RequireFromString(tt.want)
			if !got.Equal(want) {
				t.Errorf("FromWei(%s) = %s, want %s", tt.wei, got, want)
			}
		})
	}
}

func TestFromWei_Nil(t *testing.T) {
	if got := FromWei(nil); !got.IsZero() {
		t.Errorf("FromWei(nil) = %s, want 0", got)
	}
}

func TestToWei(t *testing.T) {
	got, err := ToWei(decimal.RequireFromString("0.02"))
	if err != nil {
		t.Fatalf("ToWei: %v", err)
	}
	if got.String() != "20000000000000000" {
		t.Errorf("ToWei(0.02) = %s, want 20000000000000000", got)
	}
}

func TestToWei_RoundTrip(t *testing.T) {
	orig := decimal.RequireFromString("1.234567890123456789")
	wei, err := ToWei(orig)
	if err != nil {
		t.Fatalf("ToWei: %v", err)
	}
	if back := FromWei(wei); !back.Equal(orig) {
		t.Errorf("round trip: got %s, want %s", back, orig)
	}
}

func TestToWei_Negative(t *testing.T) {
	if _, err := ToWei(decimal.NewFromInt(-1)); err != ErrNegativeAmount {
		t.Errorf("ToWei(-1) error = %v, want ErrNegativeAmount", err)
	}
}
