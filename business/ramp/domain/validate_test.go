package domain

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fd1az/ramp-engine/internal/apperror"
)

func TestParseFiatAmount(t *testing.T) {
	limits := DefaultAmountLimits()

	tests := []struct {
		name     string
		input    string
		wantCode apperror.Code
		want     string
	}{
		{"minimum accepted", "1", "", "1"},
		{"maximum accepted", "1000000", "", "1000000"},
		{"typical amount", "50.25", "", "50.25"},
		{"whitespace trimmed", "  42  ", "", "42"},
		{"below minimum", "0.99", apperror.CodeAmountBelowMin, ""},
		{"above maximum", "1000001", apperror.CodeAmountAboveMax, ""},
		{"zero", "0", apperror.CodeAmountBelowMin, ""},
		{"negative", "-5", apperror.CodeAmountBelowMin, ""},
		{"empty", "", apperror.CodeAmountRequired, ""},
		{"non-numeric", "abc", apperror.CodeAmountNotNumeric, ""},
		{"trailing garbage", "100x", apperror.CodeAmountNotNumeric, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFiatAmount(tt.input, limits)
			if tt.wantCode != "" {
				if err == nil {
					t.Fatalf("expected error code %s, got nil", tt.wantCode)
				}
				if code := apperror.GetCode(err); code != tt.wantCode {
					t.Fatalf("got code %s, want %s", code, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestIsChainAddress(t *testing.T) {
	if !IsChainAddress("0x1111111111111111111111111111111111111111") {
		t.Fatal("valid hex address rejected")
	}
	if IsChainAddress("vitalik.eth") {
		t.Fatal("ENS name accepted as hex address")
	}
	if IsChainAddress("0x123") {
		t.Fatal("short hex accepted")
	}
}
