package scoring

import "testing"

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{5.5, "$5.50"},
		{999.994, "$999.99"},
		{1000, "$1.00K"},
		{85_000, "$85.00K"},
		{999_999, "$1000.00K"},
		{1_500_000, "$1.50M"},
		{3_200_000, "$3.20M"},
		{1_000_000_000, "$1.00B"},
		{35_000_000_000, "$35.00B"},
		{-5, "$-5.00"},
	}

	for _, tt := range tests {
		if got := FormatUSD(tt.in); got != tt.want {
			t.Errorf("FormatUSD(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0 hours"},
		{0.5, "0.5 hours"},
		{23.9, "23.9 hours"},
		{24, "1.0 days"},
		{9000, "375.0 days"},
		{32000, "1333.3 days"},
	}

	for _, tt := range tests {
		if got := FormatAge(tt.in); got != tt.want {
			t.Errorf("FormatAge(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatHolders(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{85_000, "85,000"},
		{2_500_000, "2,500,000"},
	}

	for _, tt := range tests {
		if got := FormatHolders(tt.in); got != tt.want {
			t.Errorf("FormatHolders(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatPercentageAndFlow(t *testing.T) {
	if got := FormatPercentage(68.44); got != "68.4%" {
		t.Errorf("FormatPercentage(68.44) = %q", got)
	}
	if got := FormatPercentage(-2.3); got != "-2.3%" {
		t.Errorf("FormatPercentage(-2.3) = %q", got)
	}
	if got := FormatBuysVsSells(0); got != "+0 net buys" {
		t.Errorf("FormatBuysVsSells(0) = %q", got)
	}
	if got := FormatBuysVsSells(3000); got != "+3000 net buys" {
		t.Errorf("FormatBuysVsSells(3000) = %q", got)
	}
	if got := FormatBuysVsSells(-170); got != "-170 net sells" {
		t.Errorf("FormatBuysVsSells(-170) = %q", got)
	}
}
