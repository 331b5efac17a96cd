package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"12.345", 1235, true},
		{"12.344", 1234, true},
		{"12.346", 1235, true},
		{"0", 0, true},
		{"100", 10000, true},
		{"-5", 0, false},
		{"+5", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"1.2.3", 0, false},
	}
	for i, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("case %d (%q): unexpected error %v", i, tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d (%q): expected error", i, tc.in)
		}
		if tc.ok && got != tc.want {
			t.Fatalf("case %d (%q): got %d, want %d", i, tc.in, got, tc.want)
		}
	}
}

func TestDecimalString(t *testing.T) {
	if got := (Money{Cents: 1234}).DecimalString(); got != "12.34" {
		t.Fatalf("got %q", got)
	}
	if got := (Money{Cents: -505}).DecimalString(); got != "-5.05" {
		t.Fatalf("got %q", got)
	}
	if got := (Money{Cents: 7}).DecimalString(); got != "0.07" {
		t.Fatalf("got %q", got)
	}
}
