package handlers

import "testing"

func TestParsePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+998901234567", "+998901234567"},
		{"998901234567", "998901234567"},
		{"+998 90 123 45 67", "+998901234567"},
		{"123456789", "123456789"},
		{"12345678", ""},
		{"+9989012345678901", ""},
		{"raqam yo'q", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := parsePhone(tc.in); got != tc.want {
			t.Errorf("parsePhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParsePositiveNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"22", 22, true},
		{"22.5", 22.5, true},
		{"22,5", 22.5, true},
		{"2 500 000", 2500000, true},
		{"0", 0, false},
		{"-5", 0, false},
		{"yigirma", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := parsePositiveNumber(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("parsePositiveNumber(%q) = (%v, %v), want (%v, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseUserID(t *testing.T) {
	if id, ok := parseUserID(" 123456789 "); !ok || id != 123456789 {
		t.Errorf("parseUserID = (%d, %v)", id, ok)
	}
	if _, ok := parseUserID("abc"); ok {
		t.Error("parseUserID accepted non-numeric input")
	}
}
