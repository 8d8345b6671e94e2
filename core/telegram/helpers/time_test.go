package helpers

import "testing"

func TestParseFlexibleDate(t *testing.T) {
	cases := []struct {
		in   string
		ok   bool
		want string
	}{
		{"2026-03-05", true, "05.03.2026"},
		{"2026-3-5", true, "05.03.2026"},
		{"05.03.2026", true, "05.03.2026"},
		{"5.3.2026 14:30", true, "05.03.2026"},
		{"bugun", false, ""},
		{"", false, ""},
		{"ertaga ertalab", false, ""},
	}
	for _, tc := range cases {
		got, ok := ParseFlexibleDate(tc.in)
		if ok != tc.ok {
			t.Fatalf("ParseFlexibleDate(%q) ok = %v, want %v", tc.in, ok, tc.ok)
		}
		if ok && got.Format("02.01.2006") != tc.want {
			t.Fatalf("ParseFlexibleDate(%q) = %s, want %s", tc.in, got.Format("02.01.2006"), tc.want)
		}
	}
}
