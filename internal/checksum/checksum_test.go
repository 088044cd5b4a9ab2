package checksum

import "testing"

func TestMatch(t *testing.T) {
	sum := String("hello")
	cases := []struct {
		ifMatch string
		want    bool
	}{
		{"", true},
		{sum, true},
		{`"` + sum + `"`, true},
		{String("other"), false},
		{`"`, false},
	}
	for _, tc := range cases {
		if got := Match("hello", tc.ifMatch); got != tc.want {
			t.Errorf("Match(%q) = %v, want %v", tc.ifMatch, got, tc.want)
		}
	}
}
