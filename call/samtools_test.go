package call

import "testing"

func TestParseBanner(t *testing.T) {
	cases := []struct {
		banner string
		exp    [3]int
		ok     bool
	}{
		{"\nProgram: samtools (Tools for alignments in the SAM format)\nVersion: 1.9 (using htslib 1.9)\n", [3]int{1, 9, 0}, true},
		{"Version: 0.1.19-44428cd\n", [3]int{0, 1, 19}, true},
		{"Version: 0.1.13 (r926:134)\n", [3]int{0, 1, 13}, true},
		{"Usage: samtools <command>\n", [3]int{}, false},
		{"Version: unknown\n", [3]int{}, false},
	}
	for _, c := range cases {
		v, ok := parseBanner(c.banner)
		if ok != c.ok || v != c.exp {
			t.Errorf("parseBanner(%q): expected %v/%v, got %v/%v", c.banner, c.exp, c.ok, v, ok)
		}
	}
}

func TestOlderThan(t *testing.T) {
	floor := [3]int{0, 1, 13}
	for _, c := range []struct {
		v   [3]int
		exp bool
	}{
		{[3]int{0, 1, 12}, true},
		{[3]int{0, 1, 13}, false},
		{[3]int{0, 0, 99}, true},
		{[3]int{1, 9, 0}, false},
	} {
		if got := olderThan(c.v, floor); got != c.exp {
			t.Errorf("olderThan(%v): expected %v, got %v", c.v, c.exp, got)
		}
	}
}
