package call

import (
	"os/exec"
	"strconv"
	"strings"
)

// minSamtools is the oldest samtools whose mpileup output the delegated
// caller understands.
var minSamtools = [3]int{0, 1, 13}

// parseBanner pulls major.minor.patch from the Version line of samtools
// usage output. Build metadata ("0.1.19-44428cd") is ignored and a
// missing patch level reads as 0.
func parseBanner(banner string) ([3]int, bool) {
	for _, line := range strings.Split(banner, "\n") {
		if !strings.Contains(line, "Version:") {
			continue
		}
		fields := strings.Fields(line)
		for i, f := range fields {
			if f != "Version:" || i+1 >= len(fields) {
				continue
			}
			vs := fields[i+1]
			if j := strings.IndexAny(vs, "-+"); j != -1 {
				vs = vs[:j]
			}
			parts := strings.Split(vs, ".")
			if len(parts) < 2 || len(parts) > 3 {
				return [3]int{}, false
			}
			var v [3]int
			for k, p := range parts {
				n, err := strconv.Atoi(p)
				if err != nil {
					return [3]int{}, false
				}
				v[k] = n
			}
			return v, true
		}
	}
	return [3]int{}, false
}

func olderThan(v, floor [3]int) bool {
	for i := range v {
		if v[i] != floor[i] {
			return v[i] < floor[i]
		}
	}
	return false
}

// samtoolsVersion runs samtools without arguments and parses its usage
// banner. A bare samtools invocation exits nonzero, so the exec error is
// ignored as long as there is output to parse.
func samtoolsVersion(samtools string) ([3]int, bool) {
	out, err := exec.Command(samtools).CombinedOutput()
	if len(out) == 0 && err != nil {
		return [3]int{}, false
	}
	return parseBanner(string(out))
}
