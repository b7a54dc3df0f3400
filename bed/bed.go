// Package bed reads target regions used to restrict calling and to size
// the multiple-testing correction.
package bed

import (
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/biogo/store/interval"
	"github.com/brentp/xopen"
)

// Range is a half-open [Start, End) interval in 0-based coordinates.
type Range struct {
	Start, End int
}

// match chrom:start-end and chrom\tstart\tend
var re = regexp.MustCompile("(.+?)[:\t](\\d+)([\\-\t])(\\d+).*?")

func parseLine(line []byte) (string, int, int, error) {
	ret := re.FindSubmatch(line)
	if len(ret) != 5 {
		return "", 0, 0, fmt.Errorf("bed: couldn't get region from line %q", string(line))
	}
	chrom, start, isep, end := ret[1], ret[2], ret[3], ret[4]
	istart, err := strconv.Atoi(string(start))
	if err != nil {
		return "", 0, 0, err
	}
	// chrom:start-end regions are 1-based.
	if len(isep) == 1 && isep[0] == '-' {
		istart--
	}
	iend, err := strconv.Atoi(string(end))
	if err != nil {
		return "", 0, 0, err
	}
	if istart < 0 {
		istart = 0
	}
	if iend < istart {
		return "", 0, 0, fmt.Errorf("bed: end before start in line %q", string(line))
	}
	return string(chrom), istart, iend, nil
}

// Coords reads a bed (or region-per-line) file and returns ranges keyed
// by chromosome, in file order.
func Coords(path string) (map[string][]Range, error) {
	rdr, err := xopen.Ropen(path)
	if err != nil {
		return nil, err
	}
	defer rdr.Close()
	coords := make(map[string][]Range)
	for {
		line, err := rdr.ReadBytes('\n')
		if len(line) > 0 && line[0] != '\n' && line[0] != '#' {
			chrom, start, end, perr := parseLine(line)
			if perr != nil {
				return nil, perr
			}
			coords[chrom] = append(coords[chrom], Range{start, end})
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return coords, nil
}

// TotalSpan sums the lengths of all ranges.
func TotalSpan(coords map[string][]Range) int {
	span := 0
	for _, ranges := range coords {
		for _, r := range ranges {
			span += r.End - r.Start
		}
	}
	return span
}

// Integer-specific intervals
type irange struct {
	Start, End int
	UID        uintptr
}

func (i irange) Overlap(b interval.IntRange) bool {
	// Half-open interval indexing.
	return i.End > b.Start && i.Start < b.End
}
func (i irange) ID() uintptr              { return i.UID }
func (i irange) Range() interval.IntRange { return interval.IntRange{Start: i.Start, End: i.End} }

// Trees indexes coords into per-chromosome interval trees.
func Trees(coords map[string][]Range) map[string]*interval.IntTree {
	trees := make(map[string]*interval.IntTree, len(coords))
	k := 0
	for chrom, ranges := range coords {
		t := &interval.IntTree{}
		for _, r := range ranges {
			t.Insert(irange{r.Start, r.End, uintptr(k)}, false)
			k++
		}
		trees[chrom] = t
	}
	return trees
}

// Overlaps checks for overlaps without pulling intervals from the tree.
func Overlaps(tree *interval.IntTree, start, end int) bool {
	if tree == nil {
		return false
	}
	q := irange{Start: start, End: end, UID: uintptr(tree.Len())}
	overlaps := false
	tree.DoMatching(func(iv interval.IntInterface) bool {
		overlaps = true
		return true
	}, q)
	return overlaps
}
