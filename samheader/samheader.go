// Package samheader reads metadata from BAM headers: reference lengths
// for sizing the multiple-testing correction and sample names from read
// groups. Alignment records themselves are never touched.
package samheader

import (
	"fmt"
	"os"
	"sort"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
)

// Read returns the header of the bam at path.
func Read(path string) (*sam.Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	b, err := bam.NewReader(f, 1)
	if err != nil {
		return nil, err
	}
	defer b.Close()
	return b.Header(), nil
}

var smTag = sam.Tag([2]byte{'S', 'M'})

// Names returns the distinct SM sample names from the header read groups,
// sorted.
func Names(h *sam.Header) []string {
	rgs := h.RGs()
	if len(rgs) == 1 {
		v := rgs[0].Get(smTag)
		if v == "" {
			return nil
		}
		return []string{v}
	}
	m := make(map[string]bool)
	for _, rg := range rgs {
		v := rg.Get(smTag)
		if v == "" {
			continue
		}
		m[v] = true
	}
	names := make([]string, 0, len(m))
	for sm := range m {
		names = append(names, sm)
	}
	sort.Strings(names)
	return names
}

// RefLengths returns reference lengths keyed by name.
func RefLengths(h *sam.Header) map[string]int {
	lens := make(map[string]int, len(h.Refs()))
	for _, ref := range h.Refs() {
		lens[ref.Name()] = ref.Len()
	}
	return lens
}

// RefNames returns reference names in header order.
func RefNames(h *sam.Header) []string {
	names := make([]string, 0, len(h.Refs()))
	for _, ref := range h.Refs() {
		names = append(names, ref.Name())
	}
	return names
}

// SumLengths sums reference lengths. With a non-empty chroms it is
// restricted to those chromosomes and errors on names missing from the
// header.
func SumLengths(h *sam.Header, chroms []string) (int, error) {
	lens := RefLengths(h)
	if len(chroms) == 0 {
		sum := 0
		for _, l := range lens {
			sum += l
		}
		return sum, nil
	}
	sum := 0
	for _, chrom := range chroms {
		l, ok := lens[chrom]
		if !ok {
			return 0, fmt.Errorf("samheader: chromosome %q not in header", chrom)
		}
		sum += l
	}
	return sum, nil
}
