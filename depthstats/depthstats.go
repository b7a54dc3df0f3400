// Package depthstats summarises samtools depth output: how many columns
// have coverage at all and their mean depth. The covered-column count
// drives the depth-aware bonferroni factor of the call subcommand.
package depthstats

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/brentp/gargs/process"
	"gonum.org/v1/gonum/stat"
)

// Options configure the samtools depth invocations.
type Options struct {
	Samtools string
	MinBQ    int
	MinMQ    int
	// Bed optionally restricts counting to target regions.
	Bed string
}

// Stats summarise the depth columns seen across all chromosomes.
type Stats struct {
	// CoveredColumns is the number of positions with depth > 0.
	CoveredColumns int
	// MeanDepth is the mean over covered columns only.
	MeanDepth float64
}

// Command builds the samtools depth command line for one chromosome.
func Command(bam, chrom string, o Options) string {
	samtools := o.Samtools
	if samtools == "" {
		samtools = "samtools"
	}
	cmd := fmt.Sprintf("%s depth -q %d -Q %d -r '%s'", samtools, o.MinBQ, o.MinMQ, chrom)
	if o.Bed != "" {
		cmd += fmt.Sprintf(" -b '%s'", o.Bed)
	}
	return cmd + fmt.Sprintf(" '%s'", bam)
}

// Aggregate counts covered columns and sums depth from one stream of
// chrom\tpos\tdepth lines.
func Aggregate(r io.Reader) (cols int, sum float64, err error) {
	rdr := bufio.NewReader(r)
	for {
		line, rerr := rdr.ReadString('\n')
		if len(line) > 0 && line != "\n" {
			toks := strings.Split(strings.TrimSpace(line), "\t")
			if len(toks) < 3 {
				return 0, 0, fmt.Errorf("depthstats: short depth line %q", line)
			}
			d, perr := strconv.Atoi(toks[len(toks)-1])
			if perr != nil {
				return 0, 0, perr
			}
			if d > 0 {
				cols++
				sum += float64(d)
			}
		}
		if rerr == io.EOF {
			return cols, sum, nil
		}
		if rerr != nil {
			return 0, 0, rerr
		}
	}
}

// Run fans samtools depth out per chromosome and aggregates the results.
func Run(bam string, chroms []string, o Options) (Stats, error) {
	ch := make(chan string)
	go func() {
		for _, chrom := range chroms {
			ch <- Command(bam, chrom, o)
		}
		close(ch)
	}()

	cancel := make(chan bool)
	defer close(cancel)
	opts := process.Options{Retries: 1}

	var means, weights []float64
	total := 0
	for cmd := range process.Runner(ch, cancel, &opts) {
		if ex := cmd.ExitCode(); ex != 0 && cmd.Err != io.EOF {
			return Stats{}, fmt.Errorf("depthstats: %s exited %d: %v", cmd.CmdStr, ex, cmd.Err)
		}
		if cmd.Err == io.EOF {
			continue
		}
		cols, sum, err := Aggregate(cmd)
		cmd.Cleanup()
		if err != nil {
			return Stats{}, err
		}
		if cols > 0 {
			means = append(means, sum/float64(cols))
			weights = append(weights, float64(cols))
			total += cols
		}
	}

	st := Stats{CoveredColumns: total}
	if total > 0 {
		st.MeanDepth = stat.Mean(means, weights)
	}
	return st, nil
}
