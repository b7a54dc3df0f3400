// Package call implements the call subcommand: it sizes the bonferroni
// correction, generates a pileup with samtools mpileup and streams it
// into the external snp caller, whose exit status it propagates.
package call

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"

	arg "github.com/alexflint/go-arg"
	"github.com/biogo/hts/sam"
	"github.com/brentp/xopen"
	"github.com/fatih/color"

	"github.com/csb5/lofreq/bed"
	"github.com/csb5/lofreq/depthstats"
	"github.com/csb5/lofreq/samheader"
)

type cliargs struct {
	Ref           string `arg:"-f,help:faidx indexed reference fasta passed to mpileup"`
	Bed           string `arg:"-l,help:bed file of regions to restrict calling to"`
	Bonf          string `arg:"help:bonferroni factor. a positive integer or 'auto'"`
	AutoBonfDepth bool   `arg:"--auto-bonf-depth,help:auto bonferroni counts only covered columns"`
	MaxDepth      int    `arg:"-d,help:max per-position depth for mpileup"`
	BAQ           string `arg:"help:base alignment quality mode. one of on off extended"`
	MinBQ         int    `arg:"-Q,help:minimum base quality"`
	MinMQ         int    `arg:"-q,help:minimum mapping quality"`
	Out           string `arg:"-o,help:output file. - for stdout"`
	Samtools      string `arg:"help:samtools binary"`
	Caller        string `arg:"help:snp caller binary"`
	Bam           string `arg:"positional,required,help:indexed bam with reads to call variants from"`
}

func banner(msg string) {
	c := color.New(color.BgRed).Add(color.Bold)
	fmt.Fprintf(os.Stderr, "%s\n", c.SprintFunc()(msg))
}

// Main is run from the dispatcher with the subcommand name at args[0].
func Main(args []string) int {
	cli := cliargs{
		Bonf:     "auto",
		MaxDepth: 100000,
		BAQ:      "extended",
		MinBQ:    3,
		Out:      "-",
		Samtools: "samtools",
		Caller:   "lofreq_snpcaller",
	}
	p, err := arg.NewParser(arg.Config{Program: "lofreq call"}, &cli)
	if err != nil {
		panic(err)
	}
	switch err := p.Parse(args[1:]); {
	case err == arg.ErrHelp:
		p.WriteHelp(os.Stdout)
		return 0
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		p.WriteUsage(os.Stderr)
		return 1
	}
	return run(cli)
}

func run(cli cliargs) int {
	h, err := samheader.Read(cli.Bam)
	if err != nil {
		banner(fmt.Sprintf("ERROR reading %s: %v", cli.Bam, err))
		return 1
	}
	if names := samheader.Names(h); len(names) > 0 {
		log.Printf("calling variants for sample(s) %s", strings.Join(names, ","))
	}
	checkSamtools(cli.Samtools)

	bonf, err := bonfFactor(cli, h)
	if err != nil {
		banner(fmt.Sprintf("ERROR: %v", err))
		return 1
	}
	log.Printf("using bonferroni factor %d", bonf)

	mpArgs, err := mpileupArgs(cli)
	if err != nil {
		banner(fmt.Sprintf("ERROR: %v", err))
		return 1
	}
	callerPath, err := exec.LookPath(cli.Caller)
	if err != nil {
		banner(fmt.Sprintf("ERROR: %s not found on $PATH", cli.Caller))
		return 1
	}
	out, err := xopen.Wopen(cli.Out)
	if err != nil {
		banner(fmt.Sprintf("ERROR opening %s: %v", cli.Out, err))
		return 1
	}

	mp := exec.Command(cli.Samtools, mpArgs...)
	mp.Stderr = os.Stderr
	pipe, err := mp.StdoutPipe()
	if err != nil {
		banner(fmt.Sprintf("ERROR: %v", err))
		return 1
	}
	caller := exec.Command(callerPath, "--bonf", strconv.Itoa(bonf))
	caller.Stdin = pipe
	caller.Stdout = out
	caller.Stderr = os.Stderr

	if err := mp.Start(); err != nil {
		banner(fmt.Sprintf("ERROR starting %s: %v", cli.Samtools, err))
		return 1
	}
	if err := caller.Start(); err != nil {
		banner(fmt.Sprintf("ERROR starting %s: %v", callerPath, err))
		mp.Process.Kill()
		mp.Wait()
		return 1
	}
	// the caller drains the pipe, so wait for it before mpileup.
	cerr := caller.Wait()
	merr := mp.Wait()
	if err := out.Close(); err != nil {
		banner(fmt.Sprintf("ERROR closing %s: %v", cli.Out, err))
		return 1
	}
	if merr != nil {
		banner(fmt.Sprintf("ERROR with command: %s %s", cli.Samtools, strings.Join(mpArgs, " ")))
		if cerr == nil {
			return exitStatus(merr)
		}
	}
	if cerr != nil {
		return exitStatus(cerr)
	}
	return 0
}

func exitStatus(err error) int {
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	return 1
}

func checkSamtools(samtools string) {
	v, ok := samtoolsVersion(samtools)
	if !ok {
		log.Printf("couldn't determine samtools version")
		return
	}
	if olderThan(v, minSamtools) {
		log.Printf("your samtools installation looks too old. will try to continue anyway")
	}
}

// bonfFactor picks the multiple-testing correction: an explicit integer,
// or 3x the number of sites that could be tested. For auto that is the
// bed target span when given, the full genome span from the header
// otherwise, or only columns with coverage when --auto-bonf-depth is set.
func bonfFactor(cli cliargs, h *sam.Header) (int, error) {
	if cli.Bonf != "auto" {
		n, err := strconv.Atoi(cli.Bonf)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("call: --bonf must be a positive integer or 'auto', got %q", cli.Bonf)
		}
		return n, nil
	}
	if cli.AutoBonfDepth {
		st, err := depthstats.Run(cli.Bam, samheader.RefNames(h), depthstats.Options{
			Samtools: cli.Samtools,
			MinBQ:    cli.MinBQ,
			MinMQ:    cli.MinMQ,
			Bed:      cli.Bed,
		})
		if err != nil {
			return 0, err
		}
		return 3 * st.CoveredColumns, nil
	}
	if cli.Bed != "" {
		coords, err := bed.Coords(cli.Bed)
		if err != nil {
			return 0, err
		}
		return 3 * bed.TotalSpan(coords), nil
	}
	sum, err := samheader.SumLengths(h, nil)
	if err != nil {
		return 0, err
	}
	return 3 * sum, nil
}

func mpileupArgs(cli cliargs) ([]string, error) {
	args := []string{"mpileup", "-d", strconv.Itoa(cli.MaxDepth)}
	switch cli.BAQ {
	case "off":
		args = append(args, "-B")
	case "extended":
		args = append(args, "-E")
	case "on":
	default:
		return nil, fmt.Errorf("call: unknown BAQ mode %q", cli.BAQ)
	}
	args = append(args, "-q", strconv.Itoa(cli.MinMQ), "-Q", strconv.Itoa(cli.MinBQ))
	if cli.Bed != "" {
		args = append(args, "-l", cli.Bed)
	}
	if cli.Ref != "" {
		args = append(args, "-f", cli.Ref)
	}
	return append(args, cli.Bam), nil
}
