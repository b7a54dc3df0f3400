package call

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/biogo/hts/sam"
)

func defaults() cliargs {
	return cliargs{
		Bonf:     "auto",
		MaxDepth: 100000,
		BAQ:      "extended",
		MinBQ:    3,
		Samtools: "samtools",
		Bam:      "in.bam",
	}
}

func TestMpileupArgs(t *testing.T) {
	cli := defaults()
	got, err := mpileupArgs(cli)
	if err != nil {
		t.Fatal(err)
	}
	exp := []string{"mpileup", "-d", "100000", "-E", "-q", "0", "-Q", "3", "in.bam"}
	if !reflect.DeepEqual(got, exp) {
		t.Errorf("expected %v, got %v", exp, got)
	}

	cli.BAQ = "off"
	cli.Bed = "t.bed"
	cli.Ref = "ref.fa"
	got, err = mpileupArgs(cli)
	if err != nil {
		t.Fatal(err)
	}
	exp = []string{"mpileup", "-d", "100000", "-B", "-q", "0", "-Q", "3", "-l", "t.bed", "-f", "ref.fa", "in.bam"}
	if !reflect.DeepEqual(got, exp) {
		t.Errorf("expected %v, got %v", exp, got)
	}

	cli.BAQ = "on"
	got, err = mpileupArgs(cli)
	if err != nil {
		t.Fatal(err)
	}
	for _, tok := range got {
		if tok == "-B" || tok == "-E" {
			t.Errorf("BAQ on should not set a BAQ flag, got %v", got)
		}
	}
}

func TestMpileupArgsBadBAQ(t *testing.T) {
	cli := defaults()
	cli.BAQ = "sometimes"
	if _, err := mpileupArgs(cli); err == nil {
		t.Error("expected an error for an unknown BAQ mode")
	}
}

func testHeader(t *testing.T) *sam.Header {
	t.Helper()
	h, err := sam.NewHeader([]byte("@SQ\tSN:chr1\tLN:1000\n@SQ\tSN:chr2\tLN:500\n"), nil)
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestBonfExplicit(t *testing.T) {
	cli := defaults()
	cli.Bonf = "1234"
	n, err := bonfFactor(cli, testHeader(t))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1234 {
		t.Errorf("expected 1234, got %d", n)
	}
	for _, bad := range []string{"0", "-3", "lots"} {
		cli.Bonf = bad
		if _, err := bonfFactor(cli, testHeader(t)); err == nil {
			t.Errorf("expected an error for --bonf %q", bad)
		}
	}
}

func TestBonfFromHeader(t *testing.T) {
	cli := defaults()
	n, err := bonfFactor(cli, testHeader(t))
	if err != nil {
		t.Fatal(err)
	}
	if n != 3*1500 {
		t.Errorf("expected %d, got %d", 3*1500, n)
	}
}

func TestBonfFromBed(t *testing.T) {
	p := filepath.Join(t.TempDir(), "t.bed")
	if err := os.WriteFile(p, []byte("chr1\t10\t20\nchr2\t0\t5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cli := defaults()
	cli.Bed = p
	n, err := bonfFactor(cli, testHeader(t))
	if err != nil {
		t.Fatal(err)
	}
	if n != 3*15 {
		t.Errorf("expected %d, got %d", 3*15, n)
	}
}
