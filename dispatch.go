package lofreq

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"

	"golang.org/x/sys/unix"
)

var commandHelp = map[string]string{
	"call":    "call variants",
	"filter":  "filter variants",
	"version": "print version",
}

// ExecFunc replaces the current process image with prog. It only returns
// on failure.
type ExecFunc func(prog string, argv []string, env []string) error

// execReplace is the production ExecFunc: execvp semantics, i.e. $PATH
// search followed by an image replacement that inherits the environment
// and standard streams.
func execReplace(prog string, argv []string, env []string) error {
	path, err := exec.LookPath(prog)
	if err != nil {
		return err
	}
	return unix.Exec(path, argv, env)
}

// Dispatcher routes the first command-line token to a subcommand. All
// collaborators are fields so tests can swap them out.
type Dispatcher struct {
	Name       string
	Version    string
	FilterProg string

	Stdout io.Writer
	Stderr io.Writer
	Logger *log.Logger

	// Call is the delegated variant-calling entry point. It receives the
	// argv re-based so that the subcommand name is element 0 and its
	// return value becomes the process exit status.
	Call func(args []string) int
	// Exec hands control to the filter script.
	Exec ExecFunc
}

// New returns a Dispatcher wired to the process streams and the real
// exec primitive. The call handler is attached by the binary.
func New() *Dispatcher {
	return &Dispatcher{
		Name:       Program,
		Version:    Version,
		FilterProg: FilterProg,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Logger:     log.New(os.Stderr, "["+Program+"] ", log.Ldate|log.Ltime),
		Exec:       execReplace,
	}
}

func (d *Dispatcher) logf(format string, args ...interface{}) {
	l := d.Logger
	if l == nil {
		l = log.New(d.Stderr, "["+d.Name+"] ", log.Ldate|log.Ltime)
	}
	l.Printf(format, args...)
}

func (d *Dispatcher) usage(myname string) {
	fmt.Fprintf(d.Stderr, "%s: Fast and sensitive inference of single-nucleotide variants\n\n", d.Name)
	fmt.Fprintf(d.Stderr, "Usage: %s <command> [options], where command is one of:\n\n", myname)
	var keys []string
	l := 5
	for k := range commandHelp {
		keys = append(keys, k)
		if len(k) > l {
			l = len(k)
		}
	}
	sort.Strings(keys)
	fmtr := "  %-" + strconv.Itoa(l) + "s : %s\n"
	for _, k := range keys {
		fmt.Fprintf(d.Stderr, fmtr, k, commandHelp[k])
	}
	fmt.Fprintln(d.Stderr)
}

// Run dispatches argv (including the program name at element 0) and
// returns the process exit status. Missing or unrecognized commands and
// a failed filter exec all return 1; call returns whatever the delegated
// handler returns. On a successful filter exec this function never
// returns at all.
func (d *Dispatcher) Run(argv []string) int {
	if len(argv) < 2 {
		myname := d.Name
		if len(argv) == 1 {
			myname = filepath.Base(argv[0])
		}
		d.usage(myname)
		return 1
	}
	switch argv[1] {
	case "call":
		if d.Call == nil {
			d.logf("FATAL: no call handler registered")
			return 1
		}
		return d.Call(argv[1:])
	case "filter":
		// forwarded argv keeps the original program name at element 0
		// and drops only the filter token.
		fargv := make([]string, 0, len(argv)-1)
		fargv = append(fargv, argv[0])
		fargv = append(fargv, argv[2:]...)
		if err := d.Exec(d.FilterProg, fargv, os.Environ()); err != nil {
			fmt.Fprintf(d.Stderr, "calling %s failed: %v\n", d.FilterProg, err)
			return 1
		}
		// unreachable with a real exec; stubs land here.
		return 0
	case "version":
		fmt.Fprintf(d.Stdout, "%s\n", d.Version)
		return 0
	default:
		d.logf("FATAL: unrecognized command '%s'", argv[1])
		return 1
	}
}
