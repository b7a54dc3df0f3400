// Package lofreq is the command front-end for the lofreq variant caller.
// The real work happens in delegated programs: the snp caller consumed by
// the call subcommand and the lofreq2_filter.py script that the filter
// subcommand execs into.
package lofreq

const (
	// Program is the package name used in usage and log output.
	Program = "lofreq"
	// Version is printed by the version subcommand.
	Version = "0.6.1"
	// FilterProg is the external script that handles the filter subcommand.
	// It is resolved on $PATH at dispatch time.
	FilterProg = "lofreq2_filter.py"
)
