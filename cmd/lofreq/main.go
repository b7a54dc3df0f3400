package main

import (
	"os"

	"github.com/csb5/lofreq"
	"github.com/csb5/lofreq/call"
)

func main() {
	d := lofreq.New()
	d.Call = call.Main
	os.Exit(d.Run(os.Args))
}
