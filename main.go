package main

import (
	"drive-mirror/cmd"
)

// main only hands control to the root command. Argument parsing, flags and
// all mirroring logic live in the 'cmd' package and below.
func main() {
	cmd.Execute()
}
