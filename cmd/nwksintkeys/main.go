package main

import "github.com/lorawan-tools/nwksintkeys/cmd/nwksintkeys/cmd"

var version string // set by the compiler

func main() {
	cmd.Execute(version)
}
