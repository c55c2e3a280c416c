package main

import "github.com/notargets/vlmgrid/cmd"

func main() {
	cmd.Execute()
}
