package main

import (
	"fmt"
	"os"

	"github.com/opendive/planner/cmd/diveplanner/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
