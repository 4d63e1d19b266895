package main

import (
	"fmt"
	"os"

	uierrs "github.com/cppforlife/go-cli-ui/errors"

	"carvel.dev/ypp/pkg/cmd"
)

func main() {
	command := cmd.NewDefaultYppCmd()

	err := command.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ypp: Error: %s\n", uierrs.NewMultiLineError(err))
		os.Exit(1)
	}
}
