package main

import (
	"fmt"
	"os"

	"github.com/sahilchouksey/skills-lab/app"
)

func main() {
	if err := app.SetupAndRunServer(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
