package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/idilsaglam/taskpad/internal/cli"
	"github.com/idilsaglam/taskpad/internal/ui"
)

func main() {
	// Root flags (apply to every subcommand)
	groupPending := flag.Bool("group", false, "group output by pending/done")
	theme := flag.String("theme", "", "theme: classic, neon, or mono")
	yes := flag.Bool("yes", false, "skip confirmation prompts")
	verbose := flag.Bool("verbose", false, "debug logging")
	noColor := flag.Bool("no-color", false, "disable colored output")
	flag.Parse()

	ui.SetColorForcing(false, *noColor)

	// Hand the remaining args to the CLI runner.
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp()
		os.Exit(2)
	}

	code := cli.Run(args, cli.Options{
		Group:   *groupPending,
		Yes:     *yes,
		Verbose: *verbose,
		Theme:   *theme,
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
