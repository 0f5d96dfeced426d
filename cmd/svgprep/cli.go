package main

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for command dispatch.
var (
	ErrNoCommand      = errors.New("no command specified")
	ErrUnknownCommand = errors.New("unknown command")
)

// run dispatches to the requested subcommand.
func run(ctx context.Context, args []string, deps *Dependencies) error {
	if len(args) == 0 {
		printUsage(deps.Stderr)
		return ErrNoCommand
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "embed":
		return runPrep(ctx, rest, deps, passEmbed)
	case "fix":
		return runPrep(ctx, rest, deps, passFix)
	case "prep":
		return runPrep(ctx, rest, deps, passBoth)
	case "pdf":
		return runPDF(ctx, rest, deps)
	case "pagesize":
		return runPageSize(rest, deps)
	case "version":
		fmt.Fprintf(deps.Stdout, "svgprep %s\n", Version)
		return nil
	case "help":
		runHelp(rest, deps)
		return nil
	default:
		printUsage(deps.Stderr)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
}
