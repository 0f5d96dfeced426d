package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	svgprep "github.com/alnah/go-svgprep"
	"github.com/alnah/go-svgprep/internal/config"
)

// runPrep orchestrates the embed/fix/prep commands.
func runPrep(ctx context.Context, args []string, deps *Dependencies, mode passMode) error {
	name := commandName(mode)
	flags, positional, err := parsePrepFlags(name, args)
	if err != nil {
		return err
	}

	if err := validateWorkers(flags.workers); err != nil {
		return err
	}
	if flags.tolerance < 0 {
		return fmt.Errorf("%w: %g (must be >= 0, 0 means default)", ErrInvalidTolerance, flags.tolerance)
	}

	cfg := config.DefaultConfig()
	if flags.common.config != "" {
		cfg, err = config.LoadConfig(flags.common.config)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	opts, err := serviceOptions(flags, cfg)
	if err != nil {
		return err
	}

	inputs, err := resolveInputPaths(positional, cfg)
	if err != nil {
		return err
	}
	outputDir := resolveOutputDir(flags.output, cfg)

	files, err := discoverInputs(inputs, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no SVG files found in %s", ErrNoInput, strings.Join(inputs, ", "))
	}

	workers := flags.workers
	if workers == 0 {
		workers = cfg.Batch.Workers
	}
	poolSize := svgprep.ResolvePoolSize(workers)
	if poolSize > len(files) {
		poolSize = len(files)
	}
	if flags.common.verbose {
		fmt.Fprintf(deps.Stderr, "Pool size: %d\n", poolSize)
	}

	pool := newPoolAdapter(poolSize, opts...)
	defer pool.Close()

	outcomes := prepBatch(ctx, pool, files, mode, flags.dryRun)

	failed := printOutcomes(outcomes, flags.common.quiet, flags.common.verbose, deps)
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed", failed)
	}
	return nil
}

// serviceOptions builds service options from flags and config. CLI values
// override config values.
func serviceOptions(flags *prepFlags, cfg *config.Config) ([]svgprep.Option, error) {
	var opts []svgprep.Option

	if flags.dryRun {
		opts = append(opts, svgprep.WithDryRun())
	}

	tolerance := cfg.Fix.Tolerance
	if flags.tolerance > 0 {
		tolerance = flags.tolerance
	}
	if tolerance > 0 {
		opts = append(opts, svgprep.WithTolerance(tolerance))
	}

	if flags.timeout != "" {
		d, err := time.ParseDuration(flags.timeout)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTimeout, flags.timeout)
		}
		opts = append(opts, svgprep.WithTimeout(d))
	}

	return opts, nil
}

// commandName maps a pass mode to its CLI command name.
func commandName(mode passMode) string {
	switch mode {
	case passEmbed:
		return "embed"
	case passFix:
		return "fix"
	default:
		return "prep"
	}
}
