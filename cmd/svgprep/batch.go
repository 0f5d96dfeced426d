package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	svgprep "github.com/alnah/go-svgprep"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// passMode selects which normalization passes to run.
type passMode int

const (
	passEmbed passMode = iota
	passFix
	passBoth
)

// Preparer is the interface for the preparation service.
type Preparer interface {
	EmbedFile(ctx context.Context, path string) (*svgprep.Result, error)
	FixFile(ctx context.Context, path string) (*svgprep.Result, error)
	PrepFile(ctx context.Context, path string) (*svgprep.Result, error)
}

// Compile-time interface implementation check.
var _ Preparer = (*svgprep.Service)(nil)

// Pool abstracts service pool operations for testability.
type Pool interface {
	Acquire() Preparer
	Release(Preparer)
	Size() int
}

// PrepOutcome holds the outcome of processing a single file.
type PrepOutcome struct {
	InputPath  string
	OutputPath string
	Result     *svgprep.Result
	Err        error
	Duration   time.Duration
}

// prepBatch processes files concurrently using the service pool.
func prepBatch(ctx context.Context, pool Pool, files []FileToPrep, mode passMode, dryRun bool) []PrepOutcome {
	if len(files) == 0 {
		return nil
	}

	concurrency := pool.Size()
	if concurrency > len(files) {
		concurrency = len(files)
	}

	outcomes := make([]PrepOutcome, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			svc := pool.Acquire()
			defer pool.Release(svc)

			for idx := range jobs {
				if ctx.Err() != nil {
					outcomes[idx] = PrepOutcome{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				outcomes[idx] = prepFile(ctx, svc, files[idx], mode, dryRun)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return outcomes
}

// prepFile processes a single file and returns the outcome. When the output
// path differs from the input, the input is copied there first and the
// passes rewrite the copy, leaving the original untouched. Under dry-run
// the copy is skipped and the passes read the input directly, so no file
// is ever written.
func prepFile(ctx context.Context, svc Preparer, f FileToPrep, mode passMode, dryRun bool) PrepOutcome {
	start := time.Now()
	outcome := PrepOutcome{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}

	target := f.OutputPath
	if dryRun {
		target = f.InputPath
	} else if f.OutputPath != f.InputPath {
		if err := copyFile(f.InputPath, f.OutputPath); err != nil {
			outcome.Err = err
			outcome.Duration = time.Since(start)
			return outcome
		}
	}

	var result *svgprep.Result
	var err error
	switch mode {
	case passEmbed:
		result, err = svc.EmbedFile(ctx, target)
	case passFix:
		result, err = svc.FixFile(ctx, target)
	default:
		result, err = svc.PrepFile(ctx, target)
	}

	outcome.Result = result
	outcome.Err = err
	outcome.Duration = time.Since(start)
	return outcome
}

// copyFile copies src to dst, creating parent directories as needed.
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src) // #nosec G304 -- discovered path
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), dirPermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	// #nosec G306 -- SVG files are meant to be readable
	if err := os.WriteFile(dst, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// printOutcomes reports batch results using the provided writers.
// Returns the number of failed files.
func printOutcomes(outcomes []PrepOutcome, quiet, verbose bool, deps *Dependencies) int {
	var succeeded, failed int

	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "FAILED %s: %v\n", o.InputPath, o.Err)
			continue
		}

		succeeded++
		for _, w := range o.Result.Warnings {
			fmt.Fprintf(deps.Stderr, "WARNING %s: %s\n", o.InputPath, w)
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(deps.Stdout, "%s -> %s (embedded %d, inlined %d, fixed %d) (%v)\n",
				o.InputPath, o.OutputPath,
				o.Result.Embedded, o.Result.Inlined, o.Result.Fixed,
				o.Duration.Round(time.Millisecond))
			for _, d := range o.Result.Details {
				fmt.Fprintf(deps.Stdout, "  %s\n", d)
			}
			continue
		}

		if o.Result.Written {
			fmt.Fprintf(deps.Stdout, "Updated %s\n", o.OutputPath)
		} else {
			fmt.Fprintf(deps.Stdout, "Unchanged %s\n", o.OutputPath)
		}
	}

	if !quiet && len(outcomes) > 1 {
		fmt.Fprintf(deps.Stdout, "\n%d succeeded, %d failed\n", succeeded, failed)
	}

	return failed
}
