package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	svgprep "github.com/alnah/go-svgprep"
	"github.com/alnah/go-svgprep/internal/config"
	"github.com/alnah/go-svgprep/internal/fileutil"
)

// Sentinel errors for input handling.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrInvalidPattern     = errors.New("invalid glob pattern")
	ErrInvalidExtension   = errors.New("file must have .svg extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidTolerance   = errors.New("invalid tolerance")
	ErrInvalidTimeout     = errors.New("invalid timeout")
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrWriteOutput        = errors.New("failed to write output")
)

// FileToPrep represents a single file to process.
type FileToPrep struct {
	InputPath  string
	OutputPath string
}

// discoverInputs expands every input as a glob pattern and merges the
// discovered file sets in input order, dropping duplicates. A pattern
// matching nothing is an error, never a silent skip.
func discoverInputs(inputs []string, outputDir string) ([]FileToPrep, error) {
	seen := make(map[string]bool)
	var files []FileToPrep

	for _, input := range inputs {
		matches, err := filepath.Glob(input)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, input)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: nothing matches %q", ErrNoInput, input)
		}
		for _, match := range matches {
			discovered, err := discoverFiles(match, outputDir)
			if err != nil {
				return nil, err
			}
			for _, f := range discovered {
				if seen[f.InputPath] {
					continue
				}
				seen[f.InputPath] = true
				files = append(files, f)
			}
		}
	}
	return files, nil
}

// discoverFiles finds all SVG files to process. A file input yields one
// entry; a directory is walked recursively. Results are sorted by input
// path so batch order is deterministic.
func discoverFiles(inputPath, outputDir string) ([]FileToPrep, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateSVGExtension(inputPath); err != nil {
			return nil, err
		}
		outPath := resolveOutputPath(inputPath, outputDir, "")
		return []FileToPrep{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToPrep
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			return nil
		}
		if !fileutil.IsSVG(path) {
			return nil
		}
		outPath := resolveOutputPath(path, outputDir, inputPath)
		files = append(files, FileToPrep{InputPath: path, OutputPath: outPath})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].InputPath < files[j].InputPath })
	return files, nil
}

// resolveOutputPath determines the output path for an SVG file. Empty
// outputDir means rewrite in place. An outputDir ending in .svg names the
// output file directly.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	if outputDir == "" {
		return inputPath
	}

	if strings.HasSuffix(outputDir, ".svg") {
		return outputDir
	}

	base := filepath.Base(inputPath)
	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(outputDir, relPath)
		}
	}

	return filepath.Join(outputDir, base)
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveInputPaths determines the input patterns from args or config.
// Every positional argument is an input; none are dropped.
func resolveInputPaths(args []string, cfg *config.Config) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if cfg.Input.DefaultDir != "" {
		return []string{cfg.Input.DefaultDir}, nil
	}
	return nil, ErrNoInput
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// validateSVGExtension checks that the file has an .svg extension.
func validateSVGExtension(path string) error {
	if !fileutil.IsSVG(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > svgprep.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, svgprep.MaxPoolSize)
	}
	return nil
}
