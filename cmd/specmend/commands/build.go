package commands

import (
	"flag"
	"fmt"

	"github.com/specmend/specmend/converter"
	"github.com/specmend/specmend/internal/cliutil"
	"github.com/specmend/specmend/parser"
	"github.com/specmend/specmend/patcher"
	"github.com/specmend/specmend/validator"
)

type buildFlags struct {
	out       string
	overrides string
}

func setupBuildFlags() (*flag.FlagSet, *buildFlags) {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	flags := &buildFlags{}

	fs.StringVar(&flags.out, "out", "patched.json", "output file path for the final document")
	fs.StringVar(&flags.overrides, "overrides", "", "directory of override files to merge (empty disables)")

	fs.Usage = func() {
		output := fs.Output()
		cliutil.Writef(output, "Usage: specmend build [flags] <file>\n\n")
		cliutil.Writef(output, "Run convert, patch, and validate as one pipeline.\n")
		cliutil.Writef(output, "A Swagger 2.0 input is converted first; OpenAPI 3.0 input skips conversion.\n")
		cliutil.Writef(output, "The pipeline aborts on the first failing stage.\n\n")
		cliutil.Writef(output, "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(output, "\nExamples:\n")
		cliutil.Writef(output, "  specmend build swagger.json\n")
		cliutil.Writef(output, "  specmend build -overrides overrides/ -out patched.json swagger.json\n")
	}

	return fs, flags
}

// Build handles the build command.
func Build(args []string) error {
	fs, flags := setupBuildFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("build command requires exactly one input file path")
	}

	p := parser.New()
	parseResult, err := p.Parse(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("parsing file: %w", err)
	}

	// Stage 1: convert, unless the input is already OpenAPI 3.x
	if parseResult.IsOAS2() {
		convResult, err := converter.ConvertWithOptions(
			converter.WithParsed(*parseResult),
		)
		if err != nil {
			return fmt.Errorf("converting: %w", err)
		}
		PrintIssues("Conversion findings", convResult.Issues)
		if !convResult.Success {
			return fmt.Errorf("build aborted: conversion failed")
		}
		fmt.Printf("Converted %s -> %s\n", convResult.SourceVersion, convResult.TargetVersion)
		parseResult = reparse(parseResult, convResult.Document)
	}

	// Stage 2: patch
	patchOpts := []patcher.Option{
		patcher.WithParsed(*parseResult),
	}
	if flags.overrides != "" {
		patchOpts = append(patchOpts, patcher.WithOverrideDir(flags.overrides))
	}
	patchResult, err := patcher.PatchWithOptions(patchOpts...)
	if err != nil {
		return fmt.Errorf("patching: %w", err)
	}
	PrintIssues("Patch findings", patchResult.Issues)
	if !patchResult.Success {
		return fmt.Errorf("build aborted: patching failed")
	}
	fmt.Printf("Applied %d patches\n", patchResult.PatchCount)

	// Stage 3: validate the patched document
	valResult, err := validator.ValidateWithOptions(
		validator.WithParsed(*reparse(parseResult, patchResult.Document)),
	)
	if err != nil {
		return fmt.Errorf("validating: %w", err)
	}
	PrintIssues("Validation errors", valResult.Errors)
	PrintIssues("Validation warnings", valResult.Warnings)
	if !valResult.Valid {
		return fmt.Errorf("build aborted: validation failed with %d errors", valResult.ErrorCount)
	}

	if err := WriteDocument(flags.out, patchResult.Document); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", flags.out)
	return nil
}

// reparse threads a transformed document through the next stage while
// preserving the original source identity.
func reparse(parseResult *parser.ParseResult, doc *parser.OAS3Document) *parser.ParseResult {
	return &parser.ParseResult{
		SourcePath:   parseResult.SourcePath,
		SourceFormat: parseResult.SourceFormat,
		Version:      doc.OpenAPI,
		Document:     doc,
		Stats:        parseResult.Stats,
	}
}
