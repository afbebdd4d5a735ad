package commands

import (
	"flag"
	"fmt"

	"github.com/specmend/specmend/internal/cliutil"
	"github.com/specmend/specmend/validator"
)

type validateFlags struct {
	noWarnings bool
}

func setupValidateFlags() (*flag.FlagSet, *validateFlags) {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	flags := &validateFlags{}

	fs.BoolVar(&flags.noWarnings, "no-warnings", false, "suppress warning messages (only show errors)")

	fs.Usage = func() {
		output := fs.Output()
		cliutil.Writef(output, "Usage: specmend validate [flags] <file>\n\n")
		cliutil.Writef(output, "Validate a document's structure and references.\n\n")
		cliutil.Writef(output, "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(output, "\nExamples:\n")
		cliutil.Writef(output, "  specmend validate openapi.yaml\n")
		cliutil.Writef(output, "  specmend validate --no-warnings patched.json\n")
	}

	return fs, flags
}

// Validate handles the validate command.
func Validate(args []string) error {
	fs, flags := setupValidateFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("validate command requires exactly one input file path")
	}

	result, err := validator.ValidateWithOptions(
		validator.WithFilePath(fs.Arg(0)),
		validator.WithIncludeWarnings(!flags.noWarnings),
	)
	if err != nil {
		return fmt.Errorf("validating: %w", err)
	}

	fmt.Printf("Validated %s (version %s)\n", fs.Arg(0), result.Version)
	fmt.Printf("Errors: %d  Warnings: %d\n\n", result.ErrorCount, result.WarningCount)
	PrintIssues("Errors", result.Errors)
	if !flags.noWarnings {
		PrintIssues("Warnings", result.Warnings)
	}

	if !result.Valid {
		return fmt.Errorf("validation failed with %d errors", result.ErrorCount)
	}
	fmt.Printf("Document is valid\n")
	return nil
}
