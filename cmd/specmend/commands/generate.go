package commands

import (
	"flag"
	"fmt"

	"github.com/specmend/specmend/fixture"
	"github.com/specmend/specmend/internal/cliutil"
)

type generateFlags struct {
	fixtures     string
	withRequests bool
}

func setupGenerateFlags() (*flag.FlagSet, *generateFlags) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	flags := &generateFlags{}

	fs.StringVar(&flags.fixtures, "fixtures", "fixtures", "root directory to write fixtures under")
	fs.BoolVar(&flags.withRequests, "with-requests", false, "also generate request.json for operations with a JSON request body")

	fs.Usage = func() {
		output := fs.Output()
		cliutil.Writef(output, "Usage: specmend generate [flags] <file>\n\n")
		cliutil.Writef(output, "Generate skeleton fixtures for operations that lack them.\n")
		cliutil.Writef(output, "Existing fixture files are never overwritten.\n\n")
		cliutil.Writef(output, "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(output, "\nExamples:\n")
		cliutil.Writef(output, "  specmend generate patched.json\n")
		cliutil.Writef(output, "  specmend generate -fixtures testdata/fixtures -with-requests patched.json\n")
	}

	return fs, flags
}

// Generate handles the generate command.
func Generate(args []string) error {
	fs, flags := setupGenerateFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("generate command requires exactly one input file path")
	}

	g := fixture.NewGenerator(flags.fixtures)
	g.WithRequests = flags.withRequests

	result, err := g.Generate(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("generating fixtures: %w", err)
	}

	fmt.Printf("Generated %d fixtures, skipped %d existing\n\n",
		result.GeneratedCount, result.SkippedCount)
	for _, relPath := range result.Generated {
		fmt.Printf("  + %s\n", relPath)
	}
	if len(result.Generated) > 0 {
		fmt.Println()
	}
	PrintIssues("Generation findings", result.Issues)

	if !result.Success {
		return fmt.Errorf("fixture generation failed with errors")
	}
	return nil
}
