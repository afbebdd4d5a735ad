package commands

import (
	"flag"
	"fmt"

	"github.com/specmend/specmend/health"
	"github.com/specmend/specmend/internal/cliutil"
)

type healthFlags struct {
	fixtures string
}

func setupHealthFlags() (*flag.FlagSet, *healthFlags) {
	fs := flag.NewFlagSet("health", flag.ContinueOnError)
	flags := &healthFlags{}

	fs.StringVar(&flags.fixtures, "fixtures", "fixtures", "root directory holding the fixtures")

	fs.Usage = func() {
		output := fs.Output()
		cliutil.Writef(output, "Usage: specmend health [flags] <file>\n\n")
		cliutil.Writef(output, "Check fixture coverage and schema conformance for a document.\n\n")
		cliutil.Writef(output, "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(output, "\nExamples:\n")
		cliutil.Writef(output, "  specmend health patched.json\n")
		cliutil.Writef(output, "  specmend health -fixtures testdata/fixtures patched.json\n")
	}

	return fs, flags
}

// Health handles the health command.
func Health(args []string) error {
	fs, flags := setupHealthFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("health command requires exactly one input file path")
	}

	c := health.NewChecker(flags.fixtures)
	report, err := c.Check(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("checking fixtures: %w", err)
	}

	fmt.Printf("Fixture health for %s\n", fs.Arg(0))
	fmt.Printf("Coverage: %d/%d operations (%.0f%%)\n",
		report.Covered, report.TotalOperations, report.CoverageRatio()*100)
	fmt.Printf("Errors: %d  Warnings: %d\n\n", report.ErrorCount, report.WarningCount)

	printCapped("Missing fixtures", report.Missing)
	printCapped("Unmatched fixture directories", report.Unmatched)
	PrintIssues("Findings", report.Issues)
	printFindings(report)

	if !report.Healthy {
		return fmt.Errorf("fixture health check failed")
	}
	fmt.Printf("All fixtures healthy\n")
	return nil
}

func printCapped(heading string, entries []string) {
	if len(entries) == 0 {
		return
	}
	fmt.Printf("%s:\n", heading)
	shown := entries
	if len(shown) > maxShownMessages {
		shown = shown[:maxShownMessages]
	}
	for _, entry := range shown {
		fmt.Printf("  %s\n", entry)
	}
	if suppressed := len(entries) - len(shown); suppressed > 0 {
		fmt.Printf("  ... and %d more\n", suppressed)
	}
	fmt.Println()
}

func printFindings(report *health.Report) {
	shown := 0
	for _, finding := range report.Findings {
		fmt.Printf("%s (%s):\n", finding.File, finding.OperationID)
		for _, issue := range finding.Issues {
			if shown >= maxShownMessages {
				break
			}
			fmt.Printf("  %s\n", issue.String())
			shown++
		}
		if shown >= maxShownMessages {
			break
		}
		fmt.Println()
	}
	total := 0
	for _, finding := range report.Findings {
		total += len(finding.Issues)
	}
	if suppressed := total - shown; suppressed > 0 {
		fmt.Printf("  ... and %d more\n\n", suppressed)
	}
}
