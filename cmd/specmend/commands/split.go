package commands

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specmend/specmend/internal/cliutil"
	"github.com/specmend/specmend/internal/fileutil"
	"github.com/specmend/specmend/parser"
	"github.com/specmend/specmend/summary"
)

type splitFlags struct {
	jsonOut     string
	markdownOut string
}

func setupSplitFlags() (*flag.FlagSet, *splitFlags) {
	fs := flag.NewFlagSet("split", flag.ContinueOnError)
	flags := &splitFlags{}

	fs.StringVar(&flags.jsonOut, "json", "operations.json", "output path for the machine-readable summary")
	fs.StringVar(&flags.markdownOut, "markdown", "operations.md", "output path for the human-readable summary")

	fs.Usage = func() {
		output := fs.Output()
		cliutil.Writef(output, "Usage: specmend split [flags] <file>\n\n")
		cliutil.Writef(output, "Emit machine and human operation summaries for an OpenAPI 3.0 document.\n\n")
		cliutil.Writef(output, "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(output, "\nExamples:\n")
		cliutil.Writef(output, "  specmend split patched.json\n")
		cliutil.Writef(output, "  specmend split -json ops.json -markdown ops.md patched.json\n")
	}

	return fs, flags
}

// Split handles the split command.
func Split(args []string) error {
	fs, flags := setupSplitFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("split command requires exactly one input file path")
	}

	p := parser.New()
	parseResult, err := p.Parse(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("parsing file: %w", err)
	}
	doc, ok := parseResult.OAS3Document()
	if !ok {
		return fmt.Errorf("document is not OpenAPI 3.x: convert it first")
	}

	summaries := summary.Build(doc)

	var title string
	if doc.Info != nil {
		title = doc.Info.Title
	}
	if err := writeSummaryFile(flags.jsonOut, func(f *os.File) error {
		return summary.WriteJSON(f, summaries)
	}); err != nil {
		return err
	}
	if err := writeSummaryFile(flags.markdownOut, func(f *os.File) error {
		return summary.WriteMarkdown(f, title, summaries)
	}); err != nil {
		return err
	}

	fmt.Printf("Summarized %d operations\n", len(summaries))
	fmt.Printf("Wrote %s and %s\n", flags.jsonOut, flags.markdownOut)
	return nil
}

func writeSummaryFile(path string, write func(*os.File) error) error {
	if err := os.MkdirAll(filepath.Dir(path), fileutil.DirReadableByAll); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fileutil.ReadableByAll)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := write(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
