package commands

import (
	"flag"
	"fmt"

	"github.com/specmend/specmend/converter"
	"github.com/specmend/specmend/internal/cliutil"
)

type convertFlags struct {
	out string
}

func setupConvertFlags() (*flag.FlagSet, *convertFlags) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	flags := &convertFlags{}

	fs.StringVar(&flags.out, "out", "openapi.json", "output file path for the converted document")

	fs.Usage = func() {
		output := fs.Output()
		cliutil.Writef(output, "Usage: specmend convert [flags] <file>\n\n")
		cliutil.Writef(output, "Convert a Swagger 2.0 document to OpenAPI 3.0.\n\n")
		cliutil.Writef(output, "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(output, "\nExamples:\n")
		cliutil.Writef(output, "  specmend convert swagger.json\n")
		cliutil.Writef(output, "  specmend convert -out api/openapi.json swagger.yaml\n")
	}

	return fs, flags
}

// Convert handles the convert command.
func Convert(args []string) error {
	fs, flags := setupConvertFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("convert command requires exactly one input file path")
	}

	result, err := converter.ConvertWithOptions(
		converter.WithFilePath(fs.Arg(0)),
	)
	if err != nil {
		return fmt.Errorf("converting: %w", err)
	}

	fmt.Printf("Converted %s (%s -> %s)\n", fs.Arg(0), result.SourceVersion, result.TargetVersion)
	fmt.Printf("Paths: %d  Operations: %d  Schemas: %d\n\n",
		result.Stats.PathCount, result.Stats.OperationCount, result.Stats.SchemaCount)
	PrintIssues("Conversion findings", result.Issues)

	if !result.Success {
		return fmt.Errorf("conversion failed with errors")
	}
	if err := WriteDocument(flags.out, result.Document); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", flags.out)
	return nil
}
