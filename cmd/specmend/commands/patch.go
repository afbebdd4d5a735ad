package commands

import (
	"flag"
	"fmt"
	"strings"

	"github.com/specmend/specmend/internal/cliutil"
	"github.com/specmend/specmend/patcher"
)

type patchFlags struct {
	out       string
	overrides string
	passes    string
}

func setupPatchFlags() (*flag.FlagSet, *patchFlags) {
	fs := flag.NewFlagSet("patch", flag.ContinueOnError)
	flags := &patchFlags{}

	fs.StringVar(&flags.out, "out", "patched.json", "output file path for the patched document")
	fs.StringVar(&flags.overrides, "overrides", "", "directory of override files to merge (empty disables)")
	fs.StringVar(&flags.passes, "passes", "", "comma-separated pass names to run (empty runs all)")

	fs.Usage = func() {
		output := fs.Output()
		cliutil.Writef(output, "Usage: specmend patch [flags] <file>\n\n")
		cliutil.Writef(output, "Apply the correction passes and overrides to an OpenAPI 3.0 document.\n\n")
		cliutil.Writef(output, "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(output, "\nExamples:\n")
		cliutil.Writef(output, "  specmend patch openapi.json\n")
		cliutil.Writef(output, "  specmend patch -overrides overrides/ -out patched.json openapi.json\n")
		cliutil.Writef(output, "  specmend patch -passes strip-headers,backfill-operation-ids openapi.json\n")
	}

	return fs, flags
}

// Patch handles the patch command.
func Patch(args []string) error {
	fs, flags := setupPatchFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("patch command requires exactly one input file path")
	}

	opts := []patcher.Option{
		patcher.WithFilePath(fs.Arg(0)),
	}
	if flags.overrides != "" {
		opts = append(opts, patcher.WithOverrideDir(flags.overrides))
	}
	if flags.passes != "" {
		var passes []patcher.PassName
		for _, name := range strings.Split(flags.passes, ",") {
			passes = append(passes, patcher.PassName(strings.TrimSpace(name)))
		}
		opts = append(opts, patcher.WithEnabledPasses(passes...))
	}

	result, err := patcher.PatchWithOptions(opts...)
	if err != nil {
		return fmt.Errorf("patching: %w", err)
	}

	fmt.Printf("Applied %d patches to %s\n\n", result.PatchCount, fs.Arg(0))
	printPatches(result)
	PrintIssues("Patch findings", result.Issues)

	if !result.Success {
		return fmt.Errorf("patching failed with errors")
	}
	if err := WriteDocument(flags.out, result.Document); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", flags.out)
	return nil
}

// printPatches prints applied patches with the same cap as findings.
func printPatches(result *patcher.PatchResult) {
	if len(result.Patches) == 0 {
		return
	}
	fmt.Printf("Patches:\n")
	shown := result.Patches
	if len(shown) > maxShownMessages {
		shown = shown[:maxShownMessages]
	}
	for _, patch := range shown {
		fmt.Printf("  [%s] %s: %s\n", patch.Pass, patch.Path, patch.Description)
	}
	if suppressed := len(result.Patches) - len(shown); suppressed > 0 {
		fmt.Printf("  ... and %d more\n", suppressed)
	}
	fmt.Println()
}
