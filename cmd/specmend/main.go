package main

import (
	"fmt"
	"os"

	"github.com/specmend/specmend"
	"github.com/specmend/specmend/cmd/specmend/commands"
	"github.com/specmend/specmend/internal/cliutil"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("specmend v%s\n", specmend.Version())
	case "help", "-h", "--help":
		printUsage()
	case "convert":
		run(commands.Convert)
	case "patch":
		run(commands.Patch)
	case "validate":
		run(commands.Validate)
	case "split":
		run(commands.Split)
	case "generate":
		run(commands.Generate)
	case "health":
		run(commands.Health)
	case "build":
		run(commands.Build)
	default:
		cliutil.Errorf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func run(handler func(args []string) error) {
	if err := handler(os.Args[2:]); err != nil {
		cliutil.Errorf("Error: %v", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`specmend - OpenAPI specification maintenance toolchain

Usage: specmend <command> [flags] [arguments]

Commands:
  convert     Convert a Swagger 2.0 document to OpenAPI 3.0
  patch       Apply the correction passes and overrides to a document
  validate    Validate a document's structure and references
  split       Emit machine and human operation summaries
  generate    Generate missing response fixtures
  health      Check fixture coverage and conformance
  build       Run convert, patch, and validate as one pipeline
  version     Print version information
  help        Show this help message

Use 'specmend <command> -h' for command-specific flags.

Examples:
  specmend convert -out openapi.json swagger.json
  specmend patch -overrides overrides/ -out patched.json openapi.json
  specmend health -fixtures fixtures/ patched.json
  specmend build -overrides overrides/ -out patched.json swagger.json
`)
}
