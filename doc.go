// Package specmend provides a maintenance toolchain for a vendor-supplied
// Swagger 2.0 API description: conversion to OpenAPI 3.0, layered corrective
// patching, structural validation, example-derived fixture generation, and
// fixture coverage checking.
//
// # Overview
//
// The library consists of six primary packages:
//
//   - parser: Parse specification documents and resolve local $ref pointers
//   - converter: Convert Swagger 2.0 documents to OpenAPI 3.0
//   - patcher: Apply ordered corrective passes and user override layers
//   - validator: Validate documents structurally and check concrete JSON
//     values against schema definitions
//   - fixture: Generate and read example-derived test fixtures
//   - health: Cross-check fixture coverage against declared operations
//
// # Quick Start
//
// Convert a vendor Swagger 2.0 document:
//
//	import "github.com/specmend/specmend/converter"
//
//	c := converter.New()
//	result, err := c.Convert("swagger.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Patch the converted document:
//
//	import "github.com/specmend/specmend/patcher"
//
//	result, err := patcher.PatchWithOptions(
//	    patcher.WithFilePath("openapi.json"),
//	    patcher.WithOverrideDir("overrides"),
//	)
//
// Check fixture health:
//
//	import "github.com/specmend/specmend/health"
//
//	report, err := health.NewChecker("fixtures").Check("openapi.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("covered %d of %d operations\n", report.Covered, report.TotalOperations)
//
// The specmend CLI wires these packages into a build pipeline:
//
//	specmend build            # convert -> patch -> validate
//	specmend generate         # emit fixtures from embedded examples
//	specmend health           # fixture coverage and conformance report
package specmend
