// Package schema provides JSON schema validation for testnorm artifacts and configuration.
package schema

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	schemafs "github.com/AndreyAkinshin/testnorm/schema"
)

const (
	canonicalSchemaFile = "canonical.schema.json"
	trxReportSchemaFile = "trx-report.schema.json"
	configSchemaFile    = "config.schema.json"
)

var (
	canonicalSchema *jsonschema.Schema
	trxReportSchema *jsonschema.Schema
	configSchema    *jsonschema.Schema
	compileOnce     sync.Once
	compileErr      error
)

// compileSchemas compiles all embedded schemas once.
func compileSchemas() error {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()

		for _, name := range []string{canonicalSchemaFile, trxReportSchemaFile, configSchemaFile} {
			data, err := schemafs.FS.ReadFile(name)
			if err != nil {
				compileErr = fmt.Errorf("read %s: %w", name, err)
				return
			}
			doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
			if err != nil {
				compileErr = fmt.Errorf("unmarshal %s: %w", name, err)
				return
			}
			if err := compiler.AddResource(name, doc); err != nil {
				compileErr = fmt.Errorf("add %s resource: %w", name, err)
				return
			}
		}

		var err error
		if canonicalSchema, err = compiler.Compile(canonicalSchemaFile); err != nil {
			compileErr = fmt.Errorf("compile canonical schema: %w", err)
			return
		}
		if trxReportSchema, err = compiler.Compile(trxReportSchemaFile); err != nil {
			compileErr = fmt.Errorf("compile TRX report schema: %w", err)
			return
		}
		if configSchema, err = compiler.Compile(configSchemaFile); err != nil {
			compileErr = fmt.Errorf("compile config schema: %w", err)
			return
		}
	})

	return compileErr
}

func validate(data []byte, pick func() *jsonschema.Schema, what string) error {
	if err := compileSchemas(); err != nil {
		return err
	}

	v, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if err := pick().Validate(v); err != nil {
		return fmt.Errorf("%s validation failed: %w", what, err)
	}

	return nil
}

// ValidateCanonical validates a canonical results artifact.
func ValidateCanonical(data []byte) error {
	return validate(data, func() *jsonschema.Schema { return canonicalSchema }, "canonical artifact")
}

// ValidateTRXReport validates a converted TRX report.
func ValidateTRXReport(data []byte) error {
	return validate(data, func() *jsonschema.Schema { return trxReportSchema }, "TRX report")
}

// ValidateConfig validates configuration data, already converted to JSON.
func ValidateConfig(data []byte) error {
	return validate(data, func() *jsonschema.Schema { return configSchema }, "config")
}
