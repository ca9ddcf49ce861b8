package auth

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/*.json
var schemaFS embed.FS

const (
	secretsFileSchema       = "schema/secrets_file.json"
	serviceAccountKeySchema = "schema/service_account_key.json"
)

var (
	schemaOnce sync.Once
	schemaErr  error
	schemas    map[string]*jsonschema.Schema
)

func loadSchemas() (map[string]*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		names := []string{secretsFileSchema, serviceAccountKeySchema}
		for _, name := range names {
			data, err := schemaFS.ReadFile(name)
			if err != nil {
				schemaErr = err
				return
			}
			if err = compiler.AddResource(schemaURL(name), bytes.NewReader(data)); err != nil {
				schemaErr = err
				return
			}
		}

		compiled := make(map[string]*jsonschema.Schema, len(names))
		for _, name := range names {
			sch, err := compiler.Compile(schemaURL(name))
			if err != nil {
				schemaErr = err
				return
			}
			compiled[name] = sch
		}
		schemas = compiled
	})
	return schemas, schemaErr
}

func schemaURL(name string) string {
	return "file:///cromwell-tools/" + name
}

// validateDocument checks data against the named schema.
func validateDocument(name string, data []byte) error {
	compiled, err := loadSchemas()
	if err != nil {
		return fmt.Errorf("compile schema %s: %w", name, err)
	}

	var document any
	if err = json.Unmarshal(data, &document); err != nil {
		return fmt.Errorf("parse json: %w", err)
	}
	return compiled[name].Validate(document)
}
