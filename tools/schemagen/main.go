// Command schemagen emits a JSON schema for the simulation config so the
// tuning surface stays machine-checkable. The shipped defaults are embedded
// under the schema's "default" keyword in declaration order.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/iancoleman/orderedmap"
	"github.com/invopop/jsonschema"

	"github.com/prince118-hub/Escape-Road/internal/sim"
)

func main() {
	var outPath string
	flag.StringVar(&outPath, "out", "", "path to write the JSON schema")
	flag.Parse()

	if outPath == "" {
		log.Fatal("schemagen: missing -out path")
	}

	schema, err := buildSchema()
	if err != nil {
		log.Fatalf("schemagen: %v", err)
	}

	if err := writeSchema(outPath, schema); err != nil {
		log.Fatalf("schemagen: %v", err)
	}
}

func buildSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		DoNotReference:            true,
		AllowAdditionalProperties: true,
	}

	schema := reflector.Reflect(&sim.Config{})
	if schema == nil {
		return nil, fmt.Errorf("failed to reflect config schema")
	}
	schema.Title = "Escape Road Simulation Config"
	schema.Description = "Tuning surface for the pursuit simulation core. Absent or non-positive values fall back to the shipped defaults."

	defaults, err := orderedDefaults(schema)
	if err != nil {
		return nil, err
	}
	if schema.Extras == nil {
		schema.Extras = map[string]interface{}{}
	}
	schema.Extras["default"] = defaults

	return schema, nil
}

// orderedDefaults renders DefaultConfig with its keys reordered to match the
// schema's property order, so regenerated output diffs cleanly.
func orderedDefaults(schema *jsonschema.Schema) (*orderedmap.OrderedMap, error) {
	raw, err := json.Marshal(sim.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("marshal defaults: %w", err)
	}

	parsed := orderedmap.New()
	if err := json.Unmarshal(raw, parsed); err != nil {
		return nil, fmt.Errorf("parse defaults: %w", err)
	}

	if schema.Properties == nil {
		return parsed, nil
	}

	ordered := orderedmap.New()
	for _, key := range schema.Properties.Keys() {
		if value, ok := parsed.Get(key); ok {
			ordered.Set(key, value)
		}
	}
	// Keep anything the schema does not describe rather than dropping it.
	for _, key := range parsed.Keys() {
		if _, ok := ordered.Get(key); ok {
			continue
		}
		if value, found := parsed.Get(key); found {
			ordered.Set(key, value)
		}
	}
	return ordered, nil
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}
	return nil
}
