package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// ErrSchemaViolation is returned when a config file does not match the schema.
var ErrSchemaViolation = errors.New("config does not match schema")

//go:embed schema.json
var schemaJSON []byte

// Schema returns the JSON schema that config files are validated against.
func Schema() []byte {
	return schemaJSON
}

// ValidateFile checks the YAML file at path against the embedded schema.
// An empty document is valid.
func ValidateFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	return ValidateYAML(raw)
}

// ValidateYAML checks a YAML document against the embedded schema. All
// violations are reported in a single error wrapping ErrSchemaViolation.
func ValidateYAML(raw []byte) error {
	var doc any

	err := yaml.Unmarshal(raw, &doc)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	if doc == nil {
		return nil
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		msgs = append(msgs, re.String())
	}

	return fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(msgs, "; "))
}
