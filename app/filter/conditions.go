package filter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadConditions reads a YAML conditions file. Keys that are absent leave the rule disabled.
func LoadConditions(path string) (*Conditions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	conditions, err := ParseConditions(data)
	if err != nil {
		return nil, fmt.Errorf("invalid conditions %s: %w", path, err)
	}

	slog.Debug("Conditions loaded", "path", path, "conditions", conditions.String())

	return conditions, nil
}

func ParseConditions(data []byte) (*Conditions, error) {
	var conditions Conditions
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&conditions); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := conditions.Validate(); err != nil {
		return nil, err
	}

	return &conditions, nil
}

// Validate rejects lists that are present but would never match anything.
func (c *Conditions) Validate() error {
	if c == nil {
		return nil
	}

	listFields := map[string][]string{
		"required_keywords": c.RequiredKeywords,
		"allowed_origins":   c.AllowedOrigins,
	}

	for fieldName, values := range listFields {
		if values == nil {
			continue
		}
		if len(values) == 0 {
			return fmt.Errorf("%s must not be empty when present", fieldName)
		}
		for i, value := range values {
			if strings.TrimSpace(value) == "" {
				return fmt.Errorf("%s entry at index %d is blank", fieldName, i)
			}
		}
	}

	return nil
}

// Merge returns a copy of c with the non-empty rules of override applied on top.
func (c *Conditions) Merge(override *Conditions) *Conditions {
	merged := &Conditions{}
	if c != nil {
		*merged = *c
	}
	if override == nil {
		return merged
	}

	if override.RequiredKeywords != nil {
		merged.RequiredKeywords = override.RequiredKeywords
	}
	if override.OnlyNegativeSentiment {
		merged.OnlyNegativeSentiment = true
	}
	if override.AllowedOrigins != nil {
		merged.AllowedOrigins = override.AllowedOrigins
	}

	return merged
}
