// Package parser decodes configuration files.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/amalgam-lang/amalgam-go/domain/entities"
	"github.com/amalgam-lang/amalgam-go/domain/ports"
	"gopkg.in/yaml.v3"
)

// YamlConfigParser implements ConfigParser for YAML.
type YamlConfigParser struct{}

// NewYamlConfigParser creates a new YamlConfigParser.
func NewYamlConfigParser() ports.ConfigParser {
	return &YamlConfigParser{}
}

// Parse unmarshals YAML bytes over base. Unknown keys are rejected.
func (p *YamlConfigParser) Parse(data []byte, base entities.Config) (*entities.Config, error) {
	cfg := base

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid yaml config: %w", err)
	}
	return &cfg, nil
}
