// Package template renders configuration files through text/template before
// they are parsed, so values such as {{ .env.HOME }} can be substituted.
package template

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/amalgam-lang/amalgam-go/domain/ports"
)

// templateConfig holds configuration for the GoTemplateEngine.
type templateConfig struct {
	strict bool // Fail on missing keys
}

func defaultTemplateConfig() templateConfig {
	return templateConfig{
		strict: true,
	}
}

// TemplateOption configures a GoTemplateEngine.
type TemplateOption func(*templateConfig)

// WithStrict enables/disables strict mode for missing keys.
// When enabled (default), rendering fails if a referenced key is missing.
// When disabled, missing keys render as their zero value.
func WithStrict(enabled bool) TemplateOption {
	return func(c *templateConfig) {
		c.strict = enabled
	}
}

// GoTemplateEngine implements TemplateEngine using standard text/template.
type GoTemplateEngine struct {
	config templateConfig
}

// NewGoTemplateEngine creates a new GoTemplateEngine.
func NewGoTemplateEngine(opts ...TemplateOption) ports.TemplateEngine {
	cfg := defaultTemplateConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &GoTemplateEngine{config: cfg}
}

var funcs = template.FuncMap{
	// default returns fallback when value is empty: {{ default "-mt" .env.POSTFIX }}
	"default": func(fallback string, value any) string {
		s, _ := value.(string)
		if s == "" {
			return fallback
		}
		return s
	},
}

// Render processes raw configuration bytes with the provided data.
func (e *GoTemplateEngine) Render(raw []byte, data map[string]any) ([]byte, error) {
	tmpl := template.New("config").Funcs(funcs)

	if e.config.strict {
		tmpl = tmpl.Option("missingkey=error")
	} else {
		tmpl = tmpl.Option("missingkey=zero")
	}

	tmpl, err := tmpl.Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse config template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute config template: %w", err)
	}

	return buf.Bytes(), nil
}
