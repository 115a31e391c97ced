package ports

import "github.com/amalgam-lang/amalgam-go/domain/entities"

// ConfigParser decodes raw configuration bytes.
type ConfigParser interface {
	// Parse decodes data over base, leaving unset fields at their base values.
	Parse(data []byte, base entities.Config) (*entities.Config, error)
}

// ConfigValidator validates a decoded configuration.
type ConfigValidator interface {
	Validate(cfg *entities.Config) (*entities.ValidationResult, error)
}

// TemplateEngine renders a configuration template before parsing.
type TemplateEngine interface {
	Render(raw []byte, data map[string]any) ([]byte, error)
}
