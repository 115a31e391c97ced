package amalgam

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is shared; validator caches struct metadata per type.
var validate = validator.New()

// DecodeResult converts a label reply into target and checks target's
// validate tags. src may be raw JSON ([]byte or json.RawMessage), a Result
// or any JSON-marshalable value.
func DecodeResult(src any, target any) error {
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		var err error
		data, err = json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to unmarshal result into %T: %w", target, err)
	}

	if err := validate.Struct(target); err != nil {
		return fmt.Errorf("result validation failed: %w", err)
	}
	return nil
}
