package amalgam

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// LabelRunner is the part of host.Runtime the typed helpers need.
type LabelRunner interface {
	ExecuteEntityJSON(ctx context.Context, handle, label string, json []byte) ([]byte, error)
	GetJSONFromLabel(ctx context.Context, handle, label string) ([]byte, error)
	SetJSONToLabel(ctx context.Context, handle, label string, json []byte) error
}

// Execute runs label on the entity handle with args encoded as JSON and
// decodes the reply into T. Nil args are sent as an empty object. A null or
// empty reply yields the zero T.
func Execute[T any](ctx context.Context, r LabelRunner, handle, label string, args any) (T, error) {
	var out T

	payload := []byte("{}")
	if args != nil {
		var err error
		payload, err = json.Marshal(args)
		if err != nil {
			return out, fmt.Errorf("failed to marshal arguments for %s: %w", label, err)
		}
	}

	reply, err := r.ExecuteEntityJSON(ctx, handle, label, payload)
	if err != nil {
		return out, err
	}
	if err := decodeReply(reply, &out); err != nil {
		return out, fmt.Errorf("failed to decode reply of %s: %w", label, err)
	}
	return out, nil
}

// GetLabel returns the value of label decoded into T.
func GetLabel[T any](ctx context.Context, r LabelRunner, handle, label string) (T, error) {
	var out T
	reply, err := r.GetJSONFromLabel(ctx, handle, label)
	if err != nil {
		return out, err
	}
	if err := decodeReply(reply, &out); err != nil {
		return out, fmt.Errorf("failed to decode label %s: %w", label, err)
	}
	return out, nil
}

// SetLabel assigns value, encoded as JSON, to label.
func SetLabel(ctx context.Context, r LabelRunner, handle, label string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for %s: %w", label, err)
	}
	return r.SetJSONToLabel(ctx, handle, label, payload)
}

func decodeReply(reply []byte, out any) error {
	reply = bytes.TrimSpace(reply)
	if len(reply) == 0 || bytes.Equal(reply, []byte("null")) {
		return nil
	}
	return json.Unmarshal(reply, out)
}
