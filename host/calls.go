package host

import (
	"context"
	stdErrors "errors"

	"github.com/amalgam-lang/amalgam-go/domain/entities"
	"github.com/amalgam-lang/amalgam-go/domain/errors"
	"github.com/amalgam-lang/amalgam-go/infrastructure/trace"
)

// LoadEntity loads the entity at path under handle. The returned status is
// always the library's reply; a status that is not loaded also yields an
// EntityLoadError. A strict registry claims the handle before the library
// is called.
func (r *Runtime) LoadEntity(ctx context.Context, handle, path string, opts ...entities.LoadOption) (entities.LoadEntityStatus, error) {
	o := entities.NewLoadOptions(opts...)

	if err := r.registry.Reserve(handle); err != nil {
		return entities.LoadEntityStatus{}, err
	}

	cmd := trace.Command("LOAD_ENTITY",
		trace.Quoted(handle), trace.Quoted(path),
		o.Persist, o.LoadContained, o.EscapeFilename, o.EscapeContainedFilenames,
		trace.Quoted(o.WriteLog), trace.Quoted(o.PrintLog),
	)

	res, err := r.call(ctx, &Call{Function: "LoadEntity", Handle: handle, Command: cmd, Counted: true}, func() (any, error) {
		r.loadMu.Lock()
		r.lastLoad = cmd
		r.loadMu.Unlock()
		return r.lib.LoadEntity(handle, path, o)
	})
	if err != nil {
		r.registry.Release(handle)
		return entities.LoadEntityStatus{}, err
	}

	status := res.(entities.LoadEntityStatus)
	if !status.Loaded {
		r.registry.Release(handle)
		return status, &errors.EntityLoadError{Status: status, Handle: handle, Path: path}
	}

	if err := r.registry.Register(entities.EntityRecord{
		Handle:     handle,
		SourcePath: path,
		Persist:    o.Persist,
		Version:    status.Version,
		LoadedAt:   r.now(),
	}); err != nil {
		return status, err
	}
	return status, nil
}

// VerifyEntity checks that the source at path can be loaded without loading it.
func (r *Runtime) VerifyEntity(ctx context.Context, path string) (entities.LoadEntityStatus, error) {
	cmd := trace.Command("VERIFY_ENTITY", trace.Quoted(path))
	res, err := r.call(ctx, &Call{Function: "VerifyEntity", Command: cmd, Counted: true}, func() (any, error) {
		return r.lib.VerifyEntity(path)
	})
	if err != nil {
		return entities.LoadEntityStatus{}, err
	}

	status := res.(entities.LoadEntityStatus)
	if !status.Loaded {
		return status, &errors.EntityLoadError{Status: status, Path: path}
	}
	return status, nil
}

// CloneEntity copies the entity handle into cloneHandle. A strict registry
// claims cloneHandle before the library is called.
func (r *Runtime) CloneEntity(ctx context.Context, handle, cloneHandle string, opts entities.CloneOptions) error {
	if err := r.registry.Reserve(cloneHandle); err != nil {
		return err
	}

	cmd := trace.Command("CLONE_ENTITY",
		trace.Quoted(handle), trace.Quoted(cloneHandle), trace.Quoted(opts.Path),
		opts.Persist, trace.Quoted(opts.WriteLog), trace.Quoted(opts.PrintLog),
	)
	res, err := r.call(ctx, &Call{Function: "CloneEntity", Handle: handle, Command: cmd, Counted: true}, func() (any, error) {
		return r.lib.CloneEntity(handle, cloneHandle, opts)
	})
	if err != nil {
		r.registry.Release(cloneHandle)
		return err
	}
	if !res.(bool) {
		r.registry.Release(cloneHandle)
		return &errors.CallError{
			Err:      stdErrors.New("entity was not cloned into " + cloneHandle),
			Function: "CloneEntity",
			Handle:   handle,
		}
	}

	record := entities.EntityRecord{
		Handle:     cloneHandle,
		SourcePath: opts.Path,
		Persist:    opts.Persist,
		ClonedFrom: handle,
		LoadedAt:   r.now(),
	}
	if src, ok := r.registry.Get(handle); ok {
		record.Version = src.Version
	}
	return r.registry.Register(record)
}

// StoreEntity writes the entity to path, in the format its extension names.
func (r *Runtime) StoreEntity(ctx context.Context, handle, path string, opts entities.StoreOptions) error {
	cmd := trace.Command("STORE_ENTITY",
		trace.Quoted(handle), trace.Quoted(path),
		opts.UpdatePersistenceLocation, opts.StoreContained,
	)
	_, err := r.call(ctx, &Call{Function: "StoreEntity", Handle: handle, Command: cmd, DiscardReply: true, Counted: true}, func() (any, error) {
		return nil, r.lib.StoreEntity(handle, path, opts)
	})
	return err
}

// DestroyEntity unloads the entity and forgets its handle.
func (r *Runtime) DestroyEntity(ctx context.Context, handle string) error {
	cmd := trace.Command("DESTROY_ENTITY", trace.Quoted(handle))
	_, err := r.call(ctx, &Call{Function: "DestroyEntity", Handle: handle, Command: cmd, DiscardReply: true, Counted: true}, func() (any, error) {
		return nil, r.lib.DestroyEntity(handle)
	})
	if err != nil {
		return err
	}
	r.registry.Remove(handle)
	return nil
}

// SetRandomSeed seeds the entity's random number generator.
func (r *Runtime) SetRandomSeed(ctx context.Context, handle, seed string) error {
	cmd := trace.Command("SET_RANDOM_SEED", trace.Quoted(handle), trace.Quoted(seed))
	res, err := r.call(ctx, &Call{Function: "SetRandomSeed", Handle: handle, Command: cmd, DiscardReply: true, Counted: true}, func() (any, error) {
		return r.lib.SetRandomSeed(handle, seed)
	})
	if err != nil {
		return err
	}
	if !res.(bool) {
		return &errors.CallError{
			Err:      stdErrors.New("random seed was not set"),
			Function: "SetRandomSeed",
			Handle:   handle,
		}
	}
	return nil
}

// Entities returns the handles of all top level entities the library holds,
// including ones loaded outside this runtime.
func (r *Runtime) Entities(ctx context.Context) ([]string, error) {
	res, err := r.call(ctx, &Call{Function: "GetEntities", Counted: true}, func() (any, error) {
		return r.lib.GetEntities()
	})
	if err != nil {
		return nil, err
	}
	return res.([]string), nil
}

// ExecuteEntityJSON runs label with the JSON encoded arguments and returns
// the JSON reply unchanged.
func (r *Runtime) ExecuteEntityJSON(ctx context.Context, handle, label string, json []byte) ([]byte, error) {
	cmd := trace.Command("EXECUTE_ENTITY_JSON", trace.Quoted(handle), trace.Quoted(label), json)
	res, err := r.call(ctx, &Call{Function: "ExecuteEntityJsonPtr", Handle: handle, Command: cmd, Timed: true}, func() (any, error) {
		out, err := r.lib.ExecuteEntityJSON(handle, label, string(json))
		return []byte(out), err
	})
	if err != nil {
		return nil, err
	}
	return res.([]byte), nil
}

// GetJSONFromLabel returns the JSON value of label.
func (r *Runtime) GetJSONFromLabel(ctx context.Context, handle, label string) ([]byte, error) {
	cmd := trace.Command("GET_JSON_FROM_LABEL", trace.Quoted(handle), trace.Quoted(label))
	res, err := r.call(ctx, &Call{Function: "GetJSONPtrFromLabel", Handle: handle, Command: cmd, Counted: true}, func() (any, error) {
		out, err := r.lib.GetJSONFromLabel(handle, label)
		return []byte(out), err
	})
	if err != nil {
		return nil, err
	}
	return res.([]byte), nil
}

// SetJSONToLabel assigns the JSON value to label.
func (r *Runtime) SetJSONToLabel(ctx context.Context, handle, label string, json []byte) error {
	cmd := trace.Command("SET_JSON_TO_LABEL", trace.Quoted(handle), trace.Quoted(label), json)
	_, err := r.call(ctx, &Call{Function: "SetJSONToLabel", Handle: handle, Command: cmd, DiscardReply: true, Counted: true}, func() (any, error) {
		return nil, r.lib.SetJSONToLabel(handle, label, string(json))
	})
	return err
}
