package host

import (
	"context"
	"fmt"

	"github.com/amalgam-lang/amalgam-go/domain/entities"
	"github.com/amalgam-lang/amalgam-go/infrastructure/trace"
)

// Version returns the semantic version of the loaded library.
func (r *Runtime) Version(ctx context.Context) (string, error) {
	res, err := r.call(ctx, &Call{Function: "GetVersionString"}, func() (any, error) {
		return r.lib.GetVersionString()
	})
	if err != nil {
		return "", err
	}
	v := res.(string)
	r.trace.Comment(fmt.Sprintf("call to amlg.GetVersionString() - returned: %s", v))
	return v, nil
}

// ConcurrencyType reports whether the library is a single or multi-threaded build.
func (r *Runtime) ConcurrencyType(ctx context.Context) (entities.ConcurrencyType, error) {
	res, err := r.call(ctx, &Call{Function: "GetConcurrencyTypeString"}, func() (any, error) {
		return r.lib.GetConcurrencyTypeString()
	})
	if err != nil {
		return "", err
	}
	v := res.(string)
	r.trace.Comment(fmt.Sprintf("call to amlg.GetConcurrencyTypeString() - returned: %s", v))
	return entities.ConcurrencyType(v), nil
}

// SBFDataStoreEnabled reports whether SBF tree structures are enabled.
func (r *Runtime) SBFDataStoreEnabled(ctx context.Context) (bool, error) {
	res, err := r.call(ctx, &Call{Function: "IsSBFDataStoreEnabled"}, func() (any, error) {
		return r.lib.IsSBFDataStoreEnabled()
	})
	if err != nil {
		return false, err
	}
	return res.(bool), nil
}

// SetSBFDataStoreEnabled toggles SBF tree structures.
func (r *Runtime) SetSBFDataStoreEnabled(ctx context.Context, enabled bool) error {
	_, err := r.call(ctx, &Call{Function: "SetSBFDataStoreEnabled"}, func() (any, error) {
		return nil, r.lib.SetSBFDataStoreEnabled(enabled)
	})
	return err
}

// MaxNumThreads returns the thread limit of a multi-threaded build.
func (r *Runtime) MaxNumThreads(ctx context.Context) (uint64, error) {
	res, err := r.call(ctx, &Call{Function: "GetMaxNumThreads", Command: "GET_MAX_NUM_THREADS"}, func() (any, error) {
		return r.lib.GetMaxNumThreads()
	})
	if err != nil {
		return 0, err
	}
	return res.(uint64), nil
}

// SetMaxNumThreads limits the worker threads of a multi-threaded build.
// Zero uses every visible logical core. Single-threaded builds ignore it.
func (r *Runtime) SetMaxNumThreads(ctx context.Context, n uint64) error {
	cmd := trace.Command("SET_MAX_NUM_THREADS", n)
	_, err := r.call(ctx, &Call{Function: "SetMaxNumThreads", Command: cmd, DiscardReply: true}, func() (any, error) {
		return nil, r.lib.SetMaxNumThreads(n)
	})
	return err
}
