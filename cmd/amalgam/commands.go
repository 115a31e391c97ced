package main

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/amalgam-lang/amalgam-go/application/schema"
	"github.com/amalgam-lang/amalgam-go/domain/entities"
	"github.com/amalgam-lang/amalgam-go/domain/errors"
	"github.com/amalgam-lang/amalgam-go/host"
	"github.com/amalgam-lang/amalgam-go/host/registry"
)

func cmdVersion(ctx context.Context, args []string) int {
	fs, rf := newFlagSet("version")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	rt, err := rf.open(ctx)
	if err != nil {
		return fail(err)
	}
	defer rt.Close(ctx)

	v, err := rt.Version(ctx)
	if err != nil {
		return fail(err)
	}
	ct, err := rt.ConcurrencyType(ctx)
	if err != nil && !isMissingSymbol(err) {
		return fail(err)
	}
	if ct == "" {
		fmt.Println(v)
	} else {
		fmt.Printf("%s (%s)\n", v, ct)
	}
	return 0
}

// libraryReport is the output of the info command.
type libraryReport struct {
	Library             entities.LibraryInfo `json:"library"`
	Version             string               `json:"version"`
	ConcurrencyType     string               `json:"concurrency_type,omitempty"`
	SBFDataStoreEnabled *bool                `json:"sbf_datastore_enabled,omitempty"`
	MaxNumThreads       *uint64              `json:"max_num_threads,omitempty"`
	TraceFile           string               `json:"trace_file,omitempty"`
}

func cmdInfo(ctx context.Context, args []string) int {
	fs, rf := newFlagSet("info")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	rt, err := rf.open(ctx)
	if err != nil {
		return fail(err)
	}
	defer rt.Close(ctx)

	report := libraryReport{Library: rt.Info(), TraceFile: rt.TracePath()}
	if report.Version, err = rt.Version(ctx); err != nil {
		return fail(err)
	}
	if ct, err := rt.ConcurrencyType(ctx); err == nil {
		report.ConcurrencyType = string(ct)
	} else if !isMissingSymbol(err) {
		return fail(err)
	}
	if on, err := rt.SBFDataStoreEnabled(ctx); err == nil {
		report.SBFDataStoreEnabled = &on
	} else if !isMissingSymbol(err) {
		return fail(err)
	}
	if n, err := rt.MaxNumThreads(ctx); err == nil {
		report.MaxNumThreads = &n
	} else if !isMissingSymbol(err) {
		return fail(err)
	}

	return printJSON(report)
}

func cmdVerify(ctx context.Context, args []string) int {
	fs, rf := newFlagSet("verify")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s verify <file.amlg>\n", appName)
		return 2
	}
	rt, err := rf.open(ctx)
	if err != nil {
		return fail(err)
	}
	defer rt.Close(ctx)

	status, err := rt.VerifyEntity(ctx, fs.Arg(0))
	fmt.Println(status)
	if err != nil {
		return fail(err)
	}
	return 0
}

func cmdExec(ctx context.Context, args []string) int {
	fs, rf := newFlagSet("exec")
	handle := fs.String("handle", "", "entity handle (random when empty)")
	seed := fs.String("seed", "", "random seed for the entity")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 2 || fs.NArg() > 3 {
		fmt.Fprintf(os.Stderr, "usage: %s exec [-handle h] [-seed s] <file.amlg> <label> [json]\n", appName)
		return 2
	}
	payload := "{}"
	if fs.NArg() == 3 {
		payload = fs.Arg(2)
	}
	if !json.Valid([]byte(payload)) {
		return fail(fmt.Errorf("arguments are not valid JSON: %s", payload))
	}

	return withEntity(ctx, rf, *handle, fs.Arg(0), func(rt *host.Runtime, h string) error {
		if *seed != "" {
			if err := rt.SetRandomSeed(ctx, h, *seed); err != nil {
				return err
			}
		}
		out, err := rt.ExecuteEntityJSON(ctx, h, fs.Arg(1), []byte(payload))
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	})
}

func cmdGet(ctx context.Context, args []string) int {
	fs, rf := newFlagSet("get")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s get <file.amlg> <label>\n", appName)
		return 2
	}

	return withEntity(ctx, rf, "", fs.Arg(0), func(rt *host.Runtime, h string) error {
		out, err := rt.GetJSONFromLabel(ctx, h, fs.Arg(1))
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	})
}

func cmdSet(ctx context.Context, args []string) int {
	fs, rf := newFlagSet("set")
	store := fs.String("store", "", "store the entity to this path afterwards")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 3 {
		fmt.Fprintf(os.Stderr, "usage: %s set [-store out] <file.amlg> <label> <json>\n", appName)
		return 2
	}
	if !json.Valid([]byte(fs.Arg(2))) {
		return fail(fmt.Errorf("value is not valid JSON: %s", fs.Arg(2)))
	}

	return withEntity(ctx, rf, "", fs.Arg(0), func(rt *host.Runtime, h string) error {
		if err := rt.SetJSONToLabel(ctx, h, fs.Arg(1), []byte(fs.Arg(2))); err != nil {
			return err
		}
		if *store == "" {
			return nil
		}
		return rt.StoreEntity(ctx, h, *store, entities.StoreOptions{})
	})
}

func cmdEntities(ctx context.Context, args []string) int {
	fs, rf := newFlagSet("entities")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	rt, err := rf.open(ctx)
	if err != nil {
		return fail(err)
	}
	defer rt.Close(ctx)

	for _, path := range fs.Args() {
		if _, err := rt.LoadEntity(ctx, handleFor(path), path); err != nil {
			return fail(err)
		}
	}
	handles, err := rt.Entities(ctx)
	if err != nil {
		return fail(err)
	}
	for _, h := range handles {
		fmt.Println(h)
	}
	return 0
}

func cmdSchema(args []string) int {
	if len(args) != 0 {
		fmt.Fprintf(os.Stderr, "usage: %s schema\n", appName)
		return 2
	}
	out, err := schema.ConfigSchema()
	if err != nil {
		return fail(err)
	}
	fmt.Println(string(out))
	return 0
}

// withEntity opens a runtime, loads path under handle, runs fn and destroys
// the entity again.
func withEntity(ctx context.Context, rf *runtimeFlags, handle, path string, fn func(rt *host.Runtime, handle string) error) int {
	rt, err := rf.open(ctx)
	if err != nil {
		return fail(err)
	}
	defer rt.Close(ctx)

	if handle == "" {
		handle = registry.NewHandle()
	}
	if _, err := rt.LoadEntity(ctx, handle, path); err != nil {
		return fail(err)
	}
	defer func() { _ = rt.DestroyEntity(ctx, handle) }()

	if err := fn(rt, handle); err != nil {
		return fail(err)
	}
	return 0
}

// handleFor derives an entity handle from a source file name.
func handleFor(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isMissingSymbol(err error) bool {
	var sym *errors.SymbolNotFoundError
	return stdErrors.As(err, &sym)
}

func printJSON(v any) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fail(err)
	}
	return 0
}
