package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/amalgam-lang/amalgam-go/domain/entities"
	"github.com/peterh/liner"
)

const (
	historyFile = ".amalgam_history"
	prompt      = "amalgam> "
)

const replHelp = `Commands:
  load <handle> <file.amlg>        Load an entity
  verify <file.amlg>               Check an entity source
  exec <handle> <label> [json]     Execute a label
  get <handle> <label>             Print a label
  set <handle> <label> <json>      Assign a label
  store <handle> <file>            Store an entity
  clone <handle> <new-handle>      Clone an entity
  destroy <handle>                 Destroy an entity
  seed <handle> <seed>             Set an entity's random seed
  entities                         List the library's entities
  tracked                          List entities loaded in this session
  threads [n]                      Show or set the thread limit
  trace <file>                     Start a new trace file
  version                          Print the library version
  :quit                            Exit
`

// replRuntime is the part of host.Runtime the REPL drives.
type replRuntime interface {
	LoadEntity(ctx context.Context, handle, path string, opts ...entities.LoadOption) (entities.LoadEntityStatus, error)
	VerifyEntity(ctx context.Context, path string) (entities.LoadEntityStatus, error)
	CloneEntity(ctx context.Context, handle, cloneHandle string, opts entities.CloneOptions) error
	StoreEntity(ctx context.Context, handle, path string, opts entities.StoreOptions) error
	DestroyEntity(ctx context.Context, handle string) error
	SetRandomSeed(ctx context.Context, handle, seed string) error
	Entities(ctx context.Context) ([]string, error)
	ExecuteEntityJSON(ctx context.Context, handle, label string, json []byte) ([]byte, error)
	GetJSONFromLabel(ctx context.Context, handle, label string) ([]byte, error)
	SetJSONToLabel(ctx context.Context, handle, label string, json []byte) error
	Version(ctx context.Context) (string, error)
	MaxNumThreads(ctx context.Context) (uint64, error)
	SetMaxNumThreads(ctx context.Context, n uint64) error
	ResetTrace(ctx context.Context, file string) error
	Tracked() []string
}

func cmdRepl(ctx context.Context, args []string) int {
	fs, rf := newFlagSet("repl")
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
	fmt.Printf("Amalgam %s\nCtrl+C cancels input, Ctrl+D exits. Type help for commands.\n", v)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			fmt.Println()
			return 0
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)

		exit, err := evalLine(ctx, rt, os.Stdout, line)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		if exit || ctx.Err() != nil {
			return 0
		}
	}
}

// evalLine runs one REPL command. It reports whether the session should end.
func evalLine(ctx context.Context, rt replRuntime, out io.Writer, line string) (bool, error) {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(cmd) {
	case ":quit", ":q", "exit":
		return true, nil
	case "help", "?":
		fmt.Fprint(out, replHelp)
	case "load":
		a, err := needArgs(cmd, rest, 2, 2)
		if err != nil {
			return false, err
		}
		status, err := rt.LoadEntity(ctx, a[0], a[1])
		if err != nil {
			return false, err
		}
		fmt.Fprintln(out, status)
	case "verify":
		a, err := needArgs(cmd, rest, 1, 1)
		if err != nil {
			return false, err
		}
		status, err := rt.VerifyEntity(ctx, a[0])
		if err != nil {
			return false, err
		}
		fmt.Fprintln(out, status)
	case "exec":
		a, err := needArgs(cmd, rest, 2, 3)
		if err != nil {
			return false, err
		}
		payload := "{}"
		if len(a) == 3 {
			payload = a[2]
		}
		if !json.Valid([]byte(payload)) {
			return false, fmt.Errorf("arguments are not valid JSON: %s", payload)
		}
		reply, err := rt.ExecuteEntityJSON(ctx, a[0], a[1], []byte(payload))
		if err != nil {
			return false, err
		}
		fmt.Fprintln(out, string(reply))
	case "get":
		a, err := needArgs(cmd, rest, 2, 2)
		if err != nil {
			return false, err
		}
		reply, err := rt.GetJSONFromLabel(ctx, a[0], a[1])
		if err != nil {
			return false, err
		}
		fmt.Fprintln(out, string(reply))
	case "set":
		a, err := needArgs(cmd, rest, 3, 3)
		if err != nil {
			return false, err
		}
		if !json.Valid([]byte(a[2])) {
			return false, fmt.Errorf("value is not valid JSON: %s", a[2])
		}
		return false, rt.SetJSONToLabel(ctx, a[0], a[1], []byte(a[2]))
	case "store":
		a, err := needArgs(cmd, rest, 2, 2)
		if err != nil {
			return false, err
		}
		return false, rt.StoreEntity(ctx, a[0], a[1], entities.StoreOptions{})
	case "clone":
		a, err := needArgs(cmd, rest, 2, 2)
		if err != nil {
			return false, err
		}
		return false, rt.CloneEntity(ctx, a[0], a[1], entities.CloneOptions{})
	case "destroy":
		a, err := needArgs(cmd, rest, 1, 1)
		if err != nil {
			return false, err
		}
		return false, rt.DestroyEntity(ctx, a[0])
	case "seed":
		a, err := needArgs(cmd, rest, 2, 2)
		if err != nil {
			return false, err
		}
		return false, rt.SetRandomSeed(ctx, a[0], a[1])
	case "entities":
		handles, err := rt.Entities(ctx)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(out, strings.Join(handles, "\n"))
	case "tracked":
		fmt.Fprintln(out, strings.Join(rt.Tracked(), "\n"))
	case "threads":
		if rest == "" {
			n, err := rt.MaxNumThreads(ctx)
			if err != nil {
				return false, err
			}
			fmt.Fprintln(out, n)
			return false, nil
		}
		n, err := strconv.ParseUint(rest, 10, 64)
		if err != nil {
			return false, fmt.Errorf("threads: %w", err)
		}
		return false, rt.SetMaxNumThreads(ctx, n)
	case "trace":
		a, err := needArgs(cmd, rest, 1, 1)
		if err != nil {
			return false, err
		}
		return false, rt.ResetTrace(ctx, a[0])
	case "version":
		v, err := rt.Version(ctx)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(out, v)
	default:
		return false, fmt.Errorf("unknown command %q, type help for commands", cmd)
	}
	return false, nil
}

// needArgs splits rest into between minArgs and maxArgs arguments. The last
// argument takes the remainder of the line so JSON may contain spaces.
func needArgs(cmd, rest string, minArgs, maxArgs int) ([]string, error) {
	args := splitArgs(rest, maxArgs)
	if len(args) < minArgs {
		return nil, fmt.Errorf("%s: expected at least %d arguments, got %d", cmd, minArgs, len(args))
	}
	return args, nil
}

// splitArgs returns at most n whitespace separated fields of s; the last
// field holds the unsplit remainder.
func splitArgs(s string, n int) []string {
	var out []string
	s = strings.TrimSpace(s)
	for s != "" && len(out) < n-1 {
		i := strings.IndexAny(s, " \t")
		if i < 0 {
			break
		}
		out = append(out, s[:i])
		s = strings.TrimLeft(s[i:], " \t")
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}
