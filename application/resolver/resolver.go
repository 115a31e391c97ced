// Package resolver picks the Amalgam shared library matching the running
// platform, machine architecture and threading postfix.
package resolver

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/amalgam-lang/amalgam-go/domain/entities"
	"github.com/amalgam-lang/amalgam-go/domain/errors"
	"github.com/amalgam-lang/amalgam-go/domain/ports"
)

// EnvLibraryDir overrides the default library root.
const EnvLibraryDir = "AMALGAM_LIBRARY_DIR"

// ArchARM648A is the ARMv8-A build. It is never detected and must be requested explicitly.
const ArchARM648A = "arm64_8a"

var postfixPattern = regexp.MustCompile(`-([^.]+)(?:\.[^.]*)?$`)

type platformSpec struct {
	ext    string
	arches []string
}

var platforms = map[string]platformSpec{
	"windows": {ext: "dll", arches: []string{"amd64"}},
	"darwin":  {ext: "dylib", arches: []string{"amd64", "arm64"}},
	"linux":   {ext: "so", arches: []string{"amd64", "arm64", ArchARM648A}},
}

// resolverConfig holds configuration for the Resolver.
type resolverConfig struct {
	libraryDir string
	logger     *slog.Logger
}

// Option configures a Resolver.
type Option func(*resolverConfig)

// WithLibraryDir sets the root of the <os>/<arch>/ library tree.
func WithLibraryDir(dir string) Option {
	return func(c *resolverConfig) {
		c.libraryDir = dir
	}
}

// WithLogger sets the logger warnings are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(c *resolverConfig) {
		c.logger = l
	}
}

// Resolver determines the library path and postfix for a runtime.
type Resolver struct {
	probe  ports.PlatformProbe
	config resolverConfig
}

// New creates a Resolver that inspects the host through probe.
func New(probe ports.PlatformProbe, opts ...Option) *Resolver {
	cfg := resolverConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.libraryDir == "" {
		cfg.libraryDir = DefaultLibraryDir()
	}
	return &Resolver{probe: probe, config: cfg}
}

// Request holds the caller's preferences. Every field is optional.
type Request struct {
	Path    string
	Postfix string
	Arch    string
}

// Resolve returns the library to load for req.
//
// An explicit Path wins; its file name decides the postfix. Otherwise the
// path is <libraryDir>/<os>/<arch>/amalgam<postfix>.<ext>.
func (r *Resolver) Resolve(req Request) (entities.LibraryInfo, error) {
	if req.Postfix != "" && !strings.HasPrefix(req.Postfix, "-") {
		return entities.LibraryInfo{}, &errors.InvalidPostfixError{Postfix: req.Postfix}
	}

	if req.Path != "" {
		return r.resolveExplicit(req)
	}
	return r.resolveDefault(req)
}

func (r *Resolver) resolveExplicit(req Request) (entities.LibraryInfo, error) {
	info := entities.LibraryInfo{Postfix: ParsePostfix(filepath.Base(req.Path))}

	if req.Postfix != "" && req.Postfix != info.Postfix {
		msg := "the supplied library postfix does not match the postfix given in the library path and will be ignored"
		info.Warnings = append(info.Warnings, msg)
		r.config.logger.Warn(msg, "postfix", req.Postfix, "path", req.Path)
	}

	info.Path = expandHome(req.Path)
	if !exists(info.Path) {
		return entities.LibraryInfo{}, &errors.LibraryNotFoundError{Path: info.Path}
	}
	return info, nil
}

func (r *Resolver) resolveDefault(req Request) (entities.LibraryInfo, error) {
	osName := strings.ToLower(r.probe.OS())

	arch := req.Arch
	if arch == "" {
		arch = NormalizeArch(r.probe.Arch())
	}

	spec, ok := platforms[osName]
	if !ok {
		return entities.LibraryInfo{}, &errors.UnsupportedPlatformError{OS: osName}
	}
	if !slices.Contains(spec.arches, arch) {
		return entities.LibraryInfo{}, &errors.UnsupportedArchError{OS: osName, Arch: arch}
	}

	postfix := req.Postfix
	if postfix == "" {
		postfix = DefaultPostfix(arch)
	}

	dir := filepath.Join(r.config.libraryDir, osName, arch)
	filename := entities.LibraryBaseName + postfix + "." + spec.ext
	info := entities.LibraryInfo{
		Path:    filepath.Join(dir, filename),
		Postfix: postfix,
		OS:      osName,
		Arch:    arch,
	}

	if !exists(info.Path) {
		allowed := AllowedPostfixes(dir)
		if len(allowed) > 0 && !slices.Contains(allowed, postfix) {
			return entities.LibraryInfo{}, &errors.UnsupportedPostfixError{Postfix: postfix, Allowed: allowed}
		}
		return entities.LibraryInfo{}, &errors.LibraryNotFoundError{Path: info.Path, AutoResolved: true}
	}
	return info, nil
}

// DefaultPostfix returns the build variant used when none is requested.
func DefaultPostfix(arch string) string {
	if arch == ArchARM648A {
		return entities.PostfixSingleThreaded
	}
	return entities.PostfixMultiThreaded
}

// NormalizeArch maps machine names to the directory names of the library tree.
func NormalizeArch(machine string) string {
	arch := strings.ToLower(machine)
	switch {
	case arch == "x86_64":
		return "amd64"
	case strings.HasPrefix(arch, "aarch64"), strings.HasPrefix(arch, "arm64"):
		return "arm64"
	}
	return arch
}

// ParsePostfix extracts the build variant from a library file name,
// e.g. "-mt" from "amalgam-mt.so". It returns "" when there is none.
func ParsePostfix(filename string) string {
	m := postfixPattern.FindStringSubmatch(filename)
	if m == nil {
		return ""
	}
	return "-" + m[1]
}

// AllowedPostfixes lists, sorted, the postfixes of the amalgam builds present in dir.
func AllowedPostfixes(dir string) []string {
	files, err := filepath.Glob(filepath.Join(dir, entities.LibraryBaseName+"*"))
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	for _, f := range files {
		if p := ParsePostfix(filepath.Base(f)); p != "" {
			seen[p] = struct{}{}
		}
	}

	allowed := make([]string, 0, len(seen))
	for p := range seen {
		allowed = append(allowed, p)
	}
	slices.Sort(allowed)
	return allowed
}

// DefaultLibraryDir returns $AMALGAM_LIBRARY_DIR, or the lib directory next to
// the running executable.
func DefaultLibraryDir() string {
	if dir := os.Getenv(EnvLibraryDir); dir != "" {
		return expandHome(dir)
	}
	exe, err := os.Executable()
	if err != nil {
		return "lib"
	}
	return filepath.Join(filepath.Dir(exe), "lib")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
