package domain_test

import (
	"go/parser"
	"go/token"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modulePath = "github.com/amalgam-lang/amalgam-go/"

// TestDomainHasNoExternalDependencies verifies that the domain layer
// does not import from application, infrastructure or runtime packages.
func TestDomainHasNoExternalDependencies(t *testing.T) {
	fset := token.NewFileSet()

	for _, pkg := range []string{"entities", "errors", "ports"} {
		files, err := filepath.Glob(filepath.Join(".", pkg, "*.go"))
		require.NoError(t, err, "failed to glob %s files", pkg)

		for _, file := range files {
			if strings.HasSuffix(file, "_test.go") {
				continue
			}
			checkFileImports(t, fset, file, pkg)
		}
	}
}

func checkFileImports(t *testing.T, fset *token.FileSet, filename, pkg string) {
	t.Helper()

	f, err := parser.ParseFile(fset, filename, nil, parser.ImportsOnly)
	require.NoError(t, err, "failed to parse %s", filename)

	forbiddenPackages := []string{
		modulePath + "application",
		modulePath + "infrastructure",
		modulePath + "host",
		modulePath + "log",
		modulePath + "cmd",
	}

	for _, imp := range f.Imports {
		importPath := strings.Trim(imp.Path.Value, `"`)

		for _, forbidden := range forbiddenPackages {
			assert.False(t, strings.HasPrefix(importPath, forbidden),
				"domain/%s package (%s) must not import from %s",
				pkg, filepath.Base(filename), forbidden)
		}

		// Domain may only import the standard library and other domain packages.
		if strings.HasPrefix(importPath, modulePath) {
			assert.True(t,
				strings.HasPrefix(importPath, modulePath+"domain/"),
				"domain/%s package (%s) imports non-domain package: %s",
				pkg, filepath.Base(filename), importPath)
		} else {
			assert.NotContains(t, strings.SplitN(importPath, "/", 2)[0], ".",
				"domain/%s package (%s) imports third-party package: %s",
				pkg, filepath.Base(filename), importPath)
		}
	}
}

func TestDomainEntitiesPortsErrorsExist(t *testing.T) {
	for _, dir := range []string{"entities", "errors", "ports"} {
		files, err := filepath.Glob(filepath.Join(".", dir, "*.go"))

		require.NoError(t, err, "failed to check %s directory", dir)
		assert.NotEmpty(t, files, "domain/%s should contain Go files", dir)
	}
}
