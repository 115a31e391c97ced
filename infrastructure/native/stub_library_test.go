//go:build darwin || linux

package native

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ebitengine/purego"

	"github.com/amalgam-lang/amalgam-go/domain/entities"
	"github.com/amalgam-lang/amalgam-go/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource exports the required entry points and a few optional ones.
// Every returned string is heap allocated and counted when released.
const stubSource = `
#include <stdbool.h>
#include <stdint.h>
#include <stdio.h>
#include <stdlib.h>
#include <string.h>

typedef struct {
	bool loaded;
	char *message;
	char *version;
} LoadEntityStatus;

static int deleted;
static char label_value[256] = "null";
static char *entity_names[] = {"alpha", "beta"};

static char *copy(const char *s) {
	char *p = malloc(strlen(s) + 1);
	strcpy(p, s);
	return p;
}

LoadEntityStatus LoadEntity(char *handle, char *path, bool persist, bool load_contained,
		bool escape_filename, bool escape_contained_filenames, char *write_log, char *print_log) {
	char buf[512];
	LoadEntityStatus s;
	if (strcmp(path, "missing.amlg") == 0) {
		s.loaded = false;
		s.message = copy("file not found");
		s.version = copy("");
		return s;
	}
	snprintf(buf, sizeof buf, "%s|%s|%d%d%d%d|%s|%s", handle, path, persist, load_contained,
		escape_filename, escape_contained_filenames, write_log, print_log);
	s.loaded = true;
	s.message = copy(buf);
	s.version = copy("1.2.3");
	return s;
}

LoadEntityStatus VerifyEntity(char *path) {
	LoadEntityStatus s;
	s.loaded = true;
	s.message = copy(path);
	s.version = copy("1.2.3");
	return s;
}

bool CloneEntity(char *handle, char *clone_handle, char *path, bool persist, char *write_log, char *print_log) {
	return strcmp(handle, clone_handle) != 0;
}

void StoreEntity(char *handle, char *path, bool update_persistence_location, bool store_contained) {}
void DestroyEntity(char *handle) {}

bool SetRandomSeed(char *handle, char *seed) {
	return seed[0] != 0;
}

char **GetEntities(uint64_t *count) {
	*count = 2;
	return entity_names;
}

char *ExecuteEntityJsonPtr(char *handle, char *label, char *json) {
	char buf[512];
	snprintf(buf, sizeof buf, "{\"handle\":\"%s\",\"label\":\"%s\",\"args\":%s}", handle, label, json);
	return copy(buf);
}

char *GetJSONPtrFromLabel(char *handle, char *label) {
	return copy(label_value);
}

void SetJSONToLabel(char *handle, char *label, char *json) {
	snprintf(label_value, sizeof label_value, "%s", json);
}

char *GetVersionString(void) {
	return copy("1.2.3");
}

void DeleteString(char *p) {
	free(p);
	deleted++;
}

int DeletedCount(void) {
	return deleted;
}
`

// buildStubLibrary compiles source into a shared library in a temp dir.
func buildStubLibrary(t *testing.T, source string) string {
	t.Helper()

	cc := strings.Fields(os.Getenv("CC"))
	if len(cc) == 0 {
		for _, name := range []string{"cc", "gcc", "clang"} {
			if path, err := exec.LookPath(name); err == nil {
				cc = []string{path}
				break
			}
		}
	}
	if len(cc) == 0 {
		t.Skip("no C compiler on PATH")
	}

	dir := t.TempDir()
	src := filepath.Join(dir, "stub.c")
	require.NoError(t, os.WriteFile(src, []byte(source), 0o600))

	out := filepath.Join(dir, "amalgam-mt.so")
	args := append(cc[1:len(cc):len(cc)], "-shared", "-fPIC", "-o", out, src)
	output, err := exec.Command(cc[0], args...).CombinedOutput()
	require.NoError(t, err, string(output))
	return out
}

func TestOpen_StubLibrary(t *testing.T) {
	lib, err := Open(buildStubLibrary(t, stubSource))
	require.NoError(t, err)

	var deletedCount func() int32
	sym, err := lookupSymbol(lib.handle, "DeletedCount")
	require.NoError(t, err)
	purego.RegisterFunc(&deletedCount, sym)

	opts := entities.NewLoadOptions(entities.WithPersist(true), entities.WithWriteLog("w.log"))
	status, err := lib.LoadEntity("h", "model.amlg", opts)
	require.NoError(t, err)
	assert.Equal(t, entities.LoadEntityStatus{Loaded: true, Message: "h|model.amlg|1001|w.log|", Version: "1.2.3"}, status)
	assert.Equal(t, `true,"h|model.amlg|1001|w.log|","1.2.3"`, status.String())

	status, err = lib.LoadEntity("h", "missing.amlg", entities.NewLoadOptions())
	require.NoError(t, err)
	assert.False(t, status.Loaded)
	assert.Equal(t, "file not found", status.Message)

	status, err = lib.VerifyEntity("model.amlg")
	require.NoError(t, err)
	assert.True(t, status.Loaded)
	assert.Equal(t, "model.amlg", status.Message)

	out, err := lib.ExecuteEntityJSON("h", "train", `{"x":[1,2]}`)
	require.NoError(t, err)
	assert.Equal(t, `{"handle":"h","label":"train","args":{"x":[1,2]}}`, out)

	require.NoError(t, lib.SetJSONToLabel("h", "hello", `["hello","world"]`))
	got, err := lib.GetJSONFromLabel("h", "hello")
	require.NoError(t, err)
	assert.Equal(t, `["hello","world"]`, got)

	version, err := lib.GetVersionString()
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", version)

	cloned, err := lib.CloneEntity("h", "copy", entities.CloneOptions{})
	require.NoError(t, err)
	assert.True(t, cloned)

	seeded, err := lib.SetRandomSeed("h", "")
	require.NoError(t, err)
	assert.False(t, seeded)

	handles, err := lib.GetEntities()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, handles)

	require.NoError(t, lib.StoreEntity("h", "out.caml", entities.StoreOptions{}))
	require.NoError(t, lib.DestroyEntity("h"))

	// three statuses with two strings each, plus three single-string replies
	assert.Equal(t, int32(9), deletedCount())

	_, err = lib.GetMaxNumThreads()
	var symErr *errors.SymbolNotFoundError
	require.ErrorAs(t, err, &symErr)
	assert.Equal(t, "GetMaxNumThreads", symErr.Symbol)

	require.NoError(t, lib.Close())
	require.NoError(t, lib.Close())
}

func TestOpen_StubLibraryMissingRequiredSymbol(t *testing.T) {
	path := buildStubLibrary(t, "void DeleteString(char *p) {}\n")

	_, err := Open(path)
	var symErr *errors.SymbolNotFoundError
	require.ErrorAs(t, err, &symErr)
	assert.Equal(t, "LoadEntity", symErr.Symbol)
}
