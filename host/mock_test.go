package host

import (
	"fmt"
	"sync"

	"github.com/amalgam-lang/amalgam-go/domain/entities"
	"github.com/stretchr/testify/mock"
)

// mockLibrary is a testify mock of ports.NativeLibrary.
type mockLibrary struct {
	mock.Mock
}

func (m *mockLibrary) LoadEntity(handle, path string, opts entities.LoadOptions) (entities.LoadEntityStatus, error) {
	args := m.Called(handle, path, opts)
	return args.Get(0).(entities.LoadEntityStatus), args.Error(1)
}

func (m *mockLibrary) VerifyEntity(path string) (entities.LoadEntityStatus, error) {
	args := m.Called(path)
	return args.Get(0).(entities.LoadEntityStatus), args.Error(1)
}

func (m *mockLibrary) CloneEntity(handle, cloneHandle string, opts entities.CloneOptions) (bool, error) {
	args := m.Called(handle, cloneHandle, opts)
	return args.Bool(0), args.Error(1)
}

func (m *mockLibrary) StoreEntity(handle, path string, opts entities.StoreOptions) error {
	return m.Called(handle, path, opts).Error(0)
}

func (m *mockLibrary) DestroyEntity(handle string) error {
	return m.Called(handle).Error(0)
}

func (m *mockLibrary) SetRandomSeed(handle, seed string) (bool, error) {
	args := m.Called(handle, seed)
	return args.Bool(0), args.Error(1)
}

func (m *mockLibrary) GetEntities() ([]string, error) {
	args := m.Called()
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockLibrary) ExecuteEntityJSON(handle, label, json string) (string, error) {
	args := m.Called(handle, label, json)
	return args.String(0), args.Error(1)
}

func (m *mockLibrary) GetJSONFromLabel(handle, label string) (string, error) {
	args := m.Called(handle, label)
	return args.String(0), args.Error(1)
}

func (m *mockLibrary) SetJSONToLabel(handle, label, json string) error {
	return m.Called(handle, label, json).Error(0)
}

func (m *mockLibrary) GetVersionString() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *mockLibrary) GetConcurrencyTypeString() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *mockLibrary) IsSBFDataStoreEnabled() (bool, error) {
	args := m.Called()
	return args.Bool(0), args.Error(1)
}

func (m *mockLibrary) SetSBFDataStoreEnabled(enabled bool) error {
	return m.Called(enabled).Error(0)
}

func (m *mockLibrary) GetMaxNumThreads() (uint64, error) {
	args := m.Called()
	return args.Get(0).(uint64), args.Error(1)
}

func (m *mockLibrary) SetMaxNumThreads(n uint64) error {
	return m.Called(n).Error(0)
}

func (m *mockLibrary) Close() error {
	return m.Called().Error(0)
}

// recordingSink is an in-memory ports.TraceSink.
type recordingSink struct {
	mu     sync.Mutex
	lines  []string
	resets []string
	closed bool
}

func (s *recordingSink) add(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, line)
}

func (s *recordingSink) Execution(command string) { s.add(command) }

func (s *recordingSink) Reply(reply any) {
	switch v := reply.(type) {
	case nil:
		s.add("# RESULT >")
	case []byte:
		s.add("# RESULT >" + string(v))
	default:
		s.add(fmt.Sprint("# RESULT >", v))
	}
}

func (s *recordingSink) Comment(note string) { s.add("# NOTE >" + note) }
func (s *recordingSink) Time(label string)   { s.add("# TIME " + label) }

func (s *recordingSink) Reset(file, replay string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resets = append(s.resets, file)
	s.lines = nil
	if replay != "" {
		s.lines = append(s.lines, replay)
	}
	return nil
}

func (s *recordingSink) Path() string { return "" }

func (s *recordingSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *recordingSink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}
