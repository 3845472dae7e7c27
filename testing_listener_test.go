package libemit

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
)

type mockListener struct {
	mock.Mock
}

func (m *mockListener) Handle(data Value) {
	m.Called(data)
}

func (m *mockListener) HandleAny(event string, data Value) {
	m.Called(event, data)
}

type logRecord struct {
	Level LogLevel
	Msg   string
}

type logRecorder struct {
	mu      sync.Mutex
	records []logRecord
}

func (r *logRecorder) log(level LogLevel, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, logRecord{Level: level, Msg: msg})
}

func (r *logRecorder) Records() []logRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]logRecord(nil), r.records...)
}

// captureLogs installs a recording log hook for the duration of the test.
func captureLogs(t *testing.T) *logRecorder {
	t.Helper()

	rec := &logRecorder{}
	SetLogFunc(rec.log)
	t.Cleanup(func() {
		SetLogFunc(nil)
	})

	return rec
}
