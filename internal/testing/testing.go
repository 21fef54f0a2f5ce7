// package testing contains shared testing utilities
package testing

import (
	"errors"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/looper/internal/models"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRecorder is a test double for tasks.RunRecorder. It is safe for concurrent use.
type MockRecorder struct {
	mu   sync.Mutex
	Runs []*models.Run
	Err  error
}

func (m *MockRecorder) RecordRun(run *models.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	run.SetSequence(len(m.Runs) + 1)
	run.SetID("run-" + run.PlanName())
	m.Runs = append(m.Runs, run)
	return nil
}

// Recorded returns a copy of the runs recorded so far.
func (m *MockRecorder) Recorded() []*models.Run {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*models.Run(nil), m.Runs...)
}

// SamplePlan returns a plan with the given counts for tracks "a", "b", "c", ... in order.
func SamplePlan(t *testing.T, name string, counts ...int) *models.Plan {
	t.Helper()
	plan := models.NewPlan(name, "")
	for i, n := range counts {
		id := string(rune('a' + i))
		track := models.Track{ID: id, Title: "Song " + id, Artist: "Artist " + id}
		if err := plan.Add(track, n); err != nil {
			t.Fatalf("failed to build sample plan: %v", err)
		}
	}
	return plan
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}
