package export

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ideafactory/ideas/internal/model"
)

// mockDestination records calls to Write.
type mockDestination struct {
	writes atomic.Int64
	last   atomic.Value // []byte
	err    error
}

func (d *mockDestination) Write(_ context.Context, data []byte) error {
	d.writes.Add(1)
	d.last.Store(bytes.Clone(data))
	return d.err
}

func staticSource(items []model.CatalogItem) Source {
	return SourceFunc(func(context.Context) ([]model.CatalogItem, error) { return items, nil })
}

func TestSchedulerStartStop(t *testing.T) {
	dest := &mockDestination{}
	sched := NewScheduler(staticSource(sampleItems()), []Destination{dest}, 50*time.Millisecond, zap.NewNop())
	sched.Start(context.Background())

	// Wait for at least the initial export + one tick.
	time.Sleep(120 * time.Millisecond)
	sched.Stop()

	if writes := dest.writes.Load(); writes < 2 {
		t.Fatalf("expected at least 2 writes, got %d", writes)
	}

	data, ok := dest.last.Load().([]byte)
	if !ok || len(data) == 0 {
		t.Fatal("expected non-empty data")
	}
	if lines := nonEmptyLines(string(data)); len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
}

func TestSchedulerStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	dest := &mockDestination{}
	sched := NewScheduler(staticSource(nil), []Destination{dest}, time.Hour, nil)
	sched.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		sched.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after context cancel")
	}
}

func TestRunOnce_DestinationErrorsDoNotShortCircuit(t *testing.T) {
	boom := errors.New("bucket gone")
	bad := &mockDestination{err: boom}
	good := &mockDestination{}
	sched := NewScheduler(staticSource(sampleItems()), []Destination{bad, good}, time.Hour, nil)

	err := sched.RunOnce(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("RunOnce = %v, want wrapped boom", err)
	}
	if good.writes.Load() != 1 {
		t.Error("second destination should still be written")
	}
}

func TestFileDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots", "catalog.jsonl")
	dest := NewFileDestination(path)

	for _, payload := range []string{"first\n", "second\n"} {
		if err := dest.Write(context.Background(), []byte(payload)); err != nil {
			t.Fatalf("Write: %v", err)
		}
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != payload {
			t.Errorf("file = %q, want %q", got, payload)
		}
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %d entries", len(entries))
	}
}

func TestFileDestination_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	path := filepath.Join(t.TempDir(), "catalog.jsonl")
	if err := NewFileDestination(path).Write(ctx, []byte("x")); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file should not be created")
	}
}

// fakeS3 records PUT requests made against a path-style endpoint.
type fakeS3 struct {
	mu    sync.Mutex
	puts  map[string][]byte
	types map[string]string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "unexpected method", http.StatusMethodNotAllowed)
		return
	}
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.puts[r.URL.Path] = body
	f.types[r.URL.Path] = r.Header.Get("Content-Type")
	f.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func newFakeS3(t *testing.T) (*fakeS3, string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "credentials"))
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")

	f := &fakeS3{puts: map[string][]byte{}, types: map[string]string{}}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv.URL
}

func TestS3Destination(t *testing.T) {
	fake, endpoint := newFakeS3(t)
	ctx := context.Background()

	dest, err := NewS3Destination(ctx, S3Options{
		Bucket:   "catalog",
		Region:   "us-east-1",
		Endpoint: endpoint,
		Prefix:   "/ideas/",
	}, "snapshots/latest.jsonl")
	if err != nil {
		t.Fatalf("NewS3Destination: %v", err)
	}

	if err := dest.Write(ctx, []byte(`{"type":"header"}`)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	key, err := dest.Archive(ctx, "b-7", "/tmp/upload/ideas.csv", "text/csv", []byte("title,category\n"))
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if key != "ideas/uploads/b-7/ideas.csv" {
		t.Errorf("archive key = %q", key)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	snap, ok := fake.puts["/catalog/ideas/snapshots/latest.jsonl"]
	if !ok {
		t.Fatalf("snapshot not uploaded; got %v", keys(fake.puts))
	}
	if !bytes.Contains(snap, []byte(`{"type":"header"}`)) {
		t.Errorf("snapshot body = %q", snap)
	}
	if ct := fake.types["/catalog/ideas/snapshots/latest.jsonl"]; ct != ContentTypeJSONL {
		t.Errorf("snapshot content type = %q", ct)
	}
	if _, ok := fake.puts["/catalog/ideas/uploads/b-7/ideas.csv"]; !ok {
		t.Errorf("archive not uploaded; got %v", keys(fake.puts))
	}
}

func TestNewS3Destination_RequiresBucket(t *testing.T) {
	if _, err := NewS3Destination(context.Background(), S3Options{Region: "us-east-1"}, "x"); err == nil {
		t.Fatal("expected error for missing bucket")
	}
}

func keys(m map[string][]byte) string {
	var out []string
	for k := range m {
		out = append(out, k)
	}
	return strings.Join(out, ", ")
}
