package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevant(t *testing.T) {
	tests := []struct {
		name      string
		file      string
		setupDir  bool
		noFile    bool
		op        fsnotify.Op
		wantMatch bool
	}{
		{name: "create markdown", file: "guide.md", op: fsnotify.Create, wantMatch: true},
		{name: "write markdown", file: "guide.markdown", op: fsnotify.Write, wantMatch: true},
		{name: "remove markdown", file: "guide.md", op: fsnotify.Remove, noFile: true},
		{name: "rename markdown", file: "guide.md", op: fsnotify.Rename, noFile: true},
		{name: "chmod markdown", file: "guide.md", op: fsnotify.Chmod},
		{name: "text file", file: "notes.txt", op: fsnotify.Write},
		{name: "hidden file", file: ".draft.md", op: fsnotify.Write},
		{name: "own output", file: "guide.ja.md", op: fsnotify.Create},
		{name: "other language", file: "guide.de.md", op: fsnotify.Create, wantMatch: true},
		{name: "directory", file: "sub.md", setupDir: true, op: fsnotify.Create},
		{name: "vanished before stat", file: "gone.md", noFile: true, op: fsnotify.Write},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, tt.file)
			switch {
			case tt.setupDir:
				require.NoError(t, os.Mkdir(path, 0755))
			case !tt.noFile:
				require.NoError(t, os.WriteFile(path, []byte("# Title\n"), 0644))
			}

			w := New(dir, "ja", nil)
			got, ok := w.relevant(fsnotify.Event{Name: path, Op: tt.op})

			assert.Equal(t, tt.wantMatch, ok)
			if tt.wantMatch {
				assert.Equal(t, path, got)
			}
		})
	}
}

func TestIsTranslation(t *testing.T) {
	assert.True(t, IsTranslation("guide.ja.md", "ja"))
	assert.True(t, IsTranslation("guide.JA.markdown", "ja"))
	assert.False(t, IsTranslation("guide.zh_TW.md", "zh-TW"))
	assert.True(t, IsTranslation("guide.zh-TW.md", "zh-TW"))
	assert.False(t, IsTranslation("guide.md", "ja"))
	assert.False(t, IsTranslation("ja.md", "ja"))
	assert.False(t, IsTranslation("guide.ja.md", ""))
}

type recorder struct {
	mu    sync.Mutex
	paths []string
	err   error
}

func (r *recorder) handle(ctx context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
	return r.err
}

func (r *recorder) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func startWatcher(t *testing.T, dir string, rec *recorder) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	w := New(dir, "ja", rec.handle, WithDebounce(100*time.Millisecond))

	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-errCh)
	})

	// Give fsnotify a moment to register the directory
	time.Sleep(100 * time.Millisecond)
}

func TestRunDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	startWatcher(t, dir, rec)

	path := filepath.Join(dir, "guide.md")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("# Title\n\nParagraph\n"), 0644))
		time.Sleep(10 * time.Millisecond)
	}
	// Output written next to the source is ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "guide.ja.md"), []byte("# タイトル\n"), 0644))

	require.Eventually(t, func() bool { return len(rec.calls()) >= 1 }, 5*time.Second, 20*time.Millisecond)
	time.Sleep(300 * time.Millisecond)

	assert.Equal(t, []string{path}, rec.calls())
}

func TestRunContinuesAfterHandlerError(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{err: errors.New("provider down")}
	startWatcher(t, dir, rec)

	first := filepath.Join(dir, "a.md")
	second := filepath.Join(dir, "b.md")
	require.NoError(t, os.WriteFile(first, []byte("A\n"), 0644))
	require.Eventually(t, func() bool { return len(rec.calls()) == 1 }, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(second, []byte("B\n"), 0644))
	require.Eventually(t, func() bool { return len(rec.calls()) == 2 }, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, []string{first, second}, rec.calls())
}

func TestRunMissingDirectory(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "missing"), "ja", func(context.Context, string) error { return nil })
	assert.Error(t, w.Run(context.Background()))
}
