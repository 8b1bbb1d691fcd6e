package watch_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/JaimeStill/jobarch/pkg/lifecycle"
	"github.com/JaimeStill/jobarch/pkg/watch"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *recorder) handle(p string) {
	r.mu.Lock()
	r.paths = append(r.paths, p)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}

	w, err := watch.New([]string{dir}, 50*time.Millisecond, rec.handle, discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Go(func() {
		assert.NoError(t, w.Run(ctx))
	})

	// fsnotify registers asynchronously on some platforms.
	time.Sleep(50 * time.Millisecond)

	target := filepath.Join(dir, "profiles.xlsx")
	for i := range 5 {
		require.NoError(t, os.WriteFile(target, []byte{byte(i)}, 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "~$profiles.xlsx"), []byte("lock"), 0o644))

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) > 0
	}, 2*time.Second, 20*time.Millisecond)

	time.Sleep(150 * time.Millisecond)
	cancel()
	wg.Wait()

	assert.Equal(t, []string{target}, rec.snapshot())
}

func TestStartStopsWithLifecycle(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}

	w, err := watch.New([]string{dir, filepath.Join(dir, "missing")}, 20*time.Millisecond, rec.handle, discard())
	require.NoError(t, err)
	assert.Len(t, w.Dirs(), 2)

	lc := lifecycle.New()
	require.NoError(t, w.Start(lc))
	require.NoError(t, lc.Shutdown(time.Second))
}

func TestNewRequiresHandler(t *testing.T) {
	_, err := watch.New([]string{t.TempDir()}, 0, nil, discard())
	assert.Error(t, err)
}
