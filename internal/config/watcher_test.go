package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "mdenhance.toml", "enablePapers = false\n")

	reloads := make(chan *Settings, 4)
	w, err := NewWatcher(path, func(s *Settings, err error) {
		if err == nil {
			reloads <- s
		}
	}, WithDebounce(20*time.Millisecond), WithLookup(noEnv))
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("enablePapers = true\n"), 0o644))

	select {
	case s := <-reloads:
		assert.True(t, s.EnablePapers)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after write")
	}
}

func TestWatcherReportsErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "mdenhance.toml", "")

	errs := make(chan error, 4)
	w, err := NewWatcher(path, func(_ *Settings, err error) {
		if err != nil {
			errs <- err
		}
	}, WithDebounce(20*time.Millisecond), WithLookup(noEnv))
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("enablePapers = \n"), 0o644))

	select {
	case err := <-errs:
		var perr *ParseError
		assert.ErrorAs(t, err, &perr)
	case <-time.After(5 * time.Second):
		t.Fatal("no error reported after invalid write")
	}
}

func TestWatcherIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "mdenhance.toml", "")

	called := make(chan struct{}, 1)
	w, err := NewWatcher(path, func(*Settings, error) {
		called <- struct{}{}
	}, WithDebounce(10*time.Millisecond), WithLookup(noEnv))
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x = 1\n"), 0o644))

	select {
	case <-called:
		t.Fatal("reload triggered by an unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherClose(t *testing.T) {
	path := writeFile(t, t.TempDir(), "mdenhance.toml", "")
	w, err := NewWatcher(path, nil)
	require.NoError(t, err)

	abs, _ := filepath.Abs(path)
	assert.Equal(t, abs, w.Path())
	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close(), "second Close is a no-op")
}
