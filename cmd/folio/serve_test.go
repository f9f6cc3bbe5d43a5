package main

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/gommon/log"
)

type countingInvalidator struct {
	n atomic.Int32
}

func (c *countingInvalidator) Invalidate() { c.n.Add(1) }

func quietLogger() *log.Logger {
	l := log.New("test")
	l.SetLevel(log.OFF)
	return l
}

func TestWatchContentInvalidatesOnEdit(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	inv := &countingInvalidator{}
	w, err := watchContent(ctx, dir, inv, quietLogger(), 20*time.Millisecond)
	if err != nil {
		t.Fatalf("watchContent failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.md"), []byte(doc("A", "2024-01-01", "tech")), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for inv.n.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if inv.n.Load() == 0 {
		t.Error("editing an article did not invalidate the cache")
	}
}

func TestWatchContentStopsWithContext(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())

	inv := &countingInvalidator{}
	w, err := watchContent(ctx, dir, inv, quietLogger(), 300*time.Millisecond)
	if err != nil {
		t.Fatalf("watchContent failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "a.md"), []byte(doc("A", "2024-01-01", "tech")), 0o644); err != nil {
		t.Fatal(err)
	}
	// Let the event arm the debounce timer, then shut down before it fires.
	time.Sleep(100 * time.Millisecond)
	cancel()

	time.Sleep(500 * time.Millisecond)
	if got := inv.n.Load(); got != 0 {
		t.Errorf("invalidations after shutdown = %d, want 0", got)
	}
}
