package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/kinesin-ca/flexcal/pkg/logx"
)

func TestWatchReloadsOnChange(t *testing.T) {
	t.Parallel()
	dir := writeDefinitions(t)
	m := NewManager(dir, logx.Nop())
	if _, err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- m.Watch(ctx) }()

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, filepath.Join(dir, "calendars", "extra.json"), `{"dow_list": ["M"]}`)

	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, err := m.Snapshot().GetCalendar("extra"); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("watcher never picked up the new definition")
		}
		time.Sleep(50 * time.Millisecond)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Watch: %v", err)
	}
}

func TestReloadStopsAfterCancel(t *testing.T) {
	t.Parallel()
	dir := writeDefinitions(t)
	m := NewManager(dir, logx.Nop())
	if _, err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	before := m.Snapshot()

	writeFile(t, filepath.Join(dir, "calendars", "extra.json"), `{"dow_list": ["M"]}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m.reload(ctx)

	if m.Snapshot() != before {
		t.Fatal("a reload after cancellation must not replace the snapshot")
	}
}
