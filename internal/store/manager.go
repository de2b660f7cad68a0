package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/kinesin-ca/flexcal/pkg/logx"
)

// debounceDelay coalesces the bursts of events editors emit for one save.
const debounceDelay = 200 * time.Millisecond

// reloadRateLimit caps reload work when something rewrites the directory in
// a tight loop.
var reloadRateLimit = rate.Every(time.Second)

// Manager owns the current Snapshot and swaps it atomically on reload. A
// reload that fails to parse is logged and discarded; the previous snapshot
// stays current.
type Manager struct {
	dir string
	log logx.Logger

	mu   sync.RWMutex
	snap *Snapshot

	limiter *rate.Limiter
}

func NewManager(dir string, log logx.Logger) *Manager {
	return &Manager{
		dir:     dir,
		log:     log,
		snap:    NewSnapshot(nil, nil),
		limiter: rate.NewLimiter(reloadRateLimit, 1),
	}
}

// Load parses the directory and commits the snapshot. On error the current
// snapshot is untouched.
func (m *Manager) Load() (*Snapshot, error) {
	snap, err := Load(m.dir)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.snap = snap
	m.mu.Unlock()
	return snap, nil
}

// Snapshot returns the current snapshot. Callers hold it for the lifetime
// of one resolution; later reloads do not affect it.
func (m *Manager) Snapshot() *Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap
}

// Watch reloads on filesystem changes until ctx is done. Events are
// debounced and reloads rate-limited; a broken directory never replaces a
// good snapshot.
func (m *Manager) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("definitions watch: %w", err)
	}
	defer w.Close()

	for _, sub := range watchDirs(m.dir) {
		if err := w.Add(sub); err != nil {
			m.log.Warn("definitions watch add failed",
				logx.String("dir", sub), logx.Err(err))
		}
	}

	timer := time.AfterFunc(0, func() {}) // inert until first event
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				timer.Stop()
				timer = time.AfterFunc(debounceDelay, func() { m.reload(ctx) })
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if err != nil {
				m.log.Warn("definitions watch error", logx.Err(err))
			}
		}
	}
}

// reload runs one rate-limited reload. A rate-limited call re-arms itself so
// the trailing change still lands. Once ctx is done nothing fires: a timer
// armed just before Watch returned must not reload behind a closed watcher.
func (m *Manager) reload(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if !m.limiter.Allow() {
		time.AfterFunc(time.Second, func() { m.reload(ctx) })
		return
	}
	if _, err := m.Load(); err != nil {
		m.log.Warn("definitions reload failed; keeping previous snapshot",
			logx.String("dir", m.dir), logx.Err(err))
		return
	}
	m.log.Info("definitions reloaded", logx.String("dir", m.dir))
}

func watchDirs(dir string) []string {
	dirs := []string{dir}
	for _, sub := range []string{calendarsDir, jobsDir} {
		p := filepath.Join(dir, sub)
		if st, err := os.Stat(p); err == nil && st.IsDir() {
			dirs = append(dirs, p)
		}
	}
	return dirs
}
