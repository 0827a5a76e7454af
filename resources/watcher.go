package resources

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/richinsley/glrenderer/graphics"
)

// Watcher reloads file-backed programs when their sources change on disk.
//
// Change notifications arrive on a background goroutine and are only
// collected there. Apply does the reload and must run on the render
// thread, typically once per frame.
type Watcher struct {
	m  *Manager
	fw *fsnotify.Watcher

	// render thread only
	byPath map[string][]string
	dirs   map[string]bool

	mu      sync.Mutex
	changed map[string]bool

	done chan struct{}
	wg   sync.WaitGroup
}

// Watch starts watching the sources of every file-backed program, including
// programs loaded later. Calling it again returns the running watcher.
func (m *Manager) Watch() (*Watcher, error) {
	if m.watcher != nil {
		return m.watcher, nil
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		m:       m,
		fw:      fw,
		byPath:  map[string][]string{},
		dirs:    map[string]bool{},
		changed: map[string]bool{},
		done:    make(chan struct{}),
	}
	for key, e := range m.programs {
		if e.vertexPath != "" {
			w.watchProgram(key, e.vertexPath, e.fragmentPath)
		}
	}
	m.watcher = w

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// watchProgram watches the directories holding the sources rather than the
// files, since editors often replace a file instead of writing to it.
func (w *Watcher) watchProgram(key string, paths ...string) {
	for _, p := range paths {
		abs := absPath(p)
		w.byPath[abs] = append(w.byPath[abs], key)
		dir := filepath.Dir(abs)
		if w.dirs[dir] {
			continue
		}
		if err := w.fw.Add(dir); err != nil {
			graphics.Logger().Warn("cannot watch shader directory", slog.String("dir", dir), slog.Any("error", err))
			continue
		}
		w.dirs[dir] = true
	}
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.mu.Lock()
				w.changed[absPath(event.Name)] = true
				w.mu.Unlock()
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			graphics.Logger().Warn("source watcher error", slog.Any("error", err))
		}
	}
}

// Pending reports whether changes are waiting for Apply.
func (w *Watcher) Pending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.changed) > 0
}

// Apply rebuilds every program whose sources changed since the last call
// and returns their keys. Program instances keep their identity; a source
// that fails to read or build leaves the program invalid until it is
// fixed on disk.
func (w *Watcher) Apply() []string {
	w.mu.Lock()
	changed := w.changed
	w.changed = map[string]bool{}
	w.mu.Unlock()

	seen := map[string]bool{}
	var reloaded []string
	for path := range changed {
		for _, key := range w.byPath[path] {
			if seen[key] {
				continue
			}
			seen[key] = true
			if w.reload(key) {
				reloaded = append(reloaded, key)
			}
		}
	}
	return reloaded
}

func (w *Watcher) reload(key string) bool {
	e, ok := w.m.programs[key]
	if !ok {
		return false
	}
	vs, err := readSource(e.vertexPath)
	if err != nil {
		graphics.Logger().Warn("reload program", slog.String("key", key), slog.Any("error", err))
		return false
	}
	fs, err := readSource(e.fragmentPath)
	if err != nil {
		graphics.Logger().Warn("reload program", slog.String("key", key), slog.Any("error", err))
		return false
	}
	e.program.SetSources(vs, fs)
	ok = e.program.Build()
	graphics.Logger().Info("program reloaded", slog.String("key", key), slog.Bool("valid", ok))
	return true
}

// Close stops watching. Pending changes are dropped.
func (w *Watcher) Close() error {
	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)
	err := w.fw.Close()
	w.wg.Wait()
	if w.m.watcher == w {
		w.m.watcher = nil
	}
	return err
}
