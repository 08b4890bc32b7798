package watcher

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/penwyp/go-counter-recovery/internal/core/model"
	"github.com/penwyp/go-counter-recovery/internal/util"
)

// FileWatcher reports changes to sample files anywhere under a month
// directory. Directories created after start are watched as they appear, and
// removing or renaming a watched directory is reported too.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	root    string
	events  chan model.FileEvent
	done    chan struct{}
	once    sync.Once

	// dirs is only touched before processEvents starts and from it
	dirs map[string]struct{}
}

// NewFileWatcher starts watching root and every directory below it
func NewFileWatcher(root string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fw := &FileWatcher{
		watcher: watcher,
		root:    root,
		events:  make(chan model.FileEvent, 100),
		done:    make(chan struct{}),
		dirs:    make(map[string]struct{}),
	}

	if err := fw.addTree(root); err != nil {
		watcher.Close()
		return nil, err
	}

	go fw.processEvents()

	return fw, nil
}

func (fw *FileWatcher) addTree(path string) error {
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			util.LogDebug("Watching directory", util.F("dir", p))
			if err := fw.watcher.Add(p); err != nil {
				return err
			}
			fw.dirs[p] = struct{}{}
		}
		return nil
	})
}

func (fw *FileWatcher) processEvents() {
	defer close(fw.events)

	for {
		select {
		case <-fw.done:
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					// Samples may already be inside a directory that was moved in
					if err := fw.addTree(event.Name); err != nil {
						util.LogWarn("Failed to watch new directory", util.F("dir", event.Name), util.F("error", err))
					}
					fw.emit(model.FileEvent{Path: event.Name, Operation: event.Op.String()})
					continue
				}
			}

			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				if fw.forgetTree(event.Name) {
					fw.emit(model.FileEvent{Path: event.Name, Operation: event.Op.String()})
					continue
				}
			}

			if filepath.Ext(event.Name) == model.SampleExt {
				fw.emit(model.FileEvent{Path: event.Name, Operation: event.Op.String()})
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("File monitoring error: " + err.Error())
		}
	}
}

// forgetTree drops path and every watched directory below it, and reports
// whether path was a watched directory. The root itself is kept.
func (fw *FileWatcher) forgetTree(path string) bool {
	if _, ok := fw.dirs[path]; !ok || path == fw.root {
		return false
	}
	prefix := path + string(filepath.Separator)
	for dir := range fw.dirs {
		if dir == path || strings.HasPrefix(dir, prefix) {
			delete(fw.dirs, dir)
			// Already gone for deleted directories
			_ = fw.watcher.Remove(dir)
		}
	}
	return true
}

func (fw *FileWatcher) emit(event model.FileEvent) {
	select {
	case fw.events <- event:
	case <-fw.done:
	}
}

// Events delivers sample file changes; it is closed after Close
func (fw *FileWatcher) Events() <-chan model.FileEvent {
	return fw.events
}

// Close stops watching; calling it more than once is safe
func (fw *FileWatcher) Close() error {
	var err error
	fw.once.Do(func() {
		close(fw.done)
		err = fw.watcher.Close()
	})
	return err
}
