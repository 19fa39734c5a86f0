package config

import (
	"fmt"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	fsnotify "gopkg.in/fsnotify.v1"
)

// Watcher reloads a config file whenever it changes on disk.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// Watch starts watching the config file at path. onChange is called from the
// watcher goroutine with every config that could be parsed. Files that fail
// to parse are logged and skipped.
func Watch(path string, onChange func(*Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("cannot watch config file: %w", err)
	}

	// editors often replace the file, so the directory is watched
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("cannot watch config file: %w", err)
	}

	w := &Watcher{
		path:    filepath.Clean(path),
		watcher: fw,
		done:    make(chan struct{}),
	}
	go w.run(onChange)

	return w, nil
}

func (w *Watcher) run(onChange func(*Config)) {
	defer close(w.done)

	for {
		select {
		case e, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != w.path || e.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			cfg, err := FromFile(w.path)
			if err != nil {
				log.Errorf("could not reload config: %v", err)
				continue
			}
			log.Debugf("config file %s changed", w.path)
			onChange(cfg)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Errorf("config watcher: %v", err)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
