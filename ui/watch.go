package ui

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

func (m *model) initWatcher() {
	if m.cfg.NoWatch || m.cfg.Path == "" {
		return
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Error("error creating fsnotify watcher", "error", err)
		return
	}
	m.watcher = w
}

// watchFile blocks until path is written or recreated. The parent directory
// is watched so editors that replace the file on save are noticed too.
func watchFile(w *fsnotify.Watcher, path string) tea.Cmd {
	return func() tea.Msg {
		dir := filepath.Dir(path)
		if err := w.Add(dir); err != nil {
			log.Error("error adding dir to fsnotify watcher", "error", err)
			return nil
		}
		log.Debug("fsnotify watching dir", "dir", dir)

		for {
			select {
			case event, ok := <-w.Events:
				if !ok {
					return nil
				}
				if event.Name != path {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				log.Debug("fsnotify event", "file", event.Name, "event", event.Op)
				return fileChangedMsg{}
			case err, ok := <-w.Errors:
				if !ok {
					return nil
				}
				log.Debug("fsnotify error", "dir", dir, "error", err)
			}
		}
	}
}
