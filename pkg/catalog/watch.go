package catalog

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/mpapenbr/pitstop-service-go/log"
)

// Watch reloads the catalog from file whenever the file changes.
// Invalid content is logged and ignored, the previous content stays active.
// Watch blocks until ctx is done.
//
//nolint:gocognit,cyclop // by design
func (c *Catalog) Watch(ctx context.Context, file string) error {
	logger := log.GetFromContext(ctx).Named("catalog")
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	// editors often replace the file, so watch the directory
	if err := watcher.Add(filepath.Dir(file)); err != nil {
		return err
	}
	target := filepath.Clean(file)
	for {
		select {
		case <-ctx.Done():
			logger.Debug("context done, stopping catalog watch")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			data, err := os.ReadFile(file)
			if err != nil {
				logger.Warn("could not read catalog", log.ErrorField(err))
				continue
			}
			d, err := parseData(data)
			if err != nil {
				logger.Warn("ignoring invalid catalog", log.ErrorField(err))
				continue
			}
			c.replace(d)
			logger.Info("catalog reloaded",
				log.String("file", file),
				log.Int("tracks", len(d.Tracks)))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", log.ErrorField(err))
		}
	}
}
