package server

import (
	"context"
	"crypto/tls"
	"errors"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/mpapenbr/pitstop-service-go/log"
)

// certReloader serves the key pair from certFile/keyFile and reloads it when
// one of the files changes.
type certReloader struct {
	certFile string
	keyFile  string
	log      *log.Logger
	mu       sync.RWMutex
	cert     *tls.Certificate
}

var errNoCert = errors.New("no certificate loaded")

// newTLSConfig returns nil if the key pair could not be loaded.
// The files are watched until ctx is done.
func newTLSConfig(ctx context.Context, certFile, keyFile string) *tls.Config {
	c := &certReloader{
		certFile: certFile,
		keyFile:  keyFile,
		log:      log.GetFromContext(ctx).Named("server.certs"),
	}
	if err := c.load(); err != nil {
		c.log.Error("could not load TLS key pair", log.ErrorField(err))
		return nil
	}
	go c.watch(ctx)
	return &tls.Config{
		GetCertificate: c.getCertificate,
		MinVersion:     tls.VersionTLS13,
	}
}

func (c *certReloader) getCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cert == nil {
		return nil, errNoCert
	}
	return c.cert, nil
}

func (c *certReloader) load() error {
	c.log.Info("Loading cert",
		log.String("key", c.keyFile),
		log.String("cert", c.certFile))
	cert, err := tls.LoadX509KeyPair(c.certFile, c.keyFile)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cert = &cert
	return nil
}

//nolint:cyclop // by design
func (c *certReloader) watch(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		c.log.Error("could not create fsnotify watcher", log.ErrorField(err))
		return
	}
	defer watcher.Close()
	for _, f := range []string{c.certFile, c.keyFile} {
		if err := watcher.Add(f); err != nil {
			c.log.Error("could not watch file", log.String("file", f), log.ErrorField(err))
		}
	}
	for {
		select {
		case <-ctx.Done():
			c.log.Info("context done, stopping cert reload")
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Chmod) {
				continue
			}
			c.log.Info("cert file changed, reloading cert", log.String("file", event.Name))
			// a failed reload keeps the previous pair
			if err := c.load(); err != nil {
				c.log.Warn("could not reload TLS key pair", log.ErrorField(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			c.log.Error("watcher error", log.ErrorField(err))
		}
	}
}
