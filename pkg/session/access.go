package session

import (
	"context"
	"fmt"

	"github.com/mpapenbr/pitstop-service-go/log"
	"github.com/mpapenbr/pitstop-service-go/pkg/model"
)

type (
	AccessOption func(*Access)
	// Access shields callers from provider failures.
	Access struct {
		provider Provider
		log      *log.Logger
	}
)

func WithLogger(l *log.Logger) AccessOption {
	return func(a *Access) {
		a.log = l
	}
}

func NewAccess(provider Provider, opts ...AccessOption) *Access {
	ret := &Access{
		provider: provider,
		log:      log.Default().Named("session"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Load returns the requested session. Any failure to resolve or load the
// session is logged and reported as absent (false).
//
//nolint:whitespace // can't make both editor and linter happy
func (a *Access) Load(
	ctx context.Context,
	year int,
	track string,
	sessionType model.SessionType,
) (s Session, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Warn("Session load failed",
				log.Int("year", year),
				log.String("track", track),
				log.String("type", string(sessionType)),
				log.String("panic", fmt.Sprint(r)))
			s, ok = nil, false
		}
	}()
	if a.provider == nil {
		a.log.Warn("Session load failed: no provider configured")
		return nil, false
	}
	ret, err := a.provider.LoadSession(ctx, year, track, sessionType)
	if err != nil {
		a.log.Warn("Session load failed",
			log.Int("year", year),
			log.String("track", track),
			log.String("type", string(sessionType)),
			log.ErrorField(err))
		return nil, false
	}
	if ret == nil {
		a.log.Warn("Session load failed: provider returned no data",
			log.Int("year", year),
			log.String("track", track),
			log.String("type", string(sessionType)))
		return nil, false
	}
	return ret, true
}
