package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/mod/semver"

	"github.com/mpapenbr/pitstop-service-go/log"
)

// requestID assigns an id to each request unless the caller sent one.
// The id is echoed in the response and attached to the request logger.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		l := s.log.With(log.String("requestId", id))
		next.ServeHTTP(w, r.WithContext(log.AddToContext(r.Context(), l)))
	})
}

func (s *Server) clientVersionCheck(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := r.Header.Get(HeaderClient)
		if client != "" && !checkClientVersion(client, s.minClientVersion) {
			log.GetFromContext(r.Context()).Info("client too old",
				log.String("client", client),
				log.String("required", s.minClientVersion))
			writeError(w, http.StatusPreconditionFailed,
				"Client version "+client+" is not supported, please reload.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkClientVersion reports if toCheck is at least required.
// An empty required version accepts everything, an invalid toCheck nothing.
func checkClientVersion(toCheck, required string) bool {
	if required == "" {
		return true
	}
	if !strings.HasPrefix(toCheck, "v") {
		toCheck = "v" + toCheck
	}
	if !strings.HasPrefix(required, "v") {
		required = "v" + required
	}
	if !semver.IsValid(toCheck) {
		return false
	}
	return semver.Compare(toCheck, required) >= 0
}
