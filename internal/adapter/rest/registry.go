package rest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"

	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/browsing/domain"
	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/browsing/usecase"
	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/platform/logger"
)

// SessionRegistry owns the live sessions. A session that sees no request
// for the idle TTL is evicted and closed.
type SessionRegistry struct {
	cache  *ttlcache.Cache[string, *usecase.Session]
	deps   usecase.Dependencies
	logger *logger.Logger
}

func NewSessionRegistry(deps usecase.Dependencies, idleTTL time.Duration, log *logger.Logger) *SessionRegistry {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, *usecase.Session](idleTTL),
	)
	r := &SessionRegistry{cache: cache, deps: deps, logger: log}
	cache.OnEviction(func(_ context.Context, reason ttlcache.EvictionReason, item *ttlcache.Item[string, *usecase.Session]) {
		item.Value().Close()
		log.Info("SessionRegistry: session closed", "session_id", item.Key(), "reason", evictionReason(reason))
	})
	return r
}

// Start runs the expiry loop until Stop is called.
func (r *SessionRegistry) Start() {
	go r.cache.Start()
}

// Stop ends the expiry loop and closes every remaining session.
func (r *SessionRegistry) Stop() {
	r.cache.Stop()
	r.cache.DeleteAll()
}

func (r *SessionRegistry) Create() *usecase.Session {
	id := uuid.NewString()
	s := usecase.NewSession(id, r.deps)
	r.cache.Set(id, s, ttlcache.DefaultTTL)
	r.logger.Info("SessionRegistry.Create: session opened", "session_id", id)
	return s
}

// Get returns the session and extends its idle deadline.
func (r *SessionRegistry) Get(id string) (*usecase.Session, error) {
	item := r.cache.Get(id)
	if item == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrSessionNotFound, id)
	}
	return item.Value(), nil
}

func (r *SessionRegistry) Delete(id string) error {
	if !r.cache.Has(id) {
		return fmt.Errorf("%w: %q", domain.ErrSessionNotFound, id)
	}
	r.cache.Delete(id)
	return nil
}

func (r *SessionRegistry) Len() int {
	return r.cache.Len()
}

func evictionReason(reason ttlcache.EvictionReason) string {
	switch reason {
	case ttlcache.EvictionReasonExpired:
		return "expired"
	case ttlcache.EvictionReasonCapacityReached:
		return "capacity"
	default:
		return "deleted"
	}
}
