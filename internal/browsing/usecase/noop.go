package usecase

import (
	"context"
	"strconv"
	"sync/atomic"

	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/browsing/domain"
)

// Fallbacks for optional collaborators left nil in Dependencies.

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, interface{}) error { return nil }

type noopNotifier struct{}

func (noopNotifier) NotifyInquiry(context.Context, domain.Identity, domain.Property, string) error {
	return nil
}

type emptyDirectory struct{}

func (emptyDirectory) FindIdentity(context.Context, string) (*domain.Identity, error) {
	return nil, domain.ErrIdentityNotFound
}

func (emptyDirectory) FindConversations(context.Context, string) ([]*domain.Conversation, error) {
	return nil, nil
}

type passthroughResolver struct{}

func (passthroughResolver) Resolve(_ context.Context, ref string) (string, error) {
	return ref, nil
}

type detachedHost struct {
	seq atomic.Int64
}

func (h *detachedHost) Mount(_ context.Context, src domain.PanoramaSource) (domain.PanoramaViewer, error) {
	id := "viewer-" + strconv.FormatInt(h.seq.Add(1), 10)
	return &detachedViewer{id: id, src: src}, nil
}

type detachedViewer struct {
	id  string
	src domain.PanoramaSource
}

func (v *detachedViewer) ID() string { return v.id }

func (v *detachedViewer) Source() domain.PanoramaSource { return v.src }

func (v *detachedViewer) Destroy() {}
