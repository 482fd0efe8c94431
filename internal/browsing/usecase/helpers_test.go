package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/browsing/domain"
)

func sampleProperties() []domain.Property {
	return []domain.Property{
		{ID: "1", Title: "Sunny Loft", Price: 200000, Kind: domain.KindSale, Bedrooms: 1,
			Address: domain.Address{Street: "12 Market St", City: "Springfield"}, TourURL: "https://tours.example/1.jpg"},
		{ID: "2", Title: "Family Home", Price: 450000, Kind: domain.KindSale, Bedrooms: 3,
			Address: domain.Address{Street: "4 Oak Avenue", City: "Shelbyville"}, TourURL: "s3://tours/2.jpg"},
		{ID: "3", Title: "Hillside Villa", Price: 900000, Kind: domain.KindSale, Bedrooms: 5,
			Address: domain.Address{Street: "1 Summit Road", City: "Capital City"}, TourURL: "https://tours.example/3.jpg"},
		{ID: "4", Title: "Downtown Studio", Price: 1800, Kind: domain.KindRent, Bedrooms: 0,
			Address: domain.Address{Street: "77 Main St", City: "Springfield"}, TourURL: "https://tours.example/4.jpg"},
	}
}

func mustCatalog(props []domain.Property) *Catalog {
	c, err := NewCatalog(props)
	if err != nil {
		panic(err)
	}
	return c
}

type fakeTask struct {
	delay   time.Duration
	fn      func()
	stopped bool
	fired   bool
}

// fakeScheduler collects tasks; they only run when the test fires them.
type fakeScheduler struct {
	mu    sync.Mutex
	tasks []*fakeTask
}

func (f *fakeScheduler) AfterFunc(d time.Duration, fn func()) domain.Cancel {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTask{delay: d, fn: fn}
	f.tasks = append(f.tasks, t)
	return func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		if t.fired || t.stopped {
			return false
		}
		t.stopped = true
		return true
	}
}

// FireAll runs every task that was neither stopped nor already fired.
func (f *fakeScheduler) FireAll() int {
	f.mu.Lock()
	var due []*fakeTask
	for _, t := range f.tasks {
		if !t.fired && !t.stopped {
			t.fired = true
			due = append(due, t)
		}
	}
	f.mu.Unlock()
	for _, t := range due {
		t.fn()
	}
	return len(due)
}

// ForceAll runs every unfired task, including stopped ones, mimicking a
// timer that fired while its cancellation raced with it.
func (f *fakeScheduler) ForceAll() {
	f.mu.Lock()
	var due []*fakeTask
	for _, t := range f.tasks {
		if !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	f.mu.Unlock()
	for _, t := range due {
		t.fn()
	}
}

func (f *fakeScheduler) Delays() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]time.Duration, 0, len(f.tasks))
	for _, t := range f.tasks {
		out = append(out, t.delay)
	}
	return out
}

type published struct {
	subject string
	data    interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) Publish(_ context.Context, subject string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{subject: subject, data: data})
	return nil
}

func (p *recordingPublisher) Subjects() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.subject)
	}
	return out
}

type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) FindIdentity(ctx context.Context, userID string) (*domain.Identity, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

func (m *MockDirectory) FindConversations(ctx context.Context, userID string) ([]*domain.Conversation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Conversation), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyInquiry(ctx context.Context, identity domain.Identity, property domain.Property, text string) error {
	args := m.Called(ctx, identity, property, text)
	return args.Error(0)
}

// gatedGenerator blocks each call until the test releases it.
type gatedGenerator struct {
	calls   chan domain.Property
	release chan generated
}

type generated struct {
	text string
	err  error
}

func newGatedGenerator() *gatedGenerator {
	return &gatedGenerator{calls: make(chan domain.Property, 8), release: make(chan generated, 8)}
}

func (g *gatedGenerator) Generate(ctx context.Context, p domain.Property) (string, error) {
	g.calls <- p
	select {
	case r := <-g.release:
		return r.text, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

type trackingViewer struct {
	id        string
	src       domain.PanoramaSource
	mu        sync.Mutex
	destroyed bool
}

func (v *trackingViewer) ID() string { return v.id }

func (v *trackingViewer) Source() domain.PanoramaSource { return v.src }

func (v *trackingViewer) Destroy() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.destroyed = true
}

func (v *trackingViewer) Destroyed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.destroyed
}

type trackingHost struct {
	mu      sync.Mutex
	viewers []*trackingViewer
}

func (h *trackingHost) Mount(_ context.Context, src domain.PanoramaSource) (domain.PanoramaViewer, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	v := &trackingViewer{id: fmt.Sprintf("v%d", len(h.viewers)+1), src: src}
	h.viewers = append(h.viewers, v)
	return v, nil
}

func (h *trackingHost) Live() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, v := range h.viewers {
		if !v.Destroyed() {
			n++
		}
	}
	return n
}

type prefixResolver struct{}

func (prefixResolver) Resolve(_ context.Context, ref string) (string, error) {
	if key, ok := strings.CutPrefix(ref, "s3://"); ok {
		return "https://minio.local/" + key + "?signed", nil
	}
	return ref, nil
}
