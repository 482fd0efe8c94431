package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/browsing/domain"
	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/platform/metrics"
)

const (
	DefaultReplyDelay         = 1500 * time.Millisecond
	DefaultDescriptionTimeout = 30 * time.Second
	notifyTimeout             = 15 * time.Second
)

var tracer = otel.Tracer("virtucasa-service/browsing")

// Dependencies are shared by every session. Only Catalog is required; nil
// collaborators fall back to no-op implementations.
type Dependencies struct {
	Catalog   *Catalog
	Directory domain.IdentityDirectory
	Scheduler domain.Scheduler
	Generator domain.DescriptionGenerator
	Panorama  domain.PanoramaHost
	Media     domain.MediaResolver
	Publisher domain.EventPublisher
	Notifier  domain.InquiryNotifier
	Metrics   *metrics.MetricsManager
	Logger    *logger.Logger

	Now          func() time.Time
	NewMessageID func() string

	ReplyDelay         time.Duration
	DescriptionTimeout time.Duration
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Catalog == nil {
		d.Catalog, _ = NewCatalog(nil)
	}
	if d.Directory == nil {
		d.Directory = emptyDirectory{}
	}
	if d.Scheduler == nil {
		d.Scheduler = TimerScheduler{}
	}
	if d.Generator == nil {
		d.Generator = UnconfiguredGenerator{}
	}
	if d.Panorama == nil {
		d.Panorama = &detachedHost{}
	}
	if d.Media == nil {
		d.Media = passthroughResolver{}
	}
	if d.Publisher == nil {
		d.Publisher = noopPublisher{}
	}
	if d.Notifier == nil {
		d.Notifier = noopNotifier{}
	}
	if d.Logger == nil {
		d.Logger = logger.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.NewMessageID == nil {
		d.NewMessageID = NewMessageID
	}
	if d.ReplyDelay <= 0 {
		d.ReplyDelay = DefaultReplyDelay
	}
	if d.DescriptionTimeout <= 0 {
		d.DescriptionTimeout = DefaultDescriptionTimeout
	}
	return d
}

// Snapshot is a read-only summary of a session.
type Snapshot struct {
	ID                 string                `json:"id"`
	View               domain.View           `json:"view"`
	LastGrid           domain.View           `json:"lastGrid"`
	SelectedPropertyID string                `json:"selectedPropertyId,omitempty"`
	Identity           *domain.Identity      `json:"identity"`
	Criteria           domain.FilterCriteria `json:"criteria"`
	PriceRange         domain.PriceRange     `json:"priceRange"`
	VisibleCount       int                   `json:"visibleCount"`
	PendingReplies     int                   `json:"pendingReplies"`
}

type detailSlot struct {
	token       uint64
	property    domain.Property
	viewer      domain.PanoramaViewer
	description domain.DescriptionState
}

// Session is one visitor's browsing state. All methods are safe for
// concurrent use; every mutation happens under the session mutex, and
// scheduled replies and description results re-enter through it too.
type Session struct {
	id   string
	deps Dependencies
	log  *logger.Logger

	mu        sync.Mutex
	closed    bool
	identity  *domain.Identity
	epoch     uint64
	criteria  domain.FilterCriteria
	visible   []domain.Property
	nav       *Navigator
	ledger    *Ledger
	replies   map[uint64]domain.Cancel
	replySeq  uint64
	detail    *detailSlot
	detailSeq uint64
}

func NewSession(id string, deps Dependencies) *Session {
	deps = deps.withDefaults()
	s := &Session{
		id:      id,
		deps:    deps,
		log:     deps.Logger.With("session_id", id),
		nav:     NewNavigator(),
		ledger:  NewLedger(deps.NewMessageID, deps.Now),
		replies: make(map[uint64]domain.Cancel),
	}
	s.criteria = DefaultCriteria(deps.Catalog)
	s.refilterLocked()
	deps.Metrics.SessionOpened()
	return s
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:                 s.id,
		View:               s.nav.View(),
		LastGrid:           s.nav.LastGrid(),
		SelectedPropertyID: s.nav.SelectedID(),
		Identity:           s.identity.Clone(),
		Criteria:           s.criteria,
		PriceRange:         s.deps.Catalog.PriceRange(),
		VisibleCount:       len(s.visible),
		PendingReplies:     len(s.replies),
	}
}

func (s *Session) Criteria() domain.FilterCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

// SetCriteria replaces the whole criteria and recomputes the visible list.
func (s *Session) SetCriteria(ctx context.Context, c domain.FilterCriteria) ([]domain.Property, error) {
	norm, err := NormalizeCriteria(c)
	if err != nil {
		s.log.Info("Session.SetCriteria: rejected criteria", "error", err)
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = norm
	s.refilterLocked()
	s.log.Debug("Session.SetCriteria: criteria applied", "criteria", norm, "visible", len(s.visible))
	return copyProperties(s.visible), nil
}

func (s *Session) ResetCriteria() []domain.Property {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = DefaultCriteria(s.deps.Catalog)
	s.refilterLocked()
	return copyProperties(s.visible)
}

func (s *Session) Visible() []domain.Property {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyProperties(s.visible)
}

// Favorites lists the current identity's favorites in catalog order. It is
// empty when nobody is logged in.
func (s *Session) Favorites() []domain.Property {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FavoriteProperties(s.deps.Catalog.All(), s.identity)
}

func (s *Session) Identity() *domain.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity.Clone()
}

// Login replaces any current identity with userID's and loads its
// conversations. Pending replies of a previous login are cancelled.
func (s *Session) Login(ctx context.Context, userID string) (*domain.Identity, error) {
	ctx, span := tracer.Start(ctx, "Session.Login", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	identity, err := s.deps.Directory.FindIdentity(ctx, userID)
	if err != nil {
		s.log.Warn("Session.Login: identity lookup failed", "user_id", userID, "error", err)
		span.RecordError(err)
		return nil, err
	}
	convs, err := s.deps.Directory.FindConversations(ctx, userID)
	if err != nil {
		s.log.Error("Session.Login: failed to load conversations", "user_id", userID, "error", err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("load conversations: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, domain.ErrSessionNotFound
	}
	if s.identity != nil {
		s.endLoginLocked()
	}
	s.epoch++
	s.identity = identity.Clone()
	s.ledger.Seed(convs)
	s.log.Info("Session.Login: logged in", "user_id", userID, "conversations", s.ledger.Len())
	return s.identity.Clone(), nil
}

// Logout discards the identity, its conversations and any pending replies,
// closes the detail view and returns to the listing.
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity != nil {
		s.log.Info("Session.Logout: logging out", "user_id", s.identity.ID)
	}
	s.endLoginLocked()
	s.closeDetailLocked()
	s.nav.Reset()
}

func (s *Session) endLoginLocked() {
	if n := s.cancelRepliesLocked(); n > 0 {
		s.log.Info("Session: cancelled pending agent replies", "count", n)
	}
	s.ledger.Clear()
	s.identity = nil
	s.epoch++
}

func (s *Session) cancelRepliesLocked() int {
	n := 0
	for id, cancel := range s.replies {
		if cancel() {
			n++
		}
		delete(s.replies, id)
	}
	return n
}

// Select opens propertyID in the detail view and mounts its panorama.
func (s *Session) Select(ctx context.Context, propertyID string) (domain.Transition, error) {
	ctx, span := tracer.Start(ctx, "Session.Select", trace.WithAttributes(attribute.String("property.id", propertyID)))
	defer span.End()

	prop, err := s.deps.Catalog.Get(propertyID)
	if err != nil {
		return domain.Transition{}, err
	}
	tourURL, resolveErr := s.deps.Media.Resolve(ctx, prop.TourURL)
	if resolveErr != nil {
		s.log.Warn("Session.Select: could not resolve tour image", "property_id", propertyID, "error", resolveErr)
		span.RecordError(resolveErr)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.Transition{}, domain.ErrSessionNotFound
	}
	s.closeDetailLocked()

	var viewer domain.PanoramaViewer
	if resolveErr == nil {
		viewer, err = s.deps.Panorama.Mount(ctx, domain.PanoramaSource{ImageURL: tourURL, Title: prop.Title})
		if err != nil {
			s.log.Warn("Session.Select: panorama mount failed", "property_id", propertyID, "error", err)
			viewer = nil
		}
	}

	tr := s.nav.Select(propertyID)
	s.detailSeq++
	s.detail = &detailSlot{
		token:       s.detailSeq,
		property:    prop,
		viewer:      viewer,
		description: domain.DescriptionState{PropertyID: propertyID, Status: domain.DescriptionIdle},
	}
	s.log.Debug("Session.Select: entered detail", "property_id", propertyID, "from", tr.From)
	return tr, nil
}

// Back returns from detail to the grid it was entered from.
func (s *Session) Back(ctx context.Context) domain.Transition {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeDetailLocked()
	return s.nav.Back()
}

// Show switches to a grid view. Detail can only be reached through Select.
func (s *Session) Show(ctx context.Context, v domain.View) (domain.Transition, error) {
	if !v.IsGrid() {
		return domain.Transition{}, fmt.Errorf("%w: %q", domain.ErrInvalidView, v)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeDetailLocked()
	return s.nav.Show(v)
}

func (s *Session) closeDetailLocked() {
	if s.detail == nil {
		return
	}
	if s.detail.viewer != nil {
		s.detail.viewer.Destroy()
	}
	s.detail = nil
}

// ToggleFavorite flips propertyID in the identity's favorites and reports
// the resulting state.
func (s *Session) ToggleFavorite(ctx context.Context, propertyID string) (*domain.Identity, bool, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, false, domain.ErrSessionNotFound
	}
	if s.identity == nil {
		s.mu.Unlock()
		s.log.Info("Session.ToggleFavorite: login required", "property_id", propertyID)
		s.deps.Metrics.LoginRequiredFor("favorite")
		return nil, false, domain.ErrLoginRequired
	}
	if !s.deps.Catalog.Has(propertyID) {
		s.mu.Unlock()
		return nil, false, fmt.Errorf("%w: %q", domain.ErrPropertyNotFound, propertyID)
	}
	next, favorite, err := ToggleFavorite(s.identity, propertyID)
	if err != nil {
		s.mu.Unlock()
		return nil, false, err
	}
	s.identity = next
	out := next.Clone()
	s.mu.Unlock()

	s.deps.Metrics.FavoriteToggled(favorite)
	s.log.Info("Session.ToggleFavorite: favorite toggled", "user_id", out.ID, "property_id", propertyID, "favorite", favorite)
	s.publish(ctx, domain.SubjectFavoriteToggled, domain.FavoriteToggledEvent{
		UserID:     out.ID,
		PropertyID: propertyID,
		Favorite:   favorite,
	})
	return out, favorite, nil
}

// SendMessage appends the user's message to the conversation about
// propertyID and schedules the agent's acknowledgment.
func (s *Session) SendMessage(ctx context.Context, propertyID, text string) (domain.Message, error) {
	ctx, span := tracer.Start(ctx, "Session.SendMessage", trace.WithAttributes(attribute.String("property.id", propertyID)))
	defer span.End()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.Message{}, domain.ErrSessionNotFound
	}
	if s.identity == nil {
		s.mu.Unlock()
		s.log.Info("Session.SendMessage: login required", "property_id", propertyID)
		s.deps.Metrics.LoginRequiredFor("message")
		return domain.Message{}, domain.ErrLoginRequired
	}
	if err := ValidateMessageText(text); err != nil {
		s.mu.Unlock()
		return domain.Message{}, err
	}
	prop, err := s.deps.Catalog.Get(propertyID)
	if err != nil {
		s.mu.Unlock()
		return domain.Message{}, err
	}
	msg, conv, created, err := s.ledger.Send(s.identity, propertyID, text)
	if err != nil {
		s.mu.Unlock()
		return domain.Message{}, err
	}
	s.replySeq++
	replyID, epoch := s.replySeq, s.epoch
	s.replies[replyID] = s.deps.Scheduler.AfterFunc(s.deps.ReplyDelay, func() {
		s.deliverReply(replyID, epoch, propertyID)
	})
	sender := *s.identity
	s.mu.Unlock()

	s.deps.Metrics.MessageSent()
	s.log.Info("Session.SendMessage: message appended", "conversation_id", conv.ID, "message_id", msg.ID, "new_conversation", created)
	s.publish(ctx, domain.SubjectMessageSent, messageEvent(conv, msg))
	if created {
		go s.notifyInquiry(context.WithoutCancel(ctx), sender, prop, text)
	}
	return msg, nil
}

func (s *Session) notifyInquiry(ctx context.Context, sender domain.Identity, prop domain.Property, text string) {
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	if err := s.deps.Notifier.NotifyInquiry(ctx, sender, prop, text); err != nil {
		s.log.Error("Session.notifyInquiry: failed to notify agent", "property_id", prop.ID, "error", err)
	}
}

// deliverReply runs on the scheduler. The conversation is looked up again
// because the one the message went to may be gone by now.
func (s *Session) deliverReply(replyID, epoch uint64, propertyID string) {
	s.mu.Lock()
	_, pending := s.replies[replyID]
	delete(s.replies, replyID)
	if !pending || s.closed || s.identity == nil || epoch != s.epoch {
		s.mu.Unlock()
		s.deps.Metrics.AgentReply("dropped")
		s.log.Info("Session.deliverReply: dropping agent reply for ended login", "property_id", propertyID)
		return
	}
	msg, conv, ok := s.ledger.Reply(propertyID)
	s.mu.Unlock()
	if !ok {
		s.deps.Metrics.AgentReply("dropped")
		s.log.Warn("Session.deliverReply: conversation vanished", "property_id", propertyID)
		return
	}

	s.deps.Metrics.AgentReply("delivered")
	s.log.Debug("Session.deliverReply: agent replied", "conversation_id", conv.ID, "message_id", msg.ID)
	s.publish(context.Background(), domain.SubjectAgentReplied, messageEvent(conv, msg))
}

// PendingReplies is the number of scheduled agent replies not yet delivered.
func (s *Session) PendingReplies() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.replies)
}

// Conversation returns the thread about propertyID. A property nobody has
// written about yet yields an empty thread.
func (s *Session) Conversation(propertyID string) (*domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return nil, domain.ErrLoginRequired
	}
	if conv, ok := s.ledger.Get(propertyID); ok {
		return conv, nil
	}
	if !s.deps.Catalog.Has(propertyID) {
		return nil, fmt.Errorf("%w: %q", domain.ErrPropertyNotFound, propertyID)
	}
	return &domain.Conversation{
		ID:         domain.ConversationID(s.identity.ID, propertyID),
		UserID:     s.identity.ID,
		PropertyID: propertyID,
		Messages:   []domain.Message{},
	}, nil
}

func (s *Session) Conversations() ([]*domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return nil, domain.ErrLoginRequired
	}
	return s.ledger.All(), nil
}

// RequestDescription starts generating a description for the property in
// detail. Only the first request per detail visit reaches the generator.
func (s *Session) RequestDescription(ctx context.Context, propertyID string) (domain.DescriptionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.DescriptionState{}, domain.ErrSessionNotFound
	}
	if s.detail == nil || s.detail.property.ID != propertyID {
		return domain.DescriptionState{}, fmt.Errorf("%w: %q", domain.ErrNotInDetail, propertyID)
	}
	if s.detail.description.Status != domain.DescriptionIdle {
		return s.detail.description, nil
	}
	s.detail.description.Status = domain.DescriptionPending
	go s.generateDescription(context.WithoutCancel(ctx), s.detail.token, s.detail.property)
	return s.detail.description, nil
}

func (s *Session) generateDescription(ctx context.Context, token uint64, prop domain.Property) {
	ctx, cancel := context.WithTimeout(ctx, s.deps.DescriptionTimeout)
	defer cancel()
	ctx, span := tracer.Start(ctx, "Session.GenerateDescription", trace.WithAttributes(attribute.String("property.id", prop.ID)))
	defer span.End()

	state := domain.DescriptionState{PropertyID: prop.ID, Status: domain.DescriptionResolved}
	text, err := s.deps.Generator.Generate(ctx, prop)
	if err != nil {
		s.log.Error("Session.generateDescription: generator failed", "property_id", prop.ID, "error", err)
		span.SetStatus(codes.Error, err.Error())
		state.Status = domain.DescriptionFailed
		text = DescriptionFallbackText
	}
	state.Text = text

	s.mu.Lock()
	if s.detail == nil || s.detail.token != token {
		s.mu.Unlock()
		s.deps.Metrics.Description("discarded")
		s.log.Debug("Session.generateDescription: detail left, discarding result", "property_id", prop.ID)
		return
	}
	s.detail.description = state
	s.mu.Unlock()
	s.deps.Metrics.Description(string(state.Status))
}

// Description is the description state of the property in detail.
func (s *Session) Description() (domain.DescriptionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detail == nil {
		return domain.DescriptionState{}, domain.ErrNotInDetail
	}
	return s.detail.description, nil
}

// Panorama is the live viewer of the property in detail, if any.
func (s *Session) Panorama() (domain.PanoramaViewer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detail == nil || s.detail.viewer == nil {
		return nil, false
	}
	return s.detail.viewer, true
}

// Close releases the session's timers and viewer. It is idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.cancelRepliesLocked()
	s.closeDetailLocked()
	s.deps.Metrics.SessionClosed()
	s.log.Debug("Session.Close: session closed")
}

func (s *Session) refilterLocked() {
	s.visible = Filter(s.deps.Catalog.All(), s.criteria)
	s.deps.Metrics.ObserveFilter(len(s.visible))
}

func (s *Session) publish(ctx context.Context, subject string, event interface{}) {
	if err := s.deps.Publisher.Publish(ctx, subject, event); err != nil {
		s.log.Warn("Session.publish: failed to publish event", "subject", subject, "error", err)
	}
}

func messageEvent(conv *domain.Conversation, msg domain.Message) domain.MessageEvent {
	return domain.MessageEvent{
		ConversationID: conv.ID,
		UserID:         conv.UserID,
		PropertyID:     conv.PropertyID,
		MessageID:      msg.ID,
		SenderID:       msg.SenderID,
		Text:           msg.Text,
		Timestamp:      msg.Timestamp,
	}
}

func copyProperties(in []domain.Property) []domain.Property {
	out := make([]domain.Property, len(in))
	copy(out, in)
	return out
}
