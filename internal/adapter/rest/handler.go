package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/adapter/panorama"
	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/browsing/domain"
	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/browsing/usecase"
	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/platform/logger"
)

// Notices shown to a visitor who tries a member-only action.
const (
	noticeFavorites = "Please log in to save favorites."
	noticeMessages  = "Please log in to message the agent."
)

type Handler struct {
	sessions *SessionRegistry
	catalog  *usecase.Catalog
	logger   *logger.Logger
}

func NewHandler(sessions *SessionRegistry, catalog *usecase.Catalog, log *logger.Logger) *Handler {
	return &Handler{sessions: sessions, catalog: catalog, logger: log}
}

type loginRequest struct {
	UserID string `json:"userId" validate:"required"`
}

type viewRequest struct {
	View domain.View `json:"view" validate:"required,oneof=listing favorites"`
}

type messageRequest struct {
	Text string `json:"text"`
}

type propertiesResponse struct {
	Criteria   domain.FilterCriteria `json:"criteria"`
	Properties []domain.Property     `json:"properties"`
}

type favoriteResponse struct {
	Favorite bool             `json:"favorite"`
	Identity *domain.Identity `json:"identity"`
}

type selectResponse struct {
	Transition domain.Transition `json:"transition"`
	Property   domain.Property   `json:"property"`
}

type panoramaResponse struct {
	ViewerID string          `json:"viewerId"`
	Config   panorama.Config `json:"config"`
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*usecase.Session, bool) {
	s, err := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(w, r, err, "")
		return nil, false
	}
	return s, true
}

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	if err := validate.Struct(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: validationMessage(err)})
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}

func (h *Handler) HandleListCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.All())
}

func (h *Handler) HandleGetProperty(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.Get(chi.URLParam(r, "propertyID"))
	if err != nil {
		h.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Create()
	writeJSON(w, http.StatusCreated, s.Snapshot())
}

func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (h *Handler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(chi.URLParam(r, "sessionID")); err != nil {
		h.writeError(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleListProperties(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, propertiesResponse{Criteria: s.Criteria(), Properties: s.Visible()})
}

func (h *Handler) HandleSetFilters(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	// Fields missing from the body keep their current values.
	req := s.Criteria()
	if !decode(w, r, &req) {
		return
	}
	visible, err := s.SetCriteria(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, propertiesResponse{Criteria: s.Criteria(), Properties: visible})
}

func (h *Handler) HandleResetFilters(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	visible := s.ResetCriteria()
	writeJSON(w, http.StatusOK, propertiesResponse{Criteria: s.Criteria(), Properties: visible})
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}
	identity, err := s.Login(r.Context(), req.UserID)
	if err != nil {
		h.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, identity)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleListFavorites(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Favorites())
}

func (h *Handler) HandleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	identity, favorite, err := s.ToggleFavorite(r.Context(), chi.URLParam(r, "propertyID"))
	if err != nil {
		h.writeError(w, r, err, noticeFavorites)
		return
	}
	writeJSON(w, http.StatusOK, favoriteResponse{Favorite: favorite, Identity: identity})
}

func (h *Handler) HandleShowView(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req viewRequest
	if !decode(w, r, &req) {
		return
	}
	tr, err := s.Show(r.Context(), req.View)
	if err != nil {
		h.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, tr)
}

func (h *Handler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	propertyID := chi.URLParam(r, "propertyID")
	tr, err := s.Select(r.Context(), propertyID)
	if err != nil {
		h.writeError(w, r, err, "")
		return
	}
	p, _ := h.catalog.Get(propertyID)
	writeJSON(w, http.StatusOK, selectResponse{Transition: tr, Property: p})
}

func (h *Handler) HandleBack(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Back(r.Context()))
}

func (h *Handler) HandleListConversations(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	convs, err := s.Conversations()
	if err != nil {
		h.writeError(w, r, err, noticeMessages)
		return
	}
	writeJSON(w, http.StatusOK, convs)
}

func (h *Handler) HandleGetConversation(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	conv, err := s.Conversation(chi.URLParam(r, "propertyID"))
	if err != nil {
		h.writeError(w, r, err, noticeMessages)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

func (h *Handler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req messageRequest
	if !decode(w, r, &req) {
		return
	}
	if err := usecase.ValidateMessageText(req.Text); err != nil {
		h.writeError(w, r, err, "")
		return
	}
	msg, err := s.SendMessage(r.Context(), chi.URLParam(r, "propertyID"), req.Text)
	if err != nil {
		h.writeError(w, r, err, noticeMessages)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (h *Handler) HandleRequestDescription(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	state, err := s.RequestDescription(r.Context(), chi.URLParam(r, "propertyID"))
	if err != nil {
		h.writeError(w, r, err, "")
		return
	}
	status := http.StatusOK
	if state.Loading() {
		status = http.StatusAccepted
	}
	writeJSON(w, status, state)
}

func (h *Handler) HandleGetDescription(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	state, err := s.Description()
	if err != nil {
		h.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) HandleGetPanorama(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	viewer, ok := s.Panorama()
	if !ok {
		h.writeError(w, r, domain.ErrNotInDetail, "")
		return
	}
	writeJSON(w, http.StatusOK, panoramaResponse{ViewerID: viewer.ID(), Config: panorama.ConfigFor(viewer.Source())})
}
