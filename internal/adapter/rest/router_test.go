package rest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/adapter/catalog"
	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/adapter/panorama"
	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/browsing/domain"
	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/browsing/usecase"
	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/platform/metrics"
)

type apiFixture struct {
	srv      *httptest.Server
	registry *SessionRegistry
	host     *panorama.Host
}

func newAPIFixture(t *testing.T, idleTTL time.Duration) *apiFixture {
	t.Helper()
	log := logger.NewNop()
	cat, err := usecase.NewCatalog(catalog.Properties())
	require.NoError(t, err)

	host := panorama.NewHost(log)
	registry := NewSessionRegistry(usecase.Dependencies{
		Catalog:    cat,
		Directory:  catalog.FixtureDirectory{},
		Panorama:   host,
		Logger:     log,
		ReplyDelay: time.Hour,
	}, idleTTL, log)
	registry.Start()

	router, err := NewRouter(NewHandler(registry, cat, log), metrics.NewMetricsManager("test"), log)
	require.NoError(t, err)
	srv := httptest.NewServer(router)

	t.Cleanup(func() {
		srv.Close()
		registry.Stop()
	})
	return &apiFixture{srv: srv, registry: registry, host: host}
}

func (f *apiFixture) do(t *testing.T, method, path string, body interface{}) (int, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, f.srv.URL+path, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func (f *apiFixture) newSession(t *testing.T) string {
	t.Helper()
	code, body := f.do(t, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, code)
	var snap usecase.Snapshot
	require.NoError(t, json.Unmarshal(body, &snap))
	require.NotEmpty(t, snap.ID)
	return snap.ID
}

func TestAPI_CatalogAndFilters(t *testing.T) {
	f := newAPIFixture(t, time.Minute)
	sid := f.newSession(t)

	code, body := f.do(t, http.MethodGet, "/api/properties", nil)
	require.Equal(t, http.StatusOK, code)
	var all []domain.Property
	require.NoError(t, json.Unmarshal(body, &all))
	assert.Len(t, all, 8)

	code, body = f.do(t, http.MethodPut, "/api/sessions/"+sid+"/filters", map[string]interface{}{
		"searchTerm": "", "type": "rent", "minPrice": 0, "maxPrice": 3000, "bedrooms": "any",
	})
	require.Equal(t, http.StatusOK, code)
	var filtered propertiesResponse
	require.NoError(t, json.Unmarshal(body, &filtered))
	for _, p := range filtered.Properties {
		assert.Equal(t, domain.KindRent, p.Kind)
		assert.LessOrEqual(t, p.Price, 3000.0)
	}
	assert.NotEmpty(t, filtered.Properties)

	code, _ = f.do(t, http.MethodPut, "/api/sessions/"+sid+"/filters", map[string]interface{}{"type": "lease"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = f.do(t, http.MethodDelete, "/api/sessions/"+sid+"/filters", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body, &filtered))
	assert.Len(t, filtered.Properties, 8)

	code, body = f.do(t, http.MethodPut, "/api/sessions/"+sid+"/filters", map[string]interface{}{"searchTerm": "loft"})
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body, &filtered))
	require.Len(t, filtered.Properties, 1, "omitted fields keep the default price range")
	assert.Equal(t, "1", filtered.Properties[0].ID)
	assert.Positive(t, filtered.Criteria.MaxPrice)

	code, _ = f.do(t, http.MethodGet, "/api/properties/404", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAPI_FavoritesRequireLogin(t *testing.T) {
	f := newAPIFixture(t, time.Minute)
	sid := f.newSession(t)

	code, body := f.do(t, http.MethodPost, "/api/sessions/"+sid+"/favorites/1/toggle", nil)
	require.Equal(t, http.StatusUnauthorized, code)
	var errResp errorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, noticeFavorites, errResp.Notice)

	code, _ = f.do(t, http.MethodPost, "/api/sessions/"+sid+"/login", loginRequest{UserID: catalog.DemoUserID})
	require.Equal(t, http.StatusOK, code)

	code, body = f.do(t, http.MethodPost, "/api/sessions/"+sid+"/favorites/1/toggle", nil)
	require.Equal(t, http.StatusOK, code)
	var fav favoriteResponse
	require.NoError(t, json.Unmarshal(body, &fav))
	assert.True(t, fav.Favorite)
	assert.Equal(t, []string{"2", "5", "8", "1"}, fav.Identity.FavoriteIDs)

	code, body = f.do(t, http.MethodGet, "/api/sessions/"+sid+"/favorites", nil)
	require.Equal(t, http.StatusOK, code)
	var favs []domain.Property
	require.NoError(t, json.Unmarshal(body, &favs))
	assert.Len(t, favs, 4)
	assert.Equal(t, "1", favs[0].ID, "favorites are listed in catalog order")
}

func TestAPI_LoginUnknownUser(t *testing.T) {
	f := newAPIFixture(t, time.Minute)
	sid := f.newSession(t)

	code, _ := f.do(t, http.MethodPost, "/api/sessions/"+sid+"/login", loginRequest{UserID: "ghost"})
	assert.Equal(t, http.StatusNotFound, code)
	code, body := f.do(t, http.MethodPost, "/api/sessions/"+sid+"/login", loginRequest{})
	assert.Equal(t, http.StatusBadRequest, code)
	var errResp errorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "userId is required", errResp.Error)
}

func TestAPI_DetailPanoramaAndDescription(t *testing.T) {
	f := newAPIFixture(t, time.Minute)
	sid := f.newSession(t)

	code, _ := f.do(t, http.MethodGet, "/api/sessions/"+sid+"/panorama", nil)
	assert.Equal(t, http.StatusConflict, code)

	code, body := f.do(t, http.MethodPost, "/api/sessions/"+sid+"/select/4", nil)
	require.Equal(t, http.StatusOK, code)
	var sel selectResponse
	require.NoError(t, json.Unmarshal(body, &sel))
	assert.Equal(t, domain.ViewDetail, sel.Transition.To)
	assert.True(t, sel.Transition.ScrollToTop)
	assert.Equal(t, "Chic Urban Apartment", sel.Property.Title)

	code, body = f.do(t, http.MethodGet, "/api/sessions/"+sid+"/panorama", nil)
	require.Equal(t, http.StatusOK, code)
	var pano panoramaResponse
	require.NoError(t, json.Unmarshal(body, &pano))
	assert.Equal(t, "equirectangular", pano.Config.Type)
	assert.Equal(t, "Chic Urban Apartment", pano.Config.Title)
	assert.Equal(t, 1, f.host.Live())

	code, _ = f.do(t, http.MethodPost, "/api/sessions/"+sid+"/properties/1/description", nil)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = f.do(t, http.MethodPost, "/api/sessions/"+sid+"/properties/4/description", nil)
	assert.Contains(t, []int{http.StatusAccepted, http.StatusOK}, code)
	require.Eventually(t, func() bool {
		_, body := f.do(t, http.MethodGet, "/api/sessions/"+sid+"/description", nil)
		var state domain.DescriptionState
		_ = json.Unmarshal(body, &state)
		return state.Status == domain.DescriptionResolved && state.Text == usecase.MissingAPIKeyText
	}, 2*time.Second, 10*time.Millisecond)

	code, body = f.do(t, http.MethodPost, "/api/sessions/"+sid+"/back", nil)
	require.Equal(t, http.StatusOK, code)
	var tr domain.Transition
	require.NoError(t, json.Unmarshal(body, &tr))
	assert.Equal(t, domain.ViewListing, tr.To)
	assert.Zero(t, f.host.Live())

	code, _ = f.do(t, http.MethodPut, "/api/sessions/"+sid+"/view", viewRequest{View: domain.ViewDetail})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = f.do(t, http.MethodPut, "/api/sessions/"+sid+"/view", viewRequest{View: "attic"})
	assert.Equal(t, http.StatusBadRequest, code)
	var errResp errorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "view must be one of: listing favorites", errResp.Error)
}

func TestAPI_Messages(t *testing.T) {
	f := newAPIFixture(t, time.Minute)
	sid := f.newSession(t)

	code, _ := f.do(t, http.MethodPost, "/api/sessions/"+sid+"/conversations/2/messages", messageRequest{Text: "hi"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = f.do(t, http.MethodPost, "/api/sessions/"+sid+"/login", loginRequest{UserID: catalog.DemoUserID})
	require.Equal(t, http.StatusOK, code)

	code, _ = f.do(t, http.MethodPost, "/api/sessions/"+sid+"/conversations/2/messages", messageRequest{Text: "  "})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := f.do(t, http.MethodPost, "/api/sessions/"+sid+"/conversations/2/messages", messageRequest{Text: "Is there parking?"})
	require.Equal(t, http.StatusCreated, code)
	var msg domain.Message
	require.NoError(t, json.Unmarshal(body, &msg))
	assert.Equal(t, catalog.DemoUserID, msg.SenderID)

	code, body = f.do(t, http.MethodGet, "/api/sessions/"+sid+"/conversations", nil)
	require.Equal(t, http.StatusOK, code)
	var convs []domain.Conversation
	require.NoError(t, json.Unmarshal(body, &convs))
	assert.Len(t, convs, 3, "two seeded conversations plus the new one")

	code, body = f.do(t, http.MethodGet, "/api/sessions/"+sid+"/conversations/7", nil)
	require.Equal(t, http.StatusOK, code)
	var empty domain.Conversation
	require.NoError(t, json.Unmarshal(body, &empty))
	assert.Equal(t, "convo-user-123-7", empty.ID)
	assert.Empty(t, empty.Messages)

	code, _ = f.do(t, http.MethodPost, "/api/sessions/"+sid+"/logout", nil)
	require.Equal(t, http.StatusNoContent, code)
	code, body = f.do(t, http.MethodGet, "/api/sessions/"+sid, nil)
	require.Equal(t, http.StatusOK, code)
	var snap usecase.Snapshot
	require.NoError(t, json.Unmarshal(body, &snap))
	assert.Nil(t, snap.Identity)
	assert.Zero(t, snap.PendingReplies)
}

func TestAPI_UnknownAndDeletedSession(t *testing.T) {
	f := newAPIFixture(t, time.Minute)

	code, _ := f.do(t, http.MethodGet, "/api/sessions/nope", nil)
	assert.Equal(t, http.StatusNotFound, code)

	sid := f.newSession(t)
	code, _ = f.do(t, http.MethodDelete, "/api/sessions/"+sid, nil)
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = f.do(t, http.MethodGet, "/api/sessions/"+sid+"/properties", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAPI_HealthAndMetrics(t *testing.T) {
	f := newAPIFixture(t, time.Minute)

	code, _ := f.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, code)

	f.newSession(t)
	code, body := f.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), "test_http_requests_total")
}

func TestSessionRegistry_IdleSessionsExpire(t *testing.T) {
	f := newAPIFixture(t, 50*time.Millisecond)
	sid := f.newSession(t)

	code, _ := f.do(t, http.MethodPost, "/api/sessions/"+sid+"/select/1", nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 1, f.host.Live())

	require.Eventually(t, func() bool {
		return f.registry.Len() == 0 && f.host.Live() == 0
	}, 2*time.Second, 10*time.Millisecond, "expired session must release its viewer")
}
