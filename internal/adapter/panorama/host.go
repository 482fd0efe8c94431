// Package panorama keeps track of mounted 360° viewers and renders the
// pannellum configuration a client needs to display one.
package panorama

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/browsing/domain"
	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/platform/logger"
)

var ErrNoImage = errors.New("panorama image url is empty")

// Config is the pannellum viewer configuration.
type Config struct {
	Type         string `json:"type"`
	Panorama     string `json:"panorama"`
	Title        string `json:"title"`
	AutoLoad     bool   `json:"autoLoad"`
	ShowControls bool   `json:"showControls"`
	Compass      bool   `json:"compass"`
	HotSpotDebug bool   `json:"hotSpotDebug"`
}

func ConfigFor(src domain.PanoramaSource) Config {
	return Config{
		Type:         "equirectangular",
		Panorama:     src.ImageURL,
		Title:        src.Title,
		AutoLoad:     true,
		ShowControls: true,
		Compass:      true,
	}
}

type Host struct {
	mu     sync.Mutex
	live   map[string]*Viewer
	logger *logger.Logger
}

func NewHost(log *logger.Logger) *Host {
	return &Host{live: make(map[string]*Viewer), logger: log}
}

func (h *Host) Mount(_ context.Context, src domain.PanoramaSource) (domain.PanoramaViewer, error) {
	if src.ImageURL == "" {
		return nil, ErrNoImage
	}
	v := &Viewer{id: "pano-" + uuid.NewString(), src: src, host: h}
	h.mu.Lock()
	h.live[v.id] = v
	n := len(h.live)
	h.mu.Unlock()
	h.logger.Debug("Host.Mount: viewer mounted", "viewer_id", v.id, "live", n)
	return v, nil
}

// Live is the number of viewers mounted and not yet destroyed.
func (h *Host) Live() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.live)
}

func (h *Host) release(id string) {
	h.mu.Lock()
	delete(h.live, id)
	h.mu.Unlock()
	h.logger.Debug("Host.release: viewer destroyed", "viewer_id", id)
}

type Viewer struct {
	id   string
	src  domain.PanoramaSource
	host *Host
	once sync.Once
}

func (v *Viewer) ID() string {
	return v.id
}

func (v *Viewer) Source() domain.PanoramaSource {
	return v.src
}

// Destroy releases the viewer. Further calls do nothing.
func (v *Viewer) Destroy() {
	v.once.Do(func() { v.host.release(v.id) })
}
