// Package farmhand implements the autonomous farm steward. It observes the
// farm via the public API, triages what needs doing with plain rules, and
// acts through the control-plane endpoints.
package farmhand

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/talgya/homestead/internal/world"
)

// FarmSnapshot holds everything collected during one observation cycle.
type FarmSnapshot struct {
	Status FarmStatus             `json:"status"`
	Tiles  map[string]*world.Tile `json:"tiles"`
	Areas  map[string]*world.Area `json:"areas"`
}

// FarmStatus mirrors GET /api/v1/status.
type FarmStatus struct {
	Coins         int    `json:"coins"`
	Tiles         int    `json:"tiles"`
	Roads         int    `json:"roads"`
	Crops         int    `json:"crops"`
	MatureCrops   int    `json:"mature_crops"`
	WateredTiles  int    `json:"watered_tiles"`
	UnlockedAreas int    `json:"unlocked_areas"`
	SelectedTool  string `json:"selected_tool"`
}

// Observer collects farm state from the read-only API.
type Observer struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewObserver creates an Observer targeting the given API base URL.
func NewObserver(baseURL string) *Observer {
	return &Observer{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Observe performs one full observation cycle.
func (o *Observer) Observe() (*FarmSnapshot, error) {
	snap := &FarmSnapshot{}
	if err := o.get("/api/v1/status", &snap.Status); err != nil {
		return nil, fmt.Errorf("observe status: %w", err)
	}
	if err := o.get("/api/v1/tiles", &snap.Tiles); err != nil {
		return nil, fmt.Errorf("observe tiles: %w", err)
	}
	if err := o.get("/api/v1/areas", &snap.Areas); err != nil {
		return nil, fmt.Errorf("observe areas: %w", err)
	}
	return snap, nil
}

// AreaQuote fetches price and eligibility for one area.
type AreaQuote struct {
	Unlocked    bool `json:"unlocked"`
	Purchasable bool `json:"purchasable"`
	Cost        int  `json:"cost"`
}

// QuoteArea asks the API about the area at (x, y).
func (o *Observer) QuoteArea(x, y int) (AreaQuote, error) {
	var q AreaQuote
	err := o.get(fmt.Sprintf("/api/v1/area?x=%d&y=%d", x, y), &q)
	return q, err
}

func (o *Observer) get(path string, out any) error {
	resp, err := o.HTTPClient.Get(o.BaseURL + path)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %d: %s", path, resp.StatusCode, string(body))
	}
	return json.Unmarshal(body, out)
}
