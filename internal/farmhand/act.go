package farmhand

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ActionResult is the control-plane response to one action.
type ActionResult struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
	Reward int    `json:"reward,omitempty"`
}

// Actor executes actions via the control-plane API.
type Actor struct {
	BaseURL    string
	AdminKey   string
	HTTPClient *http.Client
}

// NewActor creates an Actor targeting the given API base URL with admin auth.
func NewActor(baseURL, adminKey string) *Actor {
	return &Actor{
		BaseURL:  baseURL,
		AdminKey: adminKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Do sends one action to its control endpoint.
func (a *Actor) Do(action Action) (*ActionResult, error) {
	payload := map[string]any{"x": action.X, "y": action.Y}
	if action.Crop != "" {
		payload["crop"] = action.Crop
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal action: %w", err)
	}

	req, err := http.NewRequest("POST", a.BaseURL+"/api/v1/"+string(action.Op), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.AdminKey)

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", action.Op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s failed (%d): %s", action.Op, resp.StatusCode, string(respBody))
	}

	var result ActionResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}
