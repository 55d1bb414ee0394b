package browser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Bridge talks JSON over HTTP to the extension's local bridge endpoint. A
// 404 from any tab-scoped route maps to ErrTabNotFound so callers branch on
// the error kind instead of parsing message text.
type Bridge struct {
	baseURL string
	client  *http.Client
}

// NewBridge creates a bridge client for the given base URL
// (e.g. http://127.0.0.1:7420).
func NewBridge(baseURL string) *Bridge {
	return &Bridge{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (b *Bridge) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode bridge payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build bridge request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("bridge request failed: %w", err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return ErrTabNotFound
	case res.StatusCode >= 400:
		raw, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("bridge returned status %d: %s", res.StatusCode, string(raw))
	}

	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode bridge response: %w", err)
		}
	}
	return nil
}

// Active returns the currently focused tab
func (b *Bridge) Active(ctx context.Context) (*Tab, error) {
	var tab Tab
	if err := b.do(ctx, http.MethodGet, "/tabs/active", nil, &tab); err != nil {
		return nil, err
	}
	return &tab, nil
}

// Get fetches a tab by id. Negative ids are rejected up front; they can only
// come from a stale or corrupt event.
func (b *Bridge) Get(ctx context.Context, tabID int) (*Tab, error) {
	if tabID < 0 {
		return nil, ErrTabNotFound
	}
	var tab Tab
	if err := b.do(ctx, http.MethodGet, fmt.Sprintf("/tabs/%d", tabID), nil, &tab); err != nil {
		return nil, err
	}
	return &tab, nil
}

// List returns all open tabs
func (b *Bridge) List(ctx context.Context) ([]Tab, error) {
	var tabs []Tab
	if err := b.do(ctx, http.MethodGet, "/tabs", nil, &tabs); err != nil {
		return nil, err
	}
	return tabs, nil
}

// ShowOverlay pushes a blocking overlay into the tab's content script
func (b *Bridge) ShowOverlay(ctx context.Context, tabID int, req OverlayRequest) error {
	if tabID < 0 {
		return ErrTabNotFound
	}
	return b.do(ctx, http.MethodPost, fmt.Sprintf("/tabs/%d/overlay", tabID), req, nil)
}

// HideOverlay removes the blocking overlay from the tab, if shown
func (b *Bridge) HideOverlay(ctx context.Context, tabID int) error {
	if tabID < 0 {
		return ErrTabNotFound
	}
	return b.do(ctx, http.MethodDelete, fmt.Sprintf("/tabs/%d/overlay", tabID), nil, nil)
}

// UpdateTimeBar pushes a limit-progress update into the tab
func (b *Bridge) UpdateTimeBar(ctx context.Context, tabID int, update TimeBarUpdate) error {
	if tabID < 0 {
		return ErrTabNotFound
	}
	return b.do(ctx, http.MethodPost, fmt.Sprintf("/tabs/%d/timebar", tabID), update, nil)
}

// SetBadge sets the extension badge text
func (b *Bridge) SetBadge(ctx context.Context, text string) error {
	return b.do(ctx, http.MethodPost, "/badge", map[string]string{"text": text}, nil)
}

// Notify raises a one-shot toast notification
func (b *Bridge) Notify(ctx context.Context, title, message string) error {
	payload := map[string]string{"title": title, "message": message}
	return b.do(ctx, http.MethodPost, "/notifications", payload, nil)
}

var (
	_ Tabs      = (*Bridge)(nil)
	_ Messenger = (*Bridge)(nil)
	_ Notifier  = (*Bridge)(nil)
)
