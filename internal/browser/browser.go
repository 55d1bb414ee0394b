// Package browser is the boundary to the host browser, reached through the
// extension's local bridge. The daemon never talks to tabs directly; it asks
// the bridge to enumerate them, push overlay/progress messages into their
// content scripts, and raise user notifications.
package browser

import (
	"context"
	"errors"
)

// ErrTabNotFound reports that the target tab no longer exists (closed or
// navigated away between lookup and send). Callers treat this as an expected
// race and skip silently; any other error is logged.
var ErrTabNotFound = errors.New("browser: tab not found")

// Tab is the bridge's view of one open tab
type Tab struct {
	ID    int    `json:"id"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

// OverlayRequest carries the payload of a showBlockingOverlay push
type OverlayRequest struct {
	Domain        string `json:"domain"`
	Reason        string `json:"reason"`
	BlockingLevel string `json:"blockingLevel"`
}

// TimeBarUpdate carries the payload of an updateTimeBar push
type TimeBarUpdate struct {
	Percentage float64 `json:"percentage"`
	TimeToday  int64   `json:"timeToday"` // milliseconds
	Limit      int64   `json:"limit"`     // milliseconds
}

// Tabs enumerates open tabs through the bridge
type Tabs interface {
	// Active returns the currently focused tab, ErrTabNotFound when no
	// trackable tab is focused.
	Active(ctx context.Context) (*Tab, error)
	// Get fetches one tab by id, ErrTabNotFound when it is gone.
	Get(ctx context.Context, tabID int) (*Tab, error)
	// List returns every open tab.
	List(ctx context.Context) ([]Tab, error)
}

// Messenger pushes fire-and-forget messages into a tab's content script or
// onto the extension badge.
type Messenger interface {
	ShowOverlay(ctx context.Context, tabID int, req OverlayRequest) error
	HideOverlay(ctx context.Context, tabID int) error
	UpdateTimeBar(ctx context.Context, tabID int, update TimeBarUpdate) error
	SetBadge(ctx context.Context, text string) error
}

// Notifier raises a one-shot user-visible toast
type Notifier interface {
	Notify(ctx context.Context, title, message string) error
}
