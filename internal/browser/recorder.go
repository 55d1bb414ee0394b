package browser

import (
	"context"
	"sync"
)

// Recorder is an in-memory implementation of the bridge interfaces. It backs
// tests and the configure CLI's dry-run blocking checks, where there is no
// live browser to talk to.
type Recorder struct {
	mu sync.Mutex

	OpenTabs []Tab
	ActiveID int

	Overlays      map[int]OverlayRequest // tabID -> last shown overlay
	TimeBars      map[int]TimeBarUpdate  // tabID -> last progress push
	Badge         string
	Notifications []string // "title: message"

	HideCalls int
}

// NewRecorder creates an empty recorder with no open tabs
func NewRecorder() *Recorder {
	return &Recorder{
		ActiveID: -1,
		Overlays: make(map[int]OverlayRequest),
		TimeBars: make(map[int]TimeBarUpdate),
	}
}

// SetTabs replaces the open-tab set and active tab id
func (r *Recorder) SetTabs(active int, tabs ...Tab) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.OpenTabs = tabs
	r.ActiveID = active
}

func (r *Recorder) find(tabID int) (*Tab, bool) {
	for i := range r.OpenTabs {
		if r.OpenTabs[i].ID == tabID {
			return &r.OpenTabs[i], true
		}
	}
	return nil, false
}

// Active returns the configured active tab
func (r *Recorder) Active(ctx context.Context) (*Tab, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tab, ok := r.find(r.ActiveID); ok {
		copied := *tab
		return &copied, nil
	}
	return nil, ErrTabNotFound
}

// Get returns a tab by id
func (r *Recorder) Get(ctx context.Context, tabID int) (*Tab, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tab, ok := r.find(tabID); ok {
		copied := *tab
		return &copied, nil
	}
	return nil, ErrTabNotFound
}

// List returns all open tabs
func (r *Recorder) List(ctx context.Context) ([]Tab, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Tab, len(r.OpenTabs))
	copy(out, r.OpenTabs)
	return out, nil
}

// ShowOverlay records the overlay push
func (r *Recorder) ShowOverlay(ctx context.Context, tabID int, req OverlayRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.find(tabID); !ok {
		return ErrTabNotFound
	}
	r.Overlays[tabID] = req
	return nil
}

// HideOverlay records the hide push
func (r *Recorder) HideOverlay(ctx context.Context, tabID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.find(tabID); !ok {
		return ErrTabNotFound
	}
	delete(r.Overlays, tabID)
	r.HideCalls++
	return nil
}

// UpdateTimeBar records the progress push
func (r *Recorder) UpdateTimeBar(ctx context.Context, tabID int, update TimeBarUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.find(tabID); !ok {
		return ErrTabNotFound
	}
	r.TimeBars[tabID] = update
	return nil
}

// SetBadge records the badge text
func (r *Recorder) SetBadge(ctx context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Badge = text
	return nil
}

// Notify records the notification
func (r *Recorder) Notify(ctx context.Context, title, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Notifications = append(r.Notifications, title+": "+message)
	return nil
}

// Overlay returns the last overlay shown on a tab, if any
func (r *Recorder) Overlay(tabID int) (OverlayRequest, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.Overlays[tabID]
	return req, ok
}

// NotificationCount returns how many toasts were raised
func (r *Recorder) NotificationCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Notifications)
}

var (
	_ Tabs      = (*Recorder)(nil)
	_ Messenger = (*Recorder)(nil)
	_ Notifier  = (*Recorder)(nil)
)
