package store

import (
	"context"
	"time"

	"github.com/grindhq/grindd/internal/models"
)

func newSessionData() models.SessionData {
	return models.SessionData{
		StartTime:     time.Now().UnixMilli(),
		DomainHistory: []models.DomainSpan{},
	}
}

// session loads the browsing-session record, surfacing backend read failures
// so mutators can skip their write instead of resetting the session.
func (s *Store) session(ctx context.Context) (models.SessionData, error) {
	session := newSessionData()
	found, err := s.getJSON(ctx, s.local, keySessionData, &session)
	if found {
		if session.DomainHistory == nil {
			session.DomainHistory = []models.DomainSpan{}
		}
		if session.StartTime <= 0 {
			session.StartTime = time.Now().UnixMilli()
		}
	}
	return session, err
}

// Session returns the current browsing-session record, repairing any
// malformed nested fields before returning.
func (s *Store) Session(ctx context.Context) models.SessionData {
	session, _ := s.session(ctx)
	return session
}

// AddSessionTime folds an elapsed-time delta into the session total
func (s *Store) AddSessionTime(ctx context.Context, delta time.Duration) {
	session, err := s.session(ctx)
	if err != nil {
		s.skipMutation(keySessionData, err)
		return
	}
	session.TotalTime += delta.Milliseconds()
	s.setJSON(ctx, s.local, keySessionData, session)
}

// RecordDomainChange seals the current domain's history span and opens one
// for the new domain. An empty domain closes the span without opening a new
// one (active tab closed).
func (s *Store) RecordDomainChange(ctx context.Context, domain string) {
	session, err := s.session(ctx)
	if err != nil {
		s.skipMutation(keySessionData, err)
		return
	}
	now := time.Now().UnixMilli()

	if session.CurrentDomain != "" && session.CurrentDomain != domain {
		start := session.LastDomainStart
		if start == 0 {
			start = now
		}
		session.DomainHistory = append(session.DomainHistory, models.DomainSpan{
			Domain:    session.CurrentDomain,
			StartTime: start,
			EndTime:   now,
		})
	}

	session.CurrentDomain = domain
	session.LastDomainStart = now
	s.setJSON(ctx, s.local, keySessionData, session)
}

// IncrementTabsOpened counts a newly created tab
func (s *Store) IncrementTabsOpened(ctx context.Context) {
	session, err := s.session(ctx)
	if err != nil {
		s.skipMutation(keySessionData, err)
		return
	}
	session.TabsOpened++
	s.setJSON(ctx, s.local, keySessionData, session)
}

// IncrementTabSwitches counts an activation of a different tab
func (s *Store) IncrementTabSwitches(ctx context.Context) {
	session, err := s.session(ctx)
	if err != nil {
		s.skipMutation(keySessionData, err)
		return
	}
	session.TabSwitches++
	s.setJSON(ctx, s.local, keySessionData, session)
}

// ResetSession replaces the session with a fresh zero-state record
func (s *Store) ResetSession(ctx context.Context) {
	s.setJSON(ctx, s.local, keySessionData, newSessionData())
}
