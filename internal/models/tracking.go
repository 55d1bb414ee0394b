package models

// Category classifies a domain by how it relates to productive work
type Category string

const (
	CategoryProductive   Category = "productive"
	CategoryUnproductive Category = "unproductive"
	CategoryNeutral      Category = "neutral"
)

// WebsiteStat is the cumulative record for a single domain
type WebsiteStat struct {
	TimeSpent  int64    `json:"timeSpent"` // active milliseconds, lifetime
	Visits     int      `json:"visits"`
	Category   Category `json:"category"`
	LastVisit  int64    `json:"lastVisit"`  // unix ms
	FirstVisit int64    `json:"firstVisit"` // unix ms
}

// DailyUsage tracks per-domain time since the last midnight reset
type DailyUsage struct {
	TimeToday     int64 `json:"timeToday"` // milliseconds
	LastReset     int64 `json:"lastReset"` // unix ms
	LimitExceeded bool  `json:"limitExceeded"`
	WarningShown  bool  `json:"warningShown"`
}

// DomainSpan is a sealed interval the user spent on one domain during a session
type DomainSpan struct {
	Domain    string `json:"domain"`
	StartTime int64  `json:"startTime"` // unix ms
	EndTime   int64  `json:"endTime"`   // unix ms
}

// SessionData is the singleton record for the current browsing session
type SessionData struct {
	StartTime       int64        `json:"startTime"` // unix ms
	TotalTime       int64        `json:"totalTime"` // milliseconds
	CurrentDomain   string       `json:"currentDomain"`
	LastDomainStart int64        `json:"lastDomainStartTime"` // unix ms
	DomainHistory   []DomainSpan `json:"domainHistory"`
	TabsOpened      int          `json:"tabsOpened"`
	TabSwitches     int          `json:"tabSwitches"`
}

// Settings holds user preferences from the synced partition
type Settings struct {
	Theme                string `json:"theme"`
	Notifications        bool   `json:"notifications"`
	TrackingEnabled      bool   `json:"trackingEnabled"`
	BlockingEnabled      bool   `json:"blockingEnabled"`
	BlockingLevel        string `json:"blockingLevel"` // "strict" or "normal"
	FocusSessionDuration int    `json:"focusSessionDuration"` // minutes
	IncognitoAllowed     bool   `json:"incognitoAllowed"`
}

// DefaultSettings returns the shape written on first install
func DefaultSettings() Settings {
	return Settings{
		Theme:                "dark",
		Notifications:        true,
		TrackingEnabled:      true,
		BlockingEnabled:      true,
		BlockingLevel:        "strict",
		FocusSessionDuration: 25,
	}
}
