package models

// UserStats is the singleton XP/level record
type UserStats struct {
	XP      int `json:"xp"`
	TotalXP int `json:"totalXP"`
	Level   int `json:"level"`
	Streak  int `json:"streak"`
}

// LevelForXP derives the level from lifetime XP
func LevelForXP(totalXP int) int {
	return totalXP/100 + 1
}

// DefaultUserStats returns the zero-progress record
func DefaultUserStats() UserStats {
	return UserStats{Level: 1}
}

// FocusSession is the singleton record for a running or paused focus timer.
// Active sessions carry StartTime/EndTime; paused sessions carry PausedTime
// (remaining milliseconds) with Active=false.
type FocusSession struct {
	Active     bool  `json:"active"`
	StartTime  int64 `json:"startTime"` // unix ms
	Duration   int64 `json:"duration"`  // milliseconds
	EndTime    int64 `json:"endTime"`   // unix ms
	PausedTime int64 `json:"pausedTime,omitempty"`
}

// ChallengeType identifies what a daily challenge counts
type ChallengeType string

const (
	ChallengeBlockSites     ChallengeType = "block_sites"
	ChallengeFocusSessions  ChallengeType = "focus_sessions"
	ChallengeProductiveTime ChallengeType = "productive_time"
)

// DailyChallenge is the singleton rotating challenge record
type DailyChallenge struct {
	Type     ChallengeType `json:"type"`
	Target   int           `json:"target"`
	Progress int           `json:"progress"`
	Reward   int           `json:"reward"` // XP
}

// DefaultChallenge is the challenge shown before the first roll
func DefaultChallenge() DailyChallenge {
	return DailyChallenge{Type: ChallengeBlockSites, Target: 5, Reward: 50}
}

// PlanetType buckets a focus session's duration into a celestial body class
type PlanetType string

const (
	PlanetAsteroid PlanetType = "asteroid"
	PlanetRocky    PlanetType = "rocky"
	PlanetEarth    PlanetType = "earth"
	PlanetGas      PlanetType = "gas"
	PlanetIce      PlanetType = "ice"
)

// Planet is one generated body in the galaxy, purely cosmetic
type Planet struct {
	ID             string     `json:"id"`
	Type           PlanetType `json:"planetType"`
	X              float64    `json:"x"`
	Y              float64    `json:"y"`
	Radius         int        `json:"radius"`
	PrimaryColor   string     `json:"primaryColor"`
	SecondaryColor string     `json:"secondaryColor"`
	AccentColor    string     `json:"accentColor"`
	Pattern        string     `json:"pattern"`
	Features       []string   `json:"features"`
	TextureVariant int        `json:"textureVariant"`
	Rotation       float64    `json:"rotation"`
	OrbitRadius    int        `json:"orbitRadius"`
	OrbitSpeed     float64    `json:"orbitSpeed"`
	OrbitAngle     float64    `json:"orbitAngle"`
	CreatedAt      int64      `json:"createdAt"` // unix ms
}

// GalaxyData is the append-only collection of generated planets
type GalaxyData struct {
	Stars            []Planet `json:"stars"`
	FirstSessionDate int64    `json:"firstSessionDate,omitempty"` // unix ms
}
