package espn

import "time"

// League represents the season snapshot returned by the teams endpoint
type League struct {
	Teams []Team `json:"teams"`

	// LeagueSize is the number of teams, set once after the snapshot is loaded
	LeagueSize int `json:"-"`
}

// Team represents one fantasy team and its season record
type Team struct {
	Record       Record `json:"record"`
	TeamID       int    `json:"teamId"`
	TeamLocation string `json:"teamLocation"`
	TeamNickname string `json:"teamNickname"`

	// OverallWins holds the all-play win total once rankings are computed
	OverallWins int `json:"overallWins"`
}

// DisplayName joins the team location and nickname
func (t Team) DisplayName() string {
	return t.TeamLocation + " " + t.TeamNickname
}

// Record contains a team's season statistics
type Record struct {
	OverallLosses     int     `json:"overallLosses"`
	OverallPercentage float64 `json:"overallPercentage"`
	OverallWins       int     `json:"overallWins"`
	PointsFor         float64 `json:"pointsFor"`
}

// LeagueSchedule is the envelope returned by the leagueSchedules endpoint
type LeagueSchedule struct {
	LeagueSchedule Schedule `json:"leagueSchedule"`
}

// Schedule holds every scheduling period of the season
type Schedule struct {
	ScheduleItems []Week `json:"scheduleItems"`
}

// Week represents the matchups of one scheduling period
type Week struct {
	Matchups []Matchup `json:"matchups"`
}

// Matchup represents a head-to-head game. Only the first entry of each
// score list is used; it carries the current accumulated score.
type Matchup struct {
	AwayTeamID     int       `json:"awayTeamId"`
	HomeTeamID     int       `json:"homeTeamId"`
	AwayTeamScores []float64 `json:"awayTeamScores"`
	HomeTeamScores []float64 `json:"homeTeamScores"`
	Outcome        int       `json:"outcome"`
}

// Decided reports whether the matchup has a result. Undecided matchups
// (outcome 0) carry no usable scores.
func (m Matchup) Decided() bool {
	return m.Outcome != 0
}

// AwayScore returns the away team's current score
func (m Matchup) AwayScore() float64 {
	return m.AwayTeamScores[0]
}

// HomeScore returns the home team's current score
func (m Matchup) HomeScore() float64 {
	return m.HomeTeamScores[0]
}

// APIResponse represents the standard response format for our tools
type APIResponse struct {
	Success  bool        `json:"success"`
	Data     interface{} `json:"data,omitempty"`
	Summary  string      `json:"summary"`
	Error    string      `json:"error,omitempty"`
	Metadata Metadata    `json:"metadata"`
}

// Metadata contains response metadata
type Metadata struct {
	Timestamp    time.Time `json:"timestamp"`
	Source       string    `json:"source"`
	CacheHit     bool      `json:"cache_hit"`
	APICallsUsed int       `json:"api_calls_used"`
	LeagueID     string    `json:"league_id,omitempty"`
}

// ESPNError represents an error from the ESPN API
type ESPNError struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
	LeagueID   string `json:"league_id,omitempty"`
}

func (e *ESPNError) Error() string {
	return e.Message
}
