package domain

import (
	"time"
)

// Division is an ordered league tier. Higher value means stronger tier.
type Division int

const (
	DivisionBronze Division = iota
	DivisionSilver
	DivisionGold
	DivisionDiamond
)

func (d Division) String() string {
	switch d {
	case DivisionBronze:
		return "Bronze"
	case DivisionSilver:
		return "Silver"
	case DivisionGold:
		return "Gold"
	case DivisionDiamond:
		return "Diamond"
	default:
		return "Unknown"
	}
}

// Next returns the division one tier above, or the same division at the top.
func (d Division) Next() Division {
	if d >= DivisionDiamond {
		return DivisionDiamond
	}
	return d + 1
}

// Previous returns the division one tier below, or the same division at the bottom.
func (d Division) Previous() Division {
	if d <= DivisionBronze {
		return DivisionBronze
	}
	return d - 1
}

// MatchResult is the outcome of a match from one team's perspective.
type MatchResult string

const (
	ResultWin  MatchResult = "WIN"
	ResultDraw MatchResult = "DRAW"
	ResultLoss MatchResult = "LOSS"
)

// Position tags where a player lines up.
type Position string

const (
	PositionLine       Position = "LINE"
	PositionGoalkeeper Position = "GOALKEEPER"
)

// MatchPerformance is one player's raw stat line for one finished match.
// Recorded by the stats-entry collaborator and immutable afterwards.
type MatchPerformance struct {
	PlayerID      string
	MatchID       string
	Position      Position
	Goals         int
	Assists       int
	Saves         int
	YellowCards   int
	RedCards      int
	IsMVP         bool
	IsWorstPlayer bool
	HasBestGoal   bool
	TeamWon       bool
	TeamDrew      bool
	GoalDiff      int // signed, from the player's team perspective
	CurrentStreak int // consecutive games attended at match time
	PlayedAt      time.Time
}

// Result derives the match outcome for the player's team.
func (p MatchPerformance) Result() MatchResult {
	switch {
	case p.TeamWon:
		return ResultWin
	case p.TeamDrew:
		return ResultDraw
	default:
		return ResultLoss
	}
}

// XpBreakdown itemizes the XP awarded for one match. All categories are
// non-negative except Penalty. Total is already floored and capped.
type XpBreakdown struct {
	Participation int64
	Goals         int64
	Assists       int64
	Saves         int64
	Result        int64
	MVP           int64
	Streak        int64
	Penalty       int64
	Total         int64
}

// RecentGameSample is the compact per-match projection kept in a player's
// sliding window for rating calculation. Most recent first.
type RecentGameSample struct {
	GameID   string
	XpEarned int64
	Won      bool
	Drew     bool
	GoalDiff int
	WasMVP   bool
	PlayedAt time.Time
}

// LeagueProgressionState is a player's position in the promotion/relegation
// state machine. Persisted by the caller, mutated only through the
// progression engine.
type LeagueProgressionState struct {
	Division           Division
	Rating             float64
	PromotionProgress  int
	RelegationProgress int
	ProtectionGames    int
}

// LeagueProgressionResult reports one progression step.
type LeagueProgressionResult struct {
	NewState         LeagueProgressionState
	PreviousDivision Division
	Promoted         bool
	Relegated        bool
}

// DivisionChanged reports whether this step crossed a tier boundary.
func (r LeagueProgressionResult) DivisionChanged() bool {
	return r.Promoted || r.Relegated
}

// SeasonStats is a player's cumulative season aggregation.
type SeasonStats struct {
	GamesPlayed   int
	Wins          int
	Draws         int
	Losses        int
	GoalsScored   int
	GoalsConceded int
	MVPCount      int
	Points        int
}

// GoalDifference is scored minus conceded.
func (s SeasonStats) GoalDifference() int {
	return s.GoalsScored - s.GoalsConceded
}

// WinRate is in [0,1]. Zero games means zero.
func (s SeasonStats) WinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed)
}

// MVPRate is in [0,1]. Zero games means zero.
func (s SeasonStats) MVPRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.MVPCount) / float64(s.GamesPlayed)
}

// UserStatistics is a player's all-time aggregation, fed by the stats
// accumulator and consumed by milestone checks and role-skill derivation.
type UserStatistics struct {
	UserID           string
	TotalGames       int
	TotalGoals       int
	TotalAssists     int
	TotalSaves       int
	TotalYellowCards int
	TotalRedCards    int
	GamesWon         int
	GamesDrawn       int
	GamesLost        int
	MVPCount         int
	WorstPlayerCount int
	BestGoalCount    int
	BestStreak       int
	GamesInvited     int
	GamesAttended    int
	NoShows          int
	UpdatedAt        time.Time
}

// RoleSkills are 0-99 per-role ability estimates used for balancing.
type RoleSkills struct {
	Attack     float64
	Midfield   float64
	Defense    float64
	Goalkeeper float64
}

// PlayerForBalancing is the ephemeral per-run input to the team balancer.
type PlayerForBalancing struct {
	ID       string
	Name     string
	Position Position
	Skills   RoleSkills
}

// TeamStrength aggregates one balanced team's averages.
type TeamStrength struct {
	TeamNumber     int
	PlayerCount    int
	AvgAttack      float64
	AvgMidfield    float64
	AvgDefense     float64
	AvgGoalkeeper  float64
	OverallAverage float64
	HasGoalkeeper  bool
}

// Team is one roster produced by the balancer.
type Team struct {
	Number   int
	Players  []PlayerForBalancing
	Strength TeamStrength
}

// BalancedTeams is the ordered partition output of one balancing run.
type BalancedTeams struct {
	Teams      []Team
	IsBalanced bool
	MaxSpread  float64 // largest gap between any two teams' overall averages
}

// RankingItem is one row of a leaderboard page.
type RankingItem struct {
	Rank        int
	UserID      string
	UserName    string
	Nickname    string
	PhotoURL    string
	Value       int64
	GamesPlayed int
	Average     float64
}
