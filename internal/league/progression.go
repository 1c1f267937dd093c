// Package league advances players through the division ladder. Promotion
// and relegation each require an unbroken streak of qualifying results, and
// every tier change grants a protection window during which no further
// transitions are evaluated.
package league

import (
	"futeba-engine/internal/config"
	"futeba-engine/internal/domain"
	"futeba-engine/internal/rating"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// Engine is the promotion/relegation state machine.
type Engine struct {
	promotionGames  int
	relegationGames int
	protectionGames int
	maxRecentGames  int
	logger          zerolog.Logger
}

func NewEngine(cfg *config.Config, logger zerolog.Logger) *Engine {
	return &Engine{
		promotionGames:  cfg.PromotionGamesRequired,
		relegationGames: cfg.RelegationGamesRequired,
		protectionGames: cfg.ProtectionGames,
		maxRecentGames:  cfg.MaxRecentGames,
		logger:          logger,
	}
}

// UpdateProgression applies one completed match's rating to the player's
// progression state. Called exactly once per finished match.
//
// While protection games remain, the window only counts down and both
// streak counters reset; the rating is recorded but cannot move the
// division. Outside protection, a qualifying rating extends the matching
// streak and resets the opposite one; a single result inside the safe band
// breaks both streaks.
func (e *Engine) UpdateProgression(state domain.LeagueProgressionState, newRating float64) domain.LeagueProgressionResult {
	oldDivision := state.Division
	nextThreshold := rating.NextThreshold(oldDivision)
	prevThreshold := rating.PreviousThreshold(oldDivision)

	protection := state.ProtectionGames
	promotionProgress := state.PromotionProgress
	relegationProgress := state.RelegationProgress

	var promoted, relegated bool
	newDivision := oldDivision

	if protection > 0 {
		protection--
		promotionProgress = 0
		relegationProgress = 0
	} else {
		switch {
		case newRating >= nextThreshold && oldDivision != domain.DivisionDiamond:
			promotionProgress++
			relegationProgress = 0

			if promotionProgress >= e.promotionGames {
				promoted = true
				promotionProgress = 0
				protection = e.protectionGames
				newDivision = oldDivision.Next()
			}

		case newRating < prevThreshold && oldDivision != domain.DivisionBronze:
			relegationProgress++
			promotionProgress = 0

			if relegationProgress >= e.relegationGames {
				relegated = true
				relegationProgress = 0
				protection = e.protectionGames
				newDivision = oldDivision.Previous()
			}

		default:
			if newRating < nextThreshold {
				promotionProgress = 0
			}
			if newRating >= prevThreshold {
				relegationProgress = 0
			}
		}
	}

	if promoted || relegated {
		e.logger.Info().
			Stringer("from", oldDivision).
			Stringer("to", newDivision).
			Float64("rating", newRating).
			Bool("promoted", promoted).
			Msg("division changed")
	}

	return domain.LeagueProgressionResult{
		NewState: domain.LeagueProgressionState{
			Division:           newDivision,
			Rating:             newRating,
			PromotionProgress:  promotionProgress,
			RelegationProgress: relegationProgress,
			ProtectionGames:    protection,
		},
		PreviousDivision: oldDivision,
		Promoted:         promoted,
		Relegated:        relegated,
	}
}

// DetermineInitialDivision places a player at season start. A nil previous
// rating means a new player, who starts in Bronze.
func (e *Engine) DetermineInitialDivision(previousRating *float64) domain.Division {
	if previousRating == nil {
		return domain.DivisionBronze
	}
	return rating.DivisionForRating(*previousRating)
}

// TrimRecentGames limits a recent-game window to the configured size,
// keeping the most recent entries.
func (e *Engine) TrimRecentGames(recent []domain.RecentGameSample) []domain.RecentGameSample {
	if len(recent) <= e.maxRecentGames {
		return recent
	}
	return recent[:e.maxRecentGames]
}

// IsProtected reports whether the player still has protection games left.
func (e *Engine) IsProtected(state domain.LeagueProgressionState) bool {
	return state.ProtectionGames > 0
}

// IsInPromotionZone reports whether the current rating qualifies toward
// promotion. The top division has no promotion zone.
func (e *Engine) IsInPromotionZone(state domain.LeagueProgressionState) bool {
	if state.Division == domain.DivisionDiamond {
		return false
	}
	return state.Rating >= rating.NextThreshold(state.Division)
}

// IsInRelegationZone reports whether the current rating qualifies toward
// relegation. The bottom division has no relegation zone.
func (e *Engine) IsInRelegationZone(state domain.LeagueProgressionState) bool {
	if state.Division == domain.DivisionBronze {
		return false
	}
	return state.Rating < rating.PreviousThreshold(state.Division)
}

// GamesUntilPromotion returns how many more qualifying games are needed, or
// 0 when the player is not in the promotion zone.
func (e *Engine) GamesUntilPromotion(state domain.LeagueProgressionState) int {
	if !e.IsInPromotionZone(state) {
		return 0
	}
	return e.promotionGames - state.PromotionProgress
}

// GamesUntilRelegation returns how many more qualifying games would trigger
// relegation, or 0 when the player is protected or out of the zone.
func (e *Engine) GamesUntilRelegation(state domain.LeagueProgressionState) int {
	if !e.IsInRelegationZone(state) || e.IsProtected(state) {
		return 0
	}
	return e.relegationGames - state.RelegationProgress
}

var Module = fx.Provide(NewEngine)
