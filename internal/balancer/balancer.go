// Package balancer partitions a pool of players into N teams of
// near-equal strength. Initial assignment is a snake draft over players
// sorted by overall skill; a seeded local search then swaps players
// between teams while the strength variance strictly improves.
package balancer

import (
	"math"
	"math/rand"
	"sort"

	"futeba-engine/internal/config"
	"futeba-engine/internal/constants"
	"futeba-engine/internal/domain"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// Goalkeeper overall weighting. A keeper is rated mostly on keeping but
// still carries some outfield ability.
const (
	gkWeight       = 0.7
	gkOutfieldPart = 0.3
)

// SplitKind classifies how a pool divides into teams of the target size.
type SplitKind int

const (
	SplitInvalid SplitKind = iota
	SplitPerfect
	SplitWithBench
)

// SplitResult is the outcome of validating a pool against a team size.
type SplitResult struct {
	Kind      SplitKind
	TeamCount int
	Bench     int
}

// Balancer produces balanced team partitions. Deterministic for a fixed
// seed and input order.
type Balancer struct {
	refineIterations int
	logger           zerolog.Logger
}

func New(cfg *config.Config, logger zerolog.Logger) *Balancer {
	iters := cfg.RefineIterations
	if iters < 0 {
		iters = constants.DefaultRefineIterations
	}
	return &Balancer{
		refineIterations: iters,
		logger:           logger,
	}
}

// Overall collapses per-role skills into a single draft value. Outfield
// players average their three line roles; goalkeepers blend their keeping
// skill with that average.
func Overall(p domain.PlayerForBalancing) float64 {
	line := (p.Skills.Attack + p.Skills.Midfield + p.Skills.Defense) / 3.0
	if p.Position == domain.PositionGoalkeeper {
		return gkWeight*p.Skills.Goalkeeper + gkOutfieldPart*line
	}
	return line
}

// ValidateSplit checks whether the pool divides into teams of teamSize.
// Invalid means the pool cannot field even one full team; a remainder
// smaller than a full team goes to the bench.
func ValidateSplit(poolSize, teamSize int) SplitResult {
	if teamSize < 1 || poolSize < teamSize {
		return SplitResult{Kind: SplitInvalid}
	}
	teams := poolSize / teamSize
	bench := poolSize % teamSize
	if bench == 0 {
		return SplitResult{Kind: SplitPerfect, TeamCount: teams}
	}
	return SplitResult{Kind: SplitWithBench, TeamCount: teams, Bench: bench}
}

// Balance partitions players into teamCount teams. Every player is
// assigned; team sizes differ by at most one. Fewer than two players or
// less than one team yields an unbalanced empty result rather than an
// error: the caller treats it as "nothing to do".
func (b *Balancer) Balance(players []domain.PlayerForBalancing, teamCount int, seed int64) domain.BalancedTeams {
	if len(players) < constants.MinPlayersPerBalance || teamCount < 1 {
		return domain.BalancedTeams{}
	}
	if teamCount > len(players) {
		teamCount = len(players)
	}

	sorted := make([]domain.PlayerForBalancing, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		return Overall(sorted[i]) > Overall(sorted[j])
	})

	rosters := snakeDraft(sorted, teamCount)
	b.refine(rosters, rand.New(rand.NewSource(seed)))

	teams := make([]domain.Team, teamCount)
	for i, roster := range rosters {
		teams[i] = domain.Team{
			Number:   i + 1,
			Players:  roster,
			Strength: ComputeStrength(i+1, roster),
		}
	}

	spread := maxSpread(teams)
	result := domain.BalancedTeams{
		Teams:      teams,
		IsBalanced: spread <= constants.BalanceSpreadThreshold,
		MaxSpread:  spread,
	}

	b.logger.Debug().
		Int("players", len(players)).
		Int("teams", teamCount).
		Float64("max_spread", spread).
		Bool("balanced", result.IsBalanced).
		Msg("teams balanced")

	return result
}

// snakeDraft deals sorted players boustrophedon: 1..N, then N..1, and so
// on, so consecutive picks of similar strength spread across teams.
func snakeDraft(sorted []domain.PlayerForBalancing, teamCount int) [][]domain.PlayerForBalancing {
	rosters := make([][]domain.PlayerForBalancing, teamCount)
	idx, step := 0, 1
	for _, p := range sorted {
		rosters[idx] = append(rosters[idx], p)
		next := idx + step
		if next < 0 || next >= teamCount {
			step = -step
		} else {
			idx = next
		}
	}
	return rosters
}

// refine runs a bounded hill climb over random cross-team swaps, accepting
// only swaps that strictly lower the variance of team strength sums. Once
// the random budget is spent, a full deterministic scan keeps applying the
// best remaining improving swap until none exists.
func (b *Balancer) refine(rosters [][]domain.PlayerForBalancing, rng *rand.Rand) {
	sums := make([]float64, len(rosters))
	for i, roster := range rosters {
		sums[i] = rosterSum(roster)
	}

	current := variance(sums)
	for iter := 0; iter < b.refineIterations; iter++ {
		ti := rng.Intn(len(rosters))
		tj := rng.Intn(len(rosters))
		if ti == tj || len(rosters[ti]) != len(rosters[tj]) {
			continue
		}
		pi := rng.Intn(len(rosters[ti]))
		pj := rng.Intn(len(rosters[tj]))

		if next, ok := swapGain(sums, current, ti, tj, rosters[ti][pi], rosters[tj][pj]); ok {
			applySwap(rosters, sums, ti, pi, tj, pj)
			current = next
		}
	}

	// Terminal pass: drain whatever the random walk missed.
	for {
		ti, pi, tj, pj, next, found := bestSwap(rosters, sums, current)
		if !found {
			return
		}
		applySwap(rosters, sums, ti, pi, tj, pj)
		current = next
	}
}

// bestSwap scans every equal-size cross-team pair for the swap with the
// lowest resulting variance, requiring a strict improvement.
func bestSwap(rosters [][]domain.PlayerForBalancing, sums []float64, current float64) (ti, pi, tj, pj int, best float64, found bool) {
	best = current
	for a := 0; a < len(rosters); a++ {
		for b := a + 1; b < len(rosters); b++ {
			if len(rosters[a]) != len(rosters[b]) {
				continue
			}
			for i := range rosters[a] {
				for j := range rosters[b] {
					if next, ok := swapGain(sums, best, a, b, rosters[a][i], rosters[b][j]); ok {
						ti, pi, tj, pj, best, found = a, i, b, j, next, true
					}
				}
			}
		}
	}
	return
}

// swapGain computes the variance after swapping pa (team ti) with pb
// (team tj), reporting whether it strictly beats the given baseline.
func swapGain(sums []float64, baseline float64, ti, tj int, pa, pb domain.PlayerForBalancing) (float64, bool) {
	delta := Overall(pb) - Overall(pa)
	trial := make([]float64, len(sums))
	copy(trial, sums)
	trial[ti] += delta
	trial[tj] -= delta
	next := variance(trial)
	return next, next < baseline
}

func applySwap(rosters [][]domain.PlayerForBalancing, sums []float64, ti, pi, tj, pj int) {
	pa, pb := rosters[ti][pi], rosters[tj][pj]
	rosters[ti][pi], rosters[tj][pj] = pb, pa
	delta := Overall(pb) - Overall(pa)
	sums[ti] += delta
	sums[tj] -= delta
}

// ComputeStrength aggregates one roster's per-role averages.
func ComputeStrength(teamNumber int, roster []domain.PlayerForBalancing) domain.TeamStrength {
	s := domain.TeamStrength{TeamNumber: teamNumber, PlayerCount: len(roster)}
	if len(roster) == 0 {
		return s
	}

	var overall float64
	for _, p := range roster {
		s.AvgAttack += p.Skills.Attack
		s.AvgMidfield += p.Skills.Midfield
		s.AvgDefense += p.Skills.Defense
		s.AvgGoalkeeper += p.Skills.Goalkeeper
		overall += Overall(p)
		if p.Position == domain.PositionGoalkeeper {
			s.HasGoalkeeper = true
		}
	}

	n := float64(len(roster))
	s.AvgAttack /= n
	s.AvgMidfield /= n
	s.AvgDefense /= n
	s.AvgGoalkeeper /= n
	s.OverallAverage = overall / n
	return s
}

func rosterSum(roster []domain.PlayerForBalancing) float64 {
	var sum float64
	for _, p := range roster {
		sum += Overall(p)
	}
	return sum
}

func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return sq / float64(len(values))
}

func maxSpread(teams []domain.Team) float64 {
	var lo, hi float64
	lo = math.Inf(1)
	hi = math.Inf(-1)
	for _, t := range teams {
		if t.Strength.OverallAverage < lo {
			lo = t.Strength.OverallAverage
		}
		if t.Strength.OverallAverage > hi {
			hi = t.Strength.OverallAverage
		}
	}
	if len(teams) == 0 {
		return 0
	}
	return hi - lo
}

var Module = fx.Provide(New)
