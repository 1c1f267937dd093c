package balancer

import (
	"fmt"
	"testing"

	"futeba-engine/internal/config"
	"futeba-engine/internal/constants"
	"futeba-engine/internal/domain"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBalancer(t *testing.T) *Balancer {
	t.Helper()
	return New(&config.Config{RefineIterations: constants.DefaultRefineIterations}, zerolog.Nop())
}

func fakePool(t *testing.T, n int) []domain.PlayerForBalancing {
	t.Helper()
	faker := gofakeit.New(42)
	pool := make([]domain.PlayerForBalancing, n)
	for i := range pool {
		pos := domain.PositionLine
		if i%7 == 0 {
			pos = domain.PositionGoalkeeper
		}
		pool[i] = domain.PlayerForBalancing{
			ID:       fmt.Sprintf("player-%d", i),
			Name:     faker.Name(),
			Position: pos,
			Skills: domain.RoleSkills{
				Attack:     float64(faker.Number(10, 99)),
				Midfield:   float64(faker.Number(10, 99)),
				Defense:    float64(faker.Number(10, 99)),
				Goalkeeper: float64(faker.Number(10, 99)),
			},
		}
	}
	return pool
}

func TestOverall(t *testing.T) {
	line := domain.PlayerForBalancing{
		Position: domain.PositionLine,
		Skills:   domain.RoleSkills{Attack: 90, Midfield: 60, Defense: 30, Goalkeeper: 99},
	}
	assert.InDelta(t, 60.0, Overall(line), 1e-9, "outfield ignores goalkeeper skill")

	keeper := domain.PlayerForBalancing{
		Position: domain.PositionGoalkeeper,
		Skills:   domain.RoleSkills{Attack: 30, Midfield: 30, Defense: 30, Goalkeeper: 90},
	}
	assert.InDelta(t, 0.7*90+0.3*30, Overall(keeper), 1e-9)
}

func TestBalance_PartitionIsExact(t *testing.T) {
	b := newTestBalancer(t)
	pool := fakePool(t, 14)

	result := b.Balance(pool, 2, 1)
	require.Len(t, result.Teams, 2)

	var got []string
	for _, team := range result.Teams {
		for _, p := range team.Players {
			got = append(got, p.ID)
		}
	}
	var want []string
	for _, p := range pool {
		want = append(want, p.ID)
	}

	assert.ElementsMatch(t, want, got, "every player appears exactly once")
}

func TestBalance_SizeSkewAtMostOne(t *testing.T) {
	b := newTestBalancer(t)

	for _, tc := range []struct{ players, teams int }{
		{10, 2}, {11, 2}, {15, 3}, {16, 3}, {7, 4},
	} {
		result := b.Balance(fakePool(t, tc.players), tc.teams, 9)
		require.Len(t, result.Teams, tc.teams, "%d players into %d teams", tc.players, tc.teams)

		min, max := len(result.Teams[0].Players), len(result.Teams[0].Players)
		for _, team := range result.Teams {
			if len(team.Players) < min {
				min = len(team.Players)
			}
			if len(team.Players) > max {
				max = len(team.Players)
			}
		}
		assert.LessOrEqual(t, max-min, 1)
	}
}

func TestBalance_DeterministicForSeed(t *testing.T) {
	b := newTestBalancer(t)
	pool := fakePool(t, 12)

	first := b.Balance(pool, 2, 7)
	second := b.Balance(pool, 2, 7)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("same seed produced different partitions:\n%s", diff)
	}
}

func TestBalance_RefinementDoesNotWorsenDraft(t *testing.T) {
	noRefine := New(&config.Config{RefineIterations: 0}, zerolog.Nop())
	refined := newTestBalancer(t)
	pool := fakePool(t, 12)

	draft := noRefine.Balance(pool, 2, 3)
	improved := refined.Balance(pool, 2, 3)

	assert.LessOrEqual(t, improved.MaxSpread, draft.MaxSpread+1e-9)
}

func TestBalance_TwoEqualPlayersSplitEvenly(t *testing.T) {
	b := newTestBalancer(t)
	skills := domain.RoleSkills{Attack: 50, Midfield: 50, Defense: 50}
	pool := []domain.PlayerForBalancing{
		{ID: "a", Skills: skills},
		{ID: "b", Skills: skills},
	}

	result := b.Balance(pool, 2, 1)
	require.Len(t, result.Teams, 2)
	assert.Len(t, result.Teams[0].Players, 1)
	assert.Len(t, result.Teams[1].Players, 1)
	assert.True(t, result.IsBalanced)
	assert.Zero(t, result.MaxSpread)
}

func TestBalance_DegenerateInputs(t *testing.T) {
	b := newTestBalancer(t)

	assert.Empty(t, b.Balance(nil, 2, 1).Teams)
	assert.Empty(t, b.Balance(fakePool(t, 1), 2, 1).Teams)
	assert.Empty(t, b.Balance(fakePool(t, 10), 0, 1).Teams)

	// A single team takes the whole pool.
	single := b.Balance(fakePool(t, 10), 1, 1)
	require.Len(t, single.Teams, 1)
	assert.Len(t, single.Teams[0].Players, 10)
	assert.True(t, single.IsBalanced)

	// More teams than players collapses to one player per team.
	result := b.Balance(fakePool(t, 3), 5, 1)
	assert.Len(t, result.Teams, 3)
}

func TestComputeStrength(t *testing.T) {
	roster := []domain.PlayerForBalancing{
		{Position: domain.PositionLine, Skills: domain.RoleSkills{Attack: 80, Midfield: 60, Defense: 40, Goalkeeper: 10}},
		{Position: domain.PositionGoalkeeper, Skills: domain.RoleSkills{Attack: 20, Midfield: 20, Defense: 20, Goalkeeper: 90}},
	}

	s := ComputeStrength(1, roster)
	assert.Equal(t, 1, s.TeamNumber)
	assert.Equal(t, 2, s.PlayerCount)
	assert.True(t, s.HasGoalkeeper)
	assert.InDelta(t, 50.0, s.AvgAttack, 1e-9)
	assert.InDelta(t, 50.0, s.AvgGoalkeeper, 1e-9)

	empty := ComputeStrength(2, nil)
	assert.Zero(t, empty.PlayerCount)
	assert.False(t, empty.HasGoalkeeper)
}

func TestValidateSplit(t *testing.T) {
	tests := []struct {
		pool, teamSize int
		want           SplitResult
	}{
		{10, 5, SplitResult{Kind: SplitPerfect, TeamCount: 2}},
		{12, 5, SplitResult{Kind: SplitWithBench, TeamCount: 2, Bench: 2}},
		{5, 5, SplitResult{Kind: SplitPerfect, TeamCount: 1}},
		{9, 5, SplitResult{Kind: SplitWithBench, TeamCount: 1, Bench: 4}},
		{4, 5, SplitResult{Kind: SplitInvalid}},
		{4, 0, SplitResult{Kind: SplitInvalid}},
		{15, 5, SplitResult{Kind: SplitPerfect, TeamCount: 3}},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, ValidateSplit(tc.pool, tc.teamSize), "pool %d size %d", tc.pool, tc.teamSize)
	}
}
