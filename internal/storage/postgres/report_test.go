package postgres_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/delve/internal/game/combat"
	"github.com/cory-johannsen/delve/internal/game/encounter"
	"github.com/cory-johannsen/delve/internal/storage/postgres"
	"github.com/cory-johannsen/delve/internal/testutil"
)

func summary(outcome encounter.Outcome) encounter.Summary {
	return encounter.Summary{
		Outcome:      outcome,
		Seed:         1 << 63,
		Ticks:        412,
		Seconds:      41.2,
		PacksCleared: 2,
		Team: []encounter.ActorSummary{{
			ID: "brom", Name: "Brom", Team: true, Alive: true, HP: 900, MaxHP: 1200,
			DamageDone:     340,
			DamageBySource: []combat.SourceAmount{{Source: "Heavy Strike", Amount: 300}, {Source: "Attack", Amount: 40}},
		}},
		Enemies: []encounter.ActorSummary{{ID: "ghoul-p1-1", Name: "Ghoul", HP: 0, MaxHP: 420}},
	}
}

func TestReport_Validate(t *testing.T) {
	assert.NoError(t, postgres.NewReport("hollow_crypt", summary(encounter.OutcomeVictory)).Validate())

	err := postgres.Report{Summary: summary("draw")}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id must be set")
	assert.Contains(t, err.Error(), "encounter id")
	assert.Contains(t, err.Error(), `outcome "draw"`)
}

func TestNewReport_FreshIDs(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(2, 20).Draw(t, "n")
		seen := map[uuid.UUID]bool{}
		for range n {
			r := postgres.NewReport("x", summary(encounter.OutcomeDefeat))
			if seen[r.ID] {
				t.Fatalf("duplicate id %s", r.ID)
			}
			seen[r.ID] = true
		}
	})
}

func TestReportRepository_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	repo := postgres.NewReportRepository(pc.RawPool)
	ctx := context.Background()

	saved, err := repo.Save(ctx, postgres.NewReport("hollow_crypt", summary(encounter.OutcomeVictory)))
	require.NoError(t, err)
	assert.False(t, saved.CreatedAt.IsZero())

	got, err := repo.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "hollow_crypt", got.EncounterID)
	assert.Equal(t, saved.Summary, got.Summary)

	_, err = repo.Save(ctx, saved)
	assert.Error(t, err)

	_, err = repo.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, postgres.ErrReportNotFound)
}

func TestReportRepository_ListAndCount(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	repo := postgres.NewReportRepository(pc.RawPool)
	ctx := context.Background()

	for _, o := range []encounter.Outcome{encounter.OutcomeVictory, encounter.OutcomeDefeat, encounter.OutcomeVictory} {
		_, err := repo.Save(ctx, postgres.NewReport("hollow_crypt", summary(o)))
		require.NoError(t, err)
	}
	_, err := repo.Save(ctx, postgres.NewReport("sunken_vault", summary(encounter.OutcomeTimeout)))
	require.NoError(t, err)

	crypt, err := repo.ListRecent(ctx, "hollow_crypt", 10)
	require.NoError(t, err)
	assert.Len(t, crypt, 3)

	all, err := repo.ListRecent(ctx, "", 2)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = repo.ListRecent(ctx, "", 0)
	assert.Error(t, err)

	counts, err := repo.OutcomeCounts(ctx, "hollow_crypt")
	require.NoError(t, err)
	assert.Equal(t, map[encounter.Outcome]int{encounter.OutcomeVictory: 2, encounter.OutcomeDefeat: 1}, counts)
}
