package persistence

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/database"
	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/farmquest"
	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/migrations"
)

type failingKV struct{ err error }

func (f failingKV) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingKV) Set(context.Context, string, string) error         { return f.err }
func (f failingKV) Remove(context.Context, string) error              { return f.err }
func (f failingKV) Check(context.Context) error                       { return f.err }

func newSession(t *testing.T) *farmquest.GameSession {
	t.Helper()
	now := time.Date(2025, 10, 4, 15, 30, 0, 123000000, time.UTC)
	return farmquest.NewGameSession(farmquest.Player{ID: "p-1", Name: "Ana", CreatedAt: now}, farmquest.CropCorn, farmquest.Levels(), now)
}

func sqliteKV(t *testing.T) *SQLiteKV {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(db))
	return NewSQLiteKV(db)
}

func backends(t *testing.T) map[string]KV {
	return map[string]KV{
		"memory": NewMemoryKV(),
		"sqlite": sqliteKV(t),
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := NewSessionRepository(kv, farmquest.Levels(), slog.Default())
			s := newSession(t)

			completed := time.Date(2025, 10, 4, 16, 0, 0, 0, time.UTC)
			corn := s.CropProgress[farmquest.CropCorn]
			corn.LevelsProgress[1] = farmquest.LevelProgress{
				LevelID: 1, Status: farmquest.LevelCompleted, Score: 80,
				CorrectAnswers: 4, TotalQuestions: 5, CompletedAt: &completed,
				Answers: []farmquest.Answer{{QuestionID: "corn-1-1", SelectedAnswerIndex: 0, IsCorrect: true}},
			}
			corn.RecomputeTotal()
			s.CropProgress[farmquest.CropCorn] = corn

			require.NoError(t, repo.Save(ctx, s))

			got, err := repo.Load(ctx)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, s.PlayerID, got.PlayerID)
			assert.True(t, s.StartedAt.Equal(got.StartedAt))
			require.NotNil(t, got.SelectedCrop)
			assert.Equal(t, farmquest.CropCorn, *got.SelectedCrop)

			lp := got.CropProgress[farmquest.CropCorn].LevelsProgress[1]
			assert.Equal(t, farmquest.LevelCompleted, lp.Status)
			require.NotNil(t, lp.CompletedAt)
			assert.True(t, completed.Equal(*lp.CompletedAt))
			assert.Len(t, lp.Answers, 1)
			assert.Equal(t, 80, got.CropProgress[farmquest.CropCorn].TotalScore)
		})
	}
}

func TestLoadNothingStored(t *testing.T) {
	repo := NewSessionRepository(NewMemoryKV(), farmquest.Levels(), nil)
	got, err := repo.Load(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestLoadCorruptIsNoSession(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{"{not json", `{"startedAt":"yesterday"}`, `{"startedAt":"2025-10-04T00:00:00Z","selectedCrop":"rice"}`} {
		kv := NewMemoryKV()
		require.NoError(t, kv.Set(ctx, SessionKey, raw))
		repo := NewSessionRepository(kv, farmquest.Levels(), nil)

		got, err := repo.Load(ctx)
		assert.NoError(t, err)
		assert.Nil(t, got, "raw %q", raw)
	}
}

func TestLoadBackendFailureIsNoSession(t *testing.T) {
	repo := NewSessionRepository(failingKV{err: errors.New("disk gone")}, farmquest.Levels(), nil)
	got, err := repo.Load(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestSaveReportsBackendFailure(t *testing.T) {
	repo := NewSessionRepository(failingKV{err: errors.New("quota exceeded")}, farmquest.Levels(), nil)
	err := repo.Save(context.Background(), newSession(t))
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(NewMemoryKV(), farmquest.Levels(), nil)
	require.NoError(t, repo.Save(ctx, newSession(t)))
	require.NoError(t, repo.Clear(ctx))
	require.NoError(t, repo.Clear(ctx))

	got, err := repo.Load(ctx)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdateLevelProgressCompletedUnlocksNext(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(NewMemoryKV(), farmquest.Levels(), nil)
	require.NoError(t, repo.Save(ctx, newSession(t)))

	err := repo.UpdateLevelProgress(ctx, farmquest.CropCorn, 1, farmquest.LevelProgress{
		LevelID: 1, Status: farmquest.LevelCompleted, Score: 100, CorrectAnswers: 5, TotalQuestions: 5,
	})
	require.NoError(t, err)

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	corn := got.CropProgress[farmquest.CropCorn]
	assert.Equal(t, farmquest.LevelCompleted, corn.LevelsProgress[1].Status)
	assert.Equal(t, farmquest.LevelAvailable, corn.LevelsProgress[2].Status)
	assert.Equal(t, farmquest.LevelLocked, corn.LevelsProgress[3].Status)
	assert.Equal(t, 100, corn.TotalScore)
	assert.Equal(t, 2, corn.CurrentLevel)

	potato := got.CropProgress[farmquest.CropPotato]
	assert.Equal(t, farmquest.LevelLocked, potato.LevelsProgress[2].Status)
}

func TestUpdateLevelProgressAvailableDoesNotUnlock(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(NewMemoryKV(), farmquest.Levels(), nil)
	require.NoError(t, repo.Save(ctx, newSession(t)))

	require.NoError(t, repo.UpdateLevelProgress(ctx, farmquest.CropQuinoa, 1, farmquest.LevelProgress{
		LevelID: 1, Status: farmquest.LevelAvailable, Score: 40, CorrectAnswers: 2, TotalQuestions: 5,
	}))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	quinoa := got.CropProgress[farmquest.CropQuinoa]
	assert.Equal(t, farmquest.LevelLocked, quinoa.LevelsProgress[2].Status)
	assert.Equal(t, 40, quinoa.TotalScore)
	assert.Equal(t, 1, quinoa.CurrentLevel)
}

func TestUpdateLevelProgressNeverDowngradesNext(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(NewMemoryKV(), farmquest.Levels(), nil)
	s := newSession(t)
	corn := s.CropProgress[farmquest.CropCorn]
	corn.LevelsProgress[1] = farmquest.LevelProgress{LevelID: 1, Status: farmquest.LevelCompleted, Score: 100}
	corn.LevelsProgress[2] = farmquest.LevelProgress{LevelID: 2, Status: farmquest.LevelCompleted, Score: 60}
	s.CropProgress[farmquest.CropCorn] = corn
	require.NoError(t, repo.Save(ctx, s))

	require.NoError(t, repo.UpdateLevelProgress(ctx, farmquest.CropCorn, 1, farmquest.LevelProgress{
		LevelID: 1, Status: farmquest.LevelCompleted, Score: 0,
	}))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	c := got.CropProgress[farmquest.CropCorn]
	assert.Equal(t, farmquest.LevelCompleted, c.LevelsProgress[2].Status)
	assert.Equal(t, 60, c.TotalScore)
}

func TestUpdateLevelProgressLastLevel(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(NewMemoryKV(), farmquest.Levels(), nil)
	require.NoError(t, repo.Save(ctx, newSession(t)))

	require.NoError(t, repo.UpdateLevelProgress(ctx, farmquest.CropCorn, 6, farmquest.LevelProgress{
		LevelID: 6, Status: farmquest.LevelCompleted, Score: 20,
	}))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	corn := got.CropProgress[farmquest.CropCorn]
	assert.Len(t, corn.LevelsProgress, 6)
	_, hasSeven := corn.LevelsProgress[7]
	assert.False(t, hasSeven)
}

func TestUpdateWithoutSessionIsNoop(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	repo := NewSessionRepository(kv, farmquest.Levels(), nil)

	require.NoError(t, repo.UpdateLevelProgress(ctx, farmquest.CropCorn, 1, farmquest.LevelProgress{LevelID: 1, Status: farmquest.LevelCompleted}))
	require.NoError(t, repo.UpdateCropProgress(ctx, farmquest.CropCorn, farmquest.CropProgress{}))

	_, ok, _ := kv.Get(ctx, SessionKey)
	assert.False(t, ok)
}

func TestUpdateCropProgressReplacesBucket(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(NewMemoryKV(), farmquest.Levels(), nil)
	require.NoError(t, repo.Save(ctx, newSession(t)))

	cp := farmquest.NewCropProgress(farmquest.CropPotato, farmquest.Levels())
	cp.CurrentLevel = 3
	lp := cp.LevelsProgress[1]
	lp.Status = farmquest.LevelCompleted
	lp.Score = 60
	cp.LevelsProgress[1] = lp
	cp.RecomputeTotal()
	require.NoError(t, repo.UpdateCropProgress(ctx, farmquest.CropPotato, cp))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	potato := got.CropProgress[farmquest.CropPotato]
	assert.Equal(t, 3, potato.CurrentLevel)
	assert.Equal(t, 60, potato.TotalScore)
}
