package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hitmaker/internal/config"
	"github.com/talgya/hitmaker/internal/engine"
	"github.com/talgya/hitmaker/internal/entropy"
	"github.com/talgya/hitmaker/internal/world"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newSave(t *testing.T) *world.Save {
	t.Helper()
	sim := engine.NewSimulation(config.Default(), entropy.NewSeeded(1))
	sv, err := sim.NewGame(world.Artist{Name: "Nova", Genre: world.GenreRock})
	require.NoError(t, err)
	return sv
}

func TestLoad_Empty(t *testing.T) {
	db := openTemp(t)
	_, err := db.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoSave)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	sv := newSave(t)

	require.NoError(t, db.Save(ctx, sv))
	got, err := db.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, sv.Artist, got.Artist)
	assert.Equal(t, sv.State.Date, got.State.Date)
	assert.Equal(t, sv.State.Money, got.State.Money)
	assert.Equal(t, len(sv.State.NPCSongs), len(got.State.NPCSongs))

	sv.State.Money = 1
	require.NoError(t, db.Save(ctx, sv))
	saves, err := db.ListSaves(ctx)
	require.NoError(t, err)
	require.Len(t, saves, 1)
	assert.Equal(t, int64(1), saves[0].Money)
}

func TestLoad_RejectsMalformedPayload(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	sv := newSave(t)
	require.NoError(t, db.Save(ctx, sv))

	_, err := db.conn.ExecContext(ctx, "UPDATE saves SET payload = ? WHERE artist_id = ?", `{"state":{"regions":[]}`, sv.Artist.ID)
	require.NoError(t, err)
	got, err := db.Load(ctx)
	assert.Error(t, err)
	assert.Nil(t, got)

	_, err = db.conn.ExecContext(ctx, "UPDATE saves SET payload = ? WHERE artist_id = ?",
		`{"state":{"date":{"week":1,"month":1,"year":2024},"regions":[]},"artist":{"id":"a"}}`, sv.Artist.ID)
	require.NoError(t, err)
	_, err = db.Load(ctx)
	assert.ErrorIs(t, err, world.ErrNoRegions)
}

func TestWeekHistory(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	for w := 1; w <= 3; w++ {
		err := db.RecordWeek(ctx, "artist", engine.Summary{
			Date:    world.Date{Week: w, Month: 1, Year: 2024},
			Streams: int64(w * 100),
			Hype:    float64(w),
		})
		require.NoError(t, err)
	}
	rows, err := db.WeekHistory(ctx, "artist", 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 3, rows[0].Week)
	assert.Equal(t, int64(300), rows[0].Streams)

	none, err := db.WeekHistory(ctx, "other", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSessionWithDB(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	sess := engine.NewSession(engine.NewSimulation(config.Default(), entropy.NewSeeded(2)), db)
	sv, err := sess.NewGame(ctx, world.Artist{Name: "Kite", Genre: world.GenreIndie})
	require.NoError(t, err)

	_, err = sess.Advance(ctx)
	require.NoError(t, err)

	reloaded := engine.NewSession(engine.NewSimulation(config.Default(), entropy.NewSeeded(3)), db)
	require.NoError(t, reloaded.Load(ctx))
	snap, err := reloaded.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 2, snap.State.Date.Linear())

	rows, err := db.WeekHistory(ctx, sv.Artist.ID, 10)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
