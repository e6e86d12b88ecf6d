package redis

import (
	"context"
	"testing"

	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/profile"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLeaderboard(t *testing.T) *PointsLeaderboard {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewPointsLeaderboard(NewCacheFromClient(client))
}

func TestPointsLeaderboardTopOrdersByScore(t *testing.T) {
	lb := newTestLeaderboard(t)
	ctx := context.Background()

	require.NoError(t, lb.SetScore(ctx, 1, 30, "Ana"))
	require.NoError(t, lb.SetScore(ctx, 2, 50, "Bruno"))
	require.NoError(t, lb.SetScore(ctx, 3, 10, "Clara"))

	entries, err := lb.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, int64(2), entries[0].VolunteerID)
	assert.Equal(t, int64(50), entries[0].Points)
	assert.Equal(t, int64(1), entries[0].Rank)
	assert.Equal(t, "Bruno", entries[0].FullName)

	assert.Equal(t, int64(1), entries[1].VolunteerID)
	assert.Equal(t, int64(3), entries[2].VolunteerID)
	assert.Equal(t, int64(3), entries[2].Rank)
}

func TestPointsLeaderboardTopRespectsLimit(t *testing.T) {
	lb := newTestLeaderboard(t)
	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		require.NoError(t, lb.SetScore(ctx, i, i*10, ""))
	}

	entries, err := lb.Top(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(5), entries[0].VolunteerID)
	assert.Equal(t, int64(4), entries[1].VolunteerID)
}

func TestPointsLeaderboardEmpty(t *testing.T) {
	lb := newTestLeaderboard(t)

	_, err := lb.Top(context.Background(), 10)
	assert.ErrorIs(t, err, ErrLeaderboardEmpty)
}

func TestPointsLeaderboardSetScoreOverwrites(t *testing.T) {
	lb := newTestLeaderboard(t)
	ctx := context.Background()

	require.NoError(t, lb.SetScore(ctx, 1, 10, "Ana"))
	require.NoError(t, lb.SetScore(ctx, 1, 40, "Ana"))

	entries, err := lb.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(40), entries[0].Points)
}

func TestPointsLeaderboardRank(t *testing.T) {
	lb := newTestLeaderboard(t)
	ctx := context.Background()

	require.NoError(t, lb.SetScore(ctx, 1, 30, ""))
	require.NoError(t, lb.SetScore(ctx, 2, 50, ""))

	rank, err := lb.Rank(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rank)

	_, err = lb.Rank(ctx, 99)
	assert.ErrorIs(t, err, ErrNotRanked)
}

func TestPointsLeaderboardRebuild(t *testing.T) {
	lb := newTestLeaderboard(t)
	ctx := context.Background()

	require.NoError(t, lb.SetScore(ctx, 9, 99, "stale"))

	volunteers := []*profile.Volunteer{
		{ID: 1, TotalPoints: 20},
		{ID: 2, TotalPoints: 40},
	}
	names := map[int64]string{1: "Ana", 2: "Bruno"}
	require.NoError(t, lb.Rebuild(ctx, volunteers, names))

	entries, err := lb.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(2), entries[0].VolunteerID)

	_, err = lb.Rank(ctx, 9)
	assert.ErrorIs(t, err, ErrNotRanked)

	n, err := lb.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestPointsLeaderboardRemove(t *testing.T) {
	lb := newTestLeaderboard(t)
	ctx := context.Background()

	require.NoError(t, lb.SetScore(ctx, 1, 30, "Ana"))
	require.NoError(t, lb.Remove(ctx, 1))

	_, err := lb.Top(ctx, 10)
	assert.ErrorIs(t, err, ErrLeaderboardEmpty)
}
