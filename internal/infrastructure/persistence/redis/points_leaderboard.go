package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/profile"

	"github.com/redis/go-redis/v9"
)

// ══════════════════════════════════════════════════════════════════════════════
// POINTS LEADERBOARD
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrLeaderboardEmpty is returned when the leaderboard has no entries.
	ErrLeaderboardEmpty = errors.New("leaderboard: no entries")

	// ErrNotRanked is returned when the volunteer has no leaderboard entry.
	ErrNotRanked = errors.New("leaderboard: volunteer not ranked")
)

// Key layout for the points leaderboard.
const (
	// keyLeaderboardPoints is the sorted set mapping volunteer id to points.
	keyLeaderboardPoints = "leaderboard:points"

	// keyLeaderboardNames is the hash mapping volunteer id to display name.
	keyLeaderboardNames = "leaderboard:names"
)

// Entry is one row of the points leaderboard.
type Entry struct {
	VolunteerID int64  `json:"volunteer_id"`
	FullName    string `json:"full_name,omitempty"`
	Points      int64  `json:"total_points"`
	Rank        int64  `json:"rank"`
}

// PointsLeaderboard keeps volunteer points in a Redis sorted set so
// ranked reads are O(log N) instead of a table scan. It is a cache over
// the volunteers table: writes mirror the database counters, and a cold
// or unavailable cache falls back to the database at the query layer.
type PointsLeaderboard struct {
	cache *Cache
}

// NewPointsLeaderboard creates a PointsLeaderboard on the given cache.
func NewPointsLeaderboard(cache *Cache) *PointsLeaderboard {
	return &PointsLeaderboard{cache: cache}
}

// ─────────────────────────────────────────────────────────────────────────────
// Write Operations
// ─────────────────────────────────────────────────────────────────────────────

// SetScore records a volunteer's current point total.
func (p *PointsLeaderboard) SetScore(ctx context.Context, volunteerID int64, points int64, fullName string) error {
	member := strconv.FormatInt(volunteerID, 10)

	pipe := p.cache.Client().Pipeline()
	pipe.ZAdd(ctx, keyLeaderboardPoints, redis.Z{Score: float64(points), Member: member})
	if fullName != "" {
		pipe.HSet(ctx, keyLeaderboardNames, member, fullName)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("leaderboard: failed to set score: %w", err)
	}
	return nil
}

// Rebuild replaces the whole leaderboard with the given profiles. Used to
// warm the cache from the database at startup or after a flush.
func (p *PointsLeaderboard) Rebuild(ctx context.Context, volunteers []*profile.Volunteer, names map[int64]string) error {
	pipe := p.cache.Client().Pipeline()
	pipe.Del(ctx, keyLeaderboardPoints, keyLeaderboardNames)

	members := make([]redis.Z, 0, len(volunteers))
	for _, v := range volunteers {
		members = append(members, redis.Z{
			Score:  float64(v.TotalPoints),
			Member: strconv.FormatInt(v.ID, 10),
		})
	}
	if len(members) > 0 {
		pipe.ZAdd(ctx, keyLeaderboardPoints, members...)
	}
	for id, name := range names {
		pipe.HSet(ctx, keyLeaderboardNames, strconv.FormatInt(id, 10), name)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("leaderboard: failed to rebuild: %w", err)
	}
	return nil
}

// Remove drops a volunteer from the leaderboard.
func (p *PointsLeaderboard) Remove(ctx context.Context, volunteerID int64) error {
	member := strconv.FormatInt(volunteerID, 10)

	pipe := p.cache.Client().Pipeline()
	pipe.ZRem(ctx, keyLeaderboardPoints, member)
	pipe.HDel(ctx, keyLeaderboardNames, member)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("leaderboard: failed to remove: %w", err)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Read Operations
// ─────────────────────────────────────────────────────────────────────────────

// Top returns the highest-scoring volunteers, best first, with 1-based
// ranks. Returns ErrLeaderboardEmpty when the set has no members.
func (p *PointsLeaderboard) Top(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}

	results, err := p.cache.Client().ZRevRangeWithScores(ctx, keyLeaderboardPoints, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("leaderboard: failed to read top: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrLeaderboardEmpty
	}

	members := make([]string, len(results))
	for i, z := range results {
		members[i], _ = z.Member.(string)
	}
	names, err := p.cache.Client().HMGet(ctx, keyLeaderboardNames, members...).Result()
	if err != nil {
		return nil, fmt.Errorf("leaderboard: failed to read names: %w", err)
	}

	entries := make([]Entry, 0, len(results))
	for i, z := range results {
		id, err := strconv.ParseInt(members[i], 10, 64)
		if err != nil {
			continue // skip corrupt member
		}
		entry := Entry{
			VolunteerID: id,
			Points:      int64(z.Score),
			Rank:        int64(i + 1),
		}
		if name, ok := names[i].(string); ok {
			entry.FullName = name
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Rank returns a volunteer's 1-based position, or ErrNotRanked.
func (p *PointsLeaderboard) Rank(ctx context.Context, volunteerID int64) (int64, error) {
	member := strconv.FormatInt(volunteerID, 10)

	rank, err := p.cache.Client().ZRevRank(ctx, keyLeaderboardPoints, member).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrNotRanked
		}
		return 0, fmt.Errorf("leaderboard: failed to read rank: %w", err)
	}
	return rank + 1, nil
}

// Len returns the number of ranked volunteers.
func (p *PointsLeaderboard) Len(ctx context.Context) (int64, error) {
	n, err := p.cache.Client().ZCard(ctx, keyLeaderboardPoints).Result()
	if err != nil {
		return 0, fmt.Errorf("leaderboard: failed to read size: %w", err)
	}
	return n, nil
}
