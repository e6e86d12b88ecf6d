package query

import (
	"context"
	"log/slog"

	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/profile"
	"github.com/voluntaria-hub/voluntaria-backend/internal/infrastructure/persistence/redis"
	"github.com/voluntaria-hub/voluntaria-backend/pkg/circuitbreaker"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEADERBOARD QUERY
// Reads the volunteer points ranking. The Redis sorted set is the fast
// path; when the cache is empty, failing, or not configured, the query
// falls back to the volunteers table.
// ══════════════════════════════════════════════════════════════════════════════

// GetLeaderboardQuery contains the leaderboard read parameters.
type GetLeaderboardQuery struct {
	// Limit is the number of entries to return. Defaults to 10.
	Limit int
}

// LeaderboardEntryDTO is one row of the leaderboard response.
type LeaderboardEntryDTO struct {
	VolunteerID int64  `json:"volunteer_id"`
	FullName    string `json:"full_name,omitempty"`
	TotalPoints int64  `json:"total_points"`
	Rank        int64  `json:"rank"`
}

// LeaderboardCache is the cached ranking source. *redis.PointsLeaderboard
// implements it.
type LeaderboardCache interface {
	Top(ctx context.Context, limit int) ([]redis.Entry, error)
}

// GetLeaderboardHandler handles the GetLeaderboardQuery.
type GetLeaderboardHandler struct {
	cache         LeaderboardCache
	breaker       *circuitbreaker.CircuitBreaker
	volunteerRepo profile.VolunteerRepository
	userRepo      profile.UserRepository
	logger        *slog.Logger
}

// NewGetLeaderboardHandler creates a new GetLeaderboardHandler. Both
// cache and breaker may be nil; the handler then always reads the
// database.
func NewGetLeaderboardHandler(
	cache LeaderboardCache,
	breaker *circuitbreaker.CircuitBreaker,
	volunteerRepo profile.VolunteerRepository,
	userRepo profile.UserRepository,
	logger *slog.Logger,
) *GetLeaderboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GetLeaderboardHandler{
		cache:         cache,
		breaker:       breaker,
		volunteerRepo: volunteerRepo,
		userRepo:      userRepo,
		logger:        logger,
	}
}

// Handle returns the top volunteers by points, best first.
func (h *GetLeaderboardHandler) Handle(ctx context.Context, q GetLeaderboardQuery) ([]LeaderboardEntryDTO, error) {
	if q.Limit <= 0 {
		q.Limit = 10
	}

	if entries, ok := h.tryCache(ctx, q.Limit); ok {
		return entries, nil
	}
	return h.fromDatabase(ctx, q.Limit)
}

// tryCache reads the sorted set, guarded by the circuit breaker so a
// down cache degrades to the database instead of stalling every request.
func (h *GetLeaderboardHandler) tryCache(ctx context.Context, limit int) ([]LeaderboardEntryDTO, bool) {
	if h.cache == nil {
		return nil, false
	}

	var cached []redis.Entry
	read := func(ctx context.Context) error {
		var err error
		cached, err = h.cache.Top(ctx, limit)
		return err
	}

	var err error
	if h.breaker != nil {
		err = h.breaker.Execute(ctx, read)
	} else {
		err = read(ctx)
	}
	if err != nil {
		h.logger.Warn("leaderboard cache read failed, falling back to database", "error", err)
		return nil, false
	}

	entries := make([]LeaderboardEntryDTO, len(cached))
	for i, e := range cached {
		entries[i] = LeaderboardEntryDTO{
			VolunteerID: e.VolunteerID,
			FullName:    e.FullName,
			TotalPoints: e.Points,
			Rank:        e.Rank,
		}
	}
	return entries, true
}

func (h *GetLeaderboardHandler) fromDatabase(ctx context.Context, limit int) ([]LeaderboardEntryDTO, error) {
	volunteers, err := h.volunteerRepo.TopByPoints(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntryDTO, len(volunteers))
	for i, v := range volunteers {
		entry := LeaderboardEntryDTO{
			VolunteerID: v.ID,
			TotalPoints: v.TotalPoints,
			Rank:        int64(i + 1),
		}
		if u, err := h.userRepo.GetByID(ctx, v.UserID); err == nil {
			entry.FullName = u.FullName
		}
		entries[i] = entry
	}
	return entries, nil
}
