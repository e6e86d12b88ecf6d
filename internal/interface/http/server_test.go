package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/voluntaria-hub/voluntaria-backend/internal/application/adapter"
	"github.com/voluntaria-hub/voluntaria-backend/internal/application/command"
	"github.com/voluntaria-hub/voluntaria-backend/internal/application/query"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/profile"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/subject"
	"github.com/voluntaria-hub/voluntaria-backend/internal/infrastructure/fanout"
	"github.com/voluntaria-hub/voluntaria-backend/internal/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	ts    *httptest.Server
	store *memory.Store
	hub   *fanout.Hub

	learnerID   int64
	volunteerID int64
	subjectID   int64
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	hub := fanout.NewHub(fanout.Config{})
	t.Cleanup(hub.Close)

	learnerUser, err := profile.NewUser("learner@voluntaria.org", "hash", "Lia Learner", profile.RoleLearner)
	require.NoError(t, err)
	require.NoError(t, store.Users.Create(ctx, learnerUser))
	learner, err := profile.NewLearner(learnerUser.ID)
	require.NoError(t, err)
	require.NoError(t, store.Learners.Create(ctx, learner))

	volunteerUser, err := profile.NewUser("volunteer@voluntaria.org", "hash", "Vera Volunteer", profile.RoleVolunteer)
	require.NoError(t, err)
	require.NoError(t, store.Users.Create(ctx, volunteerUser))
	volunteer, err := profile.NewVolunteer(volunteerUser.ID, profile.VolunteerTeacher)
	require.NoError(t, err)
	require.NoError(t, store.Volunteers.Create(ctx, volunteer))

	subj, err := subject.New("Matemática", "", "", "exatas")
	require.NoError(t, err)
	require.NoError(t, store.Subjects.Create(ctx, subj))

	deps := Dependencies{
		RequestLesson:  command.NewRequestLessonHandler(store.Lessons, store.Learners, store.Subjects, hub),
		AcceptLesson:   command.NewAcceptLessonHandler(store.Lessons, store.Volunteers, hub),
		ConfirmLesson:  command.NewConfirmLessonHandler(store.Lessons, hub),
		CompleteLesson: command.NewCompleteLessonHandler(store.Lessons, store.Volunteers, store.Users, nil, hub, nil),
		CancelLesson:   command.NewCancelLessonHandler(store.Lessons, hub),
		UpdateLesson:   command.NewUpdateLessonHandler(store.Lessons, hub),

		GetLesson:            query.NewGetLessonHandler(store.Lessons),
		ListLessons:          query.NewListLessonsHandler(store.Lessons),
		ListAvailableLessons: query.NewListAvailableLessonsHandler(store.Lessons),
		GetLeaderboard:       query.NewGetLeaderboardHandler(nil, nil, store.Volunteers, store.Users, nil),

		Profiles: adapter.NewProfileService(store.Users, store.Volunteers, store.Learners, hub),
		Subjects: adapter.NewSubjectService(store.Subjects, hub),
		News:     adapter.NewNewsService(store.News, hub),
		Partners: adapter.NewPartnerService(store.Partners),
		Forum:    adapter.NewForumService(store.Forum, hub),

		Hub: hub,
	}

	srv := NewServer(DefaultConfig(), deps)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &testEnv{
		ts:          ts,
		store:       store,
		hub:         hub,
		learnerID:   learner.ID,
		volunteerID: volunteer.ID,
		subjectID:   subj.ID,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.ts.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var payload map[string]any
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	}
	return resp, payload
}

func (e *testEnv) requestLesson(t *testing.T) int64 {
	t.Helper()
	resp, payload := e.do(t, http.MethodPost, "/api/v1/lessons", map[string]any{
		"learner_id":     e.learnerID,
		"subject_id":     e.subjectID,
		"title":          "Frações",
		"lesson_type":    "online",
		"scheduled_date": time.Now().Add(48 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return int64(payload["id"].(float64))
}

// ─────────────────────────────────────────────────────────────────────────────
// Lesson lifecycle over the wire
// ─────────────────────────────────────────────────────────────────────────────

func TestLessonLifecycleEndToEnd(t *testing.T) {
	e := newTestEnv(t)
	id := e.requestLesson(t)

	resp, payload := e.do(t, http.MethodPost, fmt.Sprintf("/api/v1/lessons/%d/accept", id),
		map[string]any{"volunteer_id": e.volunteerID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "accepted", payload["status"])

	resp, payload = e.do(t, http.MethodPost, fmt.Sprintf("/api/v1/lessons/%d/confirm", id),
		map[string]any{"learner_id": e.learnerID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "confirmed", payload["status"])

	resp, payload = e.do(t, http.MethodPost, fmt.Sprintf("/api/v1/lessons/%d/complete", id),
		map[string]any{"learner_id": e.learnerID, "rating": 5, "feedback": "Ótima aula"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "completed", payload["status"])
	assert.Equal(t, float64(5), payload["rating"])

	v, err := e.store.Volunteers.GetByID(context.Background(), e.volunteerID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), v.TotalPoints)
	assert.Equal(t, int64(1), v.TotalLessons)
}

func TestAcceptConflictReturns409(t *testing.T) {
	e := newTestEnv(t)
	id := e.requestLesson(t)

	resp, _ := e.do(t, http.MethodPost, fmt.Sprintf("/api/v1/lessons/%d/accept", id),
		map[string]any{"volunteer_id": e.volunteerID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, payload := e.do(t, http.MethodPost, fmt.Sprintf("/api/v1/lessons/%d/accept", id),
		map[string]any{"volunteer_id": e.volunteerID})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	errObj := payload["error"].(map[string]any)
	assert.Equal(t, "invalid_transition", errObj["code"])
}

func TestCancelKeepsRecord(t *testing.T) {
	e := newTestEnv(t)
	id := e.requestLesson(t)

	resp, payload := e.do(t, http.MethodDelete,
		fmt.Sprintf("/api/v1/lessons/%d?actor_id=%d&actor_role=learner", id, e.learnerID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "cancelled", payload["status"])

	resp, payload = e.do(t, http.MethodGet, fmt.Sprintf("/api/v1/lessons/%d", id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "cancelled", payload["status"])
}

func TestCancelByStrangerForbidden(t *testing.T) {
	e := newTestEnv(t)
	id := e.requestLesson(t)

	resp, _ := e.do(t, http.MethodDelete,
		fmt.Sprintf("/api/v1/lessons/%d?actor_id=%d&actor_role=learner", id, e.learnerID+99), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestGetUnknownLessonReturns404(t *testing.T) {
	e := newTestEnv(t)

	resp, _ := e.do(t, http.MethodGet, "/api/v1/lessons/12345", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListAvailableLessons(t *testing.T) {
	e := newTestEnv(t)
	e.requestLesson(t)
	id := e.requestLesson(t)

	resp, _ := e.do(t, http.MethodPost, fmt.Sprintf("/api/v1/lessons/%d/accept", id),
		map[string]any{"volunteer_id": e.volunteerID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, payload := e.do(t, http.MethodGet, "/api/v1/lessons/available", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), payload["count"])
}

// ─────────────────────────────────────────────────────────────────────────────
// Registration and auth
// ─────────────────────────────────────────────────────────────────────────────

func TestRegisterAndLogin(t *testing.T) {
	e := newTestEnv(t)

	resp, payload := e.do(t, http.MethodPost, "/api/v1/auth/register", map[string]any{
		"email":     "nova@voluntaria.org",
		"password":  "segredo1",
		"full_name": "Nova Pessoa",
		"role":      "learner",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotNil(t, payload["user"])
	assert.NotNil(t, payload["learner"])

	resp, _ = e.do(t, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"email":    "nova@voluntaria.org",
		"password": "segredo1",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = e.do(t, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"email":    "nova@voluntaria.org",
		"password": "errada",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	e := newTestEnv(t)

	body := map[string]any{
		"email":     "dupe@voluntaria.org",
		"password":  "segredo1",
		"full_name": "Duplicada",
		"role":      "learner",
	}
	resp, _ := e.do(t, http.MethodPost, "/api/v1/auth/register", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = e.do(t, http.MethodPost, "/api/v1/auth/register", body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

// ─────────────────────────────────────────────────────────────────────────────
// Health and leaderboard
// ─────────────────────────────────────────────────────────────────────────────

func TestHealthReportsListeners(t *testing.T) {
	e := newTestEnv(t)

	resp, payload := e.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", payload["status"])
	assert.Equal(t, float64(0), payload["listeners"])
}

func TestLeaderboardFallsBackToDatabase(t *testing.T) {
	e := newTestEnv(t)
	id := e.requestLesson(t)

	resp, _ := e.do(t, http.MethodPost, fmt.Sprintf("/api/v1/lessons/%d/accept", id),
		map[string]any{"volunteer_id": e.volunteerID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = e.do(t, http.MethodPost, fmt.Sprintf("/api/v1/lessons/%d/complete", id),
		map[string]any{"learner_id": e.learnerID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, payload := e.do(t, http.MethodGet, "/api/v1/volunteers/leaderboard", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	entries := payload["leaderboard"].([]any)
	require.Len(t, entries, 1)
	top := entries[0].(map[string]any)
	assert.Equal(t, float64(e.volunteerID), top["volunteer_id"])
	assert.Equal(t, float64(10), top["total_points"])
	assert.Equal(t, "Vera Volunteer", top["full_name"])
}
