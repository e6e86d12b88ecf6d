package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/shared"
)

func TestWriteDomainErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", shared.ErrLessonNotFound, http.StatusNotFound},
		{
			// A dangling foreign key on insert surfaces as not-found for
			// the referenced entity, not as a server error.
			"wrapped reference not found",
			shared.WrapError("lesson", "Create", shared.ErrNotFound,
				"referenced learner or subject does not exist", errors.New("fk violation")),
			http.StatusNotFound,
		},
		{"illegal transition", shared.ErrLessonNotAvailable, http.StatusConflict},
		{"terminal status", shared.ErrLessonTerminal, http.StatusConflict},
		{"forbidden", shared.ErrNotLessonActor, http.StatusForbidden},
		{"unauthorized", shared.NewDomainError("profile", "Authenticate", shared.ErrUnauthorized, "invalid credentials"), http.StatusUnauthorized},
		{"already exists", shared.ErrEmailTaken, http.StatusConflict},
		{"validation", shared.ErrInvalidRating, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeDomainError(rec, tc.err)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}
