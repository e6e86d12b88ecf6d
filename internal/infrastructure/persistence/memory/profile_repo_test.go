package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/profile"
)

func TestUserListNegativeOffsetTreatedAsZero(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	u, err := profile.NewUser("lia@voluntaria.org", "hash", "Lia Learner", profile.RoleLearner)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.List(ctx, "", "", -1, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, u.ID, got[0].ID)
}

func TestVolunteerListNegativeOffsetTreatedAsZero(t *testing.T) {
	repo := NewVolunteerRepository()
	ctx := context.Background()

	v, err := profile.NewVolunteer(1, profile.VolunteerTeacher)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, v))

	got, err := repo.List(ctx, -1, 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
