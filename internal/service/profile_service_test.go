package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-portal-api/internal/models"
	appErrors "github.com/noah-isme/edu-portal-api/pkg/errors"
)

func newProfileFixture(admins ...string) (*ProfileService, *fakeProfileRepo, *recordingAudit) {
	repo := newFakeProfileRepo()
	audit := &recordingAudit{}
	access := NewAccessService(newFakeRoleRepo(admins...), models.RoleGuest, nil, nil, nil)
	return NewProfileService(repo, access, audit, nil), repo, audit
}

func TestProfileServiceFirstTimeSetup(t *testing.T) {
	svc, _, audit := newProfileFixture()
	ctx := context.Background()
	asha := caller("asha")

	profile, set, err := svc.CallerProfile(ctx, asha)
	require.NoError(t, err)
	assert.False(t, set)
	assert.Nil(t, profile)

	saved, err := svc.SaveCallerProfile(ctx, asha, models.UserProfile{Name: "Asha"})
	require.NoError(t, err)
	assert.Equal(t, "Asha", saved.Name)

	profile, set, err = svc.CallerProfile(ctx, asha)
	require.NoError(t, err)
	require.True(t, set)
	assert.Equal(t, models.UserProfile{Name: "Asha"}, *profile)
	assert.Equal(t, []string{models.AuditActionProfileSave}, audit.actions())
}

func TestProfileServiceSaveValidation(t *testing.T) {
	svc, repo, _ := newProfileFixture()
	ctx := context.Background()

	_, err := svc.SaveCallerProfile(ctx, caller("asha"), models.UserProfile{Name: "   "})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidArgument))
	assert.Empty(t, repo.profiles)

	saved, err := svc.SaveCallerProfile(ctx, caller("asha"), models.UserProfile{Name: "  Asha Rao "})
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", saved.Name)

	_, err = svc.SaveCallerProfile(ctx, models.Caller{}, models.UserProfile{Name: "Ghost"})
	assert.True(t, errors.Is(err, appErrors.ErrUnauthenticated))
}

func TestProfileServiceProfileAccess(t *testing.T) {
	svc, repo, _ := newProfileFixture("root")
	repo.profiles["asha"] = "Asha"
	ctx := context.Background()

	profile, set, err := svc.Profile(ctx, caller("asha"), "asha")
	require.NoError(t, err)
	require.True(t, set)
	assert.Equal(t, "Asha", profile.Name)

	profile, set, err = svc.Profile(ctx, caller("root"), "asha")
	require.NoError(t, err)
	require.True(t, set)
	assert.Equal(t, "Asha", profile.Name)

	_, set, err = svc.Profile(ctx, caller("root"), "ravi")
	require.NoError(t, err)
	assert.False(t, set)

	// existing and missing targets are indistinguishable to non-admins
	_, _, err = svc.Profile(ctx, caller("ravi"), "asha")
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
	_, _, err = svc.Profile(ctx, caller("ravi"), "missing")
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestProfileServiceDisplayName(t *testing.T) {
	svc, repo, _ := newProfileFixture()
	repo.profiles["asha"] = "Asha"

	name, err := svc.DisplayName(context.Background(), "asha")
	require.NoError(t, err)
	assert.Equal(t, "Asha", name)

	name, err = svc.DisplayName(context.Background(), "ravi")
	require.NoError(t, err)
	assert.Empty(t, name)
}
