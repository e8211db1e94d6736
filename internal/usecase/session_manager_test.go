package usecase

import (
	"context"
	"testing"

	"github.com/nguyentranbao-ct/shopping-search/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() (SessionManager, *fakeHistory) {
	history := &fakeHistory{}
	deps := newDeps(&fakeProvider{payload: airMaxPayload}, history, &fakeCache{})
	return NewSessionManagerWithDeps(deps, testOpts), history
}

func TestSessionManager_CreateAndGet(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	a := m.Create(ctx, nil)
	b := m.Create(ctx, &models.Identity{UserID: "u1"})
	require.NotEqual(t, a.ID(), b.ID())

	got, err := m.Get(a.ID())
	require.NoError(t, err)
	assert.Same(t, a, got)

	_, err = m.Get("missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSessionManager_Close(t *testing.T) {
	m, _ := newTestManager()
	orch := m.Create(context.Background(), nil)

	require.NoError(t, m.Close(orch.ID()))

	_, err := m.Get(orch.ID())
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, m.Close(orch.ID()), models.ErrNotFound)
}

func TestSessionManager_SignInLoadsHistory(t *testing.T) {
	m, history := newTestManager()
	history.entries = []historyEntry{{"u1", "boots", "UK"}, {"u1", "scarf", "UK"}}
	ctx := context.Background()

	orch := m.Create(ctx, nil)
	assert.Empty(t, orch.Snapshot().RecentQueries)

	require.NoError(t, m.SignIn(ctx, orch.ID(), models.Identity{UserID: "u1"}))
	assert.Equal(t, []string{"scarf", "boots"}, orch.Snapshot().RecentQueries)

	require.NoError(t, m.SignOut(ctx, orch.ID()))
	assert.Empty(t, orch.Snapshot().RecentQueries)

	assert.ErrorIs(t, m.SignIn(ctx, "missing", models.Identity{UserID: "u1"}), models.ErrNotFound)
	assert.ErrorIs(t, m.SignOut(ctx, "missing"), models.ErrNotFound)
}

func TestSessionManager_SignOutUser(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	first := m.Create(ctx, &models.Identity{UserID: "u1"})
	second := m.Create(ctx, &models.Identity{UserID: "u1"})
	other := m.Create(ctx, &models.Identity{UserID: "u2"})
	first.PerformSearch(ctx, "boots")
	second.PerformSearch(ctx, "scarf")
	other.PerformSearch(ctx, "hat")

	n := m.SignOutUser(ctx, "u1")

	assert.Equal(t, 2, n)
	assert.Empty(t, first.Snapshot().RecentQueries)
	assert.Empty(t, second.Snapshot().RecentQueries)
	assert.Equal(t, []string{"hat"}, other.Snapshot().RecentQueries)
	assert.Zero(t, m.SignOutUser(ctx, "u1"))
}
