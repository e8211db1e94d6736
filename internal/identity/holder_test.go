package identity

import (
	"context"
	"testing"

	"github.com/nguyentranbao-ct/shopping-search/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolderTransitions(t *testing.T) {
	ctx := context.Background()
	h := NewHolder(nil)
	assert.Nil(t, h.CurrentUser())

	var seen []*models.Identity
	unsubscribe := h.Subscribe(func(_ context.Context, id *models.Identity) {
		seen = append(seen, id)
	})

	h.SignIn(ctx, models.Identity{UserID: "u1"})
	h.SignIn(ctx, models.Identity{UserID: "u1", Email: "a@b.c"})
	h.SignIn(ctx, models.Identity{UserID: "u2"})
	h.SignOut(ctx)
	h.SignOut(ctx)

	require.Len(t, seen, 3)
	assert.Equal(t, "u1", seen[0].UserID)
	assert.Equal(t, "u2", seen[1].UserID)
	assert.Nil(t, seen[2])

	unsubscribe()
	h.SignIn(ctx, models.Identity{UserID: "u3"})
	assert.Len(t, seen, 3)
	assert.Equal(t, "u3", h.CurrentUser().UserID)
}

func TestHolderReturnsCopies(t *testing.T) {
	initial := &models.Identity{UserID: "u1"}
	h := NewHolder(initial)
	initial.UserID = "mutated"

	got := h.CurrentUser()
	got.UserID = "mutated-again"
	assert.Equal(t, "u1", h.CurrentUser().UserID)
}
