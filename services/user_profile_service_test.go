package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileGetAndUpdate(t *testing.T) {
	st := seedStore(t, technician("a", "X", "Y"))
	ps := NewProfileService(st)
	ctx := context.Background()

	p, err := ps.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "User a", p.Name)

	p.Name = "Ana"
	p.Bio = "nights only"
	p.Interests = " Tijuca, ,Centro,Tijuca"
	p.OpenForSwap = false
	updated, err := ps.Update(ctx, "a", p)
	require.NoError(t, err)
	assert.Equal(t, "Tijuca,Centro", updated.Interests)

	stored := profileOf(t, st, "a")
	assert.Equal(t, "Ana", stored.Name)
	assert.Equal(t, "nights only", stored.Bio)
	assert.False(t, stored.OpenForSwap)

	_, err = ps.Get(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = ps.Update(ctx, "ghost", p)
	assert.ErrorIs(t, err, ErrInvalid, "body names a different user")
	p.UserID = ""
	_, err = ps.Update(ctx, "ghost", p)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfileUpdateRejectedWhileLocked(t *testing.T) {
	st := seedStore(t, technician("a", "X", "Y"), technician("b", "Y", "X"))
	ss := newSwapService(st, nil)
	ps := NewProfileService(st)
	ctx := context.Background()

	_, err := ss.Swipe(ctx, "a", "b", "right")
	require.NoError(t, err)
	_, err = ss.Swipe(ctx, "b", "a", "right")
	require.NoError(t, err)
	require.NoError(t, ss.Confirm(ctx, "a", "b"))

	p, err := ps.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, p.Locked)

	p.Name = "changed"
	_, err = ps.Update(ctx, "a", p)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "User a", profileOf(t, st, "a").Name)

	other, err := ps.Get(ctx, "b")
	require.NoError(t, err)
	assert.False(t, other.Locked)
	other.Bio = "fine"
	_, err = ps.Update(ctx, "b", other)
	require.NoError(t, err)

	require.NoError(t, ss.Confirm(ctx, "b", "a"))
	p, err = ps.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, p.Locked, "lock ends once the pairing is confirmed")
}
