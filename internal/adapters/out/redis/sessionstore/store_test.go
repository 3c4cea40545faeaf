package sessionstore

import (
	"testing"
	"time"

	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/core/domain/model/principal"
	"dormeal/internal/core/ports"
	"dormeal/internal/pkg/errs"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store, err := New(client)
	require.NoError(t, err)
	return store, mr
}

func carrierSession(t *testing.T, expiresIn time.Duration) ports.Session {
	t.Helper()
	p, err := principal.New(kernel.NewUUID(), principal.Carrier)
	require.NoError(t, err)
	return ports.Session{ID: kernel.NewUUID().String(), Principal: p, ExpiresAt: time.Now().Add(expiresIn)}
}

func TestNew_RequiresClient(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestSaveGet(t *testing.T) {
	store, mr := setupStore(t)
	session := carrierSession(t, time.Hour)

	require.NoError(t, store.Save(t.Context(), session))
	got, err := store.Get(t.Context(), session.ID)

	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, session.Principal, got.Principal)
	assert.WithinDuration(t, session.ExpiresAt, got.ExpiresAt, time.Millisecond)
	assert.Greater(t, mr.TTL(key(session.ID)), 59*time.Minute)
}

func TestGet_Unknown(t *testing.T) {
	store, _ := setupStore(t)

	_, err := store.Get(t.Context(), "missing")

	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestGet_AfterTTL(t *testing.T) {
	store, mr := setupStore(t)
	session := carrierSession(t, time.Minute)
	require.NoError(t, store.Save(t.Context(), session))

	mr.FastForward(2 * time.Minute)
	_, err := store.Get(t.Context(), session.ID)

	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestGet_ExpiredByClock(t *testing.T) {
	store, _ := setupStore(t)
	session := carrierSession(t, time.Minute)
	require.NoError(t, store.Save(t.Context(), session))

	store.now = func() time.Time { return session.ExpiresAt }
	_, err := store.Get(t.Context(), session.ID)

	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestSave_Rejects(t *testing.T) {
	store, _ := setupStore(t)

	err := store.Save(t.Context(), carrierSession(t, -time.Second))
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)

	session := carrierSession(t, time.Hour)
	session.ID = ""
	assert.ErrorIs(t, store.Save(t.Context(), session), errs.ErrValueIsRequired)
}

func TestDelete(t *testing.T) {
	store, _ := setupStore(t)
	session := carrierSession(t, time.Hour)
	require.NoError(t, store.Save(t.Context(), session))

	require.NoError(t, store.Delete(t.Context(), session.ID))
	require.NoError(t, store.Delete(t.Context(), session.ID))

	_, err := store.Get(t.Context(), session.ID)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}
