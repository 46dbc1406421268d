package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/darkkaiser/offer-notifier/internal/service/watch/offer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := OpenSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "db", "snapshots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_LoadSave(t *testing.T) {
	t.Parallel()

	s := newTestSQLiteStore(t)
	ctx := context.Background()

	res, err := s.Load(ctx, "ending-offers")
	require.NoError(t, err)
	assert.True(t, res.FirstRun())

	offers := []offer.Offer{
		offer.New("Hotel X", "Warszawa", "999", "https://x/1"),
		offer.New("Hotel Y", "Kraków", "1 200", "https://x/2"),
	}
	require.NoError(t, s.Save(ctx, "ending-offers", offers))

	res, err = s.Load(ctx, "ending-offers")
	require.NoError(t, err)
	require.Equal(t, PriorSnapshot, res.State)
	assert.Equal(t, offers[0], res.Offers["hotel x"])
	assert.Equal(t, offers[1], res.Offers["hotel y"])

	// 두 번째 저장은 행 전체를 교체한다.
	require.NoError(t, s.Save(ctx, "ending-offers", nil))
	res, err = s.Load(ctx, "ending-offers")
	require.NoError(t, err)
	assert.Equal(t, PriorSnapshot, res.State)
	assert.Empty(t, res.Offers)
}

func TestSQLiteStore_KeysAreIndependent(t *testing.T) {
	t.Parallel()

	s := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "a", []offer.Offer{offer.New("Hotel X", "Warszawa", "999", "https://x/1")}))

	res, err := s.Load(ctx, "b")
	require.NoError(t, err)
	assert.True(t, res.FirstRun())
}

func TestSQLiteStore_EmptyKey(t *testing.T) {
	t.Parallel()

	s := newTestSQLiteStore(t)

	_, err := s.Load(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyKey)
	assert.ErrorIs(t, s.Save(context.Background(), "", nil), ErrEmptyKey)
}
