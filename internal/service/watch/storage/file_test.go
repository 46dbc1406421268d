package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/darkkaiser/offer-notifier/internal/pkg/errors"
	"github.com/darkkaiser/offer-notifier/internal/service/watch/offer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()

	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return s
}

// ===== Unit Tests: NewFileStore =====

func TestNewFileStore_FileUsedAsDirectory(t *testing.T) {
	t.Parallel()

	filePath := filepath.Join(t.TempDir(), "file_as_dir")
	require.NoError(t, os.WriteFile(filePath, []byte("x"), 0644))

	s, err := NewFileStore(filePath)
	require.Error(t, err)
	assert.Nil(t, s)
	assert.True(t, apperrors.Is(err, apperrors.System))
}

func TestNewFileStore_CleansUpStaleTempFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	stale := filepath.Join(dir, "snapshot-123.tmp")
	fresh := filepath.Join(dir, "snapshot-456.tmp")
	other := filepath.Join(dir, "notes.tmp")
	for _, p := range []string{stale, fresh, other} {
		require.NoError(t, os.WriteFile(p, []byte("{}"), 0644))
	}
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))
	require.NoError(t, os.Chtimes(other, old, old))

	_, err := NewFileStore(dir)
	require.NoError(t, err)

	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
	assert.FileExists(t, other)
}

// ===== Unit Tests: Load / Save =====

func TestFileStore_Load_NoPriorSnapshot(t *testing.T) {
	t.Parallel()

	s := newTestFileStore(t)

	res, err := s.Load(context.Background(), "ending-offers")
	require.NoError(t, err)
	assert.Equal(t, NoPriorSnapshot, res.State)
	assert.True(t, res.FirstRun())
	assert.Empty(t, res.Offers)
}

func TestFileStore_RoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestFileStore(t)
	ctx := context.Background()

	offers := []offer.Offer{
		offer.New("Hotel X", "Warszawa", "999", "https://x/1"),
		offer.New("Hotel Y", "Kraków", "1 200", "https://x/2"),
	}
	require.NoError(t, s.Save(ctx, "ending-offers", offers))

	res, err := s.Load(ctx, "ending-offers")
	require.NoError(t, err)
	require.Equal(t, PriorSnapshot, res.State)
	assert.False(t, res.FirstRun())
	require.Len(t, res.Offers, 2)

	for _, o := range offers {
		assert.Equal(t, o, res.Offers[o.Identity])
	}
}

func TestFileStore_Save_LaterDuplicateWins(t *testing.T) {
	t.Parallel()

	s := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "k", []offer.Offer{
		offer.New("Hotel X", "Warszawa", "999", "https://x/1"),
		offer.New("HOTEL X", "Gdańsk", "888", "https://x/9"),
	}))

	res, err := s.Load(ctx, "k")
	require.NoError(t, err)
	require.Len(t, res.Offers, 1)
	assert.Equal(t, "888", res.Offers["hotel x"].Price)
}

func TestFileStore_Save_ReplacesWholeDocument(t *testing.T) {
	t.Parallel()

	s := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "k", []offer.Offer{
		offer.New("Hotel X", "Warszawa", "999", "https://x/1"),
		offer.New("Hotel Y", "Kraków", "500", "https://x/2"),
	}))
	require.NoError(t, s.Save(ctx, "k", []offer.Offer{
		offer.New("Hotel Z", "Sopot", "700", "https://x/3"),
	}))

	res, err := s.Load(ctx, "k")
	require.NoError(t, err)
	require.Len(t, res.Offers, 1)
	assert.Contains(t, res.Offers, "hotel z")
}

func TestFileStore_Save_EmptyListPersistsEmptyMapping(t *testing.T) {
	t.Parallel()

	s := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "k", []offer.Offer{offer.New("Hotel X", "Warszawa", "999", "https://x/1")}))
	require.NoError(t, s.Save(ctx, "k", nil))

	res, err := s.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, PriorSnapshot, res.State, "빈 스냅샷도 첫 실행과는 구분되어야 합니다")
	assert.Empty(t, res.Offers)

	data, err := os.ReadFile(filepath.Join(s.Dir(), snapshotFilename("k")))
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestFileStore_Save_DocumentFormat(t *testing.T) {
	t.Parallel()

	s := newTestFileStore(t)
	ctx := context.Background()
	offers := []offer.Offer{offer.New("Hotel X", "Warszawa", "999", "https://x/1")}

	require.NoError(t, s.Save(ctx, "k", offers))
	first, err := os.ReadFile(filepath.Join(s.Dir(), snapshotFilename("k")))
	require.NoError(t, err)

	assert.JSONEq(t, `{"hotel x": {"title": "Hotel X", "location": "Warszawa", "price": "999", "link": "https://x/1"}}`, string(first))

	require.NoError(t, s.Save(ctx, "k", offers))
	second, err := os.ReadFile(filepath.Join(s.Dir(), snapshotFilename("k")))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	matches, err := filepath.Glob(filepath.Join(s.Dir(), "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches, "임시 파일이 남아 있으면 안 됩니다")
}

func TestFileStore_Load_DocumentWithoutTitle(t *testing.T) {
	t.Parallel()

	s := newTestFileStore(t)
	path := filepath.Join(s.Dir(), snapshotFilename("k"))
	require.NoError(t, os.WriteFile(path, []byte(`{"Hotel X": {"location": "Warszawa", "price": "999", "link": "https://x/1"}}`), 0644))

	res, err := s.Load(context.Background(), "k")
	require.NoError(t, err)
	require.Contains(t, res.Offers, "Hotel X")
	assert.Equal(t, "Hotel X", res.Offers["Hotel X"].Identity)
	assert.Equal(t, "Hotel X", res.Offers["Hotel X"].DisplayTitle())
}

func TestFileStore_Load_CorruptDocument(t *testing.T) {
	t.Parallel()

	s := newTestFileStore(t)
	path := filepath.Join(s.Dir(), snapshotFilename("k"))
	require.NoError(t, os.WriteFile(path, []byte(`{"broken"`), 0644))

	_, err := s.Load(context.Background(), "k")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ParsingFailed))
}

func TestFileStore_EmptyKey(t *testing.T) {
	t.Parallel()

	s := newTestFileStore(t)

	_, err := s.Load(context.Background(), " ")
	assert.ErrorIs(t, err, ErrEmptyKey)
	assert.ErrorIs(t, s.Save(context.Background(), "", nil), ErrEmptyKey)
}

func TestFileStore_KeysWithPathCharactersStayInsideBaseDir(t *testing.T) {
	t.Parallel()

	s := newTestFileStore(t)
	ctx := context.Background()

	for _, key := range []string{"../../etc/passwd", `..\..\windows`, "a/b/c"} {
		require.NoError(t, s.Save(ctx, key, nil), "key: %s", key)
	}

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	for _, e := range entries {
		assert.False(t, e.IsDir())
	}
}
