package watch_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/darkkaiser/offer-notifier/internal/pkg/errors"
	"github.com/darkkaiser/offer-notifier/internal/service/notification"
	"github.com/darkkaiser/offer-notifier/internal/service/notification/mocks"
	"github.com/darkkaiser/offer-notifier/internal/service/watch"
	"github.com/darkkaiser/offer-notifier/internal/service/watch/extractor"
	"github.com/darkkaiser/offer-notifier/internal/service/watch/fetcher"
	"github.com/darkkaiser/offer-notifier/internal/service/watch/offer"
	"github.com/darkkaiser/offer-notifier/internal/service/watch/storage"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const storageKey = "ending_offers"

// 2024-03-11 (월) 10:00 UTC
var fixedNow = time.Date(2024, time.March, 11, 10, 0, 0, 0, time.UTC)

type pageOffer struct {
	title, location, price, path string
}

type pageServer struct {
	*httptest.Server
	hits atomic.Int32
}

func newPageServer(t *testing.T, status int, offers ...pageOffer) *pageServer {
	t.Helper()

	var sb strings.Builder
	sb.WriteString("<html><body>")
	for _, o := range offers {
		fmt.Fprintf(&sb, `<div class="bloczek__wrapper"><a href="%s"><p class="bloczek__tytul">%s</p></a>`+
			`<span class="bloczek__cena">%s</span><span class="bloczek__lokalizacja--text">%s</span></div>`,
			o.path, o.title, o.price, o.location)
	}
	// 필수 요소가 빠진 Wrapper는 조용히 건너뛴다.
	sb.WriteString(`<div class="bloczek__wrapper"><p class="bloczek__tytul">Broken</p></div>`)
	sb.WriteString("</body></html>")
	page := sb.String()

	ps := &pageServer{}
	ps.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ps.hits.Add(1)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(page))
	}))
	t.Cleanup(ps.Close)

	return ps
}

type countingStore struct {
	storage.SnapshotStore
	loadErr error
	saves   int
}

func (s *countingStore) Load(ctx context.Context, key string) (storage.LoadResult, error) {
	if s.loadErr != nil {
		return storage.LoadResult{}, s.loadErr
	}
	return s.SnapshotStore.Load(ctx, key)
}

func (s *countingStore) Save(ctx context.Context, key string, offers []offer.Offer) error {
	s.saves++
	return s.SnapshotStore.Save(ctx, key, offers)
}

func newStore(t *testing.T, previous ...offer.Offer) *countingStore {
	t.Helper()

	fs, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	if previous != nil {
		require.NoError(t, fs.Save(context.Background(), storageKey, previous))
	}
	return &countingStore{SnapshotStore: fs}
}

func newSource(id, baseURL string) watch.Source {
	return watch.Source{
		ID:      id,
		Title:   "Ending Offers",
		Heading: "Rainbow Ending Offers",
		URL:     baseURL + "/koncoweczka",
		Selectors: extractor.Selectors{
			Wrapper:  "div.bloczek__wrapper",
			Header:   "p.bloczek__tytul",
			Price:    "span.bloczek__cena",
			Location: "span.bloczek__lokalizacja--text",
		},
		StorageKey: storageKey,
	}
}

func newRunner(store storage.SnapshotStore, notifier notification.Notifier) *watch.Runner {
	return watch.NewRunner(watch.AppContext{
		Fetcher:    fetcher.NewHTTPFetcher(5*time.Second, ""),
		Store:      store,
		Dispatcher: notification.NewDispatcher(notifier),
		From:       "sender@example.com",
		To:         "recipient@example.com",
		Clock:      func() time.Time { return fixedNow },
	})
}

func loadSnapshot(t *testing.T, store storage.SnapshotStore) storage.LoadResult {
	t.Helper()

	res, err := store.Load(context.Background(), storageKey)
	require.NoError(t, err)
	return res
}

func TestRunCycle_FirstRun(t *testing.T) {
	t.Parallel()

	srv := newPageServer(t, http.StatusOK, pageOffer{"Hotel X", "Warsaw", "999", "/oferta/1"})
	store := newStore(t)
	notifier := &mocks.RecordingNotifier{}

	rep, err := newRunner(store, notifier).RunCycle(context.Background(), newSource("rainbow", srv.URL))
	require.NoError(t, err)

	assert.Equal(t, watch.StatePersisted, rep.State)
	assert.True(t, rep.FirstRun)
	assert.True(t, rep.Notified)
	assert.Equal(t, 1, rep.Offers)
	assert.Zero(t, rep.New)
	assert.Zero(t, rep.Changed)

	msgs := notifier.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "Ending Offers - 2024-03-11", msgs[0].Subject)
	assert.Equal(t, "sender@example.com", msgs[0].From)
	assert.Equal(t, "recipient@example.com", msgs[0].To)
	assert.Contains(t, msgs[0].HTMLBody, "<h2>Hotel X</h2>")
	for _, marker := range []string{"🆕", "🔻", "🔺"} {
		assert.NotContains(t, msgs[0].HTMLBody, marker)
	}

	snap := loadSnapshot(t, store)
	assert.Equal(t, storage.PriorSnapshot, snap.State)
	require.Len(t, snap.Offers, 1)
	assert.Equal(t, offer.Offer{
		Identity: "hotel x",
		Title:    "Hotel X",
		Location: "Warsaw",
		Price:    "999",
		Link:     srv.URL + "/oferta/1",
	}, snap.Offers["hotel x"])
}

func TestRunCycle_NewOffer(t *testing.T) {
	t.Parallel()

	srv := newPageServer(t, http.StatusOK,
		pageOffer{"Hotel X", "Warsaw", "999", "/oferta/1"},
		pageOffer{"Hotel Y", "Gdańsk", "500", "/oferta/2"},
	)
	store := newStore(t, offer.New("Hotel X", "Warsaw", "999", srv.URL+"/oferta/1"))
	notifier := &mocks.RecordingNotifier{}

	rep, err := newRunner(store, notifier).RunCycle(context.Background(), newSource("rainbow", srv.URL))
	require.NoError(t, err)

	assert.Equal(t, 1, rep.New)
	assert.Zero(t, rep.Changed)
	assert.True(t, rep.Notified)

	msgs := notifier.Messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].HTMLBody, "🆕 Hotel Y</h2>")
	assert.Contains(t, msgs[0].HTMLBody, "<h2>Hotel X</h2>")

	assert.Len(t, loadSnapshot(t, store).Offers, 2)
}

func TestRunCycle_PriceDrop(t *testing.T) {
	t.Parallel()

	srv := newPageServer(t, http.StatusOK, pageOffer{"Hotel X", "Warsaw", "1100", "/oferta/1"})
	store := newStore(t, offer.New("Hotel X", "Warsaw", "1 200", srv.URL+"/oferta/1"))
	notifier := &mocks.RecordingNotifier{}

	rep, err := newRunner(store, notifier).RunCycle(context.Background(), newSource("rainbow", srv.URL))
	require.NoError(t, err)

	assert.Equal(t, 1, rep.Changed)
	msgs := notifier.Messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].HTMLBody, "<p>Price: 1100 PLN (1 200 PLN 🔻)</p>")

	assert.Equal(t, "1100", loadSnapshot(t, store).Offers["hotel x"].Price)
}

// 전역 로그 훅을 사용하므로 병렬로 실행하지 않는다.
func TestRunCycle_PriceParseWarningCarriesSource(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	srv := newPageServer(t, http.StatusOK, pageOffer{"Hotel X", "Warsaw", "999", "/oferta/1"})
	store := newStore(t, offer.New("Hotel X", "Warsaw", "na zapytanie", srv.URL+"/oferta/1"))
	notifier := &mocks.RecordingNotifier{}

	rep, err := newRunner(store, notifier).RunCycle(context.Background(), newSource("rainbow-warn", srv.URL))
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Changed)

	var warned *logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["source_id"] == "rainbow-warn" {
			warned = e
		}
	}
	require.NotNil(t, warned, "가격 해석 실패 경고가 기록되어야 한다")
	assert.Equal(t, "hotel x", warned.Data["identity"])
	assert.Equal(t, "na zapytanie", warned.Data["price"])
	assert.Equal(t, storageKey, warned.Data["storage_key"])
	assert.Contains(t, warned.Data, logrus.ErrorKey)

	// 방향 표시 없이 평문 가격으로 렌더링된다.
	msgs := notifier.Messages()
	require.Len(t, msgs, 1)
	assert.NotContains(t, msgs[0].HTMLBody, "🔻")
}

func TestRunCycle_NoChange(t *testing.T) {
	t.Parallel()

	srv := newPageServer(t, http.StatusOK, pageOffer{"Hotel X", "Warsaw", "1 234", "/oferta/1"})
	store := newStore(t, offer.New("Hotel X", "Warsaw", "1234", srv.URL+"/oferta/1"))
	notifier := &mocks.RecordingNotifier{}

	rep, err := newRunner(store, notifier).RunCycle(context.Background(), newSource("rainbow", srv.URL))
	require.NoError(t, err)

	assert.Equal(t, watch.StatePersisted, rep.State)
	assert.False(t, rep.Notified)
	assert.Empty(t, notifier.Messages())
	assert.Equal(t, 1, store.saves, "변경이 없어도 스냅샷은 다시 저장되어야 합니다")
	assert.Equal(t, "1 234", loadSnapshot(t, store).Offers["hotel x"].Price)
}

func TestRunCycle_OutsideWindow(t *testing.T) {
	t.Parallel()

	srv := newPageServer(t, http.StatusOK, pageOffer{"Hotel X", "Warsaw", "999", "/oferta/1"})
	store := newStore(t, offer.New("Hotel X", "Warsaw", "999", srv.URL+"/oferta/1"))
	notifier := &mocks.RecordingNotifier{}

	src := newSource("rainbow", srv.URL)
	src.Window = extractor.Window{Weekdays: []time.Weekday{time.Sunday}, Location: time.UTC}

	rep, err := newRunner(store, notifier).RunCycle(context.Background(), src)
	require.NoError(t, err)

	assert.True(t, rep.Skipped)
	assert.False(t, rep.Notified)
	assert.Zero(t, srv.hits.Load(), "시간대 밖에서는 페이지를 요청하지 않아야 합니다")

	snap := loadSnapshot(t, store)
	assert.Equal(t, storage.PriorSnapshot, snap.State)
	assert.Empty(t, snap.Offers, "스냅샷은 빈 매핑으로 덮어써져야 합니다")
}

func TestRunCycle_FetchFailureDoesNotSave(t *testing.T) {
	t.Parallel()

	srv := newPageServer(t, http.StatusServiceUnavailable)
	store := newStore(t, offer.New("Hotel X", "Warsaw", "999", "https://x/1"))
	notifier := &mocks.RecordingNotifier{}

	rep, err := newRunner(store, notifier).RunCycle(context.Background(), newSource("rainbow", srv.URL))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.Unavailable))
	assert.Equal(t, watch.StateFailed, rep.State)

	assert.Zero(t, store.saves, "수집 실패 시 스냅샷을 저장하지 않아야 합니다")
	assert.Len(t, loadSnapshot(t, store).Offers, 1)
	assert.Empty(t, notifier.Messages())
}

func TestRunCycle_LoadFailureDoesNotSave(t *testing.T) {
	t.Parallel()

	srv := newPageServer(t, http.StatusOK, pageOffer{"Hotel X", "Warsaw", "999", "/oferta/1"})
	store := newStore(t)
	store.loadErr = apperrors.New(apperrors.ParsingFailed, "corrupt snapshot")

	rep, err := newRunner(store, &mocks.RecordingNotifier{}).RunCycle(context.Background(), newSource("rainbow", srv.URL))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ParsingFailed))
	assert.Equal(t, watch.StateFailed, rep.State)
	assert.Zero(t, store.saves)
}

func TestRunCycle_DeliveryFailureStillSaves(t *testing.T) {
	t.Parallel()

	srv := newPageServer(t, http.StatusOK, pageOffer{"Hotel X", "Warsaw", "999", "/oferta/1"})
	store := newStore(t)
	notifier := &mocks.RecordingNotifier{Err: errors.New("smtp: 421 service not available")}

	rep, err := newRunner(store, notifier).RunCycle(context.Background(), newSource("rainbow", srv.URL))
	require.NoError(t, err)

	assert.Equal(t, watch.StatePersisted, rep.State)
	assert.False(t, rep.Notified)
	require.Error(t, rep.DeliveryErr)
	assert.True(t, apperrors.Is(rep.DeliveryErr, apperrors.Unavailable))

	assert.Equal(t, 1, store.saves)
	assert.Len(t, loadSnapshot(t, store).Offers, 1)
}

func TestRunAll_IsolatesFailures(t *testing.T) {
	t.Parallel()

	bad := newPageServer(t, http.StatusNotFound)
	good := newPageServer(t, http.StatusOK, pageOffer{"Hotel X", "Warsaw", "999", "/oferta/1"})

	fs, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	notifier := &mocks.RecordingNotifier{}

	badSrc := newSource("broken", bad.URL)
	badSrc.StorageKey = "broken"
	goodSrc := newSource("rainbow", good.URL)

	summary := newRunner(fs, notifier).RunAll(context.Background(), []watch.Source{badSrc, goodSrc})

	require.Len(t, summary.Reports, 2)
	assert.Equal(t, 1, summary.Failed())
	assert.Equal(t, 1, summary.Notified())
	assert.Zero(t, summary.DeliveryFailed())

	assert.Equal(t, "broken", summary.Reports[0].SourceID)
	assert.True(t, summary.Reports[0].Failed())
	assert.True(t, apperrors.Is(summary.Reports[0].Err, apperrors.ExecutionFailed))

	assert.Equal(t, "rainbow", summary.Reports[1].SourceID)
	assert.Equal(t, watch.StatePersisted, summary.Reports[1].State)
	assert.NoError(t, summary.Reports[1].Err)
	assert.Len(t, notifier.Messages(), 1)
}

func TestRunAll_CanceledContext(t *testing.T) {
	t.Parallel()

	srv := newPageServer(t, http.StatusOK)
	store := newStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary := newRunner(store, &mocks.RecordingNotifier{}).RunAll(ctx, []watch.Source{newSource("a", srv.URL), newSource("b", srv.URL)})
	assert.Equal(t, 2, summary.Failed())
	assert.Zero(t, srv.hits.Load())
	assert.Zero(t, store.saves)
}

func TestNewRunner_PanicsOnMissingDependencies(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { watch.NewRunner(watch.AppContext{}) })
}

func TestCycleState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Evaluating", watch.StateEvaluating.String())
	assert.Equal(t, "Notifying", watch.StateNotifying.String())
	assert.Equal(t, "Skipping", watch.StateSkipping.String())
	assert.Equal(t, "Persisted", watch.StatePersisted.String())
	assert.Equal(t, "Failed", watch.StateFailed.String())
	assert.Equal(t, "Unknown", watch.CycleState(42).String())
}
