package watch

import (
	"context"
	"net/url"
	"time"

	"github.com/darkkaiser/offer-notifier/internal/service/notification"
	"github.com/darkkaiser/offer-notifier/internal/service/watch/diff"
	"github.com/darkkaiser/offer-notifier/internal/service/watch/extractor"
	"github.com/darkkaiser/offer-notifier/internal/service/watch/fetcher"
	"github.com/darkkaiser/offer-notifier/internal/service/watch/offer"
	"github.com/darkkaiser/offer-notifier/internal/service/watch/report"
	"github.com/darkkaiser/offer-notifier/internal/service/watch/scraper"
	"github.com/darkkaiser/offer-notifier/internal/service/watch/storage"
	applog "github.com/darkkaiser/offer-notifier/pkg/log"
)

// Dispatcher 렌더링된 메시지를 발송하는 인터페이스입니다.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg notification.Message) error
}

// ReportOptions 모든 소스에 공통으로 적용되는 렌더링 설정입니다.
type ReportOptions struct {
	TemplateFile string
	Currency     string
	LinkLabel    string
	NewColor     string
}

// AppContext Runner가 사용하는 의존성 묶음입니다. 프로세스 시작 시 한 번 구성됩니다.
type AppContext struct {
	Fetcher    fetcher.Fetcher
	Store      storage.SnapshotStore
	Dispatcher Dispatcher
	Report     ReportOptions

	// From, To 알림 메일의 발신자와 수신자
	From string
	To   string

	// Clock 현재 시각. nil이면 time.Now를 사용합니다.
	Clock func() time.Time
}

// Runner 소스별 감시 주기를 실행합니다.
type Runner struct {
	appCtx AppContext
}

// NewRunner 새로운 Runner를 생성합니다. Fetcher, Store, Dispatcher는 필수입니다.
func NewRunner(appCtx AppContext) *Runner {
	if appCtx.Fetcher == nil {
		panic("Fetcher는 필수입니다")
	}
	if appCtx.Store == nil {
		panic("SnapshotStore는 필수입니다")
	}
	if appCtx.Dispatcher == nil {
		panic("Dispatcher는 필수입니다")
	}
	if appCtx.Clock == nil {
		appCtx.Clock = time.Now
	}

	return &Runner{appCtx: appCtx}
}

// RunCycle 소스 하나에 대해 한 주기를 실행합니다.
//
// 반환되는 에러는 주기를 중단시킨 에러(수집 실패, 스냅샷 조회/저장 실패)뿐입니다.
// 알림 발송 실패는 CycleReport.DeliveryErr에 기록되며 에러로 반환하지 않습니다.
func (r *Runner) RunCycle(ctx context.Context, src Source) (CycleReport, error) {
	rep := CycleReport{SourceID: src.ID, State: StateEvaluating}

	logger := applog.WithComponentAndFields(component, applog.Fields{
		"source_id":   src.ID,
		"storage_key": src.StorageKey,
	})

	// 1. Evaluating
	current, skipped, err := r.collect(ctx, src)
	if err != nil {
		rep.State = StateFailed
		logger.WithError(err).Error("목록 페이지 수집 실패: 스냅샷을 갱신하지 않습니다")
		return rep, err
	}
	rep.Skipped = skipped
	rep.Offers = len(current)

	loaded, err := r.appCtx.Store.Load(ctx, src.StorageKey)
	if err != nil {
		rep.State = StateFailed
		logger.WithError(err).Error("스냅샷 조회 실패: 스냅샷을 갱신하지 않습니다")
		return rep, err
	}

	result := diff.Classify(current, loaded.Offers, loaded.FirstRun())
	counts := result.Counts()
	rep.FirstRun = loaded.FirstRun()
	rep.New = counts.New
	rep.Changed = counts.Changed

	for _, f := range result.ParseFailures {
		logger.WithFields(applog.Fields{
			"identity": f.Identity,
			"price":    f.Price,
		}).WithError(f.Err).Warn("가격을 숫자로 해석할 수 없어 변동 방향을 표시하지 않습니다")
	}

	logger.WithFields(applog.Fields{
		"offers":        rep.Offers,
		"new":           counts.New,
		"changed":       counts.Changed,
		"first_run":     rep.FirstRun,
		"should_notify": result.ShouldNotify,
	}).Info("오퍼 비교 완료")

	// 2. Notifying | Skipping
	if result.ShouldNotify {
		rep.State = StateNotifying
		if err := r.notify(ctx, src, result.Offers); err != nil {
			rep.DeliveryErr = err
			logger.WithError(err).Error("알림 발송 실패: 스냅샷은 계속 저장합니다")
		} else {
			rep.Notified = true
		}
	} else {
		rep.State = StateSkipping
	}

	// 3. Persisted
	if err := r.appCtx.Store.Save(ctx, src.StorageKey, current); err != nil {
		rep.State = StateFailed
		logger.WithError(err).Error("스냅샷 저장 실패")
		return rep, err
	}
	rep.State = StatePersisted

	return rep, nil
}

// collect 수집 허용 시간대이면 목록 페이지를 가져와 오퍼를 추출합니다.
// 시간대 밖이면 네트워크 요청 없이 빈 목록과 skipped=true를 반환합니다.
func (r *Runner) collect(ctx context.Context, src Source) (offers []offer.Offer, skipped bool, err error) {
	now := r.appCtx.Clock()
	if !src.Window.Contains(now) {
		applog.WithComponentAndFields(component, applog.Fields{
			"source_id": src.ID,
			"window":    src.Window.String(),
		}).Info("수집 허용 시간대가 아니므로 빈 목록으로 처리합니다")
		return nil, true, nil
	}

	base, err := url.Parse(src.URL)
	if err != nil {
		return nil, false, newErrInvalidSourceURL(err, src.ID, src.URL)
	}

	doc, err := scraper.FetchDocument(ctx, r.appCtx.Fetcher, src.URL)
	if err != nil {
		return nil, false, newErrFetchFailed(err, src.ID)
	}

	return extractor.Extract(doc, base, src.Selectors), false, nil
}

func (r *Runner) notify(ctx context.Context, src Source, classified []diff.Classified) error {
	msg, err := r.renderer(src).Render(classified)
	if err != nil {
		return newErrRenderFailed(err, src.ID)
	}

	return r.appCtx.Dispatcher.Dispatch(ctx, notification.Message{
		From:     r.appCtx.From,
		To:       r.appCtx.To,
		Subject:  msg.Subject,
		HTMLBody: msg.HTMLBody,
		TextBody: msg.TextBody,
	})
}

func (r *Runner) renderer(src Source) *report.Renderer {
	templateFile := src.TemplateFile
	if templateFile == "" {
		templateFile = r.appCtx.Report.TemplateFile
	}

	return &report.Renderer{
		Title:        src.Title,
		Heading:      src.Heading,
		TemplateFile: templateFile,
		Currency:     r.appCtx.Report.Currency,
		LinkLabel:    r.appCtx.Report.LinkLabel,
		NewColor:     r.appCtx.Report.NewColor,
		Now:          r.appCtx.Clock,
		Hooks:        src.Hooks,
	}
}

// RunAll 소스들을 순서대로 하나씩 실행합니다. 한 소스의 실패는 다른 소스의 실행에 영향을 주지 않습니다.
// Context가 취소되면 아직 시작하지 않은 소스는 실패로 기록됩니다.
func (r *Runner) RunAll(ctx context.Context, sources []Source) Summary {
	summary := Summary{Reports: make([]CycleReport, 0, len(sources))}

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			summary.Reports = append(summary.Reports, CycleReport{SourceID: src.ID, State: StateFailed, Err: newErrCycleCanceled(err, src.ID)})
			continue
		}

		rep, err := r.RunCycle(ctx, src)
		rep.Err = err
		summary.Reports = append(summary.Reports, rep)
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"sources":         len(sources),
		"failed":          summary.Failed(),
		"notified":        summary.Notified(),
		"delivery_failed": summary.DeliveryFailed(),
	}).Info("전체 소스 감시 주기 완료")

	return summary
}
