// Package scheduler Cron 스케줄에 맞춰 감시 주기를 반복 실행합니다.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/darkkaiser/offer-notifier/pkg/cronx"
	applog "github.com/darkkaiser/offer-notifier/pkg/log"
	"github.com/robfig/cron/v3"
)

// component 로깅용 컴포넌트 이름
const component = "scheduler"

// Job 스케줄마다 실행되는 작업입니다.
type Job func(ctx context.Context)

// Scheduler 하나의 Cron 표현식으로 Job을 반복 실행합니다.
// 이전 실행이 끝나지 않았으면 이번 실행은 건너뛰므로 실행이 겹치지 않습니다.
type Scheduler struct {
	spec string
	job  Job

	cron    *cron.Cron
	entryID cron.EntryID

	running   bool
	runningMu sync.Mutex
}

// New 새로운 Scheduler를 생성합니다.
func New(spec string, job Job) *Scheduler {
	if job == nil {
		panic("Job은 필수입니다")
	}

	return &Scheduler{spec: spec, job: job}
}

// Start 스케줄러를 시작합니다. stopCtx가 취소되면 스케줄러를 중지하고 wg.Done()을 호출합니다.
// 호출자는 Start 호출 전에 wg.Add(1)을 해야 합니다.
func (s *Scheduler) Start(stopCtx context.Context, wg *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if s.running {
		wg.Done()
		applog.WithComponent(component).Warn("Scheduler가 이미 실행 중입니다 (중복 호출)")
		return nil
	}

	logger := cron.VerbosePrintfLogger(applog.StandardLogger())
	c := cron.New(
		cron.WithParser(cronx.StandardParser()),
		cron.WithLogger(logger),
		cron.WithChain(
			cron.Recover(logger),
			cron.SkipIfStillRunning(logger),
		),
	)

	// 실행 중인 주기는 종료 신호와 무관하게 끝까지 수행하여 스냅샷 저장까지 마치도록 한다.
	// 중지 시 cron.Stop()이 실행 중인 Job의 완료를 기다린다.
	entryID, err := c.AddFunc(s.spec, func() {
		s.job(context.Background())
	})
	if err != nil {
		wg.Done()
		return newErrInvalidCronSpec(err, s.spec)
	}

	s.cron = c
	s.entryID = entryID
	s.cron.Start()
	s.running = true

	applog.WithComponentAndFields(component, applog.Fields{
		"spec":     s.spec,
		"next_run": s.cron.Entry(entryID).Next.Format(time.RFC3339),
	}).Info("Scheduler 시작")

	go func() {
		defer wg.Done()

		<-stopCtx.Done()

		s.Stop()
	}()

	return nil
}

// Stop 스케줄러를 중지하고 실행 중인 Job이 끝날 때까지 기다립니다.
func (s *Scheduler) Stop() {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.running {
		return
	}

	applog.WithComponent(component).Info("Scheduler 중지 요청: 실행 중인 주기가 끝나기를 기다립니다")

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron = nil
	s.running = false

	applog.WithComponent(component).Info("Scheduler 중지 완료")
}

// Running 스케줄러가 실행 중인지 반환합니다.
func (s *Scheduler) Running() bool {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	return s.running
}

// NextRun 다음 실행 예정 시각을 반환합니다. 실행 중이 아니면 제로 값입니다.
func (s *Scheduler) NextRun() time.Time {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if s.cron == nil {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}
