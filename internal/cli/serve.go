package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/darkkaiser/offer-notifier/internal/pkg/version"
	"github.com/darkkaiser/offer-notifier/internal/service/scheduler"
	applog "github.com/darkkaiser/offer-notifier/pkg/log"
	"github.com/spf13/cobra"
)

const banner = `
         __  __                       _   _  __ _
   ___  / _|/ _| ___ _ __   _ __   ___ | |_(_)/ _(_) ___ _ __
  / _ \| |_| |_ / _ \ '__| | '_ \ / _ \| __| | |_| |/ _ \ '__|
 | (_) |  _|  _|  __/ |    | | | | (_) | |_| |  _| |  __/ |
  \___/|_| |_|  \___|_|    |_| |_|\___/ \__|_|_| |_|\___|_|   %s
--------------------------------------------------------------------------------
`

func newServeCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "스케줄러 설정(scheduler.spec)에 따라 감시 주기를 반복 실행합니다",
		Long: "cron 표현식에 따라 모든 소스의 감시 주기를 반복 실행합니다.\n" +
			"이전 주기가 끝나지 않았으면 다음 주기는 건너뛰며, SIGINT/SIGTERM을 받으면 실행 중인 주기를 마친 뒤 종료합니다.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := bootstrap(ctx, opts)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			fmt.Fprintf(cmd.OutOrStdout(), banner, version.Get().Version)

			job := func(jobCtx context.Context) {
				a.runner.RunAll(jobCtx, a.sources)
			}

			if a.cfg.Scheduler.RunOnStart {
				job(ctx)
			}

			wg := &sync.WaitGroup{}
			wg.Add(1)

			s := scheduler.New(a.cfg.Scheduler.Spec, job)
			if err := s.Start(ctx, wg); err != nil {
				return configError(err)
			}

			applog.WithComponentAndFields(component, applog.Fields{
				"sources":  len(a.sources),
				"next_run": s.NextRun(),
			}).Info("서비스 가동 완료")

			<-ctx.Done() // 종료 신호를 받을 때까지 대기

			applog.WithComponent(component).Info("종료 신호를 받았습니다")
			wg.Wait()

			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&opts.sourceIDs, "source", "s", nil, "감시할 소스 ID (여러 번 지정 가능, 생략하면 전체)")

	return cmd
}
