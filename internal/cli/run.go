package cli

import (
	"fmt"
	"io"

	"github.com/darkkaiser/offer-notifier/internal/pkg/mark"
	"github.com/darkkaiser/offer-notifier/internal/service/watch"
	"github.com/spf13/cobra"
)

func newRunCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "모든 소스에 대해 감시 주기를 한 번 실행합니다",
		Long: "설정된 소스를 순서대로 한 번씩 감시합니다.\n" +
			"모든 소스가 완료되면 0, 하나라도 실패하면 1, 설정 오류면 2로 종료합니다.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			summary := a.runner.RunAll(cmd.Context(), a.sources)
			printSummary(cmd.OutOrStdout(), summary)

			if failed := summary.Failed(); failed > 0 {
				return failedError(newErrSourcesFailed(failed, len(summary.Reports)))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&opts.sourceIDs, "source", "s", nil, "실행할 소스 ID (여러 번 지정 가능, 생략하면 전체)")

	return cmd
}

func printSummary(w io.Writer, summary watch.Summary) {
	for _, rep := range summary.Reports {
		line := rep.String()
		switch {
		case rep.Err != nil:
			line += fmt.Sprintf("%s error=%q", mark.Alert.WithSpace(), rep.Err.Error())
		case rep.DeliveryErr != nil:
			line += fmt.Sprintf("%s delivery_error=%q", mark.Alert.WithSpace(), rep.DeliveryErr.Error())
		case rep.Skipped:
			line += " (수집 허용 시간대 밖)"
		}
		fmt.Fprintln(w, line)
	}
}
