package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/darkkaiser/offer-notifier/internal/config"
	"github.com/darkkaiser/offer-notifier/pkg/cronx"
	"github.com/spf13/cobra"
)

func newSourcesCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "설정된 소스 목록과 현재 수집 허용 여부를 출력합니다",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadEnvFile(opts.envFile); err != nil {
				return configError(err)
			}

			cfg, err := config.Load(opts.configFile)
			if err != nil {
				return configError(err)
			}

			now := time.Now()
			if err := printSources(cmd.OutOrStdout(), cfg.Sources, now); err != nil {
				return configError(err)
			}

			next, err := cronx.Next(cfg.Scheduler.Spec, now)
			if err != nil {
				return configError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nserve 다음 실행 예정: %s (%s)\n", next.Format(time.RFC3339), cfg.Scheduler.Spec)

			return nil
		},
	}
}

func printSources(w io.Writer, sources []config.SourceConfig, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "ID\tTITLE\tSTORAGE KEY\tWINDOW\tACTIVE\tURL")
	for _, sc := range sources {
		window, err := sc.Window.Build()
		if err != nil {
			return err
		}

		active := "no"
		if window.Contains(now) {
			active = "yes"
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", sc.ID, sc.Title, sc.Key(), window, active, sc.URL)
	}

	return tw.Flush()
}
