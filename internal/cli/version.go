package cli

import (
	"fmt"

	"github.com/darkkaiser/offer-notifier/internal/config"
	"github.com/darkkaiser/offer-notifier/internal/pkg/version"
	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "빌드 정보를 출력합니다",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", config.AppName, version.Get())
		},
	}
}
