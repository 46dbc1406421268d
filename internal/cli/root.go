// Package cli offer-notifier의 명령줄 인터페이스를 제공합니다.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/darkkaiser/offer-notifier/internal/config"
	"github.com/spf13/cobra"
)

// component 로깅용 컴포넌트 이름
const component = "cli"

// options 모든 명령이 공유하는 명령줄 옵션입니다.
type options struct {
	configFile      string
	credentialsFile string
	envFile         string
	sourceIDs       []string
}

// NewRootCommand 하위 명령이 모두 등록된 루트 명령을 생성합니다.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   config.AppName,
		Short: "여행 특가 목록 페이지를 감시하여 새 오퍼와 가격 변동을 알립니다",
		Long: config.AppName + "는 설정된 목록 페이지에서 오퍼를 수집하고 직전 스냅샷과 비교하여,\n" +
			"새로 등장한 오퍼나 가격이 바뀐 오퍼가 있으면 메일(선택적으로 텔레그램)로 알림을 보냅니다.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", config.DefaultFilename, "애플리케이션 설정 파일 경로")
	flags.StringVar(&opts.credentialsFile, "credentials", config.DefaultCredentialsFilename, "메일 계정 자격 증명 파일 경로")
	flags.StringVar(&opts.envFile, "env-file", ".env", "환경 변수 파일 경로 (없으면 무시)")

	root.AddCommand(
		newRunCommand(opts),
		newServeCommand(opts),
		newSourcesCommand(opts),
		newVersionCommand(),
	)

	return root
}

// Execute 루트 명령을 실행하고 프로세스 종료 코드를 반환합니다.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(stderr, "[ERROR] %v\n", ee.err)
		}
		return ee.code
	}

	// 알 수 없는 명령이나 잘못된 플래그
	fmt.Fprintf(stderr, "[ERROR] %v\n", err)
	return ExitConfig
}
