package cli

import (
	"fmt"
	"strings"

	"github.com/darkkaiser/offer-notifier/internal/config"
	apperrors "github.com/darkkaiser/offer-notifier/internal/pkg/errors"
)

// 프로세스 종료 코드
const (
	ExitOK     = 0
	ExitFailed = 1 // 하나 이상의 소스가 실패함
	ExitConfig = 2 // 설정 오류로 어떤 소스도 실행하지 않음
)

// exitError 명령 실행 결과를 프로세스 종료 코드로 전달하기 위한 에러입니다.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func configError(err error) error {
	return &exitError{code: ExitConfig, err: err}
}

func failedError(err error) error {
	return &exitError{code: ExitFailed, err: err}
}

func newErrUnknownSource(id string, sources []config.SourceConfig) error {
	ids := make([]string, 0, len(sources))
	for _, s := range sources {
		ids = append(ids, s.ID)
	}
	return apperrors.Newf(apperrors.NotFound, "설정에 없는 소스입니다: '%s' (사용 가능: %s)", id, strings.Join(ids, ", "))
}

func newErrSourcesFailed(failed, total int) error {
	return apperrors.Newf(apperrors.ExecutionFailed, "%d개 소스 중 %d개 소스의 감시 주기가 실패했습니다", total, failed)
}
