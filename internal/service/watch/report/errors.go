package report

import (
	apperrors "github.com/darkkaiser/offer-notifier/internal/pkg/errors"
)

func newErrTemplateReadFailed(err error, path string) error {
	return apperrors.Wrapf(err, apperrors.System, "템플릿 파일을 읽을 수 없습니다 (%s)", path)
}

func newErrInvalidPlaceholderCount(path string, n int) error {
	return apperrors.Newf(apperrors.InvalidInput, "템플릿에는 %s 자리 표시자가 정확히 하나 있어야 합니다 (%s: %d개)", Placeholder, path, n)
}
