package scraper

import (
	apperrors "github.com/darkkaiser/offer-notifier/internal/pkg/errors"
)

func newErrHTMLParseFailed(err error, url string) error {
	return apperrors.Wrapf(err, apperrors.ParsingFailed, "HTML 문서 파싱에 실패했습니다 (%s)", url)
}
