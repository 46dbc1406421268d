package watch

import (
	apperrors "github.com/darkkaiser/offer-notifier/internal/pkg/errors"
)

func newErrInvalidSourceURL(err error, sourceID, rawURL string) error {
	return apperrors.Wrapf(err, apperrors.InvalidInput, "소스 URL을 해석할 수 없습니다 (source: %s, url: %s)", sourceID, rawURL)
}

// newErrFetchFailed 원인 에러의 타입(Unavailable, ExecutionFailed, ParsingFailed 등)을 유지합니다.
func newErrFetchFailed(err error, sourceID string) error {
	return apperrors.Wrapf(err, apperrors.UnderlyingType(err), "목록 페이지 수집 실패 (source: %s)", sourceID)
}

func newErrRenderFailed(err error, sourceID string) error {
	return apperrors.Wrapf(err, apperrors.Unavailable, "알림 메시지를 만들 수 없습니다 (source: %s)", sourceID)
}

func newErrCycleCanceled(err error, sourceID string) error {
	return apperrors.Wrapf(err, apperrors.Unavailable, "감시 주기가 취소되었습니다 (source: %s)", sourceID)
}
