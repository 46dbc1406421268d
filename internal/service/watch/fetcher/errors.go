package fetcher

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "github.com/darkkaiser/offer-notifier/internal/pkg/errors"
)

var (
	// ErrResponseBodyTooLarge 응답 본문이 허용된 최대 크기를 초과했을 때 반환됩니다.
	ErrResponseBodyTooLarge = apperrors.New(apperrors.ExecutionFailed, "응답 본문이 허용된 최대 크기를 초과했습니다")
)

// CheckResponseStatus HTTP 응답 상태 코드를 검사하여 도메인 에러로 변환합니다.
// 2xx가 아니면 5xx와 429는 Unavailable, 나머지는 ExecutionFailed 에러를 반환합니다.
func CheckResponseStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	errType := apperrors.ExecutionFailed
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		errType = apperrors.Unavailable
	}

	msg := fmt.Sprintf("HTTP 요청이 실패했습니다. 상태 코드: %s", resp.Status)
	if resp.Request != nil && resp.Request.URL != nil {
		msg += fmt.Sprintf(" (%s)", RedactURL(resp.Request.URL))
	}
	return apperrors.New(errType, msg)
}

func newErrInvalidRequest(err error, url string) error {
	return apperrors.Wrapf(err, apperrors.InvalidInput, "HTTP 요청을 생성할 수 없습니다 (%s)", url)
}

// newErrRequestFailed 네트워크 계층 에러를 분류합니다. 타임아웃은 Timeout, 나머지는 Unavailable입니다.
func newErrRequestFailed(err error, url string) error {
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperrors.Wrapf(err, apperrors.Timeout, "HTTP 요청 시간이 초과되었습니다 (%s)", url)
	}
	return apperrors.Wrapf(err, apperrors.Unavailable, "HTTP 요청 전송에 실패했습니다 (%s)", url)
}

func newErrRateLimitWait(err error) error {
	return apperrors.Wrap(err, apperrors.Unavailable, "요청 속도 제한 대기 중 작업이 취소되었습니다")
}

func newErrResponseBodyTooLarge(limit int64) error {
	return apperrors.Wrapf(ErrResponseBodyTooLarge, apperrors.ExecutionFailed, "응답 본문 크기 제한 초과 (limit: %d bytes)", limit)
}
