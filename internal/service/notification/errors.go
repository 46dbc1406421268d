package notification

import (
	apperrors "github.com/darkkaiser/offer-notifier/internal/pkg/errors"
)

var (
	// ErrNoNotifiers 발송할 채널이 하나도 등록되지 않았을 때의 원인 에러입니다.
	ErrNoNotifiers = apperrors.New(apperrors.InvalidInput, "등록된 알림 채널이 없습니다")
)

func newErrDeliveryFailed(failures []error) error {
	return apperrors.Wrapf(joinFailures(failures), apperrors.Unavailable, "알림 발송에 실패했습니다 (%d건)", len(failures))
}
