package scheduler

import (
	apperrors "github.com/darkkaiser/offer-notifier/internal/pkg/errors"
)

func newErrInvalidCronSpec(err error, spec string) error {
	return apperrors.Wrapf(err, apperrors.InvalidInput, "스케줄 등록 실패: 잘못된 Cron 표현식입니다 (%q)", spec)
}
