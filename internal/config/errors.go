package config

import (
	apperrors "github.com/darkkaiser/offer-notifier/internal/pkg/errors"
)

func newErrInvalidWindow(err error, w WindowConfig) error {
	return apperrors.Wrapf(err, apperrors.InvalidInput, "수집 허용 시간대(window) 설정을 해석할 수 없습니다 (weekdays: %v, timezone: %q)", w.Weekdays, w.Timezone)
}
