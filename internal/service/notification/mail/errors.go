package mail

import (
	apperrors "github.com/darkkaiser/offer-notifier/internal/pkg/errors"
)

func newErrClientSetupFailed(err error, host string) error {
	return apperrors.Wrapf(err, apperrors.InvalidInput, "SMTP 클라이언트를 구성할 수 없습니다 (%s)", host)
}

func newErrInvalidAddress(err error, field, addr string) error {
	return apperrors.Wrapf(err, apperrors.InvalidInput, "메일 주소가 올바르지 않습니다 (%s: %q)", field, addr)
}

func newErrSendFailed(err error, host string) error {
	return apperrors.Wrapf(err, apperrors.Unavailable, "메일 발송에 실패했습니다 (%s)", host)
}
