package telegram

import (
	apperrors "github.com/darkkaiser/offer-notifier/internal/pkg/errors"
)

func newErrBotInitFailed(err error) error {
	return apperrors.Wrap(err, apperrors.InvalidInput, "텔레그램 봇을 초기화할 수 없습니다. 봇 토큰을 확인하세요")
}

func newErrSendFailed(err error, chatID int64) error {
	return apperrors.Wrapf(err, apperrors.Unavailable, "텔레그램 메시지 발송에 실패했습니다 (chat_id: %d)", chatID)
}

func newErrSendCanceled(err error) error {
	return apperrors.Wrap(err, apperrors.Unavailable, "텔레그램 메시지 발송이 취소되었습니다")
}
