package offer

import (
	"fmt"

	apperrors "github.com/darkkaiser/offer-notifier/internal/pkg/errors"
)

func newErrPriceNotNumeric(price string, cause error) error {
	msg := fmt.Sprintf("가격을 숫자로 해석할 수 없습니다: %q", price)
	if cause == nil {
		return apperrors.New(apperrors.ParsingFailed, msg)
	}
	return apperrors.Wrap(cause, apperrors.ParsingFailed, msg)
}
