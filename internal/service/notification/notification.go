// Package notification 렌더링된 알림 메시지를 하나 이상의 채널(메일, 텔레그램)로 발송합니다.
package notification

import (
	"context"
	"errors"
	"fmt"

	applog "github.com/darkkaiser/offer-notifier/pkg/log"
)

// component 로깅용 컴포넌트 이름
const component = "notification"

// Message 발송할 알림 메시지입니다.
type Message struct {
	From     string
	To       string
	Subject  string
	HTMLBody string

	// TextBody HTML을 표시할 수 없는 채널에서 사용하는 일반 텍스트 본문
	TextBody string
}

// Notifier 단일 채널로 메시지를 발송하는 인터페이스입니다.
type Notifier interface {
	// ID 로그와 에러 메시지에서 채널을 구분하기 위한 식별자입니다.
	ID() string

	// Deliver 메시지를 발송합니다. 발송이 끝나거나 실패할 때까지 블로킹됩니다.
	Deliver(ctx context.Context, msg Message) error
}

// Dispatcher 하나의 메시지를 등록된 모든 Notifier로 발송합니다.
type Dispatcher struct {
	notifiers []Notifier
}

// NewDispatcher 새로운 Dispatcher를 생성합니다. nil Notifier는 무시됩니다.
func NewDispatcher(notifiers ...Notifier) *Dispatcher {
	d := &Dispatcher{}
	for _, n := range notifiers {
		if n != nil {
			d.notifiers = append(d.notifiers, n)
		}
	}
	return d
}

// Notifiers 등록된 Notifier의 ID 목록을 반환합니다.
func (d *Dispatcher) Notifiers() []string {
	ids := make([]string, 0, len(d.notifiers))
	for _, n := range d.notifiers {
		ids = append(ids, n.ID())
	}
	return ids
}

// Dispatch 등록된 순서대로 모든 Notifier에 메시지를 발송합니다.
//
// 한 채널의 실패가 다른 채널의 발송을 막지 않습니다. 실패가 하나라도 있으면 모든 실패를 묶은
// Unavailable 타입의 에러를 반환합니다.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) error {
	if len(d.notifiers) == 0 {
		return newErrDeliveryFailed([]error{ErrNoNotifiers})
	}

	var failures []error
	for _, n := range d.notifiers {
		logger := applog.WithComponentAndFields(component, applog.Fields{
			"notifier_id": n.ID(),
			"subject":     msg.Subject,
		})

		if err := n.Deliver(ctx, msg); err != nil {
			logger.WithError(err).Error("알림 발송 실패")
			failures = append(failures, fmt.Errorf("%s: %w", n.ID(), err))
			continue
		}

		logger.Info("알림 발송 완료")
	}

	if len(failures) > 0 {
		return newErrDeliveryFailed(failures)
	}
	return nil
}

// joinFailures errors.Join과 같지만 실패가 하나면 그대로 반환합니다.
func joinFailures(failures []error) error {
	if len(failures) == 1 {
		return failures[0]
	}
	return errors.Join(failures...)
}
