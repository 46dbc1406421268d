// Package mocks notification.Notifier의 테스트용 구현을 제공합니다.
package mocks

import (
	"context"
	"sync"

	"github.com/darkkaiser/offer-notifier/internal/service/notification"
)

// RecordingNotifier 발송된 메시지를 기록하는 Notifier입니다. Err가 설정되어 있으면 발송에 실패합니다.
type RecordingNotifier struct {
	NotifierID string
	Err        error

	mu       sync.Mutex
	messages []notification.Message
}

// ID Notifier ID를 반환합니다.
func (n *RecordingNotifier) ID() string {
	if n.NotifierID == "" {
		return "recording"
	}
	return n.NotifierID
}

// Deliver 메시지를 기록하고 Err를 반환합니다. 실패한 발송도 기록됩니다.
func (n *RecordingNotifier) Deliver(_ context.Context, msg notification.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.messages = append(n.messages, msg)
	return n.Err
}

// Messages 지금까지 기록된 메시지의 복사본을 반환합니다.
func (n *RecordingNotifier) Messages() []notification.Message {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]notification.Message(nil), n.messages...)
}
