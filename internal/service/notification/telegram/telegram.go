// Package telegram 텔레그램 채팅으로 알림을 발송하는 보조 Notifier를 제공합니다.
package telegram

import (
	"context"
	"net/http"
	"strings"
	"time"
	"unicode/utf16"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/darkkaiser/offer-notifier/internal/service/notification"
	applog "github.com/darkkaiser/offer-notifier/pkg/log"
	"github.com/darkkaiser/offer-notifier/pkg/strutil"
)

// component 로깅용 컴포넌트 이름
const component = "notification.telegram"

// messageMaxLength 텔레그램 메시지 한 건의 최대 길이(UTF-16 코드 단위)
const messageMaxLength = 4096

// defaultTimeout Bot API 호출의 기본 제한 시간
const defaultTimeout = 30 * time.Second

// botClient tgbotapi.BotAPI에서 사용하는 메서드만 추린 인터페이스입니다.
type botClient interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier 텔레그램 Notifier입니다.
type Notifier struct {
	client botClient
	chatID int64
}

// New 봇 토큰으로 Bot API 클라이언트를 생성합니다. 생성 시 getMe 호출로 토큰을 검증합니다.
func New(botToken string, chatID int64) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(botToken, tgbotapi.APIEndpoint, &http.Client{Timeout: defaultTimeout})
	if err != nil {
		return nil, newErrBotInitFailed(err)
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"bot_username": bot.Self.UserName,
		"chat_id":      chatID,
	}).Debug("텔레그램 봇 연결 완료")

	return newNotifier(bot, chatID), nil
}

func newNotifier(client botClient, chatID int64) *Notifier {
	return &Notifier{client: client, chatID: chatID}
}

// ID Notifier ID를 반환합니다.
func (n *Notifier) ID() string {
	return "telegram"
}

// Deliver 제목과 텍스트 본문을 발송합니다. 길이 제한을 넘으면 여러 건으로 나누어 순서대로 보내며,
// 중간에 실패하면 남은 조각은 보내지 않습니다.
func (n *Notifier) Deliver(ctx context.Context, msg notification.Message) error {
	body := msg.TextBody
	if body == "" {
		body = strutil.HTMLToText(msg.HTMLBody)
	}

	text := msg.Subject
	if body != "" {
		text += "\n\n" + body
	}

	for _, chunk := range splitMessage(text, messageMaxLength) {
		if err := ctx.Err(); err != nil {
			return newErrSendCanceled(err)
		}

		if _, err := n.client.Send(tgbotapi.NewMessage(n.chatID, chunk)); err != nil {
			return newErrSendFailed(err, n.chatID)
		}
	}

	return nil
}

// splitMessage 줄 경계를 우선하여 길이가 limit 이하인 조각들로 나눕니다.
// 길이는 텔레그램과 같이 UTF-16 코드 단위로 계산하며, 한 줄이 limit보다 길면 글자 단위로 강제로 자릅니다.
// 조각 경계에 걸린 빈 줄은 앞 조각의 끝에 남기고, 공백뿐인 조각은 보낼 수 없으므로 만들지 않습니다.
func splitMessage(s string, limit int) []string {
	if utf16Len(s) <= limit {
		return []string{s}
	}

	var chunks []string
	var sb strings.Builder
	n := 0
	started := false

	flush := func() {
		if started && strings.TrimSpace(sb.String()) != "" {
			chunks = append(chunks, sb.String())
		}
		sb.Reset()
		n = 0
		started = false
	}

	for line := range strings.SplitSeq(s, "\n") {
		needed := utf16Len(line)
		if started {
			needed++
		}
		if n+needed <= limit {
			if started {
				sb.WriteByte('\n')
			}
			sb.WriteString(line)
			n += needed
			started = true
			continue
		}

		flush()

		for utf16Len(line) > limit {
			head, rest := cutUTF16(line, limit)
			chunks = append(chunks, head)
			line = rest
		}
		sb.WriteString(line)
		n = utf16Len(line)
		started = true
	}
	flush()

	return chunks
}

// utf16Len s를 UTF-16으로 인코딩했을 때의 코드 단위 수를 반환합니다.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += runeWidth(r)
	}
	return n
}

// cutUTF16 s를 앞쪽 limit 코드 단위 이하와 나머지로 나눕니다. 서로게이트 쌍은 나누지 않으며,
// 앞쪽에는 적어도 한 글자가 들어갑니다.
func cutUTF16(s string, limit int) (string, string) {
	n := 0
	for i, r := range s {
		w := runeWidth(r)
		if n+w > limit && i > 0 {
			return s[:i], s[i:]
		}
		n += w
	}
	return s, ""
}

func runeWidth(r rune) int {
	if w := utf16.RuneLen(r); w > 0 {
		return w
	}
	return 1
}
