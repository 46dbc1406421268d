// Package mail SMTP(STARTTLS, PLAIN 인증)로 알림 메일을 발송하는 Notifier를 제공합니다.
package mail

import (
	"context"
	"time"

	"github.com/darkkaiser/offer-notifier/internal/service/notification"
	applog "github.com/darkkaiser/offer-notifier/pkg/log"
	"github.com/darkkaiser/offer-notifier/pkg/strutil"
	gomail "github.com/wneessen/go-mail"
)

// component 로깅용 컴포넌트 이름
const component = "notification.mail"

const (
	DefaultHost    = "smtp.gmail.com"
	DefaultPort    = 587
	DefaultTimeout = 30 * time.Second
)

// Config SMTP 서버 접속 정보입니다. Username과 Password는 인증에 그대로 전달됩니다.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration

	// From, To 메시지에 발신자/수신자가 없을 때 사용하는 기본 주소
	From string
	To   string
}

// sender go-mail Client에서 사용하는 메서드만 추린 인터페이스입니다.
type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error
}

// Notifier 메일 Notifier입니다.
type Notifier struct {
	cfg    Config
	client sender
}

// New SMTP 클라이언트를 구성하여 Notifier를 생성합니다. 연결은 발송할 때마다 새로 맺습니다.
func New(cfg Config) (*Notifier, error) {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	client, err := gomail.NewClient(cfg.Host,
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
		gomail.WithTimeout(cfg.Timeout),
	)
	if err != nil {
		return nil, newErrClientSetupFailed(err, cfg.Host)
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"host":     cfg.Host,
		"port":     cfg.Port,
		"username": cfg.Username,
		"password": strutil.MaskSensitiveData(cfg.Password),
	}).Debug("SMTP 클라이언트 구성 완료")

	return newNotifier(cfg, client), nil
}

func newNotifier(cfg Config, client sender) *Notifier {
	return &Notifier{cfg: cfg, client: client}
}

// ID Notifier ID를 반환합니다.
func (n *Notifier) ID() string {
	return "mail"
}

// Deliver 메시지를 HTML 메일로 발송합니다. 텍스트 본문이 있으면 대체 본문으로 함께 넣습니다.
func (n *Notifier) Deliver(ctx context.Context, msg notification.Message) error {
	m, err := n.buildMsg(msg)
	if err != nil {
		return err
	}

	if err := n.client.DialAndSendWithContext(ctx, m); err != nil {
		return newErrSendFailed(err, n.cfg.Host)
	}
	return nil
}

func (n *Notifier) buildMsg(msg notification.Message) (*gomail.Msg, error) {
	from := msg.From
	if from == "" {
		from = n.cfg.From
	}
	to := msg.To
	if to == "" {
		to = n.cfg.To
	}

	m := gomail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, newErrInvalidAddress(err, "from", from)
	}
	if err := m.To(to); err != nil {
		return nil, newErrInvalidAddress(err, "to", to)
	}
	m.Subject(msg.Subject)

	if msg.TextBody != "" {
		m.SetBodyString(gomail.TypeTextPlain, msg.TextBody)
		m.AddAlternativeString(gomail.TypeTextHTML, msg.HTMLBody)
	} else {
		m.SetBodyString(gomail.TypeTextHTML, msg.HTMLBody)
	}

	return m, nil
}
