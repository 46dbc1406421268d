// Package config 애플리케이션 설정 파일과 자격 증명 파일을 읽어 검증된 설정 값을 제공합니다.
package config

import (
	"strings"
	"time"

	"github.com/darkkaiser/offer-notifier/internal/service/watch/extractor"
)

const (
	// AppName 애플리케이션의 전역 고유 식별자입니다.
	AppName string = "offer-notifier"

	// DefaultFilename 실행 인자로 설정 파일 경로가 주어지지 않을 때 사용하는 기본 설정 파일명입니다.
	DefaultFilename = AppName + ".json"

	// DefaultCredentialsFilename 메일 발송 계정 정보가 담긴 기본 자격 증명 파일명입니다.
	DefaultCredentialsFilename = "credentials.json"

	// EnvPrefix 설정 값을 덮어쓰는 환경 변수의 접두사입니다.
	// 예: OFFER_NOTIFIER__SMTP__PORT=465 -> smtp.port
	EnvPrefix = "OFFER_NOTIFIER__"

	// CredentialsEnvPrefix 자격 증명을 덮어쓰는 환경 변수의 접두사입니다.
	// 예: OFFER_NOTIFIER_CREDENTIALS__PASSWORD -> password
	CredentialsEnvPrefix = "OFFER_NOTIFIER_CREDENTIALS__"
)

const (
	StorageDriverFile   = "file"
	StorageDriverSQLite = "sqlite"
)

const (
	PriceFormatRaw     = "raw"
	PriceFormatCompact = "compact"
)

// AppConfig 애플리케이션의 모든 설정을 관장하는 최상위 루트 구조체
type AppConfig struct {
	Debug     bool            `json:"debug"`
	Log       LogConfig       `json:"log"`
	HTTP      HTTPConfig      `json:"http"`
	Storage   StorageConfig   `json:"storage"`
	SMTP      SMTPConfig      `json:"smtp"`
	Telegram  TelegramConfig  `json:"telegram"`
	Report    ReportConfig    `json:"report"`
	Scheduler SchedulerConfig `json:"scheduler"`
	Sources   []SourceConfig  `json:"sources" validate:"min=1,unique=ID,dive"`
}

// FindSource ID가 일치하는 소스 설정을 반환합니다.
func (c *AppConfig) FindSource(id string) (SourceConfig, bool) {
	for _, s := range c.Sources {
		if s.ID == id {
			return s, true
		}
	}
	return SourceConfig{}, false
}

// LogConfig 로그 파일 위치와 보관 정책
type LogConfig struct {
	Dir        string `json:"dir"`
	MaxSizeMB  int    `json:"max_size_mb" validate:"min=0"`
	MaxBackups int    `json:"max_backups" validate:"min=0"`
	MaxAgeDays int    `json:"max_age_days" validate:"min=0"`
	Console    bool   `json:"console"`
}

// HTTPConfig 목록 페이지 요청에 사용하는 HTTP 클라이언트 설정
type HTTPConfig struct {
	Timeout      time.Duration `json:"timeout" validate:"min=0"`
	UserAgent    string        `json:"user_agent"`
	MaxBodyBytes int64         `json:"max_body_bytes" validate:"min=0"`

	// MinRequestInterval 연속된 요청 사이의 최소 간격. 0이면 제한하지 않는다.
	MinRequestInterval time.Duration `json:"min_request_interval" validate:"min=0"`
}

// StorageConfig 스냅샷 저장소 설정
type StorageConfig struct {
	Driver     string `json:"driver" validate:"oneof=file sqlite"`
	Dir        string `json:"dir" validate:"required_if=Driver file"`
	SQLitePath string `json:"sqlite_path" validate:"required_if=Driver sqlite"`
}

// SMTPConfig 메일 발송 서버 설정. 계정 정보는 자격 증명 파일에서 읽는다.
type SMTPConfig struct {
	Host    string        `json:"host" validate:"required,hostname_rfc1123|ip"`
	Port    int           `json:"port" validate:"min=1,max=65535"`
	Timeout time.Duration `json:"timeout" validate:"min=0"`
}

// TelegramConfig 보조 알림 채널인 텔레그램 봇 설정
type TelegramConfig struct {
	Enabled  bool   `json:"enabled"`
	BotToken string `json:"bot_token" validate:"required_if=Enabled true,omitempty,telegram_bot_token"`
	ChatID   int64  `json:"chat_id" validate:"required_if=Enabled true"`
}

// ReportConfig 알림 본문 렌더링의 기본값. 소스별 설정이 있으면 그쪽이 우선한다.
type ReportConfig struct {
	TemplateFile string `json:"template_file" validate:"omitempty,file"`
	Currency     string `json:"currency" validate:"required"`
	LinkLabel    string `json:"link_label" validate:"required"`
	NewColor     string `json:"new_color" validate:"required"`
}

// SchedulerConfig serve 명령에서 사용하는 주기 실행 설정
type SchedulerConfig struct {
	Spec       string `json:"spec" validate:"cron"`
	RunOnStart bool   `json:"run_on_start"`
}

// SourceConfig 감시 대상 소스 하나의 설정
type SourceConfig struct {
	ID           string              `json:"id" validate:"required"`
	Title        string              `json:"title" validate:"required"`
	Heading      string              `json:"heading"`
	URL          string              `json:"url" validate:"required,http_url"`
	Selectors    extractor.Selectors `json:"selectors"`
	StorageKey   string              `json:"storage_key"`
	Window       WindowConfig        `json:"window"`
	TemplateFile string              `json:"template_file" validate:"omitempty,file"`
	PriceFormat  string              `json:"price_format" validate:"omitempty,oneof=raw compact"`
}

// Key 스냅샷 저장 키를 반환합니다. 따로 지정하지 않으면 소스 ID를 사용합니다.
func (s SourceConfig) Key() string {
	if strings.TrimSpace(s.StorageKey) != "" {
		return s.StorageKey
	}
	return s.ID
}

// WindowConfig 수집 허용 시간대. 비어 있으면 항상 수집한다.
type WindowConfig struct {
	Weekdays  []string `json:"weekdays" validate:"dive,weekday"`
	StartHour int      `json:"start_hour" validate:"min=0,max=23"`
	EndHour   int      `json:"end_hour" validate:"min=0,max=23"`
	Timezone  string   `json:"timezone" validate:"omitempty,timezone"`
}

// Build 검증된 설정 값을 extractor.Window로 변환합니다.
func (w WindowConfig) Build() (extractor.Window, error) {
	window := extractor.Window{
		StartHour: w.StartHour,
		EndHour:   w.EndHour,
	}

	for _, name := range w.Weekdays {
		d, err := extractor.ParseWeekday(name)
		if err != nil {
			return extractor.Window{}, newErrInvalidWindow(err, w)
		}
		window.Weekdays = append(window.Weekdays, d)
	}

	if w.Timezone != "" {
		loc, err := time.LoadLocation(w.Timezone)
		if err != nil {
			return extractor.Window{}, newErrInvalidWindow(err, w)
		}
		window.Location = loc
	}

	return window, nil
}

// Credentials 메일 발송 계정 정보
type Credentials struct {
	Sender    string `json:"sender" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	Recipient string `json:"recipient" validate:"required,email"`
}

// Default 설정 파일에 값이 없을 때 사용하는 기본 설정을 반환합니다.
func Default() AppConfig {
	return AppConfig{
		Debug: false,
		Log: LogConfig{
			Dir:        "logs",
			MaxSizeMB:  20,
			MaxBackups: 10,
			MaxAgeDays: 30,
		},
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			MaxBodyBytes: 10 * 1024 * 1024,
		},
		Storage: StorageConfig{
			Driver:     StorageDriverFile,
			Dir:        "data",
			SQLitePath: "data/" + AppName + ".db",
		},
		SMTP: SMTPConfig{
			Host:    "smtp.gmail.com",
			Port:    587,
			Timeout: 30 * time.Second,
		},
		Report: ReportConfig{
			Currency:  "PLN",
			LinkLabel: "View Offer",
			NewColor:  "#d9534f",
		},
		Scheduler: SchedulerConfig{
			Spec: "0 0 * * * *",
		},
		Sources: []SourceConfig{DefaultSource()},
	}
}

// DefaultSource 소스 설정이 없을 때 감시하는 R.pl 마지막 순간 특가(końcóweczka) 목록입니다.
func DefaultSource() SourceConfig {
	return SourceConfig{
		ID:      "koncoweczka",
		Title:   "Ending Offers",
		Heading: "Rainbow Ending Offers",
		URL:     "https://r.pl/koncoweczka",
		Selectors: extractor.Selectors{
			Wrapper:  "div.bloczek__wrapper",
			Header:   "p.bloczek__tytul",
			Price:    "span.bloczek__cena",
			Location: "span.bloczek__lokalizacja--text",
		},
		StorageKey: "koncoweczka",
	}
}
