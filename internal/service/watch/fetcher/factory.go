package fetcher

import (
	"time"

	"golang.org/x/time/rate"
)

// Config Fetcher 체인을 구성하기 위한 설정입니다.
type Config struct {
	// Timeout HTTP 요청 전체에 대한 제한 시간입니다. 0 이하이면 DefaultTimeout을 사용합니다.
	Timeout time.Duration

	// UserAgent 요청에 사용할 User-Agent입니다. 비어 있으면 DefaultUserAgent를 사용합니다.
	UserAgent string

	// MaxBodyBytes 응답 본문의 최대 크기입니다. 0 이하이면 DefaultMaxBodyBytes를 사용합니다.
	MaxBodyBytes int64

	// MinRequestInterval 연속된 요청 사이의 최소 간격입니다. 0이면 속도 제한을 하지 않습니다.
	MinRequestInterval time.Duration
}

// New 설정에 따라 Fetcher 체인을 조립합니다.
//
//	LoggingFetcher → RateLimitFetcher → MaxBytesFetcher → HTTPFetcher
func New(cfg Config) Fetcher {
	var f Fetcher = NewHTTPFetcher(cfg.Timeout, cfg.UserAgent)

	f = NewMaxBytesFetcher(f, cfg.MaxBodyBytes)

	if cfg.MinRequestInterval > 0 {
		f = NewRateLimitFetcher(f, rate.NewLimiter(rate.Every(cfg.MinRequestInterval), 1))
	}

	return NewLoggingFetcher(f)
}
