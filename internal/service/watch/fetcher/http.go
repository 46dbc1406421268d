package fetcher

import (
	"net/http"
	"time"
)

const (
	// DefaultTimeout HTTP 요청 전체(본문 수신 포함)에 대한 기본 제한 시간입니다.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent 요청에 User-Agent가 없을 때 사용하는 값입니다.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

// HTTPFetcher net/http 클라이언트로 실제 요청을 전송하는 기본 Fetcher입니다.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// NewHTTPFetcher 새로운 HTTPFetcher를 생성합니다.
// timeout이 0 이하이면 DefaultTimeout을, userAgent가 비어 있으면 DefaultUserAgent를 사용합니다.
func NewHTTPFetcher(timeout time.Duration, userAgent string) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &HTTPFetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
	}
}

// Do 요청을 전송합니다. 네트워크 계층 에러는 도메인 에러로 변환됩니다.
func (h *HTTPFetcher) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", h.userAgent)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return resp, newErrRequestFailed(err, RedactURL(req.URL))
	}
	return resp, nil
}
