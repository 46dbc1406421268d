// Package fetcher 목록 페이지를 가져오기 위한 HTTP 요청 수행 계층을 제공합니다.
//
// Fetcher는 데코레이터 방식으로 조합됩니다.
//
//	LoggingFetcher → RateLimitFetcher → MaxBytesFetcher → HTTPFetcher
//
// 재시도는 수행하지 않습니다. 실패한 요청은 해당 소스의 주기를 중단시키며 다음 주기에서 다시 시도됩니다.
package fetcher

import (
	"context"
	"io"
	"net/http"
)

// component 로깅용 컴포넌트 이름
const component = "watch.fetcher"

// Fetcher HTTP 요청을 수행하는 인터페이스입니다.
type Fetcher interface {
	Do(req *http.Request) (*http.Response, error)
}

// Get 지정된 URL로 GET 요청을 수행합니다.
//
// 반환된 응답의 상태 코드는 검사하지 않습니다. 호출자가 CheckResponseStatus로 확인해야 하며,
// 응답 본문은 호출자가 닫아야 합니다.
func Get(ctx context.Context, f Fetcher, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, newErrInvalidRequest(err, url)
	}

	resp, err := f.Do(req)
	if err != nil {
		if resp != nil {
			drainAndCloseBody(resp.Body)
		}
		return nil, err
	}

	return resp, nil
}

// drainAndCloseBody 연결 재사용을 위해 남은 본문을 일정량 읽어 버린 뒤 닫습니다.
func drainAndCloseBody(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.CopyN(io.Discard, body, 64*1024)
	_ = body.Close()
}
