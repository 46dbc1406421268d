package fetcher

import (
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimitFetcher 같은 프로세스에서 나가는 요청의 속도를 제한하는 미들웨어입니다.
// 여러 소스가 같은 호스트를 가리킬 때 대상 사이트에 부담을 주지 않기 위해 사용합니다.
type RateLimitFetcher struct {
	delegate Fetcher
	limiter  *rate.Limiter
}

// NewRateLimitFetcher 새로운 RateLimitFetcher를 생성합니다.
// limiter가 nil이면 제한 없이 위임합니다.
func NewRateLimitFetcher(delegate Fetcher, limiter *rate.Limiter) *RateLimitFetcher {
	return &RateLimitFetcher{delegate: delegate, limiter: limiter}
}

// Do 토큰을 획득할 때까지 대기한 후 요청을 위임합니다. 대기 중 Context가 취소되면 에러를 반환합니다.
func (f *RateLimitFetcher) Do(req *http.Request) (*http.Response, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(req.Context()); err != nil {
			return nil, newErrRateLimitWait(err)
		}
	}
	return f.delegate.Do(req)
}
