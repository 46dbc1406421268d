package fetcher

import (
	"errors"
	"io"
	"net/http"
)

// DefaultMaxBodyBytes 응답 본문의 기본 최대 크기(10MB)입니다.
const DefaultMaxBodyBytes int64 = 10 * 1024 * 1024

// MaxBytesFetcher 응답 본문의 크기를 제한하는 미들웨어입니다.
type MaxBytesFetcher struct {
	delegate Fetcher
	limit    int64
}

// NewMaxBytesFetcher 새로운 MaxBytesFetcher를 생성합니다. limit이 0 이하이면 DefaultMaxBodyBytes를 사용합니다.
func NewMaxBytesFetcher(delegate Fetcher, limit int64) *MaxBytesFetcher {
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	return &MaxBytesFetcher{delegate: delegate, limit: limit}
}

// Do 요청을 위임하고 응답 본문을 제한된 Reader로 감쌉니다.
// Content-Length가 이미 제한을 넘는 경우 본문을 읽지 않고 즉시 에러를 반환합니다.
func (f *MaxBytesFetcher) Do(req *http.Request) (*http.Response, error) {
	resp, err := f.delegate.Do(req)
	if err != nil {
		return resp, err
	}

	if resp.ContentLength > f.limit {
		drainAndCloseBody(resp.Body)
		return nil, newErrResponseBodyTooLarge(f.limit)
	}

	resp.Body = &maxBytesReader{
		ReadCloser: http.MaxBytesReader(nil, resp.Body, f.limit),
		limit:      f.limit,
	}
	return resp, nil
}

// maxBytesReader http.MaxBytesError를 도메인 에러로 변환합니다.
type maxBytesReader struct {
	io.ReadCloser
	limit int64
}

func (r *maxBytesReader) Read(p []byte) (int, error) {
	n, err := r.ReadCloser.Read(p)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return n, newErrResponseBodyTooLarge(r.limit)
		}
	}
	return n, err
}
