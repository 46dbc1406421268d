// Package scraper 목록 페이지를 가져와 문자 인코딩을 UTF-8로 맞춘 뒤 goquery 문서로 파싱합니다.
package scraper

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	apperrors "github.com/darkkaiser/offer-notifier/internal/pkg/errors"
	"github.com/darkkaiser/offer-notifier/internal/service/watch/fetcher"
	applog "github.com/darkkaiser/offer-notifier/pkg/log"
	"golang.org/x/net/html/charset"
)

// component 로깅용 컴포넌트 이름
const component = "watch.scraper"

// peekSize 인코딩 감지를 위해 미리 읽는 바이트 수
const peekSize = 1024

// FetchDocument 지정된 URL의 페이지를 가져와 파싱합니다.
//
// 반환되는 모든 에러는 apperrors 타입을 가집니다.
//   - 네트워크 오류, 5xx, 429: Unavailable (타임아웃은 Timeout)
//   - 그 밖의 비정상 상태 코드, 본문 크기 초과: ExecutionFailed
//   - 문서 파싱 실패: ParsingFailed
func FetchDocument(ctx context.Context, f fetcher.Fetcher, rawURL string) (*goquery.Document, error) {
	resp, err := fetcher.Get(ctx, f, rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := fetcher.CheckResponseStatus(resp); err != nil {
		return nil, err
	}

	base := resp.Request.URL
	if base == nil {
		base, _ = url.Parse(rawURL)
	}

	return ParseDocument(ctx, resp.Body, base, resp.Header.Get("Content-Type"))
}

// ParseDocument r에서 HTML을 읽어 goquery 문서를 생성합니다.
// 인코딩은 contentType의 charset, BOM, meta 태그 순으로 판단하며 문서의 Url은 base로 설정됩니다.
func ParseDocument(ctx context.Context, r io.Reader, base *url.URL, contentType string) (*goquery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.Unavailable, "작업이 취소되었습니다")
	}

	// charset.NewReader는 내부 버퍼링 때문에 앞부분을 잃을 수 있으므로 직접 Peek한 뒤 결정한다.
	bufReader := bufio.NewReader(&contextAwareReader{ctx: ctx, r: r})
	peekBytes, _ := bufReader.Peek(peekSize)

	var utf8Reader io.Reader = bufReader
	e, name, certain := charset.DetermineEncoding(peekBytes, contentType)
	if e != nil {
		utf8Reader = e.NewDecoder().Reader(bufReader)
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"url":      fetcher.RedactURL(base),
		"encoding": name,
		"certain":  certain,
	}).Debug("문서 인코딩 결정")

	doc, err := goquery.NewDocumentFromReader(utf8Reader)
	if err != nil {
		if errors.Is(err, fetcher.ErrResponseBodyTooLarge) {
			return nil, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, apperrors.Wrap(ctxErr, apperrors.Unavailable, "문서를 읽는 도중 작업이 취소되었습니다")
		}
		return nil, newErrHTMLParseFailed(err, fetcher.RedactURL(base))
	}
	doc.Url = base

	return doc, nil
}

// contextAwareReader 읽기 전에 Context 취소 여부를 확인하는 Reader입니다.
type contextAwareReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *contextAwareReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}
