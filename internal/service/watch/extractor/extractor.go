// Package extractor 목록 페이지 문서에서 선언적 선택자(Selectors)로 오퍼 목록을 추출합니다.
package extractor

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	apperrors "github.com/darkkaiser/offer-notifier/internal/pkg/errors"
	"github.com/darkkaiser/offer-notifier/internal/service/watch/offer"
	applog "github.com/darkkaiser/offer-notifier/pkg/log"
)

// component 로깅용 컴포넌트 이름
const component = "watch.extractor"

// Selectors 오퍼 하나를 구성하는 요소들을 찾기 위한 CSS 선택자 집합입니다.
//
// Header, Price, Location은 Wrapper 요소 하위에서 검색합니다.
// 링크는 선택자와 관계없이 Wrapper 하위의 첫 번째 <a> 요소를 사용합니다.
type Selectors struct {
	Wrapper  string `json:"wrapper"`
	Header   string `json:"header"`
	Price    string `json:"price"`
	Location string `json:"location"`
}

// Validate 모든 선택자가 비어 있지 않고 CSS 선택자로 해석 가능한지 검증합니다.
func (s Selectors) Validate() error {
	for _, f := range []struct {
		name, value string
	}{
		{"wrapper", s.Wrapper},
		{"header", s.Header},
		{"price", s.Price},
		{"location", s.Location},
	} {
		if strings.TrimSpace(f.value) == "" {
			return apperrors.Newf(apperrors.InvalidInput, "%s 선택자가 비어 있습니다", f.name)
		}
		if _, err := cascadia.Compile(f.value); err != nil {
			return apperrors.Wrapf(err, apperrors.InvalidInput, "%s 선택자(%q)를 해석할 수 없습니다", f.name, f.value)
		}
	}
	return nil
}

// Extract 문서에서 오퍼 목록을 추출합니다.
//
// Wrapper 요소마다 헤더, 링크, 가격, 위치를 하나씩 찾으며, 그중 하나라도 없으면 해당 Wrapper는 조용히 건너뜁니다.
// 링크의 href는 base를 기준으로 절대 URL로 변환됩니다. 결과는 문서 순서를 따르며 정렬이나 중복 제거는 하지 않습니다.
func Extract(doc *goquery.Document, base *url.URL, sel Selectors) []offer.Offer {
	var offers []offer.Offer
	var skipped int

	doc.Find(sel.Wrapper).Each(func(i int, wrapper *goquery.Selection) {
		o, ok := extractOne(wrapper, base, sel)
		if !ok {
			skipped++
			return
		}
		offers = append(offers, o)
	})

	if skipped > 0 {
		applog.WithComponentAndFields(component, applog.Fields{
			"url":       base.String(),
			"extracted": len(offers),
			"skipped":   skipped,
		}).Debug("필수 요소가 없는 오퍼 블록을 건너뛰었습니다")
	}

	return offers
}

func extractOne(wrapper *goquery.Selection, base *url.URL, sel Selectors) (offer.Offer, bool) {
	header := wrapper.Find(sel.Header).First()
	link := wrapper.Find("a").First()
	price := wrapper.Find(sel.Price).First()
	location := wrapper.Find(sel.Location).First()

	if header.Length() == 0 || link.Length() == 0 || price.Length() == 0 || location.Length() == 0 {
		return offer.Offer{}, false
	}

	href, exists := link.Attr("href")
	if !exists {
		return offer.Offer{}, false
	}

	absoluteLink, err := ResolveLink(base, href)
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"href":  href,
			"error": err,
		}).Debug("링크를 해석할 수 없는 오퍼 블록을 건너뛰었습니다")
		return offer.Offer{}, false
	}

	return offer.New(header.Text(), location.Text(), price.Text(), absoluteLink), true
}

// ResolveLink href를 base 기준의 절대 URL로 변환합니다.
func ResolveLink(base *url.URL, href string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}
