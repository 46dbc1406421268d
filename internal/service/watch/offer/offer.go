// Package offer 목록 페이지에서 추출한 오퍼(Offer)의 정규화된 표현과 가격 해석 규칙을 제공합니다.
package offer

import (
	"strings"

	"github.com/darkkaiser/offer-notifier/pkg/strutil"
	"golang.org/x/text/cases"
)

// Offer 한 번의 감시 주기 안에서 추출된 단일 오퍼입니다. 생성 이후에는 변경하지 않습니다.
//
// Identity만이 주기 간 비교에 사용되는 키이며, 나머지 필드는 페이로드입니다.
type Offer struct {
	Identity string `json:"-"`
	Title    string `json:"title,omitempty"`
	Location string `json:"location"`
	Price    string `json:"price"`
	Link     string `json:"link"`
}

// New 각 필드의 앞뒤 공백을 제거하고 제목으로부터 Identity를 유도하여 Offer를 생성합니다.
func New(title, location, price, link string) Offer {
	title = strings.TrimSpace(title)

	return Offer{
		Identity: NormalizeIdentity(title),
		Title:    title,
		Location: strings.TrimSpace(location),
		Price:    strings.TrimSpace(price),
		Link:     strings.TrimSpace(link),
	}
}

// NormalizeIdentity 표시용 제목을 비교 키로 변환합니다.
// 연속 공백을 하나로 축약하고 유니코드 대소문자 접기(case folding)를 적용합니다.
func NormalizeIdentity(title string) string {
	return cases.Fold().String(strutil.NormalizeSpaces(title))
}

// DisplayTitle 표시용 제목을 반환합니다. 제목이 없으면(예: 이전 버전의 스냅샷) Identity를 반환합니다.
func (o Offer) DisplayTitle() string {
	if o.Title != "" {
		return o.Title
	}
	return o.Identity
}

// NormalizedPrice 비교용으로 정규화된 가격 문자열을 반환합니다.
func (o Offer) NormalizedPrice() string {
	return NormalizePrice(o.Price)
}

// Index 오퍼 목록을 Identity 기준의 맵으로 변환합니다. 같은 Identity가 여러 번 나오면 나중 항목이 남습니다.
func Index(offers []Offer) map[string]Offer {
	m := make(map[string]Offer, len(offers))
	for _, o := range offers {
		m[o.Identity] = o
	}
	return m
}
