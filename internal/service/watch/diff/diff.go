// Package diff 현재 추출된 오퍼 목록을 직전 스냅샷과 비교하여 각 오퍼를 분류합니다.
//
// 비교 키는 Identity이며 가격은 공백을 제거한 문자열로 비교합니다. 숫자 해석은 가격 변동의
// 방향을 정할 때만 사용하므로 "100.0"과 "100"은 가격 변동(방향 없음)으로 분류됩니다.
// 사라진 오퍼는 분류하지 않습니다.
package diff

import (
	"github.com/darkkaiser/offer-notifier/internal/service/watch/offer"
)

// Kind 오퍼 분류 결과입니다.
type Kind int

const (
	Unchanged Kind = iota
	NewOffer
	PriceChanged
)

func (k Kind) String() string {
	switch k {
	case Unchanged:
		return "Unchanged"
	case NewOffer:
		return "NewOffer"
	case PriceChanged:
		return "PriceChanged"
	default:
		return "Unknown"
	}
}

// Direction 가격 변동의 방향입니다. 두 가격 중 하나라도 숫자로 해석할 수 없거나 수치상 같으면 None입니다.
type Direction int

const (
	None Direction = iota
	Down
	Up
)

func (d Direction) String() string {
	switch d {
	case None:
		return "None"
	case Down:
		return "Down"
	case Up:
		return "Up"
	default:
		return "Unknown"
	}
}

// Classified 분류가 끝난 오퍼입니다. PreviousPrice와 Direction은 PriceChanged일 때만 의미가 있습니다.
type Classified struct {
	Offer         offer.Offer
	Kind          Kind
	PreviousPrice string
	Direction     Direction
}

// PriceParseFailure 변동 방향을 정하지 못한 가격입니다. 분류는 PriceChanged로 유지됩니다.
type PriceParseFailure struct {
	Identity string
	Price    string
	Err      error
}

// Counts 분류별 오퍼 개수입니다.
type Counts struct {
	New       int
	Changed   int
	Unchanged int
}

// Result 한 번의 비교 결과입니다.
type Result struct {
	// Offers 입력 순서를 유지한 분류 결과
	Offers []Classified

	NewIdentities     map[string]struct{}
	ChangedIdentities map[string]struct{}

	// ShouldNotify 알림을 보내야 하는지 여부
	ShouldNotify bool

	// ParseFailures 숫자로 해석하지 못한 가격 목록. 호출자가 소스 정보와 함께 경고로 남긴다.
	ParseFailures []PriceParseFailure
}

// Counts 분류별 개수를 집계합니다.
func (r Result) Counts() Counts {
	var c Counts
	for _, co := range r.Offers {
		switch co.Kind {
		case NewOffer:
			c.New++
		case PriceChanged:
			c.Changed++
		default:
			c.Unchanged++
		}
	}
	return c
}

// Lookup previous에서 identity에 해당하는 오퍼를 찾습니다.
func Lookup(previous map[string]offer.Offer, identity string) (offer.Offer, bool) {
	o, ok := previous[identity]
	return o, ok
}

// Classify current의 각 오퍼를 previous와 비교하여 분류합니다.
//
// firstRun이면 비교 대상이 없으므로 모든 오퍼가 Unchanged로 분류되고, 목록이 비어 있지 않은 한
// 알림 대상이 됩니다. 그 외에는 NewOffer 또는 PriceChanged가 하나라도 있을 때만 알림 대상입니다.
func Classify(current []offer.Offer, previous map[string]offer.Offer, firstRun bool) Result {
	result := Result{
		Offers:            make([]Classified, 0, len(current)),
		NewIdentities:     make(map[string]struct{}),
		ChangedIdentities: make(map[string]struct{}),
	}

	if firstRun {
		for _, o := range current {
			result.Offers = append(result.Offers, Classified{Offer: o, Kind: Unchanged})
		}
		result.ShouldNotify = len(current) > 0
		return result
	}

	for _, o := range current {
		c, failure := classifyOne(o, previous)
		if failure != nil {
			result.ParseFailures = append(result.ParseFailures, *failure)
		}
		switch c.Kind {
		case NewOffer:
			result.NewIdentities[o.Identity] = struct{}{}
		case PriceChanged:
			result.ChangedIdentities[o.Identity] = struct{}{}
		}
		result.Offers = append(result.Offers, c)
	}
	result.ShouldNotify = len(result.NewIdentities) > 0 || len(result.ChangedIdentities) > 0

	return result
}

func classifyOne(o offer.Offer, previous map[string]offer.Offer) (Classified, *PriceParseFailure) {
	prev, ok := Lookup(previous, o.Identity)
	if !ok {
		return Classified{Offer: o, Kind: NewOffer}, nil
	}

	if offer.NormalizePrice(o.Price) == offer.NormalizePrice(prev.Price) {
		return Classified{Offer: o, Kind: Unchanged}, nil
	}

	dir, failure := direction(o.Identity, prev.Price, o.Price)
	return Classified{
		Offer:         o,
		Kind:          PriceChanged,
		PreviousPrice: prev.Price,
		Direction:     dir,
	}, failure
}

func direction(identity, previous, current string) (Direction, *PriceParseFailure) {
	prevValue, err := offer.ParsePrice(previous)
	if err != nil {
		return None, &PriceParseFailure{Identity: identity, Price: previous, Err: err}
	}
	curValue, err := offer.ParsePrice(current)
	if err != nil {
		return None, &PriceParseFailure{Identity: identity, Price: current, Err: err}
	}

	switch curValue.Cmp(prevValue) {
	case -1:
		return Down, nil
	case 1:
		return Up, nil
	default:
		return None, nil
	}
}
