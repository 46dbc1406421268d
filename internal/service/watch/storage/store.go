// Package storage 감시 대상 소스별 마지막 스냅샷(Identity → Offer)을 저장하고 불러오는 저장소를 제공합니다.
//
// 스냅샷 문서는 Identity를 키로 하는 평탄한 JSON 객체입니다.
//
//	{
//	  "hotel x": {"title": "Hotel X", "location": "Warszawa", "price": "999", "link": "https://r.pl/..."},
//	  ...
//	}
package storage

import (
	"context"
	"encoding/json"

	"github.com/darkkaiser/offer-notifier/internal/service/watch/offer"
)

// component 로깅용 컴포넌트 이름
const component = "watch.storage"

// State 스냅샷 조회 결과의 상태입니다.
type State int

const (
	// NoPriorSnapshot 이전에 저장된 스냅샷이 없습니다. 해당 소스의 첫 실행을 의미합니다.
	NoPriorSnapshot State = iota

	// PriorSnapshot 이전 스냅샷이 존재합니다. 비어 있는 스냅샷일 수도 있습니다.
	PriorSnapshot
)

func (s State) String() string {
	switch s {
	case NoPriorSnapshot:
		return "NoPriorSnapshot"
	case PriorSnapshot:
		return "PriorSnapshot"
	default:
		return "Unknown"
	}
}

// LoadResult SnapshotStore.Load의 결과입니다.
type LoadResult struct {
	State  State
	Offers map[string]offer.Offer
}

// FirstRun 이전 스냅샷이 없는 첫 실행인지 여부를 반환합니다.
func (r LoadResult) FirstRun() bool {
	return r.State == NoPriorSnapshot
}

// SnapshotStore 소스별 스냅샷 저장소 인터페이스입니다.
//
// Save는 항상 문서 전체를 교체하며, 같은 Identity가 여러 번 나오면 나중 항목이 남습니다.
type SnapshotStore interface {
	Load(ctx context.Context, key string) (LoadResult, error)
	Save(ctx context.Context, key string, offers []offer.Offer) error
}

// encodeSnapshot 오퍼 목록을 Identity 기준으로 다시 묶어 스냅샷 문서로 직렬화합니다.
// encoding/json은 맵 키를 정렬하므로 같은 내용이면 항상 같은 바이트열이 나온다.
func encodeSnapshot(offers []offer.Offer) ([]byte, error) {
	data, err := json.MarshalIndent(offer.Index(offers), "", "\t")
	if err != nil {
		return nil, newErrSnapshotEncodeFailed(err)
	}
	return data, nil
}

// decodeSnapshot 스냅샷 문서를 역직렬화하고 각 Offer의 Identity를 문서의 키로 채웁니다.
func decodeSnapshot(key string, data []byte) (LoadResult, error) {
	var doc map[string]offer.Offer
	if err := json.Unmarshal(data, &doc); err != nil {
		return LoadResult{}, newErrSnapshotDecodeFailed(err, key)
	}

	offers := make(map[string]offer.Offer, len(doc))
	for identity, o := range doc {
		o.Identity = identity
		offers[identity] = o
	}

	return LoadResult{State: PriorSnapshot, Offers: offers}, nil
}
