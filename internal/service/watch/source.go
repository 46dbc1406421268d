// Package watch 감시 대상 소스마다 수집 → 비교 → 알림 → 스냅샷 저장으로 이어지는 한 주기를 실행합니다.
//
// 한 주기의 상태 전이는 다음과 같습니다.
//
//	Evaluating ──(알림 대상)──▶ Notifying ──▶ Persisted
//	     │                                      ▲
//	     └────(알림 대상 아님)──▶ Skipping ──────┘
//
// 목록 페이지 수집이나 스냅샷 조회에 실패하면 Failed로 끝나며 스냅샷은 저장하지 않습니다.
// 알림 발송 실패는 기록만 하고 스냅샷은 그대로 저장합니다.
package watch

import (
	"github.com/darkkaiser/offer-notifier/internal/service/watch/extractor"
	"github.com/darkkaiser/offer-notifier/internal/service/watch/report"
)

// component 로깅용 컴포넌트 이름
const component = "watch.runner"

// Source 감시 대상 소스 하나의 설정입니다. 소스별 차이는 모두 이 값으로 표현합니다.
type Source struct {
	ID string

	// Title 알림 제목의 앞부분
	Title string

	// Heading 템플릿이 없을 때 사용하는 기본 문서의 제목
	Heading string

	// URL 목록 페이지 주소. 링크의 상대 경로를 해석하는 기준이기도 합니다.
	URL string

	Selectors extractor.Selectors

	// StorageKey 스냅샷 저장 키
	StorageKey string

	// Window 수집 허용 시간대. 제로 값이면 항상 수집합니다.
	Window extractor.Window

	// TemplateFile 소스 전용 템플릿. 비어 있으면 AppContext의 기본 템플릿을 사용합니다.
	TemplateFile string

	Hooks report.Hooks
}
