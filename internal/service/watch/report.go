package watch

import (
	"fmt"
)

// CycleState 감시 주기의 상태입니다.
type CycleState int

const (
	StateEvaluating CycleState = iota
	StateNotifying
	StateSkipping
	StatePersisted
	StateFailed
)

func (s CycleState) String() string {
	switch s {
	case StateEvaluating:
		return "Evaluating"
	case StateNotifying:
		return "Notifying"
	case StateSkipping:
		return "Skipping"
	case StatePersisted:
		return "Persisted"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// CycleReport 소스 하나의 주기 실행 결과입니다.
type CycleReport struct {
	SourceID string

	// State 주기가 마지막으로 도달한 상태. 정상 종료면 StatePersisted입니다.
	State CycleState

	// Skipped 수집 허용 시간대 밖이라 수집하지 않았는지 여부
	Skipped bool

	FirstRun bool
	Offers   int
	New      int
	Changed  int

	Notified    bool
	DeliveryErr error

	// Err 주기를 중단시킨 에러 (RunAll에서만 채워집니다)
	Err error
}

// Failed 주기가 중단되었는지 여부를 반환합니다. 알림 발송 실패만 있었다면 실패가 아닙니다.
func (r CycleReport) Failed() bool {
	return r.State == StateFailed
}

func (r CycleReport) String() string {
	return fmt.Sprintf("%s: state=%s offers=%d new=%d changed=%d notified=%t", r.SourceID, r.State, r.Offers, r.New, r.Changed, r.Notified)
}

// Summary RunAll의 실행 결과입니다.
type Summary struct {
	Reports []CycleReport
}

// Failed 중단된 주기의 수를 반환합니다. 0보다 크면 프로세스는 종료 코드 1로 끝나야 합니다.
func (s Summary) Failed() int {
	n := 0
	for _, r := range s.Reports {
		if r.Failed() {
			n++
		}
	}
	return n
}

// Notified 알림을 발송한 주기의 수를 반환합니다.
func (s Summary) Notified() int {
	n := 0
	for _, r := range s.Reports {
		if r.Notified {
			n++
		}
	}
	return n
}

// DeliveryFailed 알림 발송에 실패한 주기의 수를 반환합니다.
func (s Summary) DeliveryFailed() int {
	n := 0
	for _, r := range s.Reports {
		if r.DeliveryErr != nil {
			n++
		}
	}
	return n
}
