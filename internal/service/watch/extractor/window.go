package extractor

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Window 소스를 수집해도 되는 시간대(요일, 시각)를 나타냅니다.
//
// 빈 Weekdays는 모든 요일을 뜻하고, StartHour == EndHour이면 하루 종일을 뜻합니다.
// StartHour > EndHour이면 자정을 넘어가는 구간입니다 (예: 22시 ~ 6시). 이때 요일은 t가 속한 날짜 기준입니다.
// 제로 값 Window는 항상 수집을 허용합니다.
type Window struct {
	Weekdays  []time.Weekday
	StartHour int
	EndHour   int

	// Location 요일과 시각을 판단할 시간대. nil이면 t의 시간대를 그대로 사용한다.
	Location *time.Location
}

// Contains t가 수집 허용 구간에 포함되는지 반환합니다.
func (w Window) Contains(t time.Time) bool {
	if w.Location != nil {
		t = t.In(w.Location)
	}

	if len(w.Weekdays) > 0 && !slices.Contains(w.Weekdays, t.Weekday()) {
		return false
	}

	h := t.Hour()
	switch {
	case w.StartHour == w.EndHour:
		return true
	case w.StartHour < w.EndHour:
		return h >= w.StartHour && h < w.EndHour
	default:
		return h >= w.StartHour || h < w.EndHour
	}
}

// String 로그 출력용 문자열을 반환합니다. 예: "mon,fri 08-20 Europe/Warsaw"
func (w Window) String() string {
	days := "*"
	if len(w.Weekdays) > 0 {
		names := make([]string, 0, len(w.Weekdays))
		for _, d := range w.Weekdays {
			names = append(names, strings.ToLower(d.String()[:3]))
		}
		days = strings.Join(names, ",")
	}

	loc := "local"
	if w.Location != nil {
		loc = w.Location.String()
	}

	return fmt.Sprintf("%s %02d-%02d %s", days, w.StartHour, w.EndHour, loc)
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// ParseWeekday 요일 이름("mon", "Monday" 등)을 time.Weekday로 변환합니다.
func ParseWeekday(s string) (time.Weekday, error) {
	d, ok := weekdayNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("알 수 없는 요일입니다: %q", s)
	}
	return d, nil
}
