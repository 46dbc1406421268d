// Package cronx 애플리케이션 전체에서 같은 형식의 Cron 표현식을 쓰도록 표준 파서를 제공합니다.
package cronx

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// StandardParser 초 단위를 포함하는 6필드 형식과 Descriptor(@daily, @every 1h 등)를 해석하는 파서를 반환합니다.
// 표준 5필드 형식은 지원하지 않습니다.
//
//	"0 */30 * * * *" : 매 30분 0초
//	"0 0 8 * * MON-FRI" : 평일 08:00:00
func StandardParser() cron.Parser {
	return cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
}

// Validate spec이 StandardParser로 해석 가능한지 확인합니다.
func Validate(spec string) error {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return fmt.Errorf("cron 표현식이 비어 있습니다")
	}
	if _, err := StandardParser().Parse(spec); err != nil {
		return fmt.Errorf("잘못된 cron 표현식입니다 (%q): %w", spec, err)
	}
	return nil
}

// Next spec에 따라 from 이후 처음 실행될 시각을 반환합니다.
func Next(spec string, from time.Time) (time.Time, error) {
	schedule, err := StandardParser().Parse(strings.TrimSpace(spec))
	if err != nil {
		return time.Time{}, err
	}
	return schedule.Next(from), nil
}
