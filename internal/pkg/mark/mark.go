// Package mark 알림 본문에서 사용하는 이모지 마커를 모아 둔 패키지입니다.
package mark

// Mark 이모지 마커 타입입니다.
type Mark string

const (
	// 신규 오퍼
	New Mark = "🆕"

	// 가격 하락
	Down Mark = "🔻"

	// 가격 상승
	Up Mark = "🔺"

	// 오류
	Alert Mark = "🚨"
)

// WithSpace 마커 앞에 구분용 공백을 붙여 반환합니다. 빈 마커는 빈 문자열을 반환합니다.
func (m Mark) WithSpace() string {
	if m == "" {
		return ""
	}
	return " " + string(m)
}

// String 마커의 이모지 값을 반환합니다.
func (m Mark) String() string {
	return string(m)
}
