package errors

//go:generate stringer -type=ErrorType

// ErrorType 에러의 종류를 나타내는 타입입니다.
type ErrorType int

// 에러 타입 상수
const (
	// Unknown 알 수 없는 에러
	Unknown ErrorType = iota

	// Internal 내부 로직 오류 (버그 등)
	Internal

	// System 시스템 또는 인프라 오류 (디스크, 데이터베이스 등)
	System

	// InvalidInput 잘못된 입력값 (설정 파일 검증 실패 등)
	InvalidInput

	// NotFound 리소스를 찾을 수 없음
	NotFound

	// ExecutionFailed 수행 실패 (4xx 응답, 외부 API 호출 거부 등)
	ExecutionFailed

	// ParsingFailed 데이터 파싱 또는 형식 변환 실패
	ParsingFailed

	// Timeout 작업 시간 초과
	Timeout

	// Unavailable 원격 서비스 일시적 사용 불가 (5xx, 429, 네트워크 단절, 메일 서버 장애 등)
	Unavailable
)
