package log

import (
	"fmt"
	"os"
)

// Options 로거 설정을 위한 구조체입니다.
type Options struct {
	Name  string // 로그 파일명 생성에 사용될 애플리케이션 식별자
	Dir   string // 로그 파일이 저장될 디렉토리 경로 (빈 값: "logs")
	Level Level  // 로그 레벨 (0: Info)

	MaxAge     int // 오래된 로그 삭제 기준일 (일 단위, 0: 삭제 안 함)
	MaxSizeMB  int // 로그 파일 최대 크기 (MB, 0: 100MB)
	MaxBackups int // 최대 백업 파일 수 (0: 20개)

	EnableCriticalLog bool // ERROR 이상 로그를 별도 파일로 분리 저장할지 여부
	EnableVerboseLog  bool // DEBUG 이하 로그를 별도 파일로 분리 저장할지 여부
	EnableConsoleLog  bool // 표준 출력에도 로그를 출력할지 여부

	ReportCaller     bool   // 호출 위치(함수명, 라인번호) 기록 여부
	CallerPathPrefix string // 호출 위치 출력 시 잘라낼 패키지 경로 prefix
}

// Validate Options의 필드 값이 유효한지 검증합니다.
func (opts *Options) Validate() error {
	if opts.Name == "" {
		return fmt.Errorf("애플리케이션 식별자(Name)가 설정되지 않았습니다")
	}

	if opts.Dir != "" {
		if info, err := os.Stat(opts.Dir); err == nil && !info.IsDir() {
			return fmt.Errorf("로그 디렉토리 경로(%s)가 이미 파일로 존재합니다", opts.Dir)
		}
	}

	if opts.MaxAge < 0 {
		return fmt.Errorf("MaxAge는 0 이상이어야 합니다: %d", opts.MaxAge)
	}
	if opts.MaxSizeMB < 0 {
		return fmt.Errorf("MaxSizeMB는 0 이상이어야 합니다: %d", opts.MaxSizeMB)
	}
	if opts.MaxBackups < 0 {
		return fmt.Errorf("MaxBackups는 0 이상이어야 합니다: %d", opts.MaxBackups)
	}

	return nil
}

// NewProductionOptions 운영 환경용 로그 설정을 반환합니다.
// 감시 주기는 짧게 끝나는 배치 작업이므로 콘솔 출력 없이 파일에만 기록합니다.
func NewProductionOptions(appName string) Options {
	return Options{
		Name:  appName,
		Level: InfoLevel,

		MaxAge:     30,
		MaxSizeMB:  20,
		MaxBackups: 10,

		EnableCriticalLog: true,
		EnableVerboseLog:  false,
		EnableConsoleLog:  false,

		ReportCaller:     true,
		CallerPathPrefix: "github.com/darkkaiser",
	}
}

// NewDevelopmentOptions 개발 환경용 로그 설정을 반환합니다.
func NewDevelopmentOptions(appName string) Options {
	return Options{
		Name:  appName,
		Level: TraceLevel,

		MaxAge:     1,
		MaxSizeMB:  10,
		MaxBackups: 3,

		EnableCriticalLog: false,
		EnableVerboseLog:  false,
		EnableConsoleLog:  true,

		ReportCaller:     true,
		CallerPathPrefix: "github.com/darkkaiser",
	}
}
