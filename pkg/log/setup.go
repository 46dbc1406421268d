package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	fileExt = "log"

	defaultDir        = "logs"
	defaultMaxSizeMB  = 100
	defaultMaxBackups = 20
)

// Setup 주어진 Logger의 출력을 옵션에 따라 구성합니다.
//
// Logger의 기본 출력은 버리고, 레벨별 라우팅은 hook이 담당합니다.
// 프로세스 시작 시 main에서 한 번 호출하며, 반환된 Closer는 종료 시 반드시 닫아야 합니다.
func Setup(logger *Logger, opts Options) (io.Closer, error) {
	if logger == nil {
		return nil, fmt.Errorf("Logger가 nil입니다")
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("유효하지 않은 로그 설정: %w", err)
	}

	level := opts.Level
	if level == 0 {
		level = InfoLevel
	}
	logger.SetLevel(level)
	logger.SetReportCaller(opts.ReportCaller)
	logger.SetFormatter(&silentFormatter{})
	logger.SetOutput(io.Discard)

	dir := opts.Dir
	if dir == "" {
		dir = defaultDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("로그 디렉토리 생성 실패: %w", err)
	}

	mainWriter := newRotatingWriter(dir, opts.Name, "", opts)
	h := &hook{
		mainWriter: mainWriter,
		formatter:  newTextFormatter(opts.CallerPathPrefix),
	}
	closers := []io.Closer{mainWriter}

	if opts.EnableCriticalLog {
		w := newRotatingWriter(dir, opts.Name, "critical", opts)
		h.criticalWriter = w
		closers = append(closers, w)
	}
	if opts.EnableVerboseLog {
		w := newRotatingWriter(dir, opts.Name, "verbose", opts)
		h.verboseWriter = w
		closers = append(closers, w)
	}
	if opts.EnableConsoleLog {
		h.consoleWriter = os.Stdout
	}

	logger.AddHook(h)

	c := &closer{closers: closers, hook: h}

	// Fatal 로그 발생 시(os.Exit 직전) 남은 로그를 디스크에 기록한다.
	logrus.RegisterExitHandler(func() {
		_ = c.Close()
	})

	return c, nil
}

func newRotatingWriter(dir, name, suffix string, opts Options) *lumberjack.Logger {
	maxSize := opts.MaxSizeMB
	if maxSize == 0 {
		maxSize = defaultMaxSizeMB
	}
	maxBackups := opts.MaxBackups
	if maxBackups == 0 {
		maxBackups = defaultMaxBackups
	}

	fileName := fmt.Sprintf("%s.%s", name, fileExt)
	if suffix != "" {
		fileName = fmt.Sprintf("%s.%s.%s", name, suffix, fileExt)
	}

	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, fileName),
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		MaxAge:     opts.MaxAge,
		LocalTime:  true,
	}
}

func newTextFormatter(callerPathPrefix string) *logrus.TextFormatter {
	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		CallerPrettyfier: func(frame *runtime.Frame) (function string, file string) {
			function = frame.Function + "(line:" + strconv.Itoa(frame.Line) + ")"
			if callerPathPrefix != "" {
				if cut, found := strings.CutPrefix(function, callerPathPrefix); found {
					function = "..." + cut
				}
			}
			return
		},
	}
}

// silentFormatter Logger의 기본 출력 경로에서 포맷팅 비용이 들지 않도록 아무 것도 하지 않습니다.
// 실제 포맷팅은 hook에서 수행합니다.
type silentFormatter struct{}

func (f *silentFormatter) Format(_ *logrus.Entry) ([]byte, error) {
	return nil, nil
}
