package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
)

// hook 로그 레벨에 따라 Main, Critical, Verbose, Console 채널로 로그를 분배합니다.
//
//   - Console: 모든 레벨
//   - Critical: ERROR 이상
//   - Verbose: DEBUG 이하 (Main에는 기록하지 않음)
//   - Main: INFO 이상
type hook struct {
	mainWriter     io.Writer
	criticalWriter io.Writer
	verboseWriter  io.Writer
	consoleWriter  io.Writer

	formatter Formatter

	mu     sync.RWMutex
	closed bool
}

func (h *hook) Levels() []Level {
	return AllLevels
}

func (h *hook) Fire(entry *Entry) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return nil
	}

	msg, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}

	if h.consoleWriter != nil {
		if _, err := h.consoleWriter.Write(msg); err != nil {
			fmt.Fprintf(os.Stderr, "[LOG-SYSTEM-WARN] 표준 출력 쓰기 실패: %v\n", err)
		}
	}

	var firstErr error

	if entry.Level <= ErrorLevel && h.criticalWriter != nil {
		if _, err := h.criticalWriter.Write(msg); err != nil {
			firstErr = err
			fmt.Fprintf(os.Stderr, "[LOG-SYSTEM-FAILURE] Critical 로그 파일 쓰기 실패: %v\n", err)
		}
	}

	if entry.Level >= DebugLevel {
		if h.verboseWriter != nil {
			if _, err := h.verboseWriter.Write(msg); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}

	if h.mainWriter != nil {
		if _, err := h.mainWriter.Write(msg); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			fmt.Fprintf(os.Stderr, "[LOG-SYSTEM-FAILURE] Main 로그 파일 쓰기 실패: %v\n", err)
		}
	}

	return firstErr
}

func (h *hook) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
}

// closer hook을 먼저 비활성화한 뒤 모든 로그 파일을 닫습니다. 여러 번 호출해도 안전합니다.
type closer struct {
	closers []io.Closer
	hook    *hook
	closed  atomic.Bool
}

func (c *closer) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	if c.hook != nil {
		c.hook.Close()
	}

	var errs error
	for _, cl := range c.closers {
		if cl == nil {
			continue
		}
		if err := cl.Close(); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}
