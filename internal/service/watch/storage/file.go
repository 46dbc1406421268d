package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/darkkaiser/offer-notifier/internal/service/watch/offer"
	applog "github.com/darkkaiser/offer-notifier/pkg/log"
)

const (
	// defaultDataDirectory 스냅샷 파일을 저장할 기본 디렉토리
	defaultDataDirectory = "data"

	// tempFilePattern 원자적 쓰기에 사용하는 임시 파일 이름 패턴
	tempFilePattern = "snapshot-*.tmp"

	// staleTempFileAge 이 시간보다 오래된 임시 파일은 비정상 종료의 잔재로 보고 삭제한다.
	staleTempFileAge = time.Hour
)

// FileStore 소스마다 하나의 JSON 파일로 스냅샷을 저장하는 저장소입니다.
//
// 한 프로세스에서 한 번에 한 주기만 실행되는 것을 전제로 하므로 파일 잠금은 사용하지 않습니다.
// 대신 임시 파일 쓰기 → fsync → rename 순서로 저장하여 중간 상태의 파일이 남지 않도록 합니다.
type FileStore struct {
	baseDir string
}

// 컴파일 타임에 인터페이스 구현 여부를 검증합니다.
var _ SnapshotStore = (*FileStore)(nil)

// NewFileStore 파일 기반 스냅샷 저장소를 생성합니다.
//
// dir이 비어 있으면 "data" 디렉토리를 사용하며, 상대 경로는 절대 경로로 변환됩니다.
// 초기화 시 디렉토리를 생성하고, 이전 실행에서 남은 오래된 임시 파일을 정리합니다.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = defaultDataDirectory
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, newErrPathResolutionFailed(err)
	}

	if err := os.MkdirAll(absDir, 0755); err != nil {
		return nil, newErrDirectoryAccessFailed(err, absDir)
	}

	s := &FileStore{baseDir: absDir}
	s.cleanupStaleTempFiles()

	return s, nil
}

// Dir 스냅샷 파일이 저장되는 절대 경로를 반환합니다.
func (s *FileStore) Dir() string {
	return s.baseDir
}

// Load 저장된 스냅샷을 읽어옵니다. 파일이 없으면 NoPriorSnapshot을 반환합니다.
func (s *FileStore) Load(_ context.Context, key string) (LoadResult, error) {
	path, err := s.resolveSafePath(key)
	if err != nil {
		return LoadResult{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return LoadResult{State: NoPriorSnapshot}, nil
		}
		return LoadResult{}, newErrSnapshotReadFailed(err, key)
	}

	return decodeSnapshot(key, data)
}

// Save 오퍼 목록으로 스냅샷 파일 전체를 교체합니다.
func (s *FileStore) Save(_ context.Context, key string, offers []offer.Offer) error {
	path, err := s.resolveSafePath(key)
	if err != nil {
		return err
	}

	data, err := encodeSnapshot(offers)
	if err != nil {
		return err
	}

	if err := writeAtomic(path, data); err != nil {
		return newErrSnapshotWriteFailed(err, key, "파일 쓰기")
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"storage_key": key,
		"path":        path,
		"offers":      len(offers),
	}).Debug("스냅샷 저장 완료")

	return nil
}

// resolveSafePath 스냅샷 키로부터 파일 경로를 만들고, 그 경로가 저장 디렉토리 안에 있는지 검증합니다.
func (s *FileStore) resolveSafePath(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", ErrEmptyKey
	}

	cleanPath := filepath.Clean(filepath.Join(s.baseDir, snapshotFilename(key)))

	rel, err := filepath.Rel(s.baseDir, cleanPath)
	if err != nil {
		return "", newErrPathResolutionFailed(err)
	}
	if rel == "." || strings.HasPrefix(rel, "..") || filepath.Dir(rel) != "." {
		applog.WithComponentAndFields(component, applog.Fields{
			"storage_key": key,
			"base_dir":    s.baseDir,
			"path":        cleanPath,
		}).Error("파일 경로 생성 차단: 경로 이탈 시도 감지")

		return "", ErrPathTraversalDetected
	}

	return cleanPath, nil
}

// cleanupStaleTempFiles 이전 실행에서 남겨진 오래된 임시 파일을 삭제합니다. 실패는 경고로만 기록합니다.
func (s *FileStore) cleanupStaleTempFiles() {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"dir":   s.baseDir,
			"error": err,
		}).Warn("임시 파일 정리 중단: 디렉토리 조회 실패")
		return
	}

	threshold := time.Now().Add(-staleTempFileAge)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if matched, _ := filepath.Match(tempFilePattern, entry.Name()); !matched {
			continue
		}

		info, err := entry.Info()
		if err != nil || info.ModTime().After(threshold) {
			continue
		}

		fullPath := filepath.Join(s.baseDir, entry.Name())
		if err := os.Remove(fullPath); err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"file":  fullPath,
				"error": err,
			}).Warn("임시 파일 삭제 실패")
			continue
		}

		applog.WithComponentAndFields(component, applog.Fields{
			"file": fullPath,
		}).Info("이전 실행에서 남은 임시 파일을 삭제했습니다")
	}
}

// writeAtomic 임시 파일 쓰기 → fsync → rename 순서로 파일을 원자적으로 교체합니다.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmpFile, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()

	// Windows에서는 열린 파일을 삭제할 수 없으므로 Close가 Remove보다 먼저 실행되어야 한다.
	defer os.Remove(tmpPath)
	defer tmpFile.Close()

	if _, err := tmpFile.Write(data); err != nil {
		return err
	}
	if err := tmpFile.Sync(); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	if err := renameWithRetry(tmpPath, path); err != nil {
		return err
	}

	// rename 결과가 전원 유실 후에도 남도록 디렉토리 엔트리를 동기화한다. 실패는 무시한다.
	if dirFile, err := os.Open(dir); err == nil {
		_ = dirFile.Sync()
		_ = dirFile.Close()
	}

	return nil
}

// renameWithRetry 백신/인덱서가 파일을 잠시 점유하는 Windows 개발 환경을 위해 rename을 짧게 재시도합니다.
func renameWithRetry(oldPath, newPath string) error {
	const maxRetries = 5
	const retryDelay = 10 * time.Millisecond

	var lastErr error
	for range maxRetries {
		if lastErr = os.Rename(oldPath, newPath); lastErr == nil {
			return nil
		}
		time.Sleep(retryDelay)
	}
	return lastErr
}
