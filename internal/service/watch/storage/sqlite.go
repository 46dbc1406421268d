package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/darkkaiser/offer-notifier/internal/service/watch/offer"
	applog "github.com/darkkaiser/offer-notifier/pkg/log"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
	key        TEXT PRIMARY KEY,
	document   TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// SQLiteStore 스냅샷 문서를 SQLite 데이터베이스의 snapshots 테이블에 저장하는 저장소입니다.
//
// 문서 형식은 FileStore와 같으며, 한 소스의 스냅샷은 한 행(row)으로 통째로 교체됩니다.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// 컴파일 타임에 인터페이스 구현 여부를 검증합니다.
var _ SnapshotStore = (*SQLiteStore)(nil)

// OpenSQLiteStore 데이터베이스 파일을 열고(없으면 생성) 스키마를 준비합니다.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, newErrDirectoryAccessFailed(errors.New("데이터베이스 경로가 비어 있습니다"), path)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, newErrDirectoryAccessFailed(err, dir)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, newErrDatabaseFailed(err, "open")
	}

	// 한 번에 한 주기만 실행되므로 연결 하나로 충분하다.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, newErrDatabaseFailed(err, "migrate")
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"path": path,
	}).Debug("SQLite 스냅샷 저장소 초기화 완료")

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close 데이터베이스 연결을 닫습니다.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load 저장된 스냅샷을 읽어옵니다. 행이 없으면 NoPriorSnapshot을 반환합니다.
func (s *SQLiteStore) Load(ctx context.Context, key string) (LoadResult, error) {
	if strings.TrimSpace(key) == "" {
		return LoadResult{}, ErrEmptyKey
	}

	var document string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM snapshots WHERE key = ?`, key).Scan(&document)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LoadResult{State: NoPriorSnapshot}, nil
		}
		return LoadResult{}, newErrSnapshotReadFailed(err, key)
	}

	return decodeSnapshot(key, []byte(document))
}

// Save 오퍼 목록으로 해당 키의 스냅샷 행을 교체합니다.
func (s *SQLiteStore) Save(ctx context.Context, key string, offers []offer.Offer) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}

	data, err := encodeSnapshot(offers)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO snapshots (key, document, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		key, string(data), s.now().UTC().Format(time.RFC3339))
	if err != nil {
		return newErrSnapshotWriteFailed(err, key, "upsert")
	}

	return nil
}
