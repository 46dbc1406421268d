package storage

import (
	apperrors "github.com/darkkaiser/offer-notifier/internal/pkg/errors"
)

var (
	// ErrPathTraversalDetected 스냅샷 파일 경로가 저장 디렉토리를 벗어날 때 반환됩니다.
	ErrPathTraversalDetected = apperrors.New(apperrors.Internal, "보안 정책 위반: 저장 디렉토리 밖의 경로 접근이 차단되었습니다")

	// ErrEmptyKey 스냅샷 키가 비어 있을 때 반환됩니다.
	ErrEmptyKey = apperrors.New(apperrors.InvalidInput, "스냅샷 키가 비어 있습니다")
)

func newErrDirectoryAccessFailed(err error, dir string) error {
	return apperrors.Wrapf(err, apperrors.System, "저장소 초기화 실패: 디렉토리 접근 불가 (%s)", dir)
}

func newErrPathResolutionFailed(err error) error {
	return apperrors.Wrap(err, apperrors.Internal, "보안 검증 실패: 파일 경로를 해석할 수 없습니다")
}

func newErrSnapshotEncodeFailed(err error) error {
	return apperrors.Wrap(err, apperrors.Internal, "스냅샷 직렬화 실패")
}

func newErrSnapshotDecodeFailed(err error, key string) error {
	return apperrors.Wrapf(err, apperrors.ParsingFailed, "스냅샷 문서가 손상되었습니다 (key: %s)", key)
}

func newErrSnapshotReadFailed(err error, key string) error {
	return apperrors.Wrapf(err, apperrors.System, "스냅샷 읽기 실패 (key: %s)", key)
}

func newErrSnapshotWriteFailed(err error, key, step string) error {
	return apperrors.Wrapf(err, apperrors.System, "스냅샷 저장 실패: %s (key: %s)", step, key)
}

func newErrDatabaseFailed(err error, op string) error {
	return apperrors.Wrapf(err, apperrors.System, "스냅샷 데이터베이스 오류: %s", op)
}
