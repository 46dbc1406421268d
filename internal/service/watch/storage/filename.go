package storage

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode/utf8"

	"github.com/iancoleman/strcase"
)

// maxReadableNameBytes 파일명 중 사람이 읽을 수 있는 부분의 최대 길이
const maxReadableNameBytes = 80

// filenameReplacer 파일 시스템에서 문제를 일으킬 수 있는 문자를 하이픈으로 치환합니다.
var filenameReplacer = strings.NewReplacer(
	"..", "--",
	"/", "-",
	"\\", "-",
	"|", "-",
	"<", "-",
	">", "-",
	":", "-",
	"\"", "-",
	"?", "-",
	"*", "-",
)

// snapshotFilename 스냅샷 키로부터 파일명을 생성합니다.
//
// 사람이 읽을 수 있는 Kebab-Case 이름 뒤에 원본 키의 FNV-64a 해시를 붙여,
// 정제 과정에서 서로 다른 키가 같은 이름이 되거나 대소문자만 다른 키가 충돌하는 것을 막습니다.
//
// 예: "RainbowEndingOffers" → "snapshot-rainbow-ending-offers-1f3c...e2.json"
func snapshotFilename(key string) string {
	name := truncateByBytes(sanitizeName(key), maxReadableNameBytes)

	hasher := fnv.New64a()
	_, _ = hasher.Write([]byte(key))

	return fmt.Sprintf("snapshot-%s-%016x.json", name, hasher.Sum64())
}

func sanitizeName(s string) string {
	kebab := strcase.ToKebab(s)

	kebab = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7F {
			return '-'
		}
		return r
	}, kebab)

	return filenameReplacer.Replace(kebab)
}

// truncateByBytes 멀티바이트 문자가 중간에 잘리지 않도록 UTF-8 바이트 길이 기준으로 자릅니다.
func truncateByBytes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	n := 0
	for n < len(s) {
		_, size := utf8.DecodeRuneInString(s[n:])
		if n+size > limit {
			break
		}
		n += size
	}
	return s[:n]
}
