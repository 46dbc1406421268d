package report

import (
	"os"
	"strings"
)

// Placeholder 템플릿 문서에서 오퍼 목록으로 치환되는 자리 표시자입니다.
const Placeholder = "{{offers}}"

// LoadTemplate 템플릿 문서를 읽고 자리 표시자가 정확히 하나인지 확인합니다.
func LoadTemplate(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", newErrTemplateReadFailed(err, path)
	}

	doc := string(data)
	if n := strings.Count(doc, Placeholder); n != 1 {
		return "", newErrInvalidPlaceholderCount(path, n)
	}

	return doc, nil
}
