// Package strutil 문자열 처리를 위한 유틸리티 함수들을 제공합니다.
package strutil

import (
	"html"
	"regexp"
	"strings"
	"unicode"
)

var (
	// < 다음에 영문자가 오는 경우만 태그로 인식한다. 예: "3 < 5"는 유지된다.
	htmlTagRegexp = regexp.MustCompile(`</?([a-zA-Z][a-zA-Z0-9]*)[^>]*>`)

	// 줄바꿈으로 치환할 블록 레벨 태그
	htmlBlockBreakRegexp = regexp.MustCompile(`(?i)<br\s*/?>|<hr\s*/?>|</(p|h[1-6]|div|li|tr)>`)
)

// NormalizeSpaces 문자열의 앞뒤 공백을 제거하고 연속된 공백을 하나로 축약합니다.
// NBSP 등 유니코드 공백 문자도 공백으로 취급합니다.
// 예: "  hello   world  " -> "hello world"
func NormalizeSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// RemoveSpaces 문자열에 포함된 모든 유니코드 공백 문자를 제거합니다.
// 예: "1 234 567" -> "1234567"
func RemoveSpaces(s string) string {
	if strings.IndexFunc(s, unicode.IsSpace) == -1 {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if !unicode.IsSpace(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// NormalizeMultiLineSpaces 각 줄을 NormalizeSpaces로 정규화하고 연속된 빈 줄을 하나로 축약합니다.
// 앞뒤의 빈 줄은 제거됩니다.
func NormalizeMultiLineSpaces(s string) string {
	var result []string
	var appendedEmptyLine bool

	for line := range strings.SplitSeq(s, "\n") {
		normalizedLine := NormalizeSpaces(line)
		if normalizedLine != "" {
			appendedEmptyLine = false
			result = append(result, normalizedLine)
		} else if !appendedEmptyLine {
			appendedEmptyLine = true
			result = append(result, "")
		}
	}

	for len(result) > 0 && result[0] == "" {
		result = result[1:]
	}
	for len(result) > 0 && result[len(result)-1] == "" {
		result = result[:len(result)-1]
	}

	return strings.Join(result, "\n")
}

// MaskSensitiveData 비밀번호, 토큰 등 민감한 정보를 로그에 남길 수 있도록 마스킹합니다.
func MaskSensitiveData(data string) string {
	runes := []rune(data)
	switch {
	case len(runes) == 0:
		return ""
	case len(runes) <= 3:
		return "***"
	case len(runes) <= 12:
		return string(runes[:4]) + "***"
	default:
		return string(runes[:4]) + "***" + string(runes[len(runes)-4:])
	}
}

// StripHTMLTags HTML 태그를 제거하고 HTML 엔티티를 디코딩합니다.
// 예: "<b>Hello</b> &amp; World" -> "Hello & World"
func StripHTMLTags(s string) string {
	return html.UnescapeString(htmlTagRegexp.ReplaceAllString(s, ""))
}

// HTMLToText HTML 문서를 사람이 읽을 수 있는 여러 줄의 텍스트로 변환합니다.
// 블록 레벨 태그 경계는 줄바꿈으로 바뀝니다.
func HTMLToText(s string) string {
	return NormalizeMultiLineSpaces(StripHTMLTags(htmlBlockBreakRegexp.ReplaceAllString(s, "\n")))
}
