package offer

import (
	"strings"
	"unicode"

	"github.com/darkkaiser/offer-notifier/pkg/strutil"
	"github.com/shopspring/decimal"
)

// NormalizePrice 가격 문자열에서 모든 공백 문자(NBSP 포함)를 제거합니다.
//
// 가격 동일성 판단은 이 결과의 문자열 비교로만 이루어집니다.
// 따라서 "1 234"와 "1234"는 같지만, "100.0"과 "100"은 다른 가격으로 취급됩니다.
func NormalizePrice(price string) string {
	return strutil.RemoveSpaces(price)
}

// ParsePrice 가격 문자열을 십진수로 해석합니다. 가격 변동 방향(상승/하락)을 판단하는 용도로만 사용합니다.
//
// 지원 형식:
//   - 공백 또는 NBSP 천 단위 구분자: "1 234"
//   - 쉼표/마침표 천 단위 구분자: "1,234", "1.234.567"
//   - 쉼표/마침표 소수점: "1234,50", "1 234.50", "1.234,50"
//   - 숫자 앞의 문자는 무시: "od 999 PLN", "PLN 1 999"
//
// 숫자가 시작된 뒤 숫자나 구분자가 아닌 문자를 만나면 거기서 멈춥니다. 예: "2 450 zł za 2 os." -> 2450
// 공백은 바로 뒤에 숫자가 이어질 때만 천 단위 구분자로 간주합니다.
// 구분자가 한 번만 나오고 뒤에 정확히 세 자리 숫자가 이어지면 천 단위 구분자로 간주합니다.
func ParsePrice(price string) (decimal.Decimal, error) {
	s := strings.Trim(numericPrefix(price), ".,")
	if s == "" || s == "-" {
		return decimal.Decimal{}, newErrPriceNotNumeric(price, nil)
	}

	d, err := decimal.NewFromString(canonicalizeSeparators(s))
	if err != nil {
		return decimal.Decimal{}, newErrPriceNotNumeric(price, err)
	}
	return d, nil
}

// numericPrefix price에서 처음 나오는 숫자 덩어리를 공백 없이 추출합니다.
func numericPrefix(price string) string {
	runes := []rune(price)

	var sb strings.Builder
	started := false

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r >= '0' && r <= '9':
			sb.WriteRune(r)
			started = true

		case r == '.' || r == ',':
			if started {
				sb.WriteRune(r)
			}

		case r == '-' && !started && sb.Len() == 0:
			sb.WriteRune(r)

		case unicode.IsSpace(r):
			if started && !digitFollows(runes, i+1) {
				return sb.String()
			}

		default:
			if started {
				return sb.String()
			}
		}
	}

	return sb.String()
}

// digitFollows runes[from:]에서 공백을 건너뛴 첫 글자가 숫자인지 확인합니다.
func digitFollows(runes []rune, from int) bool {
	for _, r := range runes[from:] {
		if unicode.IsSpace(r) {
			continue
		}
		return r >= '0' && r <= '9'
	}
	return false
}

// canonicalizeSeparators 천 단위 구분자를 제거하고 소수점을 '.'으로 통일합니다.
func canonicalizeSeparators(s string) string {
	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')

	switch {
	case lastDot >= 0 && lastComma >= 0:
		// 두 종류가 모두 있으면 마지막에 나온 쪽이 소수점이다.
		if lastComma > lastDot {
			return strings.Replace(strings.ReplaceAll(s, ".", ""), ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")

	case lastComma >= 0:
		return resolveSingleSeparator(s, ',')

	case lastDot >= 0:
		return resolveSingleSeparator(s, '.')
	}

	return s
}

func resolveSingleSeparator(s string, sep byte) string {
	sepStr := string(sep)

	if strings.Count(s, sepStr) > 1 {
		return strings.ReplaceAll(s, sepStr, "")
	}

	idx := strings.IndexByte(s, sep)
	intPart := strings.TrimPrefix(s[:idx], "-")
	if len(s)-idx-1 == 3 && intPart != "" && intPart != "0" {
		return strings.ReplaceAll(s, sepStr, "")
	}
	return strings.Replace(s, sepStr, ".", 1)
}
