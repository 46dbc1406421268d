package fetcher

import (
	"net/url"
	"strings"
)

var sensitiveQueryKeys = []string{"token", "key", "secret", "pass", "password", "auth", "signature", "sig"}

// RedactURL 로그에 남기기 전에 URL의 사용자 정보와 민감한 쿼리 파라미터 값을 가립니다.
func RedactURL(u *url.URL) string {
	if u == nil {
		return ""
	}

	ru := *u
	if u.User != nil {
		if _, has := u.User.Password(); has {
			ru.User = url.UserPassword(u.User.Username(), "xxxxx")
		} else {
			ru.User = url.User("xxxxx")
		}
	}

	if u.RawQuery != "" {
		query := ru.Query()
		for key := range query {
			if isSensitiveKey(key) {
				query.Set(key, "xxxxx")
			}
		}
		ru.RawQuery = query.Encode()
	}

	return ru.String()
}

func isSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	for _, s := range sensitiveQueryKeys {
		if key == s || strings.HasSuffix(key, "_"+s) {
			return true
		}
	}
	return false
}
