// Package mocks fetcher.Fetcher의 테스트용 Mock 구현을 제공합니다.
package mocks

import (
	"net/http"

	"github.com/stretchr/testify/mock"
)

// MockFetcher testify/mock 기반의 Fetcher Mock입니다.
type MockFetcher struct {
	mock.Mock
}

// Do 기록된 기대값에 따라 응답을 반환합니다.
func (m *MockFetcher) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)

	var resp *http.Response
	if r := args.Get(0); r != nil {
		resp = r.(*http.Response)
	}
	return resp, args.Error(1)
}
