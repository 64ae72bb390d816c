package http

import (
	"strings"

	"github.com/abdul-hamid-achik/hitsheet/packages/core/testcase"
)

type Request struct {
	Method string
	URL    string
	Body   testcase.Body
}

func NewRequest(method, requestURL string, body testcase.Body) *Request {
	return &Request{
		Method: strings.ToUpper(method),
		URL:    requestURL,
		Body:   body,
	}
}

// JoinURL prefixes path with baseURL. Absolute http(s) URLs are returned
// unchanged.
func JoinURL(baseURL, path string) string {
	lower := strings.ToLower(path)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return path
	}
	switch {
	case path == "":
		return baseURL
	case strings.HasSuffix(baseURL, "/") && strings.HasPrefix(path, "/"):
		return strings.TrimRight(baseURL, "/") + path
	case !strings.HasSuffix(baseURL, "/") && !strings.HasPrefix(path, "/") && !strings.HasPrefix(path, "?"):
		return baseURL + "/" + path
	}
	return baseURL + path
}
