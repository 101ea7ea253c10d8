package httpclient

import (
	"fmt"
	"io"
	"net/http"
)

// StatusError is returned for upstream responses outside the 2xx range.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned status %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.StatusCode, e.Body)
}

// maxErrorBody caps how much of an error body is kept in a StatusError.
const maxErrorBody = 1 << 10

// ParseResponseError drains and closes the body of a non-2xx response and
// returns it as a *StatusError.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		body = nil
	}

	return &StatusError{
		Service:    serviceName,
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}
}

// IsSuccess reports whether status is in the 2xx range.
func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}
