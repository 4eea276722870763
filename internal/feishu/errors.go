package feishu

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoToken is returned when the token endpoint answers without a token.
var ErrNoToken = errors.New("feishu: no tenant access token")

// APIError is a well-formed response whose envelope code is non-zero.
type APIError struct {
	Code int
	Msg  string
	Op   string
}

func (e *APIError) Error() string {
	if e == nil {
		return "feishu: <nil error>"
	}
	if e.Op != "" {
		return fmt.Sprintf("feishu %s: code %d: %s", e.Op, e.Code, e.Msg)
	}
	return fmt.Sprintf("feishu: code %d: %s", e.Code, e.Msg)
}

// HTTPError is a non-2xx HTTP response.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "feishu: <nil error>"
	}
	msg := strings.TrimSpace(e.Body)
	if msg == "" {
		msg = "<empty body>"
	}
	if len(msg) > 4000 {
		msg = msg[:4000] + "..."
	}
	return fmt.Sprintf("feishu http %d: %s", e.StatusCode, msg)
}

// HTTPStatusCode exposes the status for retry classification.
func (e *HTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

// IsAPIError reports whether err carries an envelope error with the given code.
// A code of 0 matches any APIError.
func IsAPIError(err error, code int) bool {
	var ae *APIError
	if !errors.As(err, &ae) {
		return false
	}
	return code == 0 || ae.Code == code
}
