package killbill

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// maxMessageLength keeps error messages small enough to fit in a flash cookie.
const maxMessageLength = 1000

// Error is a non 2xx answer of the Kill Bill API.
type Error struct {
	StatusCode int
	ClassName  string
	Code       int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("Error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a Kill Bill 404.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsConflict reports whether err is a Kill Bill 409.
func IsConflict(err error) bool {
	return hasStatus(err, http.StatusConflict)
}

// StatusCode returns the HTTP status of a Kill Bill error, or 500 for anything else.
func StatusCode(err error) int {
	var kbErr *Error
	if errors.As(err, &kbErr) {
		return kbErr.StatusCode
	}
	return http.StatusInternalServerError
}

func hasStatus(err error, status int) bool {
	var kbErr *Error
	return errors.As(err, &kbErr) && kbErr.StatusCode == status
}

// billingException is the JSON body Kill Bill sends along with error statuses.
type billingException struct {
	ClassName string `json:"className"`
	Code      int    `json:"code"`
	Message   string `json:"message"`
}

func newError(resp *resty.Response) *Error {
	out := &Error{StatusCode: resp.StatusCode()}

	body := resp.Body()
	var exc billingException
	if err := json.Unmarshal(body, &exc); err == nil && exc.Message != "" {
		out.ClassName = exc.ClassName
		out.Code = exc.Code
		out.Message = exc.Message
	} else {
		out.Message = strings.TrimSpace(string(body))
	}
	if out.Message == "" {
		out.Message = http.StatusText(out.StatusCode)
	}
	out.Message = truncate(out.Message, maxMessageLength)
	return out
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
