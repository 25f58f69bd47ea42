package killbill

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errorFrom(t *testing.T, status int, contentType, body string) error {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Config{URL: srv.URL, Timeout: 5 * time.Second})
	_, err := client.GetAccount(context.Background(), "a1", RequestOptions{})
	require.Error(t, err)
	return err
}

func TestErrorFromBillingException(t *testing.T) {
	err := errorFrom(t, http.StatusBadRequest, "application/json",
		`{"className":"org.killbill.billing.account.api.AccountApiException","code":3001,"message":"Invalid currency XXX"}`)

	var kbErr *Error
	require.ErrorAs(t, err, &kbErr)
	assert.Equal(t, 400, kbErr.StatusCode)
	assert.Equal(t, 3001, kbErr.Code)
	assert.Equal(t, "org.killbill.billing.account.api.AccountApiException", kbErr.ClassName)
	assert.Equal(t, "Error 400: Invalid currency XXX", err.Error())
}

func TestErrorFromPlainBody(t *testing.T) {
	err := errorFrom(t, http.StatusBadGateway, "text/plain", "  upstream down \n")
	assert.Equal(t, "Error 502: upstream down", err.Error())
}

func TestErrorWithoutBody(t *testing.T) {
	err := errorFrom(t, http.StatusServiceUnavailable, "", "")
	assert.Equal(t, "Error 503: Service Unavailable", err.Error())
}

func TestErrorMessageIsTruncated(t *testing.T) {
	err := errorFrom(t, http.StatusInternalServerError, "text/plain", strings.Repeat("x", 5000))

	var kbErr *Error
	require.ErrorAs(t, err, &kbErr)
	assert.Len(t, kbErr.Message, maxMessageLength)
}

func TestTruncateKeepsRunes(t *testing.T) {
	assert.Equal(t, "héllo", truncate("héllo", 10))
	assert.Equal(t, "hé", truncate("héllo", 2))
}
