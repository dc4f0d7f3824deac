package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/sessionguard/internal/common"
)

var errMalformedBody = errors.New("malformed response body")

// errorBody is the backend's failure envelope.
type errorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// mapStatus turns a non-2xx response into one of the common sentinels,
// keeping the backend's message when it sent one.
func mapStatus(code int, raw []byte) error {
	msg := http.StatusText(code)
	var body errorBody
	if json.Unmarshal(raw, &body) == nil && body.Message != "" {
		msg = body.Message
	}

	var sentinel error
	switch {
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		sentinel = common.ErrUnauthorized
	case code == http.StatusConflict:
		sentinel = common.ErrConflict
	case code == http.StatusBadRequest, code == http.StatusUnprocessableEntity:
		sentinel = common.ErrBadRequest
	case code >= http.StatusInternalServerError:
		sentinel = common.ErrUnavailable
	default:
		return fmt.Errorf("unexpected status %d: %s", code, msg)
	}
	return fmt.Errorf("%w: %s", sentinel, msg)
}
