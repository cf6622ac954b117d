package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"bountyhub/internal/common"
)

type errorCollector interface {
	IncErrors()
}

var collector errorCollector

// SetErrorCollector lets main hand in the metrics collector without response
// importing the metrics package.
func SetErrorCollector(c errorCollector) {
	collector = c
}

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func Error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := errorBody{Error: "internal error"}
	var coded *common.Error
	if errors.As(err, &coded) {
		status = statusFor(coded.Code)
		body.Error = coded.Message
		body.Fields = coded.Fields
	}
	if status >= http.StatusInternalServerError && collector != nil {
		collector.IncErrors()
	}
	JSON(w, status, body)
}

func statusFor(code common.ErrorCode) int {
	switch code {
	case common.CodeValidation:
		return http.StatusBadRequest
	case common.CodeUnauthorized:
		return http.StatusUnauthorized
	case common.CodeForbidden:
		return http.StatusForbidden
	case common.CodeNotFound:
		return http.StatusNotFound
	case common.CodeConflict:
		return http.StatusConflict
	case common.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
