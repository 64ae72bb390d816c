package http

import (
	"strings"
	"time"
)

// StatusError is reported instead of a status code when no response arrived.
const StatusError = "ERR"

// Outcome is the normalized result of one dispatch.
type Outcome struct {
	Status     string // decimal status code, or StatusError
	StatusCode int    // 0 when Status is StatusError
	Text       string // raw response text, or the error description
	Headers    map[string]string
	Duration   time.Duration
	BodySent   bool
	Err        error
}

func (o *Outcome) IsError() bool {
	return o.Status == StatusError
}

func (o *Outcome) Header(key string) string {
	for k, v := range o.Headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

func (o *Outcome) IsSuccess() bool {
	return o.StatusCode >= 200 && o.StatusCode < 300
}

func (o *Outcome) DurationMs() int64 {
	return o.Duration.Milliseconds()
}
