package providers

import (
	"context"
	"errors"
	"net"
	"strings"
)

type ErrorType string

const (
	ErrorQuota       ErrorType = "quota"
	ErrorRate        ErrorType = "rate"
	ErrorTimeout     ErrorType = "timeout"
	ErrorUnavailable ErrorType = "unavailable"
	ErrorPermanent   ErrorType = "permanent"
)

// ClassifyError buckets a provider failure. Timeouts and unavailability are
// equivalent for fallback purposes: the call is abandoned and the next
// provider in the priority list is tried.
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ""
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrorTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTimeout
	}
	e := strings.ToLower(err.Error())
	switch {
	case strings.Contains(e, "quota"), strings.Contains(e, "credit"), strings.Contains(e, "insufficient_quota"):
		return ErrorQuota
	case strings.Contains(e, "rate"), strings.Contains(e, "429"):
		return ErrorRate
	case strings.Contains(e, "timeout"), strings.Contains(e, "deadline"):
		return ErrorTimeout
	case strings.Contains(e, "temporarily"), strings.Contains(e, "unavailable"), strings.Contains(e, "key missing"):
		return ErrorUnavailable
	default:
		return ErrorPermanent
	}
}
