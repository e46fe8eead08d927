package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxNodeIDLength bounds node identifiers; scan reports use two-letter names.
const maxNodeIDLength = 64

// nodeIDRegex matches identifiers that survive a round trip through the
// scan-report format (no separators, no whitespace).
var nodeIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// ValidateNodeID validates a node identifier.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or whitespace
//   - No list separators (',' or ';') so scan reports stay parseable
//   - Maximum length of 64 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidNode, "node ID cannot be empty")
	}

	if len(id) > maxNodeIDLength {
		return New(ErrCodeInvalidNode, "node ID too long (max %d characters)", maxNodeIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidNode, "node ID contains invalid control characters")
		}
	}

	if !nodeIDRegex.MatchString(id) {
		return New(ErrCodeInvalidNode, "invalid node ID: %q", id)
	}

	return nil
}

// ValidateRate checks that a node's rate is non-negative.
func ValidateRate(id string, rate int) error {
	if rate < 0 {
		return New(ErrCodeInvalidRate, "node %q has negative rate %d", id, rate)
	}
	return nil
}

// ValidateBudget checks that a time budget is non-negative.
func ValidateBudget(name string, minutes int) error {
	if minutes < 0 {
		return New(ErrCodeInvalidBudget, "%s must not be negative (got %d)", name, minutes)
	}
	return nil
}

// ValidateRedisAddr validates a host:port address for the Redis cache backend.
func ValidateRedisAddr(addr string) error {
	if addr == "" {
		return New(ErrCodeInvalidInput, "redis address cannot be empty")
	}
	if strings.Contains(addr, "://") {
		return New(ErrCodeInvalidInput, "redis address must be host:port, not a URL")
	}
	if !strings.Contains(addr, ":") {
		return New(ErrCodeInvalidInput, "redis address must include a port")
	}
	return nil
}

// ValidateMongoURI validates a connection string for the MongoDB cache backend.
// It ensures the URI uses a mongodb scheme.
func ValidateMongoURI(uri string) error {
	if uri == "" {
		return New(ErrCodeInvalidInput, "mongo URI cannot be empty")
	}

	if !strings.HasPrefix(uri, "mongodb://") && !strings.HasPrefix(uri, "mongodb+srv://") {
		return New(ErrCodeInvalidInput, "mongo URI must use mongodb or mongodb+srv scheme")
	}

	return nil
}
