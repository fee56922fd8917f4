package client

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// coder is implemented by every program error code type.
type coder interface {
	error
	ErrorCode() uint32
}

var (
	hexCodePattern    = regexp.MustCompile(`custom program error: 0x([0-9a-fA-F]+)`)
	customCodePattern = regexp.MustCompile(`"Custom":\s*"?(\d+)"?`)
	anchorLogPattern  = regexp.MustCompile(`Error Number:\s*(\d+)`)
)

// ExtractErrorCode pulls the custom program error code out of an error, from
// the typed code in the chain when present, otherwise from the formatted
// error text (hex form, RPC JSON form, Anchor log form).
func ExtractErrorCode(err error) (uint32, bool) {
	if err == nil {
		return 0, false
	}
	var c coder
	if errors.As(err, &c) {
		return c.ErrorCode(), true
	}

	errStr := err.Error()
	if matches := hexCodePattern.FindStringSubmatch(errStr); len(matches) > 1 {
		if code, parseErr := strconv.ParseUint(matches[1], 16, 32); parseErr == nil {
			return uint32(code), true
		}
	}
	for _, pattern := range []*regexp.Regexp{customCodePattern, anchorLogPattern} {
		if matches := pattern.FindStringSubmatch(errStr); len(matches) > 1 {
			if code, parseErr := strconv.ParseUint(matches[1], 10, 32); parseErr == nil {
				return uint32(code), true
			}
		}
	}
	return 0, false
}

// IsCustomError reports whether err carries the given program error code.
func IsCustomError(err error, code uint32) bool {
	got, ok := ExtractErrorCode(err)
	return ok && got == code
}

// ParseProgramError formats an error for display: the custom program message
// when one is present, common transport failures otherwise.
func ParseProgramError(err error) string {
	if err == nil {
		return ""
	}
	errStr := err.Error()

	if strings.Contains(errStr, "BlockhashNotFound") ||
		strings.Contains(errStr, "Blockhash not found") {
		return "Transaction expired. Please rebuild the transaction and try again."
	}
	if idx := strings.Index(errStr, "custom program error:"); idx != -1 {
		return errStr[idx:]
	}
	if strings.Contains(errStr, "insufficient funds") {
		return "Insufficient balance to pay for the transaction"
	}
	if len(errStr) > 300 {
		return errStr[:300] + "..."
	}
	return errStr
}
