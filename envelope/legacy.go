package envelope

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/buger/jsonparser"
)

// DecodeLegacyJSON parses the pre-envelope memo form: a JSON object with a
// "burn_amount" field, either a number or a decimal string. Returns the
// amount and whether the memo was recognized as the legacy form at all;
// unrecognized input should fall through to the caller's format error.
func DecodeLegacyJSON(memoData []byte) (uint64, bool) {
	if !utf8.Valid(memoData) {
		return 0, false
	}
	trimmed := strings.TrimSpace(string(memoData))
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return 0, false
	}

	value, dataType, _, err := jsonparser.Get([]byte(trimmed), "burn_amount")
	if err != nil {
		return 0, false
	}
	switch dataType {
	case jsonparser.Number, jsonparser.String:
		amount, err := strconv.ParseUint(string(value), 10, 64)
		if err != nil {
			return 0, false
		}
		return amount, true
	default:
		return 0, false
	}
}
