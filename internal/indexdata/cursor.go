package indexdata

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/sprint-team6/findex/internal/contracts"
)

// cursorToken carries the resume position of a page: the sort-field value of
// the last returned item plus its id as tie-breaker. Serialized form is
// opaque to callers.
type cursorToken struct {
	Value string `json:"v"`
	ID    int64  `json:"id"`
}

// encodeCursor packs a resume position into an opaque token
func encodeCursor(value string, id int64) string {
	raw, _ := json.Marshal(cursorToken{Value: value, ID: id})
	return base64.RawURLEncoding.EncodeToString(raw)
}

// decodeCursor unpacks a token. Any decoding failure is a caller error, not
// a crash.
func decodeCursor(token string) (string, int64, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", contracts.ErrInvalidCursor, err)
	}

	var tok cursorToken
	if err := json.Unmarshal(raw, &tok); err != nil {
		return "", 0, fmt.Errorf("%w: %v", contracts.ErrInvalidCursor, err)
	}
	if tok.Value == "" || tok.ID <= 0 {
		return "", 0, fmt.Errorf("%w: missing value or id", contracts.ErrInvalidCursor)
	}

	return tok.Value, tok.ID, nil
}
