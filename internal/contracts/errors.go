package contracts

import "errors"

// ⭐ SSOT: 도메인 에러는 여기서만 정의
var (
	// Not found (point lookups)
	ErrIndexNotFound      = errors.New("index not found")
	ErrIndexValueNotFound = errors.New("index value not found")

	// Invalid argument
	ErrInvalidCursor     = errors.New("malformed cursor token")
	ErrInvalidSortField  = errors.New("unsupported sort field")
	ErrInvalidPeriodType = errors.New("unrecognized period type")
	ErrInvalidIndexInput = errors.New("invalid index input")

	// Uniqueness conflicts
	ErrDuplicateIndex      = errors.New("index already exists")
	ErrDuplicateIndexValue = errors.New("index value already exists for base date")
)
