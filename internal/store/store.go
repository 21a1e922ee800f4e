// Package store defines where live quiz sessions are kept between HTTP
// requests. Implementations live in the memory and redisstore
// subpackages.
package store

import (
	"errors"

	"github.com/N0Z0My/xlsx-data-app/internal/quiz"
)

var ErrNotFound = errors.New("not found")

// Repository keeps live sessions addressable by their ID.
type Repository interface {
	Put(session *quiz.Session)
	Get(sessionID string) (*quiz.Session, error)
	Delete(sessionID string)
}
