package services

import (
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator yields identifiers that are unique within a survey.
type IDGenerator func() string

// NewQuestionID returns a random, uuid-derived question identifier.
func NewQuestionID() string {
	return "q_" + shortID(12)
}

// NewSessionID returns a random session identifier.
func NewSessionID() string {
	return shortID(16)
}

func shortID(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}

// SequentialIDs returns a monotonic generator: prefix_1, prefix_2, ...
// It is safe for concurrent use.
func SequentialIDs(prefix string) IDGenerator {
	var n atomic.Int64
	return func() string {
		return prefix + "_" + strconv.FormatInt(n.Add(1), 10)
	}
}
