package mocks

import (
	"fmt"
	"strings"
	"sync"

	"github.com/mcoot/seabattle-go/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing
type MockRandom struct {
	mu sync.Mutex

	// IntnResults is a queue of results to return from Intn
	IntnResults []int
	intnIndex   int

	// CodeResults is a queue of results to return from Code
	CodeResults []string
	codeIndex   int

	// UUIDResults is a queue of results to return from UUID
	UUIDResults []string
	uuidIndex   int
	uuidCounter int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result, or 0 if none remaining.
// Queued values are reduced modulo n so they always fall in [0, n).
func (r *MockRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.intnIndex >= len(r.IntnResults) || n <= 0 {
		return 0
	}
	result := r.IntnResults[r.intnIndex]
	r.intnIndex++
	return result % n
}

// Bool consumes the Intn queue, so a queued 1 means true
func (r *MockRandom) Bool() bool {
	return r.Intn(2) == 1
}

// Code returns the next queued result, or the first alphabet character
// repeated length times once the queue is empty
func (r *MockRandom) Code(length int, alphabet string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.codeIndex < len(r.CodeResults) {
		result := r.CodeResults[r.codeIndex]
		r.codeIndex++
		return result
	}
	if alphabet == "" || length <= 0 {
		return ""
	}
	return strings.Repeat(alphabet[:1], length)
}

// UUID returns the next queued result, or a sequential UUID-shaped id once the queue is empty
func (r *MockRandom) UUID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.uuidIndex < len(r.UUIDResults) {
		result := r.UUIDResults[r.uuidIndex]
		r.uuidIndex++
		return result
	}
	r.uuidCounter++
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", r.uuidCounter)
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.IntnResults = append(r.IntnResults, values...)
}

// QueueCode adds values to the Code result queue
func (r *MockRandom) QueueCode(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.CodeResults = append(r.CodeResults, values...)
}

// QueueUUID adds values to the UUID result queue
func (r *MockRandom) QueueUUID(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.UUIDResults = append(r.UUIDResults, values...)
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.IntnResults = nil
	r.intnIndex = 0
	r.CodeResults = nil
	r.codeIndex = 0
	r.UUIDResults = nil
	r.uuidIndex = 0
}
