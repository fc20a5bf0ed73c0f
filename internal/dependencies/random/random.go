package random

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

// Random is the source of every random choice the server makes: ids, coin
// flips for the first turn, bot fleets and bot shots
type Random interface {
	// Intn returns an int in [0, n), or 0 when n <= 0
	Intn(n int) int
	// Bool is a fair coin flip
	Bool() bool
	// Code returns length characters drawn from alphabet
	Code(length int, alphabet string) string
	// UUID returns a v4 UUID string
	UUID() string
}

// CryptoRandom draws from crypto/rand
type CryptoRandom struct{}

func New() *CryptoRandom {
	return &CryptoRandom{}
}

func (r *CryptoRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

func (r *CryptoRandom) Bool() bool {
	return r.Intn(2) == 1
}

func (r *CryptoRandom) Code(length int, alphabet string) string {
	if length <= 0 || alphabet == "" {
		return ""
	}
	code := make([]byte, length)
	for i := range code {
		code[i] = alphabet[r.Intn(len(alphabet))]
	}
	return string(code)
}

func (r *CryptoRandom) UUID() string {
	return uuid.NewString()
}
