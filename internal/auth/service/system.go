package service

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"time"
)

// SystemClock is the production domain.Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// CryptoRand is the production domain.SecureRandom, backed by crypto/rand.
type CryptoRand struct{}

// Digits returns n uniformly distributed decimal digits, leading zeros
// included. Uniformity comes from rejection sampling: draws above the largest
// multiple of 10^n representable in 32 bits are discarded.
func (CryptoRand) Digits(n int) (string, error) {
	if n <= 0 || n > 9 {
		return "", fmt.Errorf("unsupported digit count %d", n)
	}

	var modulus uint32 = 1
	for i := 0; i < n; i++ {
		modulus *= 10
	}
	limit := (1<<32 / uint64(modulus)) * uint64(modulus)

	buf := make([]byte, 4)
	for {
		if _, err := io.ReadFull(rand.Reader, buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		v := binary.BigEndian.Uint32(buf)
		if uint64(v) < limit {
			return fmt.Sprintf("%0*d", n, v%modulus), nil
		}
	}
}
