package application

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	base36Alphabet       = "0123456789abcdefghijklmnopqrstuvwxyz"
	timestampSuffixRunes = 9
)

// TimestampIDGenerator builds IDs as <csvUUID>-<unix millis>-<random base-36 suffix>.
type TimestampIDGenerator struct {
	SuffixLength int
}

// NewTimestampIDGenerator returns the default generator. Its IDs group by CSV and sort by creation time.
func NewTimestampIDGenerator() *TimestampIDGenerator {
	return &TimestampIDGenerator{SuffixLength: timestampSuffixRunes}
}

func (g *TimestampIDGenerator) NewID(csvUUID string, now time.Time) (string, error) {
	length := g.SuffixLength
	if length < timestampSuffixRunes {
		length = timestampSuffixRunes
	}
	suffix, err := randomBase36(length)
	if err != nil {
		return "", fmt.Errorf("generate submission id: %w", err)
	}
	return fmt.Sprintf("%s-%d-%s", csvUUID, now.UnixMilli(), suffix), nil
}

// UUIDGenerator builds IDs as <csvUUID>-<uuid v4>.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(csvUUID string, _ time.Time) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate submission id: %w", err)
	}
	return csvUUID + "-" + id.String(), nil
}

// NewIDGenerator resolves a configured scheme name ("legacy" or "uuid").
func NewIDGenerator(scheme string) (IDGenerator, error) {
	switch strings.ToLower(strings.TrimSpace(scheme)) {
	case "", "legacy", "timestamp":
		return NewTimestampIDGenerator(), nil
	case "uuid":
		return UUIDGenerator{}, nil
	default:
		return nil, fmt.Errorf("unknown submission id scheme %q", scheme)
	}
}

func randomBase36(n int) (string, error) {
	limit := big.NewInt(int64(len(base36Alphabet)))
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b.WriteByte(base36Alphabet[idx.Int64()])
	}
	return b.String(), nil
}
