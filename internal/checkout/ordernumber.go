package checkout

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	OrderNumberLength   = 8
	orderNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// OrderNumberGenerator mints order numbers.
type OrderNumberGenerator interface {
	Next() (string, error)
}

// RandomOrderNumbers draws OrderNumberLength characters uniformly from [A-Z0-9].
type RandomOrderNumbers struct{}

func (RandomOrderNumbers) Next() (string, error) {
	max := big.NewInt(int64(len(orderNumberAlphabet)))
	buf := make([]byte, OrderNumberLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("drawing order number: %w", err)
		}
		buf[i] = orderNumberAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// IsOrderNumber reports whether value has the shape of a minted order number.
func IsOrderNumber(value string) bool {
	if len(value) != OrderNumberLength {
		return false
	}
	for i := 0; i < len(value); i++ {
		c := value[i]
		if !(c >= 'A' && c <= 'Z') && !(c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
