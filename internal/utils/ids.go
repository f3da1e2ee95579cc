package utils

import (
	"crypto/rand"
	"math/big"
)

const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	TransactionIDLength = 12
	TrackingIDLength    = 10
)

// RandomID returns n characters drawn uniformly from [A-Z0-9].
func RandomID(n int) (string, error) {
	max := big.NewInt(int64(len(idAlphabet)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = idAlphabet[idx.Int64()]
	}
	return string(buf), nil
}

func NewTransactionID() (string, error) { return RandomID(TransactionIDLength) }

func NewTrackingID() (string, error) { return RandomID(TrackingIDLength) }
