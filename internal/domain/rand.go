package domain

import "github.com/lifequest-lab/backend/pkg/crypto"

// cryptoRand backs production rolls. Tests inject seeded math/rand sources
// instead.
type cryptoRand struct{}

func (cryptoRand) Float64() float64 {
	return crypto.RandFloat64()
}

func (cryptoRand) Intn(n int) int {
	return crypto.RandIntn(n)
}
