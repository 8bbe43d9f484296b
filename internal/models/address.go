package models

import (
	"errors"

	"github.com/mr-tron/base58"
)

const (
	MinMintAddressLen = 32
	MaxMintAddressLen = 44

	publicKeyLen = 32
)

var (
	ErrInvalidMintAddress = errors.New("invalid mint address format")
	ErrTokenNotFound      = errors.New("token not found")
)

// ValidateMintAddress checks that s looks like a Solana public key:
// 32-44 base58 characters decoding to exactly 32 bytes.
func ValidateMintAddress(s string) error {
	if len(s) < MinMintAddressLen || len(s) > MaxMintAddressLen {
		return ErrInvalidMintAddress
	}
	raw, err := base58.Decode(s)
	if err != nil || len(raw) != publicKeyLen {
		return ErrInvalidMintAddress
	}
	return nil
}
