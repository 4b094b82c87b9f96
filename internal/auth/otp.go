package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	// VerifyOTPTTL bounds account-verification codes.
	VerifyOTPTTL = 24 * time.Hour
	// ResetOTPTTL bounds password-reset codes.
	ResetOTPTTL = 15 * time.Minute
)

// NewOTP returns a 6-digit one-time code from crypto/rand.
func NewOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
