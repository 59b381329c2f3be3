package utils

import "golang.org/x/crypto/bcrypt"

// HashPasscode returns the bcrypt hash of a box-office passcode.  Costs
// outside bcrypt's range fall back to bcrypt.DefaultCost.
func HashPasscode(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPasscode compares a bcrypt hash with a plain passcode in constant
// time.  An empty hash never matches.
func VerifyPasscode(hash, plain string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
