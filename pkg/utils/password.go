package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword returns a salted bcrypt hash; the salt is embedded in the result.
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword never errors: a malformed hash simply does not match.
func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
