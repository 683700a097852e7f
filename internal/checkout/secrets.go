package checkout

import (
	"golang.org/x/crypto/bcrypt"

	dErrors "unitrader/pkg/domain-errors"
)

// HashWebhookSecret produces the bcrypt hash operators store in
// configuration for the payment completion webhook.
func HashWebhookSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "hashing webhook secret")
	}
	return string(hash), nil
}

// VerifyWebhookSecret checks a presented secret against the configured
// bcrypt hash. An empty configured hash rejects everything.
func VerifyWebhookSecret(hash, presented string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(presented)) == nil
}
