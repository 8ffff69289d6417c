package utils

import "golang.org/x/crypto/bcrypt"

// PINHasher is the single seam through which PIN credentials pass. The ledger
// stores whatever Hash produces and checks candidates with Verify, so the
// comparison strategy can change without touching account or service code.
type PINHasher interface {
	Hash(pin string) (string, error)
	Verify(pin, stored string) bool
}

// PlaintextPINHasher stores and compares PINs verbatim. Not suitable for
// anything beyond a demo deployment.
type PlaintextPINHasher struct{}

func (PlaintextPINHasher) Hash(pin string) (string, error) { return pin, nil }

func (PlaintextPINHasher) Verify(pin, stored string) bool { return pin == stored }

// BcryptPINHasher stores a salted bcrypt hash of the PIN.
type BcryptPINHasher struct{}

func (BcryptPINHasher) Hash(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	return string(hash), err
}

func (BcryptPINHasher) Verify(pin, stored string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(pin)) == nil
}

// NewPINHasher selects a hasher by config name; anything other than "bcrypt"
// falls back to plaintext.
func NewPINHasher(mode string) PINHasher {
	if mode == "bcrypt" {
		return BcryptPINHasher{}
	}
	return PlaintextPINHasher{}
}
