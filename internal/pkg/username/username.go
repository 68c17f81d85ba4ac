package username

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// Derive builds a username from an email address: the first 6 characters of
// the local part plus an underscore and a random 4-digit number (1000-9999).
// Collisions are possible and accepted — usernames are display handles, not
// keys, and no uniqueness check is made against existing profiles.
func Derive(email string) string {
	local := email
	if i := strings.Index(email, "@"); i >= 0 {
		local = email[:i]
	}
	if len(local) > 6 {
		local = local[:6]
	}
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		// crypto/rand only fails when the platform source is broken;
		// a fixed suffix keeps registration working.
		return local + "_0000"
	}
	return fmt.Sprintf("%s_%d", local, 1000+n.Int64())
}
