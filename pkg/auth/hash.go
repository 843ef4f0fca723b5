// -----------------------------------------------------------------------------
// Password Hashing
// -----------------------------------------------------------------------------
// Personel şifreleri bcrypt ile hash'lenir. Salt bcrypt tarafından otomatik
// eklenir.
// -----------------------------------------------------------------------------

package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashCost, production için bcrypt maliyet faktörü.
const HashCost = 12

// Hash, düz metin şifreyi HashCost ile hash'ler.
func Hash(password string) (string, error) {
	return HashWithCost(password, HashCost)
}

// HashWithCost, testler ve seed gibi hızın önemli olduğu yerlerde düşük
// maliyetle hash üretmek için kullanılır.
func HashWithCost(password string, cost int) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Check, şifreyi hash ile karşılaştırır.
func Check(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NeedsRehash, hash'in güncel cost'tan düşük olup olmadığını söyler.
// Login sırasında şifre doğrulandıktan sonra çağrılır.
func NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return false
	}
	return cost < HashCost
}
