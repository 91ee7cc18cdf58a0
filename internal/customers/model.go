package customers

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// Customer is a shop customer, identified for humans by a unique phone number.
type Customer struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     *string   `json:"email"`
	Address   *string   `json:"address"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Patch carries the fields of a partial update. Nil means unchanged.
type Patch struct {
	Name    *string
	Phone   *string
	Email   *string
	Address *string
	Notes   *string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Name == nil && p.Phone == nil && p.Email == nil && p.Address == nil && p.Notes == nil
}

// NormalizePhone strips everything but digits.
func NormalizePhone(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r <= unicode.MaxASCII {
			return r
		}
		return -1
	}, raw)
}

// ValidPhone reports whether a normalized phone has exactly ten digits.
func ValidPhone(phone string) bool {
	return len(phone) == 10
}
