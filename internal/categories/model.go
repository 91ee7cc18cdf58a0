package categories

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// Category groups invoice items and products. Items reference it by CategoryID.
type Category struct {
	ID         uuid.UUID `json:"id"`
	CategoryID string    `json:"categoryId"`
	Label      string    `json:"label"`
	Icon       string    `json:"icon"`
	IsActive   bool      `json:"isActive"`
	SortOrder  int       `json:"sortOrder"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Patch carries the fields of a partial update. Nil means unchanged.
type Patch struct {
	CategoryID *string
	Label      *string
	Icon       *string
	IsActive   *bool
	SortOrder  *int
}

var folder = cases.Fold()

// SameLabel compares labels case-insensitively.
func SameLabel(a, b string) bool {
	return folder.String(strings.TrimSpace(a)) == folder.String(strings.TrimSpace(b))
}

// Slugify derives a categoryId from a label: lower case, runs of other
// characters collapsed to a single hyphen.
func Slugify(label string) string {
	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(label)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			hyphen = false
			continue
		}
		if b.Len() > 0 && !hyphen {
			b.WriteByte('-')
			hyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
