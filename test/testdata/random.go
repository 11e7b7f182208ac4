// Package testdata provides random fixture values for database builders
// and integration tests.
package testdata

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
)

func RandomName() string {
	return gofakeit.ProductName()
}

func RandomDescription() string {
	return gofakeit.Sentence(8)
}

// RandomSlug returns a URL-safe slug that is unique enough for parallel
// test runs against a shared database.
func RandomSlug() string {
	word := strings.ToLower(gofakeit.Word())
	return fmt.Sprintf("%s-%s", word, gofakeit.LetterN(8))
}
