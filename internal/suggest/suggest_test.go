package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractCategory(t *testing.T) {
	response := "Category: GROCERY\nDescription: a supermarket chain"
	assert.Equal(t, "GROCERY", extractCategory(response))
}

func TestExtractCategory_Bracketed(t *testing.T) {
	assert.Equal(t, "TAKEOUTS", extractCategory("Category: [TAKEOUTS]"))
}

func TestExtractCategory_Unstructured(t *testing.T) {
	assert.Equal(t, "GASOLINE", extractCategory("  GASOLINE  "))
}
