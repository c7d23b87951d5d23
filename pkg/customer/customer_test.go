package customer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, Customer{Fullname: " "}.Validate(), ErrFullnameRequired)
	assert.NoError(t, Customer{Fullname: "Ann"}.Validate())
}

func TestMatches(t *testing.T) {
	c := Seed(time.Now())[0]
	assert.True(t, c.Matches("john"))
	assert.True(t, c.Matches("EXAMPLE.com"))
	assert.True(t, c.Matches("+1234"))
	assert.False(t, c.Matches("jane"))

	bare := Customer{Fullname: "No Contact"}
	assert.False(t, bare.Matches("@"))
}
