package util

import (
	"errors"
	"testing"

	"github.com/tj/assert"
	"github.com/zingerfi/zingerfi-server/types"
)

func TestNormalizeEmail(t *testing.T) {
	n, err := NormalizeEmail("  Bob@GMail.com ")
	assert.Nil(t, err)
	assert.Equal(t, "bob@gmail.com", n)

	n, err = NormalizeEmail("ana@bücher.de")
	assert.Nil(t, err)
	assert.Equal(t, "ana@xn--bcher-kva.de", n)

	for _, bad := range []string{"", "bob", "@gmail.com", "bob@"} {
		_, err := NormalizeEmail(bad)
		assert.True(t, errors.Is(err, types.ErrInvalidEmail), bad)
	}
}

func TestSameEmail(t *testing.T) {
	assert.True(t, SameEmail("bob@gmail.com", "BOB@Gmail.Com"))
	assert.False(t, SameEmail("bob@gmail.com", "eve@gmail.com"))
	assert.False(t, SameEmail("", ""))

	// internationalized domain in unicode and ascii form
	assert.True(t, SameEmail("ana@Bücher.de", "ana@xn--bcher-kva.de"))

	// full-width look-alikes are not folded onto ascii
	assert.False(t, SameEmail("bob@ｇmail.com", "bob@gmail.com"))
	assert.False(t, SameEmail("ｂob@gmail.com", "bob@gmail.com"))
}

func TestCanonicalEmail(t *testing.T) {
	c, err := CanonicalEmail(" Bob@GMail.com")
	assert.Nil(t, err)
	assert.Equal(t, "bob@gmail.com", c)

	_, err = CanonicalEmail("bob")
	assert.True(t, errors.Is(err, types.ErrInvalidEmail))
}
