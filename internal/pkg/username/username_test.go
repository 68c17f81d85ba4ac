package username

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerive_LongLocalPart_TruncatedToSix(t *testing.T) {
	u := Derive("abcdefgh@x.com")
	assert.Regexp(t, regexp.MustCompile(`^abcdef_\d{4}$`), u)
}

func TestDerive_ShortLocalPart_KeptWhole(t *testing.T) {
	u := Derive("user@test.com")
	assert.Regexp(t, regexp.MustCompile(`^user_\d{4}$`), u)
}

func TestDerive_SuffixInRange(t *testing.T) {
	re := regexp.MustCompile(`_(\d{4})$`)
	for i := 0; i < 50; i++ {
		m := re.FindStringSubmatch(Derive("someone@example.com"))
		assert.Len(t, m, 2)
		assert.GreaterOrEqual(t, m[1], "1000")
		assert.LessOrEqual(t, m[1], "9999")
	}
}

func TestDerive_NoAtSign_UsesWholeString(t *testing.T) {
	u := Derive("plainstring")
	assert.Regexp(t, regexp.MustCompile(`^plains_\d{4}$`), u)
}
