package strutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSpaces(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"빈 문자열", "", ""},
		{"앞뒤 공백", "  Hotel X  ", "Hotel X"},
		{"연속 공백", "Hotel   X\t\nRiviera", "Hotel X Riviera"},
		{"NBSP", "Hotel\u00a0\u00a0X", "Hotel X"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NormalizeSpaces(tt.in))
		})
	}
}

func TestRemoveSpaces(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"1234", "1234"},
		{"1 234", "1234"},
		{"1\u00a0234", "1234"},
		{"1\u202f234 zł", "1234zł"},
		{" \t ", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RemoveSpaces(tt.in), "입력: %q", tt.in)
	}

	assert.Equal(t, RemoveSpaces("1 234"), RemoveSpaces(RemoveSpaces("1 234")), "멱등이어야 합니다")
}

func TestNormalizeMultiLineSpaces(t *testing.T) {
	t.Parallel()

	in := "\n\n  first   line \n\n\n second\tline\n\n"
	assert.Equal(t, "first line\n\nsecond line", NormalizeMultiLineSpaces(in))
	assert.Equal(t, "", NormalizeMultiLineSpaces(" \n \n"))
}

func TestMaskSensitiveData(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", MaskSensitiveData(""))
	assert.Equal(t, "***", MaskSensitiveData("abc"))
	assert.Equal(t, "secr***", MaskSensitiveData("secret-pw"))
	assert.Equal(t, "abcd***mnop", MaskSensitiveData("abcdefghijklmnop"))
	assert.Equal(t, "hasł***", MaskSensitiveData("hasło123"))
}

func TestHTMLToText(t *testing.T) {
	t.Parallel()

	in := "<h1>Rainbow Ending Offers</h1><h2>Hotel &amp; Spa</h2><p>Price: 1 200 PLN</p><hr>"
	assert.Equal(t, "Rainbow Ending Offers\nHotel & Spa\nPrice: 1 200 PLN", HTMLToText(in))
	assert.Equal(t, "3 < 5", StripHTMLTags("3 < 5"))
}
