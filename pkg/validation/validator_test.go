package validation

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type draft struct {
	Title string `validate:"required,max=10"`
	Body  string `validate:"required"`
}

func TestStructReportsFirstFieldError(t *testing.T) {
	err := Struct(draft{Title: "", Body: "x"})
	require.Error(t, err)
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "title", fe.Field)
	assert.Contains(t, fe.Message, "required")

	assert.NoError(t, Struct(draft{Title: "ok", Body: "x"}))
}

func TestVarEmail(t *testing.T) {
	assert.NoError(t, Var("email", "a@x.com", "email"))
	err := Var("email", "not-an-email", "email")
	require.Error(t, err)
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "email", fe.Field)
}

// pngHeader is enough of a PNG for content sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func TestHeroImageAllowList(t *testing.T) {
	ct, err := HeroImage(pngHeader)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)

	jpeg := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{0}, 16)...)
	ct, err = HeroImage(jpeg)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", ct)

	webp := append([]byte("RIFF\x00\x00\x00\x00WEBPVP8 "), bytes.Repeat([]byte{0}, 16)...)
	ct, err = HeroImage(webp)
	require.NoError(t, err)
	assert.Equal(t, "image/webp", ct)
}

func TestHeroImageRejectsWrongType(t *testing.T) {
	_, err := HeroImage([]byte("%PDF-1.4 not an image"))
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "hero_image", fe.Field)
}

func TestHeroImageRejectsOversize(t *testing.T) {
	big := make([]byte, MaxHeroImageBytes+1)
	copy(big, pngHeader)
	_, err := HeroImage(big)
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Message, "8 MiB")
}

func TestHeroImageRejectsEmpty(t *testing.T) {
	_, err := HeroImage(nil)
	assert.Error(t, err)
}
