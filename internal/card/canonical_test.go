package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeCanonical_SortsKeysAndOmitsEmpty(t *testing.T) {
	c := &ErrorCard{Base: Base{ID: "e1", Title: "Oops"}, ErrorKind: ErrorMissingInfo}

	got, err := EncodeCanonical(c)
	require.NoError(t, err)
	assert.Equal(t, `{"errorKind":"missing_info","id":"e1","kind":"error","title":"Oops"}`, string(got))
}

func TestEncodeCanonical_NoHTMLEscaping(t *testing.T) {
	c := &ErrorCard{Base: Base{ID: "e", Title: "<a & b>"}, ErrorKind: ErrorInvalidState}

	got, err := EncodeCanonical(c)
	require.NoError(t, err)
	assert.Contains(t, string(got), `"title":"<a & b>"`)
}

func TestEncodeCanonical_KeepsDecomposedText(t *testing.T) {
	c := &ErrorCard{Base: Base{ID: "e", Title: "Cafe\u0301"}, ErrorKind: ErrorInvalidState}

	got, err := EncodeCanonical(c)
	require.NoError(t, err)
	assert.Contains(t, string(got), "\"title\":\"Cafe\u0301\"")

	back, err := Decode(got)
	require.NoError(t, err)
	assert.Equal(t, "Cafe\u0301", back.Meta().Title)
}

func TestContentHash_IgnoresNormalisationForm(t *testing.T) {
	decomposed := &ErrorCard{Base: Base{ID: "e", Title: "Cafe\u0301"}, ErrorKind: ErrorInvalidState}
	composed := &ErrorCard{Base: Base{ID: "e", Title: "Caf\u00e9"}, ErrorKind: ErrorInvalidState}

	a, err := ContentHash(decomposed)
	require.NoError(t, err)
	b, err := ContentHash(composed)
	require.NoError(t, err)
	assert.Equal(t, b, a)

	raw, err := EncodeCanonical(decomposed)
	require.NoError(t, err)
	normalised, err := EncodeCanonical(composed)
	require.NoError(t, err)
	assert.NotEqual(t, string(normalised), string(raw))
}

func TestCanonicalize_KeepsLineSeparatorsLiteral(t *testing.T) {
	got, err := Canonicalize([]byte(`{"a":"x\u2028y","b":"\\u2028"}`))
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":\"x\u2028y\",\"b\":\"\\\\u2028\"}", string(got))
}

func TestCanonicalize_RejectsFloats(t *testing.T) {
	_, err := Canonicalize([]byte(`{"stepIndex":1.5}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-integer")
}

func TestCompareUTF16(t *testing.T) {
	// U+1F600 encodes as a surrogate pair (0xD83D...) which sorts before U+FF61.
	assert.Equal(t, -1, compareUTF16("\U0001F600", "\uFF61"))
	assert.Equal(t, 1, compareUTF16("b", "a"))
	assert.Equal(t, -1, compareUTF16("a", "ab"))
	assert.Equal(t, 0, compareUTF16("same", "same"))
}

func TestContentHash_StableAndSensitive(t *testing.T) {
	a := sampleMockup()
	h1, err := ContentHash(a)
	require.NoError(t, err)
	h2, err := ContentHash(Clone(a))
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)

	b := sampleMockup()
	b.Regions[0].Notes = "different"
	h3, err := ContentHash(b)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}
