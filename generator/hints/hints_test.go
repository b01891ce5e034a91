package hints

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAfterGenerateText(t *testing.T) {
	for v := Unset; v <= PopulateAll; v++ {
		text, err := v.MarshalText()
		require.NoError(t, err)

		var back AfterGenerate
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, v, back)
	}

	_, err := ParseAfterGenerate("sometimes")
	assert.Error(t, err)
	assert.Equal(t, "unknown", AfterGenerate(42).String())
	assert.Equal(t, PopulateAll, Of(PopulateAll).AfterGenerate)
}
