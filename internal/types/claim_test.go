package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCreateInstructions(t *testing.T) {
	raw := []byte(`[{"claim_type_id":3},{"claim_type_id":7,"helper_override":"helper-a"}]`)

	instructions, err := DecodeCreateInstructions(raw)
	require.NoError(t, err)
	require.Len(t, instructions, 2)
	assert.Equal(t, ClaimTypeID(3), instructions[0].ClaimTypeID)
	assert.True(t, instructions[0].HelperOverride.IsNull())
	assert.Equal(t, Ref("helper-a"), instructions[1].HelperOverride)
}

func TestDecodeCreateInstructionsAbsentPayload(t *testing.T) {
	for _, raw := range [][]byte{nil, {}, []byte(`null`)} {
		instructions, err := DecodeCreateInstructions(raw)
		require.NoError(t, err)
		assert.Empty(t, instructions)
	}
}

func TestDecodeCreateInstructionsInvalidPayload(t *testing.T) {
	_, err := DecodeCreateInstructions([]byte(`{"claim_type_id":3}`))
	require.Error(t, err)

	_, err = DecodeCreateInstructions([]byte(`not json`))
	require.Error(t, err)
}

func TestValidateCreateInstructions(t *testing.T) {
	t.Run("empty batch", func(t *testing.T) {
		assert.NoError(t, ValidateCreateInstructions(nil))
	})

	t.Run("distinct claim types", func(t *testing.T) {
		err := ValidateCreateInstructions([]CreateInstruction{
			{ClaimTypeID: 1},
			{ClaimTypeID: 2},
			{ClaimTypeID: 255},
		})
		assert.NoError(t, err)
	})

	t.Run("duplicate claim type", func(t *testing.T) {
		err := ValidateCreateInstructions([]CreateInstruction{
			{ClaimTypeID: 1},
			{ClaimTypeID: 2, HelperOverride: "helper-a"},
			{ClaimTypeID: 1, HelperOverride: "helper-b"},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate claim type 1")
	})
}

func TestClaimTypeConfigIsConfigured(t *testing.T) {
	assert.False(t, ClaimTypeConfig{}.IsConfigured())
	assert.True(t, ClaimTypeConfig{DerivativeContract: "contract-a"}.IsConfigured())
}
