package utils_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmxmxh/xrscene/kernel/utils"
)

func TestWrapError(t *testing.T) {
	base := errors.New("no adapter")
	err := utils.WrapError(base, "enumerate")
	assert.EqualError(t, err, "enumerate: no adapter")
	assert.ErrorIs(t, err, base)

	assert.EqualError(t, utils.WrapError(nil, "enumerate"), "enumerate")
}

func TestRecoverError(t *testing.T) {
	assert.NoError(t, utils.RecoverError(nil, "op"))

	base := errors.New("bad value")
	err := utils.RecoverError(base, "shadows")
	assert.ErrorIs(t, err, base)

	err = utils.RecoverError("nil target", "wireframe")
	require.Error(t, err)
	assert.Equal(t, "wireframe: nil target", err.Error())
}

func TestGenerateID(t *testing.T) {
	a, b := utils.GenerateID(), utils.GenerateID()
	assert.Len(t, a, 16)
	assert.NotEqual(t, a, b)
}
