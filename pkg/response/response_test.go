package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	env, err := Decode([]byte(`{"success":true,"message":"ok","data":{"id":"m1"}}`))
	require.NoError(t, err)
	assert.True(t, env.Success)
	assert.Equal(t, "ok", env.Message)

	var data struct {
		ID string `json:"id"`
	}
	require.NoError(t, env.DataInto(&data))
	assert.Equal(t, "m1", data.ID)
}

func TestDecodeFailureBody(t *testing.T) {
	_, err := Decode([]byte("<html>gateway timeout</html>"))
	assert.Error(t, err)
}

func TestDataIntoMissingPayload(t *testing.T) {
	env, err := Decode([]byte(`{"success":true}`))
	require.NoError(t, err)
	var data struct {
		ID string `json:"id"`
	}
	data.ID = "unchanged"
	require.NoError(t, env.DataInto(&data))
	assert.Equal(t, "unchanged", data.ID)

	env, err = Decode([]byte(`{"success":true,"data":null}`))
	require.NoError(t, err)
	require.NoError(t, env.DataInto(&data))
	assert.Equal(t, "unchanged", data.ID)
}
