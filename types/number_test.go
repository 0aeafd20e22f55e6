package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberUnmarshalJSON(t *testing.T) {
	t.Parallel()
	var n Number
	require.NoError(t, json.Unmarshal([]byte(`"4393.21"`), &n))
	assert.Equal(t, 4393.21, n.Float64())

	require.NoError(t, json.Unmarshal([]byte(`0.0001`), &n))
	assert.Equal(t, 0.0001, n.Float64())

	require.NoError(t, json.Unmarshal([]byte(`""`), &n))
	assert.Zero(t, n.Float64())

	assert.Error(t, json.Unmarshal([]byte(`"1.2.3"`), &n))
}

func TestNumberMarshalJSON(t *testing.T) {
	t.Parallel()
	b, err := json.Marshal(Number(0.00012))
	require.NoError(t, err)
	assert.Equal(t, `"0.00012"`, string(b))
}
