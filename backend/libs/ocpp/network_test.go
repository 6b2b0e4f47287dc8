package ocpp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetworkPath(t *testing.T) {
	path := NewNetworkPath("CS-1")
	extended := path.Append("LC-1")

	assert.Equal(t, 1, path.Len(), "append must not modify the receiver")
	assert.Equal(t, 2, extended.Len())
	assert.Equal(t, NodeID("CS-1"), extended.Origin())
	assert.Equal(t, NodeID("LC-1"), extended.Last())
	assert.True(t, extended.Contains("LC-1"))
	assert.False(t, extended.Contains("CSMS"))
	assert.Equal(t, "CS-1 -> LC-1", extended.String())

	var empty NetworkPath
	assert.Equal(t, NodeID(""), empty.Origin())
	assert.Equal(t, NodeID(""), empty.Last())

	raw, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestNodeIDIsZero(t *testing.T) {
	assert.True(t, NodeID("  ").IsZero())
	assert.False(t, NodeID("CS-1").IsZero())
}
