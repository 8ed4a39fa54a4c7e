package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAxis(t *testing.T) {
	a, err := parseAxis("temperature=80, 90,100")
	require.NoError(t, err)
	assert.Equal(t, "temperature", a.Param)
	assert.Equal(t, []float64{80, 90, 100}, a.Values)

	a, err = parseAxis("heat2d.t_hot=500:900:3")
	require.NoError(t, err)
	assert.Equal(t, []float64{500, 700, 900}, a.Values)

	for _, bad := range []string{"temperature", "=1,2", "tau=fast", "tau=1:x:3"} {
		_, err := parseAxis(bad)
		assert.Error(t, err, bad)
	}
}
