package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONCodecsAgree(t *testing.T) {
	type report struct {
		Rank    int              `json:"rank"`
		Records int64            `json:"records"`
		Phases  map[string]int64 `json:"phases"`
	}
	in := report{Rank: 2, Records: 1000, Phases: map[string]int64{"sample": 3, "merge": 9}}

	encoded := map[string][]byte{}
	for _, c := range []Codec{JSON{}, GoJSON{}} {
		t.Run(c.Name(), func(t *testing.T) {
			data, err := c.Marshal(in)
			require.NoError(t, err)
			encoded[c.Name()] = data

			var out report
			require.NoError(t, c.Unmarshal(data, &out))
			assert.Equal(t, in, out)

			indented, err := c.MarshalIndent(in)
			require.NoError(t, err)
			assert.Contains(t, string(indented), "\n  \"rank\": 2")
		})
	}
	assert.JSONEq(t, string(encoded["json"]), string(encoded["go-json"]))
}

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json"} {
		c, ok := ByName(name)
		require.True(t, ok)
		assert.Equal(t, name, c.Name())
	}
	_, ok := ByName("wire")
	assert.False(t, ok)
}

func TestDefault(t *testing.T) {
	assert.Equal(t, "go-json", Default.Name())
}
