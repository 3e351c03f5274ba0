package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertiesOrder(t *testing.T) {
	p := PropertiesOf("host", "a", "port", "21", "directoryName", "foo")
	assert.Equal(t, []string{"host", "port", "directoryName"}, p.Keys())

	p.Set("port", "22")
	assert.Equal(t, []string{"host", "port", "directoryName"}, p.Keys())
	assert.Equal(t, "22", p.Value("port"))

	p.Delete("host")
	p.Delete("missing")
	assert.Equal(t, []string{"port", "directoryName"}, p.Keys())
	assert.Equal(t, 2, p.Len())
	assert.False(t, p.Has("host"))

	_, ok := p.Get("host")
	assert.False(t, ok)
	assert.Equal(t, "{port=22, directoryName=foo}", p.String())
}

func TestPropertiesZeroValue(t *testing.T) {
	var p Properties
	assert.Equal(t, "", p.Value("x"))
	p.Set("x", "1")
	assert.Equal(t, map[string]string{"x": "1"}, p.Map())
}

func TestPropertiesCloneIsIndependent(t *testing.T) {
	p := PropertiesOf("a", "1")
	c := p.Clone()
	c.Set("b", "2")
	assert.Equal(t, 1, p.Len())
	assert.Equal(t, 2, c.Len())
}

func TestPropertiesJSON(t *testing.T) {
	p := PropertiesOf("zeta", "1", "alpha", "a b", "mid", "")
	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":"1","alpha":"a b","mid":""}`, string(b))

	var back Properties
	require.NoError(t, json.Unmarshal([]byte(`{"b":"2","a":"1"}`), &back))
	assert.Equal(t, []string{"b", "a"}, back.Keys())

	assert.Error(t, json.Unmarshal([]byte(`[1]`), &back))
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &back))
}
