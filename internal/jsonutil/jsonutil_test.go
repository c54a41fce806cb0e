package jsonutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalWithContext(t *testing.T) {
	var m map[string]interface{}
	require.NoError(t, UnmarshalWithContext([]byte(`{"a":1}`), &m, "test doc"))
	assert.Equal(t, float64(1), m["a"])

	err := UnmarshalWithContext([]byte(`{broken`), &m, "test doc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test doc")
}

func TestGetString(t *testing.T) {
	m := map[string]interface{}{"s": "hello", "n": 42.0}
	assert.Equal(t, "hello", GetString(m, "s"))
	assert.Equal(t, "", GetString(m, "n"), "non-string yields empty")
	assert.Equal(t, "", GetString(m, "missing"))
	assert.Equal(t, "fallback", GetStringOr(m, "missing", "fallback"))
	assert.Equal(t, "hello", GetStringOr(m, "s", "fallback"))
}

func TestToString(t *testing.T) {
	assert.Equal(t, "", ToString(nil))
	assert.Equal(t, "text", ToString("text"))
	assert.Equal(t, "2021", ToString(2021.0), "whole floats render as integers")
	assert.Equal(t, "2.5", ToString(2.5))
	assert.Equal(t, "true", ToString(true))
}

func TestGetMaps(t *testing.T) {
	var m map[string]interface{}
	require.NoError(t, UnmarshalWithContext([]byte(`{
		"lor": [{"title":"A"}, "not an object", {"title":"B"}],
		"scalar": 3
	}`), &m, "doc"))

	refs := GetMaps(m, "lor")
	require.Len(t, refs, 2, "non-object entries are skipped")
	assert.Equal(t, "A", GetString(refs[0], "title"))
	assert.Equal(t, "B", GetString(refs[1], "title"))

	assert.Nil(t, GetMaps(m, "scalar"))
	assert.Nil(t, GetMaps(m, "missing"))
}

func TestGetMap(t *testing.T) {
	m := map[string]interface{}{
		"sos_score": map[string]interface{}{"CSS": 4.0},
		"flat":      "x",
	}
	assert.Equal(t, 4.0, GetMap(m, "sos_score")["CSS"])
	assert.Nil(t, GetMap(m, "flat"))
	assert.Nil(t, GetMap(m, "missing"))
}
