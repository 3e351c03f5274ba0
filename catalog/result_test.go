package catalog

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationResultAddDeduplicates(t *testing.T) {
	r := newResult("x:y")
	r.add(Defect{Kind: DefectUnknown, Name: "foo"})
	r.add(Defect{Kind: DefectUnknown, Name: "foo", Suggestions: []string{"fob"}})
	r.add(Defect{Kind: DefectUnknown, Name: "bar"})

	require.Len(t, r.Defects, 2)
	assert.Equal(t, []string{"fob"}, r.Defects[0].Suggestions)
	assert.Equal(t, []string{"foo", "bar"}, r.Unknown())
}

func TestInformationalDefects(t *testing.T) {
	r := newResult("x:y")
	r.add(Defect{Kind: DefectLenient, Name: "a"})
	r.add(Defect{Kind: DefectDefaultValue, Name: "b", Value: "1"})
	r.add(Defect{Kind: DefectDeprecated, Name: "c"})

	assert.True(t, r.IsSuccess())
	assert.Equal(t, 0, r.NumberOfErrors())
	assert.Equal(t, "", r.Summary(true))
	assert.Equal(t, map[string]string{"b": "1"}, r.DefaultValues())
}

func TestDefectKindText(t *testing.T) {
	for k := DefectNone; k <= DefectUnknownComponent; k++ {
		b, err := k.MarshalText()
		require.NoError(t, err)
		var back DefectKind
		require.NoError(t, back.UnmarshalText(b))
		assert.Equal(t, k, back)
	}
	var k DefectKind
	assert.Error(t, k.UnmarshalText([]byte("bogus")))
	assert.Equal(t, "DefectKind(99)", DefectKind(99).String())
}

func TestValidationResultJSON(t *testing.T) {
	r := newResult("log:foo?x=1")
	r.add(Defect{Kind: DefectUnknown, Name: "x", Suggestions: []string{"y"}})

	b, err := json.Marshal(r)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.Equal(t, "log:foo?x=1", doc["uri"])
	assert.Equal(t, false, doc["success"])
	assert.Equal(t, 1.0, doc["errors"])
	defects := doc["defects"].([]any)
	assert.Equal(t, "unknown", defects[0].(map[string]any)["kind"])
}

func TestSummary(t *testing.T) {
	r := newResult("jms:unknown:myqueue")
	r.add(Defect{Kind: DefectInvalidEnum, Name: "destinationType", Value: "unknown", Choices: []string{"queue", "topic"}})
	r.add(Defect{Kind: DefectDefaultValue, Name: "destinationType", Value: "queue"})
	r.add(Defect{Kind: DefectRequired, Name: "auth"})

	s := r.Summary(false)
	lines := strings.Split(strings.TrimSpace(s), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "auth")
	assert.Contains(t, lines[0], "Missing required option")
	assert.Contains(t, lines[1], "Invalid enum value: unknown. Possible values: queue, topic")
	assert.False(t, strings.HasPrefix(s, "jms:"))

	assert.True(t, strings.HasPrefix(r.Summary(true), "jms:unknown:myqueue\n\n"))
}

func TestDefectMessages(t *testing.T) {
	assert.Equal(t, "Unknown option. Did you mean: level", Defect{Kind: DefectUnknown, Suggestions: []string{"level"}}.message())
	assert.Equal(t, "Invalid reference value: # must not be empty", Defect{Kind: DefectInvalidReference, Value: "#"}.message())
	assert.Equal(t, "Invalid reference value: b must start with #", Defect{Kind: DefectInvalidReference, Value: "b"}.message())
	assert.Equal(t, "Unknown component: foo", Defect{Kind: DefectUnknownComponent, Name: "foo"}.message())
}
