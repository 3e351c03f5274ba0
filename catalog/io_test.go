package catalog

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadEndpointURIs(t *testing.T) {
	in := strings.NewReader("# routes\nlog:foo\n\n  timer:bar?period=5  \n#jms:x\n")
	var got []string
	require.NoError(t, ReadEndpointURIs(in, func(uri string) error {
		got = append(got, uri)
		return nil
	}))
	assert.Equal(t, []string{"log:foo", "timer:bar?period=5"}, got)
}

func TestWriteResultsCSV(t *testing.T) {
	ok := newResult("log:foo")
	bad := newResult("jms:unknown:q")
	bad.add(Defect{Kind: DefectInvalidEnum, Name: "destinationType", Value: "unknown", Choices: []string{"queue", "topic"}})
	bad.add(Defect{Kind: DefectUnknown, Name: "levl", Suggestions: []string{"level"}})

	var buf bytes.Buffer
	require.NoError(t, WriteResultsCSV(&buf, []*ValidationResult{ok, bad}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"uri", "success", "kind", "name", "value", "choices", "suggestions"},
		{"log:foo", "true", "", "", "", "", ""},
		{"jms:unknown:q", "false", "invalidEnum", "destinationType", "unknown", "queue|topic", ""},
		{"jms:unknown:q", "false", "unknown", "levl", "", "", "level"},
	}, rows)
}

func TestResultsJSONLRoundTrip(t *testing.T) {
	c := newTestCatalog(t)
	results := []*ValidationResult{
		c.ValidateEndpointProperties("log:foo?levl=INFO"),
		c.ValidateEndpointProperties("timer:foo?pattern=a&b"),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteResultsJSONL(&buf, results))
	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))

	var back []*ValidationResult
	require.NoError(t, ReadResultsJSONL(&buf, func(r *ValidationResult) error {
		back = append(back, r)
		return nil
	}))
	require.Len(t, back, 2)
	assert.Equal(t, results[0].URI, back[0].URI)
	assert.Equal(t, results[0].Defects, back[0].Defects)
	assert.Equal(t, results[1].IsSuccess(), back[1].IsSuccess())
}
