package catalog

import (
	"io/fs"
	"os"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundledSchemasAreValid(t *testing.T) {
	fsys := os.DirFS("../schema")
	n := 0
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		ns, err := ParseNamespace(path.Dir(p))
		require.NoError(t, err, p)
		raw, err := fs.ReadFile(fsys, p)
		require.NoError(t, err)
		assert.NoError(t, ValidateSchemaDocument(ns, raw), p)

		name := strings.TrimSuffix(path.Base(p), path.Ext(p))
		_, err = ParseModel(ns, name, raw)
		assert.NoError(t, err, p)
		n++
		return nil
	})
	require.NoError(t, err)
	assert.Greater(t, n, 20)
}

func TestValidateSchemaDocumentErrors(t *testing.T) {
	tests := map[string]string{
		"missing syntax":    `{"component": {"scheme": "x"}}`,
		"bad kind":          `{"component": {"scheme": "x", "syntax": "x:a"}, "properties": {"a": {"kind": "bogus"}}}`,
		"bad flag":          `{"component": {"scheme": "x", "syntax": "x:a", "consumerOnly": "yes"}}`,
		"no header":         `{"properties": {}}`,
		"options not a map": `{"component": {"scheme": "x", "syntax": "x:a"}, "properties": 3}`,
		"empty":             ``,
		"broken":            `{"component": `,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, ValidateSchemaDocument(NamespaceComponent, []byte(doc)), ErrInvalidSchema)
		})
	}

	assert.NoError(t, ValidateSchemaDocument(NamespaceLanguage, []byte(`{"properties": {"a": {"type": "string"}}}`)))
}

func TestStrictSchemasRejectInvalidDocuments(t *testing.T) {
	r := NewMapResolver().Add(NamespaceComponent, "x", []byte(`{"component": {"scheme": "x"}}`))

	_, err := New(r).ComponentModel("x")
	assert.NoError(t, err)

	_, err = New(r, WithStrictSchemas()).ComponentModel("x")
	assert.ErrorIs(t, err, ErrInvalidSchema)
}
