package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSimpleLanguage(t *testing.T) {
	c := newTestCatalog(t, WithExpressionValidator(BalancedExpressionValidator{}))

	r := c.ValidateLanguageExpression("simple", "${body}")
	assert.True(t, r.IsSuccess())
	assert.Equal(t, -1, r.Index)

	r = c.ValidateLanguageExpression("simple", "${body")
	assert.False(t, r.IsSuccess())
	assert.Equal(t, "expected symbol functionEnd but was eol at location 5", r.Error)
	assert.Equal(t, "expected symbol functionEnd but was eol", r.ShortError)
	assert.Equal(t, 5, r.Index)

	r = c.ValidateLanguagePredicate("simple", "${body} > ${header.size")
	assert.Equal(t, "expected symbol functionEnd but was eol at location 22", r.Error)
	assert.Equal(t, 22, r.Index)
}

func TestValidateOtherLanguages(t *testing.T) {
	c := newTestCatalog(t, WithExpressionValidator(BalancedExpressionValidator{}))

	assert.True(t, c.ValidateLanguageExpression("header", "foo").IsSuccess())
	assert.True(t, c.ValidateLanguageExpression("method", "myBean.doIt").IsSuccess())
	assert.False(t, c.ValidateLanguagePredicate("header", "${foo").IsSuccess())

	r := c.ValidateLanguageExpression("foobar", "x")
	assert.Equal(t, "Unknown language foobar", r.Error)

	c = New(NewMapResolver().Add(NamespaceLanguage, "nojava", []byte(`{"language": {"kind": "language", "name": "nojava"}}`)))
	r = c.ValidateLanguageExpression("nojava", "x")
	assert.Equal(t, "Cannot find javaType for language nojava", r.Error)
}

func TestValidateLanguageMasksPlaceholders(t *testing.T) {
	var seen string
	v := fakeExpressionValidator(func(text string) error {
		seen = text
		return fmt.Errorf("unexpected %s at location 3", text)
	})
	c := newTestCatalog(t, WithExpressionValidator(v))

	r := c.ValidateLanguageExpression("simple", "${body} {{danger}}")
	assert.Equal(t, "${body} ~^danger^~", seen)
	assert.Equal(t, "unexpected ${body} {{danger}} at location 3", r.Error)
	assert.Equal(t, "unexpected ${body} {{danger}}", r.ShortError)
	assert.Equal(t, -1, r.Index)
}

func TestNoopExpressionValidatorIsDefault(t *testing.T) {
	c := newTestCatalog(t)
	assert.True(t, c.ValidateLanguageExpression("simple", "${body").IsSuccess())
}

type fakeExpressionValidator func(text string) error

func (f fakeExpressionValidator) CheckExpression(_, text string) error { return f(text) }
func (f fakeExpressionValidator) CheckPredicate(_, text string) error  { return f(text) }
