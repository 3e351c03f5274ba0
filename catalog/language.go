package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ExpressionValidator checks expression and predicate text of a language.
// A returned *ExpressionError carries position details.
type ExpressionValidator interface {
	CheckExpression(language, text string) error
	CheckPredicate(language, text string) error
}

// ExpressionError is a syntax problem found by an ExpressionValidator.
type ExpressionError struct {
	Message      string
	Index        int // -1 when unknown
	ShortMessage string
}

func (e *ExpressionError) Error() string { return e.Message }

// NoopExpressionValidator accepts every text.
type NoopExpressionValidator struct{}

func (NoopExpressionValidator) CheckExpression(string, string) error { return nil }
func (NoopExpressionValidator) CheckPredicate(string, string) error  { return nil }

// BalancedExpressionValidator only checks that ${ functions are closed.
type BalancedExpressionValidator struct{}

func (BalancedExpressionValidator) CheckExpression(_, text string) error { return checkBalanced(text) }
func (BalancedExpressionValidator) CheckPredicate(_, text string) error  { return checkBalanced(text) }

func checkBalanced(text string) error {
	var open []int
	for i := 0; i < len(text); i++ {
		switch {
		case text[i] == '$' && i+1 < len(text) && text[i+1] == '{':
			open = append(open, i)
			i++
		case text[i] == '}' && len(open) > 0:
			open = open[:len(open)-1]
		}
	}
	if len(open) > 0 {
		// reported at the last character, where the closing brace is missing
		idx := len(text) - 1
		return &ExpressionError{
			Message:      fmt.Sprintf("expected symbol functionEnd but was eol at location %d", idx),
			Index:        idx,
			ShortMessage: "expected symbol functionEnd but was eol",
		}
	}
	return nil
}

// LanguageValidationResult is the outcome of an expression check.
type LanguageValidationResult struct {
	Text       string `json:"text"`
	Error      string `json:"error,omitempty"`
	ShortError string `json:"shortError,omitempty"`
	Index      int    `json:"index"`
}

func (r *LanguageValidationResult) IsSuccess() bool { return r.Error == "" }

var (
	maskPlaceholders   = regexp.MustCompile(`\{\{(.+)\}\}`)
	unmaskPlaceholders = regexp.MustCompile(`~\^(.+)\^~`)
)

// ValidateLanguageExpression checks text as an expression of language.
func (c *Catalog) ValidateLanguageExpression(language, text string) *LanguageValidationResult {
	return c.validateLanguage(language, text, false)
}

// ValidateLanguagePredicate checks text as a predicate of language.
func (c *Catalog) ValidateLanguagePredicate(language, text string) *LanguageValidationResult {
	return c.validateLanguage(language, text, true)
}

func (c *Catalog) validateLanguage(language, text string, predicate bool) *LanguageValidationResult {
	r := &LanguageValidationResult{Text: text, Index: -1}
	check := c.expressions.CheckExpression
	if predicate {
		check = c.expressions.CheckPredicate
	}

	if language == "simple" {
		// {{x}} is resolved before the expression is compiled
		masked := maskPlaceholders.ReplaceAllString(text, "~^${1}^~")
		err := check(language, masked)
		if err == nil {
			return r
		}
		r.Error = unmaskPlaceholders.ReplaceAllString(err.Error(), "{{${1}}}")
		var ee *ExpressionError
		if errors.As(err, &ee) {
			r.Index = ee.Index
			r.ShortError = ee.ShortMessage
		}
		if r.ShortError == "" {
			if i := strings.Index(r.Error, " at location "); i > 0 {
				r.ShortError = r.Error[:i]
			}
		}
		return r
	}

	name := language
	if name == "method" {
		name = "bean"
	}
	m, err := c.LanguageModel(name)
	if err != nil {
		r.Error = "Unknown language " + language
		return r
	}
	if m.JavaType == "" {
		r.Error = "Cannot find javaType for language " + language
		return r
	}
	if err := check(language, text); err != nil {
		r.Error = err.Error()
		var ee *ExpressionError
		if errors.As(err, &ee) {
			r.Index = ee.Index
			r.ShortError = ee.ShortMessage
		}
	}
	return r
}
