package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	defer SetLanguage("en")

	// default is en
	assert.Equal(t, "invalid type: expected number", T("invalid_type", map[string]string{"expected": "number"}))

	SetLanguage("ja")
	msg := T("invalid_type", map[string]string{"expected": "number"})
	assert.NotEqual(t, "invalid type: expected number", msg)
	assert.Contains(t, msg, "number")

	SetLanguage("fr")
	assert.Equal(t, "required property missing: expected string", T("required", map[string]string{"expected": "string"}))
}

func TestTranslator_UnknownCode(t *testing.T) {
	assert.Equal(t, "no_such_code", T("no_such_code", nil))
}

func TestTranslator_Placeholders(t *testing.T) {
	assert.Equal(t, "max depth 8 exceeded", T("max_depth", map[string]string{"limit": "8"}))
	// missing data leaves the placeholder visible
	assert.Equal(t, "invalid enum value: expected {expected}", T("invalid_enum", nil))
}

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "X-" + code }

func TestSetTranslator(t *testing.T) {
	defer SetTranslator(nil)
	SetTranslator(upper{})
	assert.Equal(t, "X-required", T("required", nil))
	SetTranslator(nil)
	assert.Equal(t, "cannot parse JSON", T("parse_error", nil))
}
