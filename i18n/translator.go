package i18n

import "strings"

// Translator retrieves localized messages for validation and pipeline codes.
// data provides optional metadata to embed in the message, keyed by
// placeholder name (for example "expected" or "limit").
type Translator interface {
	Message(code string, data map[string]string) string
}

var catalog = map[string]map[string]string{
	"en": {
		"invalid_type":    "invalid type: expected {expected}",
		"required":        "required property missing: expected {expected}",
		"invalid_literal": "invalid literal: expected {expected}",
		"invalid_enum":    "invalid enum value: expected {expected}",
		"parse_error":     "cannot parse JSON",
		"max_depth":       "max depth {limit} exceeded",
		"instructions":    "model did not call the provided tool",
	},
	"ja": {
		"invalid_type":    "型が不正です（期待: {expected}）",
		"required":        "必須プロパティが不足しています（期待: {expected}）",
		"invalid_literal": "リテラル値が一致しません（期待: {expected}）",
		"invalid_enum":    "列挙値が不正です（期待: {expected}）",
		"parse_error":     "JSONを解析できません",
		"max_depth":       "最大深さ {limit} を超えました",
		"instructions":    "モデルが指定のツールを呼び出しませんでした",
	},
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := catalog[t.lang][code]
	if !ok {
		return code
	}
	for k, v := range data {
		msg = strings.ReplaceAll(msg, "{"+k+"}", v)
	}
	return msg
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := catalog[lang]; !ok {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores the English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
