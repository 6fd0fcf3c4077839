// Package languages knows the language codes accepted by the policy
// platform and how to present them in language pickers.
package languages

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Language is a platform language code with its English label.
type Language struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Catalog lists the languages offered when creating a template, in the
// order they are presented.
var Catalog = []Language{
	{Code: "en-US", Label: "English (United States)"},
	{Code: "es-ES", Label: "Spanish (Spain)"},
	{Code: "fr-FR", Label: "French (France)"},
	{Code: "de-DE", Label: "German (Germany)"},
	{Code: "ja-JP", Label: "Japanese (Japan)"},
	{Code: "pt-BR", Label: "Portuguese (Brazil)"},
	{Code: "ru-RU", Label: "Russian (Russia)"},
	{Code: "zh-CN", Label: "Chinese (Simplified, China)"},
	{Code: "zh-TW", Label: "Chinese (Traditional, Taiwan)"},
	{Code: "it-IT", Label: "Italian (Italy)"},
	{Code: "ko-KR", Label: "Korean (Korea)"},
	{Code: "nl-NL", Label: "Dutch (Netherlands)"},
	{Code: "pl-PL", Label: "Polish (Poland)"},
	{Code: "tr-TR", Label: "Turkish (Turkey)"},
	{Code: "sv-SE", Label: "Swedish (Sweden)"},
	{Code: "cs-CZ", Label: "Czech (Czech Republic)"},
	{Code: "da-DK", Label: "Danish (Denmark)"},
	{Code: "fi-FI", Label: "Finnish (Finland)"},
	{Code: "el-GR", Label: "Greek (Greece)"},
	{Code: "hu-HU", Label: "Hungarian (Hungary)"},
	{Code: "no-NO", Label: "Norwegian (Norway)"},
	{Code: "pt-PT", Label: "Portuguese (Portugal)"},
	{Code: "ro-RO", Label: "Romanian (Romania)"},
	{Code: "sk-SK", Label: "Slovak (Slovakia)"},
	{Code: "th-TH", Label: "Thai (Thailand)"},
	{Code: "uk-UA", Label: "Ukrainian (Ukraine)"},
	{Code: "ar-SA", Label: "Arabic (Saudi Arabia)"},
	{Code: "he-IL", Label: "Hebrew (Israel)"},
	{Code: "id-ID", Label: "Indonesian (Indonesia)"},
	{Code: "ms-MY", Label: "Malay (Malaysia)"},
	{Code: "vi-VN", Label: "Vietnamese (Vietnam)"},
	{Code: "bg-BG", Label: "Bulgarian (Bulgaria)"},
	{Code: "hr-HR", Label: "Croatian (Croatia)"},
	{Code: "et-EE", Label: "Estonian (Estonia)"},
	{Code: "lv-LV", Label: "Latvian (Latvia)"},
	{Code: "lt-LT", Label: "Lithuanian (Lithuania)"},
	{Code: "sl-SI", Label: "Slovenian (Slovenia)"},
	{Code: "sr-Latn-RS", Label: "Serbian (Latin, Serbia)"},
	{Code: "ca-ES", Label: "Catalan (Spain)"},
	{Code: "eu-ES", Label: "Basque (Spain)"},
	{Code: "gl-ES", Label: "Galician (Spain)"},
}

var byCode = func() map[string]Language {
	m := make(map[string]Language, len(Catalog))
	for _, l := range Catalog {
		m[l.Code] = l
	}
	return m
}()

// Known reports whether code is in the catalog.
func Known(code string) bool {
	_, ok := byCode[code]
	return ok
}

// Valid reports whether code is a catalog code or a well-formed BCP 47 tag
// with known subtags.
func Valid(code string) bool {
	if Known(code) {
		return true
	}
	if code == "" {
		return false
	}
	_, err := language.Parse(code)
	return err == nil
}

// Label returns the display label for code. Catalog labels take
// precedence, then English display names, then the code itself.
func Label(code string) string {
	if l, ok := byCode[code]; ok {
		return l.Label
	}
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return code
}
