package intl

import (
	"golang.org/x/text/language"
)

type SupportedLanguage struct {
	Code        string
	VerboseName string
	Tag         language.Tag
}

var (
	allSupportedLanguages = []SupportedLanguage{
		{
			Code:        "pt-BR",
			VerboseName: "Português (Brasil)",
			Tag:         language.BrazilianPortuguese,
		},
		{
			Code:        "en",
			VerboseName: "English",
			Tag:         language.English,
		},
	}

	SupportedLanguages = allSupportedLanguages
)

// GetSupportedLanguages filters the supported languages by code. An empty
// whitelist returns all of them.
func GetSupportedLanguages(whitelist []string) []SupportedLanguage {
	if len(whitelist) == 0 {
		return allSupportedLanguages
	}

	whitelistMap := make(map[string]bool, len(whitelist))
	for _, code := range whitelist {
		whitelistMap[code] = true
	}

	filtered := make([]SupportedLanguage, 0, len(whitelist))
	for _, lang := range allSupportedLanguages {
		if whitelistMap[lang.Code] {
			filtered = append(filtered, lang)
		}
	}
	return filtered
}

func Codes() []string {
	codes := make([]string, 0, len(allSupportedLanguages))
	for _, lang := range allSupportedLanguages {
		codes = append(codes, lang.Code)
	}
	return codes
}
