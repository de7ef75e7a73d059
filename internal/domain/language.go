package domain

import "strings"

// Language is the UI language a message was created under.
type Language string

const (
	LanguageArabic Language = "ar"
	LanguageFrench Language = "fr"
)

// ParseLanguage accepts "ar" or "fr" in any case, surrounded by whitespace.
func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case LanguageArabic:
		return LanguageArabic, nil
	case LanguageFrench:
		return LanguageFrench, nil
	default:
		return "", ErrUnsupportedLanguage
	}
}

func (l Language) Valid() bool {
	return l == LanguageArabic || l == LanguageFrench
}

// IsRTL reports whether the language is written right-to-left.
func (l Language) IsRTL() bool {
	return l == LanguageArabic
}

func (l Language) String() string {
	return string(l)
}
