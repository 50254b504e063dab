package types

import (
	"fmt"
	"strings"
)

// Locale is a supported display language
type Locale string

const (
	LocaleFR Locale = "fr"
	LocaleEN Locale = "en"
)

// AllLocales returns all supported locales
func AllLocales() []Locale {
	return []Locale{
		LocaleFR,
		LocaleEN,
	}
}

// IsValid checks if the locale is supported
func (l Locale) IsValid() bool {
	switch l {
	case LocaleFR,
		LocaleEN:
		return true
	default:
		return false
	}
}

// String returns the string representation of the locale
func (l Locale) String() string {
	return string(l)
}

// Or returns l when it is supported, otherwise fallback.
func (l Locale) Or(fallback Locale) Locale {
	if l.IsValid() {
		return l
	}
	return fallback
}

// ParseLocale parses a locale code such as "fr" or "EN"
func ParseLocale(s string) (Locale, error) {
	l := Locale(strings.ToLower(strings.TrimSpace(s)))
	if !l.IsValid() {
		return "", fmt.Errorf("invalid locale: %s", s)
	}
	return l, nil
}

// Localized holds a display text in every supported locale. It is a fixed
// record rather than an open map so that a missing locale is a load-time
// error instead of a lookup miss.
type Localized struct {
	FR string `json:"fr" toml:"fr" yaml:"fr"`
	EN string `json:"en" toml:"en" yaml:"en"`
}

// Get returns the text for the locale. An unknown locale or an empty entry
// falls back to the fallback locale.
func (t Localized) Get(l, fallback Locale) string {
	if s := t.lookup(l); s != "" {
		return s
	}
	return t.lookup(fallback)
}

// Missing returns the locales that have no text
func (t Localized) Missing() []Locale {
	var missing []Locale
	for _, l := range AllLocales() {
		if strings.TrimSpace(t.lookup(l)) == "" {
			missing = append(missing, l)
		}
	}
	return missing
}

func (t Localized) lookup(l Locale) string {
	switch l {
	case LocaleFR:
		return t.FR
	case LocaleEN:
		return t.EN
	default:
		return ""
	}
}
