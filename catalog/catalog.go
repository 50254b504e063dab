// Package catalog embeds the default security questionnaire
package catalog

import _ "embed"

// Default is the TOML definition used when no catalog is configured
//
//go:embed default.toml
var Default []byte
