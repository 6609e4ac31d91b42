// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package locale validates the display-language selector accepted by read endpoints.
package locale

import (
	"errors"
	"strings"

	"golang.org/x/text/language"

	"github.com/taibuivan/shici/pkg/slice"
)

// Supported display languages. Simplified is the primary script; the
// *_localized columns carry the Traditional variant.
var (
	Simplified  = language.MustParse("zh-Hans")
	Traditional = language.MustParse("zh-Hant")
)

var supported = []language.Tag{Simplified, Traditional}

// ErrUnsupported is returned for well-formed tags outside the supported set.
var ErrUnsupported = errors.New("locale: unsupported language")

// Parse canonicalizes raw (case-insensitive BCP 47) and checks it against the
// supported set. Regional aliases such as zh-TW are rejected; only the script
// subtags are accepted.
func Parse(raw string) (language.Tag, error) {
	tag, err := language.Parse(strings.TrimSpace(raw))
	if err != nil {
		return language.Und, err
	}

	for _, candidate := range supported {
		if tag == candidate {
			return candidate, nil
		}
	}
	return language.Und, ErrUnsupported
}

// Names lists the supported tags in canonical form, for error messages.
func Names() []string {
	return slice.Map(supported, language.Tag.String)
}
