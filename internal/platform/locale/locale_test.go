// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package locale_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/shici/internal/platform/locale"
)

/*
TestParse covers canonicalization and the supported set.
*/
func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		isValid bool
	}{
		{"simplified", "zh-Hans", "zh-Hans", true},
		{"traditional", "zh-Hant", "zh-Hant", true},
		{"lowercase", "zh-hant", "zh-Hant", true},
		{"regional_alias", "zh-TW", "", false},
		{"other_language", "en", "", false},
		{"malformed", "not a tag!", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, err := locale.Parse(tt.raw)
			if tt.isValid {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, tag.String())
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"zh-Hans", "zh-Hant"}, locale.Names())
}
