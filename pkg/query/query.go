// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses list-valued URL query parameters.
package query

import (
	"strings"
)

// StringSlice parses comma-separated values into a trimmed slice of strings.
// Repeated parameters (?select=a&select=b,c) are concatenated in order.
// It returns nil when no non-empty entry exists.
func StringSlice(vals ...string) []string {
	var res []string
	for _, val := range vals {
		for _, v := range strings.Split(val, ",") {
			clean := strings.TrimSpace(v)
			if clean != "" {
				res = append(res, clean)
			}
		}
	}
	return res
}
