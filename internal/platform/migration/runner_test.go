// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertToPgx5DSN(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"postgres://u:p@localhost:5432/shici", "pgx5://u:p@localhost:5432/shici"},
		{"postgresql://u:p@db/shici?sslmode=disable", "pgx5://u:p@db/shici?sslmode=disable"},
		{"pgx5://u@db/shici", "pgx5://u@db/shici"},
		{"host=db user=u", "host=db user=u"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, convertToPgx5DSN(tt.in))
	}
}
