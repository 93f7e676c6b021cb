package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_toPostgresParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		sql      string
		expected string
	}{
		{
			"empty",
			"",
			"",
		},
		{
			"insert query",
			"INSERT INTO foo (x, y) VALUES (?, ?)",
			"INSERT INTO foo (x, y) VALUES ($1, $2)",
		},
		{
			"in clause",
			`select * from "case_record" c where c."ref" in (?, ?, ?) and c."status" = ?`,
			`select * from "case_record" c where c."ref" in ($1, $2, $3) and c."status" = $4`,
		},
		{
			"question mark in literal",
			`select '?' from foo where x = ?`,
			`select '?' from foo where x = $1`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			actual := toPostgresParams(tt.sql)
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func Test_placeholders(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", placeholders(0))
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?, ?, ?", placeholders(3))
}
