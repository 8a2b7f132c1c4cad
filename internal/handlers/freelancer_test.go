package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSkills(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"simple", "Go,Postgres", []string{"Go", "Postgres"}},
		{"trims whitespace", "  Go ,  Postgres  ", []string{"Go", "Postgres"}},
		{"drops empty entries", "Go,,Postgres, ,", []string{"Go", "Postgres"}},
		{"keeps duplicates", "Go,Go,go", []string{"Go", "Go", "go"}},
		{"preserves order", "c, b, a", []string{"c", "b", "a"}},
		{"all empty", " , ,", []string{}},
		{"empty input", "", []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseSkills(tc.in))
		})
	}
}
