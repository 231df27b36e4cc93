package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"yes", "y\n", true},
		{"yes uppercase", "YES\n", true},
		{"yes with spaces", "  yes  \n", true},
		{"no", "n\n", false},
		{"empty defaults to no", "\n", false},
		{"eof", "", false},
		{"anything else", "sure\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			res := Confirm(&out, strings.NewReader(tt.input), "Remove 3 cached page(s)?")
			assert.Equal(t, tt.want, res.Accepted)
			assert.False(t, res.Cancelled)
			assert.Equal(t, "? Remove 3 cached page(s)? [y/N] ", out.String())
		})
	}
}
