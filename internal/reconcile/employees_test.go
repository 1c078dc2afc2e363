package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmployeeCount(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    int
		wantNil bool
	}{
		{"range takes lower bound", "1,001-5,000 employees", 1001, false},
		{"plain number", "42 employees", 42, false},
		{"thousands separator", "10,000+ employees", 10000, false},
		{"bare digits", "7", 7, false},
		{"no digits", "many employees", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseEmployeeCount(tt.text)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}
