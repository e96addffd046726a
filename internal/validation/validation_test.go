package validation

import (
	"strings"
	"testing"

	"tally/internal/models"

	"github.com/stretchr/testify/assert"
)

type credentials struct {
	Username string `json:"username" validate:"required,min=3,max=30,username"`
	Password string `json:"password" validate:"required,min=8,max=72,bcryptlen"`
}

func TestStruct(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		input   credentials
		wantMsg string
	}{
		{"Valid", credentials{"alice_01", "password123"}, ""},
		{"Missing username", credentials{"", "password123"}, "username is required"},
		{"Too short", credentials{"al", "password123"}, "username must be at least 3 characters"},
		{"Too long", credentials{strings.Repeat("a", 31), "password123"}, "username must be at most 30 characters"},
		{"Illegal chars", credentials{"alice!", "password123"}, "username may only contain letters, digits and underscores"},
		{"Short password", credentials{"alice", "short"}, "password must be at least 8 characters"},
		{"Long password", credentials{"alice", strings.Repeat("p", 73)}, "password must be at most 72 characters"},
		{"Longest password", credentials{"alice", strings.Repeat("p", 72)}, ""},
		// 30 runes, 90 bytes.
		{"Multi-byte password", credentials{"alice", strings.Repeat("€", 30)}, "password must be at most 72 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.input)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, models.IsCode(err, models.CodeValidation))
			assert.EqualError(t, err, tt.wantMsg)
		})
	}
}
