package ports_test

import (
	"testing"

	"github.com/aretw0/envguard/pkg/ports"
	"github.com/aretw0/envguard/pkg/schema"
	"github.com/stretchr/testify/assert"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"generic", true},
		{"my-app.prod", true},
		{"flask_v2", true},
		{"", false},
		{"  ", false},
		{"../secrets", false},
		{"nested/schema", false},
		{`win\path`, false},
		{"a..b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ports.ValidateName(tt.name)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, schema.ErrInvalidName)
		})
	}
}
