package server_test

import (
	"testing"

	"github.com/blindermanupwork/property-management-automation-sub007/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_IsValidEnvironment(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		want        bool
	}{
		{"Development", server.EnvDevelopment, true},
		{"Production", server.EnvProduction, true},
		{"Invalid", "staging", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{Environment: tt.environment}
			assert.Equal(t, tt.want, c.IsValidEnvironment())
		})
	}
}
