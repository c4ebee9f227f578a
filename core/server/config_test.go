package server_test

import (
	"testing"
	"time"

	"mapcycle-sync/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Addr(t *testing.T) {
	assert.Equal(t, ":8080", server.Config{Port: "8080"}.Addr())
}

func TestConfig_IsSecured(t *testing.T) {
	tests := []struct {
		name   string
		apiKey string
		want   bool
	}{
		{"With key", "secret", true},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{ApiKey: tt.apiKey}
			assert.Equal(t, tt.want, c.IsSecured())
		})
	}
}

func TestConfig_RequestTimeout(t *testing.T) {
	assert.Equal(t, 2*time.Minute, server.Config{}.RequestTimeout())
	assert.Equal(t, 5*time.Second, server.Config{RequestTimeoutSeconds: 5}.RequestTimeout())
}
