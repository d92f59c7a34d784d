package redisclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUniversalOptions(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		addrs    []string
		password string
		db       int
	}{
		{name: "single url", raw: "redis://:secret@cache:6379/2", addrs: []string{"cache:6379"}, password: "secret", db: 2},
		{name: "plain addresses", raw: "a:6379, b:6379", addrs: []string{"a:6379", "b:6379"}},
		{name: "mixed", raw: "redis://a:6379,b:6380", addrs: []string{"a:6379", "b:6380"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := buildUniversalOptions(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.addrs, opts.Addrs)
			assert.Equal(t, tt.password, opts.Password)
			assert.Equal(t, tt.db, opts.DB)
		})
	}
}

func TestBuildUniversalOptionsRejectsEmpty(t *testing.T) {
	_, err := buildUniversalOptions(" , ")
	assert.Error(t, err)
}
