package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonConfig_Unmarshal(t *testing.T) {
	raw := []byte(`{
		"endpoint_addr_http": ":9090",
		"redis_url": "redis://cache:6379/1",
		"gemini_api_key": "test-key",
		"gemini_model_name": "gemini-2.0-pro",
		"session_ttl": "6h",
		"generation_timeout": "15s"
	}`)

	var c JsonConfig
	require.NoError(t, json.Unmarshal(raw, &c))

	assert.Equal(t, ":9090", c.EndpointAddrHTTP)
	assert.Equal(t, "redis://cache:6379/1", c.RedisURL)
	assert.Equal(t, "test-key", c.GeminiAPIKey)
	assert.Equal(t, "gemini-2.0-pro", c.GeminiModelName)
	assert.Equal(t, 6*time.Hour, c.SessionTTL.Duration)
	assert.Equal(t, 15*time.Second, c.GenerationTimeout.Duration)
}

func TestJsonConfig_UnmarshalDurationAsNanoseconds(t *testing.T) {
	raw := []byte(`{"session_ttl": 3600000000000}`)

	var c JsonConfig
	require.NoError(t, json.Unmarshal(raw, &c))
	assert.Equal(t, time.Hour, c.SessionTTL.Duration)
}
