package config

import (
	"encoding/json"
	"os"

	"github.com/fbedev/diary-ai2/internal/flagx"
	"github.com/fbedev/diary-ai2/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "12h" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddrHTTP  string         `json:"endpoint_addr_http"`
	RedisURL          string         `json:"redis_url"`
	GeminiAPIKey      string         `json:"gemini_api_key"`
	GeminiModelName   string         `json:"gemini_model_name"`
	SessionTTL        timex.Duration `json:"session_ttl"`
	GenerationTimeout timex.Duration `json:"generation_timeout"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path is taken from the -c or -config command-line flags; if
// neither is set, no JSON file is loaded. If the file cannot be read or
// contains invalid JSON, the function panics.
//
// The caller is expected to merge these values with defaults and
// command-line flags as part of the full configuration process.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.RedisURL = c.RedisURL
	config.GeminiAPIKey = c.GeminiAPIKey
	config.GeminiModelName = c.GeminiModelName
	config.SessionTTL = c.SessionTTL.Duration
	config.GenerationTimeout = c.GenerationTimeout.Duration
}
