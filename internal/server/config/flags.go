package config

import (
	"flag"
	"os"
	"time"

	"github.com/fbedev/diary-ai2/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-r string   Redis connection URL
//	-k string   Gemini API key
//	-m string   Gemini model name
//	-t int      session TTL, hours
//	-g int      generation timeout, seconds
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components (including the
// test runner's own flags).
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-r", "-k", "-m", "-t", "-g"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.RedisURL, "r", config.RedisURL, "redis connection URL")
	fs.StringVar(&config.GeminiAPIKey, "k", config.GeminiAPIKey, "gemini API key")
	fs.StringVar(&config.GeminiModelName, "m", config.GeminiModelName, "gemini model name")

	sessionTTL := fs.Int("t", int(config.SessionTTL.Hours()), "session ttl (in hours)")
	generationTimeout := fs.Int("g", int(config.GenerationTimeout.Seconds()), "generation timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTTL = time.Duration(*sessionTTL) * time.Hour
	config.GenerationTimeout = time.Duration(*generationTimeout) * time.Second
}
