package server

import "os"

// Config is the service configuration, read from the environment. Postgres
// and Kafka are optional: an empty DSN or broker list runs the server with
// persistence or analytics disabled, which is the normal mode for local play
// and tests.
type Config struct {
	Port         string
	PostgresDSN  string
	KafkaBrokers string
	KafkaTopic   string
}

// LoadConfig reads the environment with defaults suitable for local play.
func LoadConfig() Config {
	return Config{
		Port:         getenv("PORT", "8080"),
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		KafkaBrokers: os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:   getenv("KAFKA_TOPIC", "connectfour.analytics"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
