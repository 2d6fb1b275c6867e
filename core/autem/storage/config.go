package storage

// Config selects the storage backend.
type Config struct {
	DSN string `koanf:"dsn"` // Postgres, redis:// or sqlite:// data source name; empty keeps everything in memory.
}
