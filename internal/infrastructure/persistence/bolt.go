package persistence

import (
	"time"

	bolt "go.etcd.io/bbolt"
)

// OpenBolt opens the embedded bbolt database file, creating it when absent.
func OpenBolt(path string) (*bolt.DB, error) {
	return bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
}
