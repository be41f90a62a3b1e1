package rowset

import "fmt"

// Factory lazily opens and caches a single connection. The first Get
// attempts to connect; a failed attempt is not cached, so every subsequent
// Get retries (no backoff) until a connection is established. A successful
// connection is reused until Close.
//
// A Factory is the explicit replacement for implicit thread-local connection
// state: it is owned by exactly one goroutine and must not be shared, because
// the driver handles behind it are not goroutine-safe.
type Factory struct {
	config Config
	db     *DB
}

// NewFactory creates a Factory for the given configuration. No connection is
// attempted until the first Get.
func NewFactory(config Config) *Factory {
	return &Factory{config: config}
}

// Get returns the cached connection, establishing it first if needed.
func (f *Factory) Get() (*DB, error) {
	if f.db != nil {
		return f.db, nil
	}

	db, err := Connect(f.config)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotConnected, err)
	}

	f.db = db
	return f.db, nil
}

// Close releases the cached connection, if any. The Factory may be reused;
// the next Get reconnects.
func (f *Factory) Close() error {
	if f.db == nil {
		return nil
	}

	db := f.db
	f.db = nil
	return db.Close()
}
