package rowset

import (
	"errors"
	"testing"

	"github.com/tarmac-project/rowset/driver"
	"github.com/tarmac-project/rowset/driver/drivermock"
)

// flakyConnector fails a fixed number of connection attempts before
// delegating to the real connector.
type flakyConnector struct {
	failures int
	attempts int
	inner    driver.Connector
}

func (f *flakyConnector) Connect(connString string) (driver.Conn, error) {
	f.attempts++
	if f.attempts <= f.failures {
		return nil, errors.New("transient connect failure")
	}
	return f.inner.Connect(connString)
}

func TestFactory_LazyConnect(t *testing.T) {
	t.Parallel()

	mock, err := drivermock.New(drivermock.Config{NoData: true})
	if err != nil {
		t.Fatalf("drivermock: %v", err)
	}

	f := NewFactory(Config{Connector: mock})
	if len(mock.ConnStrings) != 0 {
		t.Fatal("Factory connected before the first Get")
	}

	db, err := f.Get()
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if len(mock.ConnStrings) != 1 {
		t.Fatalf("connected %d times, want 1", len(mock.ConnStrings))
	}

	// A second Get reuses the cached connection.
	again, err := f.Get()
	if err != nil {
		t.Fatalf("second Get returned error: %v", err)
	}
	if again != db {
		t.Error("second Get returned a different connection")
	}
	if len(mock.ConnStrings) != 1 {
		t.Errorf("connected %d times, want 1", len(mock.ConnStrings))
	}

	if err := f.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if mock.ConnCloseCalls != 1 {
		t.Errorf("connection closed %d times, want 1", mock.ConnCloseCalls)
	}
}

func TestFactory_RetriesFailedConnect(t *testing.T) {
	t.Parallel()

	mock, err := drivermock.New(drivermock.Config{NoData: true})
	if err != nil {
		t.Fatalf("drivermock: %v", err)
	}

	flaky := &flakyConnector{failures: 2, inner: mock}
	f := NewFactory(Config{Connector: flaky})

	// Failed attempts are not cached; every Get retries.
	for i := 0; i < 2; i++ {
		_, err := f.Get()
		if !errors.Is(err, ErrNotConnected) {
			t.Fatalf("Get %d: got %v, want ErrNotConnected", i, err)
		}
		// The underlying connect fault stays in the chain.
		if !errors.Is(err, ErrConnectivity) {
			t.Fatalf("Get %d: got %v, want ErrConnectivity in the chain", i, err)
		}
	}

	db, err := f.Get()
	if err != nil {
		t.Fatalf("Get after recovery returned error: %v", err)
	}
	if db == nil {
		t.Fatal("Get returned nil DB")
	}
	if flaky.attempts != 3 {
		t.Errorf("connector saw %d attempts, want 3", flaky.attempts)
	}
}

func TestFactory_ReusableAfterClose(t *testing.T) {
	t.Parallel()

	mock, err := drivermock.New(drivermock.Config{NoData: true})
	if err != nil {
		t.Fatalf("drivermock: %v", err)
	}

	f := NewFactory(Config{Connector: mock})
	if _, err := f.Get(); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	// Close with nothing cached is a no-op.
	if err := f.Close(); err != nil {
		t.Fatalf("second Close returned error: %v", err)
	}

	if _, err := f.Get(); err != nil {
		t.Fatalf("Get after Close returned error: %v", err)
	}
	if len(mock.ConnStrings) != 2 {
		t.Errorf("connected %d times, want 2", len(mock.ConnStrings))
	}
}
