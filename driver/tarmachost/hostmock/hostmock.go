package hostmock

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedNamespace is returned when the namespace is not as expected.
	ErrUnexpectedNamespace = errors.New("unexpected namespace")

	// ErrUnexpectedCapability is returned when the capability is not as expected.
	ErrUnexpectedCapability = errors.New("unexpected capability")

	// ErrUnexpectedFunction is returned when the function is not as expected.
	ErrUnexpectedFunction = errors.New("unexpected function")

	// ErrOperationFailed is returned when Fail is set without a custom error.
	ErrOperationFailed = errors.New("operation failed")
)

// Config represents the configuration for creating a Mock instance.
type Config struct {
	// ExpectedNamespace defines the namespace expected in the host call.
	ExpectedNamespace string

	// ExpectedCapability defines the capability expected in the host call.
	ExpectedCapability string

	// ExpectedFunction defines the function name expected in the host call.
	// Leave empty to accept any function and route responses by function
	// name through Responses.
	ExpectedFunction string

	// Error is the error to return if the mock is configured to fail.
	Error error

	// PayloadValidator validates the payload passed to the host call.
	PayloadValidator func(function string, payload []byte) error

	// Responses maps a function name to the response it returns.
	Responses map[string]func() []byte

	// Fail indicates whether the mock should return an error.
	Fail bool
}

// Mock simulates the waPC host function with validation and scripted
// responses, and records every call made through it.
type Mock struct {
	cfg Config

	// Calls records the function name of every host call in order.
	Calls []string
}

// New creates a new instance of the Mock based on the provided Config.
func New(config Config) (*Mock, error) {
	if config.Fail && config.Error == nil {
		config.Error = ErrOperationFailed
	}
	return &Mock{cfg: config}, nil
}

// HostCall simulates a host call, validating inputs and returning a scripted
// response or error.
func (m *Mock) HostCall(namespace, capability, function string, payload []byte) ([]byte, error) {
	if m.cfg.Fail {
		return nil, m.cfg.Error
	}

	if m.cfg.ExpectedNamespace != namespace {
		return nil, fmt.Errorf(
			"%w: expected namespace %s, got %s",
			ErrUnexpectedNamespace, m.cfg.ExpectedNamespace, namespace)
	}
	if m.cfg.ExpectedCapability != capability {
		return nil, fmt.Errorf(
			"%w: expected capability %s, got %s",
			ErrUnexpectedCapability, m.cfg.ExpectedCapability, capability)
	}
	if m.cfg.ExpectedFunction != "" && m.cfg.ExpectedFunction != function {
		return nil, fmt.Errorf(
			"%w: expected function %s, got %s",
			ErrUnexpectedFunction, m.cfg.ExpectedFunction, function)
	}

	if m.cfg.PayloadValidator != nil {
		if err := m.cfg.PayloadValidator(function, payload); err != nil {
			return nil, err
		}
	}

	m.Calls = append(m.Calls, function)

	if response, scripted := m.cfg.Responses[function]; scripted {
		return response(), nil
	}
	return nil, nil
}
