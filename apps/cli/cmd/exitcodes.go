package cmd

// Exit codes for fetchclient CLI
const (
	// ExitSuccess indicates the request succeeded
	ExitSuccess = 0

	// ExitResponseFailure indicates the server answered with a non-2xx status
	ExitResponseFailure = 1

	// ExitSchemaFailure indicates the payload did not match --schema
	ExitSchemaFailure = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitNetworkError indicates no response was received
	ExitNetworkError = 4

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// exitError carries an exit code out of a command. A nil err means the
// outcome has already been printed.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func withExitCode(code int, err error) error {
	return &exitError{code: code, err: err}
}
