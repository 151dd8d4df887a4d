package llm

import "errors"

var (
	// ErrConfiguration is returned before any request is made when the API
	// key is not configured.
	ErrConfiguration = errors.New("API key is missing, please check your configuration")

	// ErrCommunication is returned for any failure while talking to the
	// provider. The underlying cause is logged, not returned.
	ErrCommunication = errors.New("failed to communicate with the AI service")
)
