package serpapi

import "fmt"

// ConfigurationError reports a provider setting that is required but absent.
// No request is attempted when it is returned.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("serpapi: %s is not configured", e.Setting)
}

// ProviderError covers transport failures, non-2xx responses and errors the
// provider reports inside a 200 body.
type ProviderError struct {
	StatusCode int
	Status     string
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("serpapi request failed: %v", e.Err)
	case e.StatusCode != 0 && e.Message == "":
		return fmt.Sprintf("serpapi request failed: %d %s", e.StatusCode, e.Status)
	default:
		return fmt.Sprintf("serpapi error: %s", e.Message)
	}
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
