package figma

import "fmt"

// HTTPError is returned for any response outside the 2xx range. Body holds
// the raw response text.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("figma api %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// DecodeError is returned when a successful response is not the expected JSON.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("figma api %s: decode response: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
