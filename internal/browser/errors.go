package browser

import "fmt"

// NavigationError is returned when a page cannot be loaded.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("failed to navigate to the URL: %s: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// ElementNotFoundError is returned when no element matches a selector within the wait timeout.
type ElementNotFoundError struct {
	Selector string
	Message  string
	Err      error
}

func (e *ElementNotFoundError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "element not found"
	}
	return fmt.Sprintf("%s (selector: %s)", msg, e.Selector)
}

func (e *ElementNotFoundError) Unwrap() error { return e.Err }
