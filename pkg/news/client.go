package news

import "context"

// HeadlineSource returns the raw headline titles of one remote source.
type HeadlineSource interface {
	Headlines(ctx context.Context) ([]string, error)
	Name() string
}

// FetchError reports that the feed could not be retrieved or decoded.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return "Failed getting RSS feed"
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError reports a feed payload without the expected structure.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return "Failed parsing RSS feed"
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
