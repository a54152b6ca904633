package packtype

// kindError attaches an error category to a cause while keeping both
// reachable through errors.Is and errors.As.
type kindError struct {
	kind  error
	cause error
}

func (e *kindError) Error() string {
	return e.kind.Error() + ": " + e.cause.Error()
}

func (e *kindError) Unwrap() []error {
	return []error{e.kind, e.cause}
}

// Mark returns err tagged with the sentinel kind. A nil err stays nil.
func Mark(err, kind error) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: kind, cause: err}
}
