package validator

// Validator checks a struct against its declared validation tags.
type Validator interface {
	Validate(data any) error
}
