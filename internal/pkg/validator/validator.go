package validator

// Validator validates request and domain structs.
type Validator interface {
	// Validate returns a V10ValidationError (or another error) when data is invalid.
	Validate(data any) error
}
