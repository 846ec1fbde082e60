// Package validator wraps go-playground/validator for request bodies.
//
// Field names in errors are the JSON names of the offending fields:
//
//	if err := validator.Validate(req); err != nil {
//	    // err is a validator.ValidationErrors
//	}
package validator
