package usecases

import "errors"

// errorIs aliases the stdlib check; the domain errors package shadows the
// stdlib name in files that import it
func errorIs(err, target error) bool {
	return errors.Is(err, target)
}
