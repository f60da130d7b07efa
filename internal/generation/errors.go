package generation

import "errors"

var (
	// ErrGenerationTimeout indicates the model call exceeded its deadline.
	ErrGenerationTimeout = errors.New("generation timed out")

	// ErrGenerationMalformed indicates the model output failed parsing or
	// validation against the contract.
	ErrGenerationMalformed = errors.New("generation output malformed")

	// ErrGenerationExhausted indicates every repair round produced invalid output.
	ErrGenerationExhausted = errors.New("generation repair attempts exhausted")
)
