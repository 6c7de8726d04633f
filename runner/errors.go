package runner

import "fmt"

// DecodeError reports an input file the decoder could not open or parse.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ExtractError reports a required marker missing from a file's body.
type ExtractError struct {
	Path string
	Err  error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Path, e.Err)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

// OutputError reports a failure to open, write or close the output file.
type OutputError struct {
	Path string
	Op   string
	Err  error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("output %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *OutputError) Unwrap() error {
	return e.Err
}
