package quiz

import "errors"

// Result is the terminal outcome of a generation run: either validated
// Questions or a Failure message, never both.
type Result struct {
	Questions []Question
	Failure   string

	// Attempts is the number of model calls made.
	Attempts int

	err error
}

// OK reports whether generation succeeded.
func (r Result) OK() bool { return r.Failure == "" }

// Err returns the terminal error of a failed run, nil on success.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	if r.err != nil {
		return r.err
	}
	return errors.New(r.Failure)
}

func succeeded(questions []Question, attempts int) Result {
	return Result{Questions: questions, Attempts: attempts}
}

func failed(msg string, attempts int, err error) Result {
	return Result{Failure: msg, Attempts: attempts, err: err}
}
