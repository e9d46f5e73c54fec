package pipeline

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ironsheep/symbol-detect/internal/result"
)

// errorDocument is the only thing written on failure.
type errorDocument struct {
	Error string `json:"error"`
}

// WriteDocument writes doc as a single line of JSON.
func WriteDocument(w io.Writer, doc *result.Document) error {
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		return fmt.Errorf("%w: failed to write document: %v", ErrIO, err)
	}
	return nil
}

// WriteError writes {"error": "<message>"} as a single line of JSON.
func WriteError(w io.Writer, err error) error {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	if encErr := json.NewEncoder(w).Encode(errorDocument{Error: msg}); encErr != nil {
		return fmt.Errorf("%w: failed to write error: %v", ErrIO, encErr)
	}
	return nil
}
