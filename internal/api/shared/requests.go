package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// maxRequestBodyBytes limits JSON request bodies. Picture uploads go
// through multipart handling with their own limit.
const maxRequestBodyBytes = 1 << 20

// Validate is the shared request validator. Handlers use it to check
// the `validate` tags on request DTOs after decoding.
var Validate = validator.New()

// DecodeJSON decodes the request body into dst, rejecting oversized
// bodies. Fields outside the target struct are silently dropped, so
// extra body fields never fail a request. The returned error is safe
// to surface in a 400 response.
func DecodeJSON(r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(nil, r.Body, maxRequestBodyBytes)

	dec := json.NewDecoder(body)

	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return errors.New("request body is empty")
		case errors.As(err, &maxBytesErr):
			return fmt.Errorf("request body exceeds %d bytes", maxBytesErr.Limit)
		default:
			return errors.New("invalid request body")
		}
	}

	// A second document after the first is malformed input too.
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}

	return nil
}
