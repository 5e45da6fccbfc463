package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxJSONBody bounds JSON request bodies. Markdown imports sent as JSON are
// the largest payloads.
const MaxJSONBody = 6 << 20

var errTrailingData = errors.New("unexpected data after JSON body")

// ParseJSON decodes exactly one JSON value from the request body into dest.
// Unknown fields are ignored; the article services validate what they read.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBody)
	decoder := json.NewDecoder(r.Body)

	if err := decoder.Decode(dest); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return errors.New("request body is required")
		case errors.As(err, &tooLarge):
			return fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		default:
			return fmt.Errorf("invalid JSON: %w", err)
		}
	}

	if decoder.More() {
		return errTrailingData
	}
	return nil
}
