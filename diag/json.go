package diag

import (
	"io"

	"github.com/goccy/go-json"
)

// Report is the JSON document written by JSON.
type Report struct {
	OK     bool    `json:"ok"`
	Errors []Entry `json:"errors"`
}

// JSON writes err as a Report. A nil err writes {"ok":true,"errors":[]}.
func JSON(w io.Writer, err error) error {
	entries := Entries(err)
	if entries == nil {
		entries = []Entry{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Report{OK: len(entries) == 0, Errors: entries})
}
