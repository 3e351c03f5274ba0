package catalog

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"
)

// ReadEndpointURIs calls fn for each URI of a line oriented stream. Blank
// lines and lines starting with '#' are skipped.
func ReadEndpointURIs(r io.Reader, fn func(string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	return sc.Err()
}

// WriteResultsJSONL writes validation results as JSON lines.
func WriteResultsJSONL(w io.Writer, results []*ValidationResult) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

// ReadResultsJSONL reads results written by WriteResultsJSONL.
func ReadResultsJSONL(r io.Reader, fn func(*ValidationResult) error) error {
	dec := json.NewDecoder(bufio.NewReader(r))
	for {
		var res ValidationResult
		if err := dec.Decode(&res); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if err := fn(&res); err != nil {
			return err
		}
	}
}

var resultsCSVHeader = []string{"uri", "success", "kind", "name", "value", "choices", "suggestions"}

// WriteResultsCSV writes one row per defect. Results without defects get a
// single row with empty defect columns.
func WriteResultsCSV(w io.Writer, results []*ValidationResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(resultsCSVHeader); err != nil {
		return err
	}
	rec := make([]string, len(resultsCSVHeader))
	for _, r := range results {
		rec[0] = r.URI
		if r.IsSuccess() {
			rec[1] = "true"
		} else {
			rec[1] = "false"
		}
		if len(r.Defects) == 0 {
			for i := 2; i < len(rec); i++ {
				rec[i] = ""
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
			continue
		}
		for _, d := range r.Defects {
			rec[2] = d.Kind.String()
			rec[3] = d.Name
			rec[4] = d.Value
			rec[5] = strings.Join(d.Choices, "|")
			rec[6] = strings.Join(d.Suggestions, "|")
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
