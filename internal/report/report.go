// Package report renders estimation results in the wire format the
// estimate-bbox command has always printed.
//
// The format is a single JSON object per line with Python-style separators
// (": " and ", ") and floats that always carry a decimal point or exponent:
//
//	{"success": true, "bboxes": [{"x": 388.0, "y": 388.0, "w": 224.0, "h": 224.0}]}
//
// Consumers parse it as ordinary JSON; the exact spacing is kept so that
// byte-for-byte comparisons against older output still hold.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ironsheep/bbox-estimator/internal/detection"
	"github.com/ironsheep/bbox-estimator/internal/geometry"
)

// Response is the payload of one estimate. Success is true whenever the
// estimator ran, including when nothing was found.
type Response struct {
	// Path, when set, is emitted first. The batch command uses it to label
	// each line.
	Path    string         `json:"path,omitempty"`
	Success bool           `json:"success"`
	BBoxes  []geometry.Box `json:"bboxes"`
}

// FromResult wraps a detection result. "Not found" becomes an empty list.
func FromResult(r detection.Result) Response {
	resp := Response{Success: true, BBoxes: []geometry.Box{}}
	if r.Found && r.Box != nil {
		resp.BBoxes = append(resp.BBoxes, *r.Box)
	}
	return resp
}

// RelativeBoxes normalises every found box to the image size. Boxes that do
// not fit the image are dropped.
func RelativeBoxes(r detection.Result, imgW, imgH int) []geometry.RelativeBox {
	out := []geometry.RelativeBox{}
	if !r.Found || r.Box == nil {
		return out
	}
	if rel, err := r.Box.Relative(imgW, imgH); err == nil {
		out = append(out, rel)
	}
	return out
}

// Marshal renders resp without a trailing newline.
func Marshal(resp Response) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	if resp.Path != "" {
		path, err := marshalString(resp.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to encode path: %w", err)
		}
		buf.WriteString(`"path": `)
		buf.Write(path)
		buf.WriteString(", ")
	}

	buf.WriteString(`"success": `)
	buf.WriteString(strconv.FormatBool(resp.Success))
	buf.WriteString(`, "bboxes": [`)
	for i, b := range resp.BBoxes {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, `{"x": %s, "y": %s, "w": %s, "h": %s}`,
			FormatFloat(b.X), FormatFloat(b.Y), FormatFloat(b.W), FormatFloat(b.H))
	}
	buf.WriteString("]}")

	return buf.Bytes(), nil
}

// Encode writes resp followed by a newline.
func Encode(w io.Writer, resp Response) error {
	data, err := Marshal(resp)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

// FormatFloat prints v the way Python's repr does: the shortest round-trip
// digits, ".0" appended to whole numbers, and scientific notation below 1e-4
// or from 1e16 upward.
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}

	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
