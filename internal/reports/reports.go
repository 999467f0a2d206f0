// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package reports renders a internal/compiler.Result (or failure) as a
// human-facing optimization summary: byte-size delta, session id, and
// the set of library functions the compiled unit calls.
package reports

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/ncruces/go-strftime"

	"github.com/playbymail/lslopt/internal/compiler"
)

// Status_e is one file's compile outcome: an iota enum with its own
// JSON marshaling, the pattern the teacher used for its movement
// outcome enum.
type Status_e int

const (
	Unknown Status_e = iota
	Compiled
	Failed
)

var (
	// EnumToString is a helper map for marshalling the enum.
	EnumToString = map[Status_e]string{
		Unknown:  "?",
		Compiled: "Compiled",
		Failed:   "Failed",
	}
	// StringToEnum is a helper map for unmarshalling the enum.
	StringToEnum = map[string]Status_e{
		"?":        Unknown,
		"Compiled": Compiled,
		"Failed":   Failed,
	}
)

// MarshalJSON implements the json.Marshaler interface.
func (e Status_e) MarshalJSON() ([]byte, error) {
	return json.Marshal(EnumToString[e])
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (e *Status_e) UnmarshalJSON(data []byte) error {
	var s string
	var ok bool
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	} else if *e, ok = StringToEnum[s]; !ok {
		return fmt.Errorf("invalid Status %q", s)
	}
	return nil
}

// String implements the fmt.Stringer interface.
func (e Status_e) String() string {
	if str, ok := EnumToString[e]; ok {
		return str
	}
	return fmt.Sprintf("Status(%d)", int(e))
}

// Report is one compiled file's outcome, ready to format or marshal.
type Report struct {
	Filename  string    `json:"filename"`
	SessionID string    `json:"session_id,omitempty"`
	Status    Status_e  `json:"status"`
	When      time.Time `json:"when"`
	Input     int       `json:"input_bytes,omitempty"`
	Output    int       `json:"output_bytes,omitempty"`
	LibFuncs  []string  `json:"library_calls,omitempty"`
	Err       string    `json:"error,omitempty"`
}

// FromResult builds a successful Report from a compiler.Result, sorting
// the used-library-function set for stable, diffable output.
func FromResult(filename string, res *compiler.Result, when time.Time) *Report {
	names := make([]string, 0, len(res.UsedLibFuncs))
	for n := range res.UsedLibFuncs {
		names = append(names, n)
	}
	sort.Strings(names)
	return &Report{
		Filename:  filename,
		SessionID: res.SessionID.String(),
		Status:    Compiled,
		When:      when,
		Input:     res.InputSize,
		Output:    res.OutputSize,
		LibFuncs:  names,
	}
}

// FromError builds a failure Report.
func FromError(filename string, err error, when time.Time) *Report {
	return &Report{Filename: filename, Status: Failed, When: when, Err: err.Error()}
}

// WriteTo renders the report as plain text to w, coloring the size-delta
// line only when w is a terminal — go-isatty's documented use, so a log
// redirected to a file or piped to another program never carries escape
// codes.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder

	ts := strftime.Format("%Y-%m-%d %H:%M:%S", r.When)
	fmt.Fprintf(&b, "[%s] %s: %s\n", ts, r.Filename, r.Status)

	if r.Status == Failed {
		fmt.Fprintf(&b, "  error: %s\n", r.Err)
		n, err := io.WriteString(w, b.String())
		return int64(n), err
	}

	fmt.Fprintf(&b, "  session %s\n", r.SessionID)
	fmt.Fprintf(&b, "  %s -> %s", humanize.Bytes(uint64(r.Input)), humanize.Bytes(uint64(r.Output)))
	b.WriteString(r.deltaLine(isTerminal(w)))
	b.WriteByte('\n')

	if len(r.LibFuncs) > 0 {
		fmt.Fprintf(&b, "  library calls: %s\n", strings.Join(r.LibFuncs, ", "))
	}

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// deltaLine formats the saved/grew-percentage annotation, colored green
// (saved) or red (grew) when color is true.
func (r *Report) deltaLine(color bool) string {
	if r.Input == 0 {
		return ""
	}
	delta := r.Input - r.Output
	pct := float64(delta) / float64(r.Input) * 100
	verb, magnitude := "saved", delta
	if delta < 0 {
		verb, magnitude, pct = "grew", -delta, -pct
	}
	line := fmt.Sprintf(" (%s %s, %.1f%%)", verb, humanize.Bytes(uint64(magnitude)), pct)
	if !color {
		return line
	}
	code := "32" // green
	if delta < 0 {
		code = "31" // red
	}
	return "\x1b[" + code + "m" + line + "\x1b[0m"
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
