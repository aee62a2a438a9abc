// Package depfile reads the makefile-style dependency files that rustc and
// cargo write next to build outputs.
//
// Only the first line of a file is consulted. It has the form
//
//	<output>: <prereq> <prereq> ...
//
// where a space inside a path is written as "\ ".
package depfile

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// Rule is the parsed first line of a dependency file.
type Rule struct {
	Output  string   // path of the build output, without the trailing ':'
	Prereqs []string // prerequisite paths in the order they were listed
}

// String formats r as a dependency line, escaping spaces inside paths.
func (r *Rule) String() string {
	var b strings.Builder
	b.WriteString(Escape(r.Output))
	b.WriteByte(':')
	for _, p := range r.Prereqs {
		b.WriteByte(' ')
		b.WriteString(Escape(p))
	}
	return b.String()
}

// MalformedError reports a dependency file whose content does not match the
// expected format.
type MalformedError struct {
	File   string // empty when parsing a bare line
	Line   string
	Reason string
	Err    error
}

func (e *MalformedError) Error() string {
	var b strings.Builder
	b.WriteString("malformed dependency file")
	if e.File != "" {
		fmt.Fprintf(&b, " %q", e.File)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}

// Escape escapes the spaces in path so it reads back as a single field.
func Escape(path string) string {
	return strings.ReplaceAll(path, " ", `\ `)
}

// Unescape turns every "\ " in field back into a plain space.
// Other backslashes are kept as is.
func Unescape(field string) string {
	return strings.ReplaceAll(field, `\ `, " ")
}

// Split splits line on spaces that are not preceded by a backslash.
// Escaped spaces are kept escaped in the returned fields. Empty fields
// produced by repeated separators are dropped.
func Split(line string) []string {
	var fields []string
	last := 0
	for i := 0; i < len(line); i++ {
		if line[i] != ' ' || (i > 0 && line[i-1] == '\\') {
			continue
		}
		if i > last {
			fields = append(fields, line[last:i])
		}
		last = i + 1
	}
	if last < len(line) {
		fields = append(fields, line[last:])
	}
	return fields
}

// ParseLine parses a single dependency line.
func ParseLine(line string) (*Rule, error) {
	line = strings.TrimSuffix(line, "\r")
	fields := Split(line)
	if len(fields) == 0 {
		return nil, &MalformedError{Line: line, Reason: "empty dependency line"}
	}
	out, ok := strings.CutSuffix(fields[0], ":")
	if !ok {
		return nil, &MalformedError{Line: line, Reason: "output missing trailing ':'"}
	}
	if out == "" {
		return nil, &MalformedError{Line: line, Reason: "empty output path"}
	}
	r := &Rule{Output: Unescape(out)}
	for _, f := range fields[1:] {
		r.Prereqs = append(r.Prereqs, Unescape(f))
	}
	return r, nil
}

// Parse parses the first line of a dependency file.
// If data is non-nil, it is used directly and file is only used for error
// reporting. Otherwise, the file is read from the provided path.
// Lines after the first are ignored.
func Parse(file string, data []byte) (*Rule, error) {
	if data == nil {
		var err error
		data, err = os.ReadFile(file)
		if err != nil {
			return nil, &MalformedError{File: file, Reason: "unreadable", Err: err}
		}
	}
	if !utf8.Valid(data) {
		return nil, &MalformedError{File: file, Reason: "not valid UTF-8 text"}
	}

	if len(data) == 0 {
		return nil, &MalformedError{File: file, Reason: "empty file"}
	}

	line, _, _ := bytes.Cut(data, []byte{'\n'})
	r, err := ParseLine(string(line))
	if err != nil {
		me := err.(*MalformedError)
		me.File = file
		return nil, me
	}
	return r, nil
}
