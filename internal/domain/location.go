package domain

import "fmt"

// Location identifies where a record was read from.
// Line is 1-based; zero means the record spans the whole file.
type Location struct {
	File string `json:"file"`
	Line int    `json:"line,omitempty"`
}

// FileLocation returns the location of a whole-file record
func FileLocation(file string) Location {
	return Location{File: file}
}

// LineLocation returns the location of a line in a line-oriented file
func LineLocation(file string, line int) Location {
	return Location{File: file, Line: line}
}

func (l Location) String() string {
	if l.Line > 0 {
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	}
	return l.File
}
