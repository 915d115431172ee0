package frame

import (
	"strconv"
)

type (
	// Frame is the canonical identity of a function. The upstream model
	// guarantees one Frame object per distinct function, so aggregation
	// keys on the *Frame pointer rather than on field equality. Two
	// frames with identical fields but different addresses are distinct
	// identities.
	Frame struct {
		Col  uint32 `json:"col,omitempty"`
		File string `json:"file,omitempty"`
		Line uint32 `json:"line,omitempty"`
		Name string `json:"name"`
	}
)

// Location renders the source location as file[:line[:col]]. It returns
// an empty string when the frame carries no file information. A column
// without a line is dropped since it cannot be addressed on its own.
func (f *Frame) Location() string {
	if f.File == "" {
		return ""
	}
	loc := f.File
	if f.Line > 0 {
		loc += ":" + strconv.FormatUint(uint64(f.Line), 10)
		if f.Col > 0 {
			loc += ":" + strconv.FormatUint(uint64(f.Col), 10)
		}
	}
	return loc
}

// DisplayName returns the function name, with a placeholder for frames
// the profiler could not name.
func (f *Frame) DisplayName() string {
	if f.Name == "" {
		return "(anonymous)"
	}
	return f.Name
}
