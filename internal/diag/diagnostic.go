package diag

import (
	"fmt"

	"github.com/liveview-native/swiftui-modifiers-codegen/internal/source"
)

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is for informational diagnostics.
	SevInfo Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Code identifies a diagnostic category with a stable number.
type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexUnknownChar          Code = 1001
	LexUnterminatedString   Code = 1002
	LexUnterminatedComment  Code = 1003

	// Interface parsing
	ParUnexpectedToken    Code = 2001
	ParUnclosedDelimiter  Code = 2002
	ParBadAvailability    Code = 2003
	ParBadBuildCondition  Code = 2004
	ParSkippedMember      Code = 2005
	ParBadGenericClause   Code = 2006
	ParBadDefaultValue    Code = 2007

	// Generation
	GenEmptyGroup       Code = 3001
	GenUnsupportedType  Code = 3002
	GenEmptyStyleUnion  Code = 3003

	// I/O
	IOLoadFile    Code = 4001
	IOCacheWrite  Code = 4002
	IOWriteOutput Code = 4003
)

func (c Code) String() string {
	return fmt.Sprintf("MG%04d", uint16(c))
}

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}
