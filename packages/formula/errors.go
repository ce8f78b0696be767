package formula

import (
	"fmt"
	"strings"
)

// ErrorCode represents standard spreadsheet error codes following
// Excel conventions
type ErrorCode uint8

const (
	ErrorCodeNull  ErrorCode = 1  // #NULL! - no cells in common between ranges
	ErrorCodeDiv0  ErrorCode = 2  // #DIV/0! - division by zero
	ErrorCodeValue ErrorCode = 3  // #VALUE! - wrong type of argument or operand
	ErrorCodeRef   ErrorCode = 4  // #REF! - invalid cell reference
	ErrorCodeName  ErrorCode = 5  // #NAME? - unrecognized function name
	ErrorCodeNum   ErrorCode = 6  // #NUM! - number too large or small to be represented
	ErrorCodeNA    ErrorCode = 7  // #N/A - not enough arguments for function
	ErrorCodeOther ErrorCode = 8  // #ERROR! - all other errors, including formula syntax
	ErrorCodeSpill ErrorCode = 9  // #SPILL! - array result has no room
	ErrorCodeCalc  ErrorCode = 10 // #CALC! - calculation engine failure
)

// ErrorMapper maps error code numbers to their string representations
var ErrorMapper = map[ErrorCode]string{
	ErrorCodeNull:  "#NULL!",
	ErrorCodeDiv0:  "#DIV/0!",
	ErrorCodeValue: "#VALUE!",
	ErrorCodeRef:   "#REF!",
	ErrorCodeName:  "#NAME?",
	ErrorCodeNum:   "#NUM!",
	ErrorCodeNA:    "#N/A",
	ErrorCodeOther: "#ERROR!",
	ErrorCodeSpill: "#SPILL!",
	ErrorCodeCalc:  "#CALC!",
}

func (c ErrorCode) String() string {
	if text, ok := ErrorMapper[c]; ok {
		return text
	}
	return fmt.Sprintf("ErrorCode(%d)", uint8(c))
}

// ErrorCodeByText finds the code for error text such as "#div/0!", ignoring case
func ErrorCodeByText(text string) (ErrorCode, bool) {
	for code, codeText := range ErrorMapper {
		if strings.EqualFold(codeText, text) {
			return code, true
		}
	}
	return 0, false
}

// SpreadsheetError preserves error code for display in cells
type SpreadsheetError struct {
	ErrorCode ErrorCode
	Message   string
}

func (e *SpreadsheetError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return ErrorMapper[e.ErrorCode]
}

func NewSpreadsheetError(code ErrorCode, message string) *SpreadsheetError {
	if message == "" {
		message = ErrorMapper[code]
	}
	return &SpreadsheetError{
		ErrorCode: code,
		Message:   message,
	}
}

// AppErrorCode represents gRPC-style error codes for application-level errors.
// only the codes the parser raises are declared.
type AppErrorCode int

const (
	// OK indicates the operation completed successfully.
	OK AppErrorCode = 0

	// Unknown error.
	Unknown AppErrorCode = 2

	// InvalidArgument indicates a node was constructed with children of the
	// wrong shape. this is a defect in the grammar wiring, not bad user input.
	InvalidArgument AppErrorCode = 3

	// Internal errors. Means some invariants expected by underlying
	// system has been broken.
	Internal AppErrorCode = 13
)

// AppError represents errors at the application level (not
// spreadsheet formula errors)
type AppError struct {
	Code    AppErrorCode
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// NewApplicationError creates a new application error
func NewApplicationError(code AppErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func invalidArgument(format string, args ...any) *AppError {
	return NewApplicationError(InvalidArgument, fmt.Sprintf(format, args...))
}

// ParseError is a user input failure: text that does not match the grammar,
// or matches but describes an invalid value. Pos is the rune offset the
// failure was detected at.
type ParseError struct {
	Pos     int
	Text    string
	Message string
	Code    ErrorCode
	Err     error
}

func (e *ParseError) Error() string {
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func newParseError(pos int, text string, message string) *ParseError {
	return &ParseError{Pos: pos, Text: text, Message: message, Code: ErrorCodeOther}
}

func invalidCharacter(c *cursor) *ParseError {
	if c.atEnd() {
		return newParseError(c.pos, c.text(), fmt.Sprintf("End of text at (%d)", c.pos+1))
	}
	return newParseError(c.pos, c.text(), fmt.Sprintf("Invalid character %q at (%d)", c.current(), c.pos+1))
}
