package formula

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/vogtb/go-spreadsheet/packages/expression"
)

// Formula is the text typed into a cell together with what was made of it:
// the parsed token, the expression built from the token, or the error that
// stopped either. the text is authoritative, when it is empty it is rebuilt
// from the token.
type Formula struct {
	text       string
	token      Node
	expression expression.Expression
	err        *SpreadsheetError
}

// NewFormula creates an unparsed formula
func NewFormula(text string) Formula {
	return Formula{text: text}
}

// ParseFormula parses text with parser. failures never escape: they are
// returned as the Error of the formula.
func ParseFormula(text string, parser Parser) Formula {
	f := Formula{text: text}
	if text == "" {
		return f
	}
	token, err := parser.Parse(text)
	if err != nil {
		f.err = toSpreadsheetError(err)
		return f
	}
	f.token = token
	return f
}

func toSpreadsheetError(err error) *SpreadsheetError {
	var spreadsheetErr *SpreadsheetError
	if errors.As(err, &spreadsheetErr) {
		return spreadsheetErr
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return NewSpreadsheetError(parseErr.Code, parseErr.Message)
	}
	return NewSpreadsheetError(ErrorCodeOther, err.Error())
}

// Text returns the formula text, rebuilt from the token when empty
func (f Formula) Text() string {
	if f.text == "" && f.token != nil {
		return f.token.Text()
	}
	return f.text
}

func (f Formula) Token() Node                       { return f.token }
func (f Formula) Expression() expression.Expression { return f.expression }

// Error is the parse or build failure, nil when there is none
func (f Formula) Error() *SpreadsheetError { return f.err }

// SetToken replaces the token, clearing the expression and error built from
// the previous one
func (f Formula) SetToken(token Node) Formula {
	return Formula{text: f.text, token: token}
}

// ToExpression builds the expression for the token. an invalid value such as
// 31/2/2000 becomes the Error of the formula, other errors are defects and
// are returned.
func (f Formula) ToExpression(ctx *ExpressionContext) (Formula, error) {
	if f.token == nil {
		return f, nil
	}
	e, err := ToExpression(f.token, ctx)
	if err != nil {
		var spreadsheetErr *SpreadsheetError
		if errors.As(err, &spreadsheetErr) {
			f.expression = nil
			f.err = spreadsheetErr
			return f, nil
		}
		return f, fmt.Errorf("failed to build expression for %q: %w", f.Text(), err)
	}
	f.expression = e
	f.err = nil
	return f, nil
}

func (f Formula) String() string {
	return f.Text()
}

type formulaDocument struct {
	Text  string          `json:"text,omitempty"`
	Token json.RawMessage `json:"token,omitempty"`
	Error *errorDocument  `json:"error,omitempty"`
}

type errorDocument struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// MarshalJSON writes the text, or the token when there is one, and the error.
// expressions are rebuilt from the token rather than stored.
func (f Formula) MarshalJSON() ([]byte, error) {
	var doc formulaDocument
	if f.token != nil {
		token, err := MarshalNode(f.token)
		if err != nil {
			return nil, err
		}
		doc.Token = token
	} else {
		if !utf8.ValidString(f.text) {
			return nil, NewApplicationError(InvalidArgument, fmt.Sprintf("formula text %q is not valid UTF-8", f.text))
		}
		doc.Text = f.text
	}
	if f.err != nil {
		doc.Error = &errorDocument{Code: f.err.ErrorCode.String()}
		if f.err.Message != ErrorMapper[f.err.ErrorCode] {
			doc.Error.Message = f.err.Message
		}
	}
	return json.Marshal(doc)
}

func (f *Formula) UnmarshalJSON(data []byte) error {
	var doc formulaDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to decode formula: %w", err)
	}

	result := Formula{text: doc.Text}
	if len(doc.Token) > 0 && string(doc.Token) != "null" {
		token, err := UnmarshalNode(doc.Token)
		if err != nil {
			return err
		}
		result.token = token
	}
	if doc.Error != nil {
		code, ok := ErrorCodeByText(doc.Error.Code)
		if !ok {
			return fmt.Errorf("unknown error code %q", doc.Error.Code)
		}
		result.err = NewSpreadsheetError(code, doc.Error.Message)
	}
	*f = result
	return nil
}
