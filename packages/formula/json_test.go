package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeJSONRoundTrip(t *testing.T) {
	g := NewGrammar(nil)
	tests := []struct {
		parser Parser
		text   string
	}{
		{g.ValueOrExpression(), "=1 + 2 * 3 - 4 / 5 ^ 6"},
		{g.ValueOrExpression(), "=A1=1"},
		{g.ValueOrExpression(), "=A1<>1"},
		{g.ValueOrExpression(), "=A1>1"},
		{g.ValueOrExpression(), "=A1>=1"},
		{g.ValueOrExpression(), "=A1<1"},
		{g.ValueOrExpression(), "=A1<=1"},
		{g.ValueOrExpression(), "=-(1.5E-3%)"},
		{g.ValueOrExpression(), "=SUM($A$1:B2, rate, \"x\"\"y\", #REF!, FALSE)"},
		{g.ValueOrExpression(), "=LAMBDA(x, x*2)(3)"},
		{g.ValueOrExpression(), "Monday, 1 January 2000 12:30:15.5 PM"},
		{g.ValueOrExpression(), "1 S 99"},
		{g.ValueOrExpression(), "2000-12-31"},
		{g.ValueOrExpression(), "11 pm"},
		{g.ValueOrExpression(), "'apostrophe"},
		{g.ValueOrExpression(), "plain"},
		{g.ConditionRight(), "<= A1"},
		{g.TemplateValueName(), "first-name"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			n, err := tt.parser.Parse(tt.text)
			require.NoError(t, err)

			data, err := MarshalNode(n)
			require.NoError(t, err)

			decoded, err := UnmarshalNode(data)
			require.NoError(t, err)
			assert.True(t, Equal(n, decoded), "decoded %s differs from %s", decoded, n)
			assert.Equal(t, tt.text, decoded.Text())
		})
	}
}

func TestNodeJSONDocument(t *testing.T) {
	n, err := NewGrammar(nil).Expression().Parse("TRUE+1")
	require.NoError(t, err)

	data, err := MarshalNode(n)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "addition",
		"value": {
			"text": "TRUE+1",
			"value": [
				{"type": "boolean", "value": {"value": true, "text": "TRUE"}},
				{"type": "plus-symbol", "value": {"value": "+", "text": "+"}},
				{"type": "number", "value": {"text": "1", "value": [
					{"type": "digits", "value": {"value": "1", "text": "1"}}
				]}}
			]
		}
	}`, string(data))
}

func TestNodeJSONRejects(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"Malformed", `{"type":`},
		{"UnknownType", `{"type": "nonsense", "value": {"value": "1", "text": "1"}}`},
		{"TextMismatch", `{"type": "number", "value": {"text": "2", "value": [
			{"type": "digits", "value": {"value": "1", "text": "1"}}
		]}}`},
		{"BinaryArity", `{"type": "addition", "value": {"text": "1+", "value": [
			{"type": "number", "value": {"text": "1", "value": [{"type": "digits", "value": {"value": "1", "text": "1"}}]}},
			{"type": "plus-symbol", "value": {"value": "+", "text": "+"}}
		]}}`},
		{"BinaryWrongSymbol", `{"type": "addition", "value": {"text": "1*2", "value": [
			{"type": "number", "value": {"text": "1", "value": [{"type": "digits", "value": {"value": "1", "text": "1"}}]}},
			{"type": "multiply-symbol", "value": {"value": "*", "text": "*"}},
			{"type": "number", "value": {"text": "2", "value": [{"type": "digits", "value": {"value": "2", "text": "2"}}]}}
		]}}`},
		{"BinaryMissingSymbol", `{"type": "addition", "value": {"text": "12", "value": [
			{"type": "number", "value": {"text": "1", "value": [{"type": "digits", "value": {"value": "1", "text": "1"}}]}},
			{"type": "number", "value": {"text": "2", "value": [{"type": "digits", "value": {"value": "2", "text": "2"}}]}}
		]}}`},
		{"ColumnTextMismatch", `{"type": "column", "value": {"value": "B", "text": "A"}}`},
		{"RowTextMismatch", `{"type": "row", "value": {"value": "2", "text": "$2"}}`},
		{"ComponentNotInt", `{"type": "day-number", "value": {"value": "5", "text": "5"}}`},
		{"ColumnBounds", `{"type": "column", "value": {"value": "XFE", "text": "XFE"}}`},
		{"UnknownError", `{"type": "error", "value": {"value": "#OOPS!", "text": "#OOPS!"}}`},
		{"LeafKindAsParent", `{"type": "boolean", "value": {"value": [], "text": ""}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotPanics(t, func() {
				_, err := UnmarshalNode([]byte(tt.json))
				require.Error(t, err)
			})
		})
	}
}
