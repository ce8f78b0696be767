package formula

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/vogtb/go-spreadsheet/packages/reference"
)

// nodeDocument is the JSON form of a node:
//
//	{"type": "addition", "value": {"value": [...children], "text": "1+2"}}
//
// leaves hold a scalar value instead of children.
type nodeDocument struct {
	Type  string        `json:"type"`
	Value valueDocument `json:"value"`
}

type valueDocument struct {
	Value json.RawMessage `json:"value"`
	Text  string          `json:"text"`
}

// MarshalNode encodes a tree as JSON. text that is not valid UTF-8 cannot be
// written as a JSON string unchanged and is refused.
func MarshalNode(n Node) ([]byte, error) {
	if n != nil && !utf8.ValidString(n.Text()) {
		return nil, NewApplicationError(InvalidArgument, fmt.Sprintf("%s text %q is not valid UTF-8", n.Kind(), n.Text()))
	}
	doc, err := encodeNode(n)
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

// UnmarshalNode decodes JSON written by MarshalNode. parents are rebuilt with
// their constructors so a document breaking a node invariant is rejected.
func UnmarshalNode(data []byte) (Node, error) {
	var doc nodeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode node: %w", err)
	}
	return decodeNode(doc)
}

func encodeNode(n Node) (nodeDocument, error) {
	if n == nil {
		return nodeDocument{}, NewApplicationError(InvalidArgument, "nil node")
	}

	var value any
	switch n := n.(type) {
	case *Leaf:
		value = leafScalar(n)
	case Parent:
		children := make([]nodeDocument, 0, len(n.Children()))
		for _, child := range n.Children() {
			doc, err := encodeNode(child)
			if err != nil {
				return nodeDocument{}, err
			}
			children = append(children, doc)
		}
		value = children
	default:
		return nodeDocument{}, NewApplicationError(InvalidArgument, fmt.Sprintf("unexpected node %T", n))
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return nodeDocument{}, fmt.Errorf("failed to encode %s: %w", n.Kind(), err)
	}
	return nodeDocument{Type: n.Kind().String(), Value: valueDocument{Value: raw, Text: n.Text()}}, nil
}

func leafScalar(n *Leaf) any {
	switch value := n.value.(type) {
	case reference.Column:
		return value.String()
	case reference.Row:
		return value.String()
	case reference.Label:
		return string(value)
	case reference.TemplateValueName:
		return string(value)
	case ErrorCode:
		return value.String()
	}
	return n.value
}

func decodeNode(doc nodeDocument) (Node, error) {
	kind, ok := KindByName(doc.Type)
	if !ok {
		return nil, fmt.Errorf("unknown node type %q", doc.Type)
	}
	text := doc.Value.Text

	if kind.IsLeaf() {
		leaf, err := decodeLeaf(kind, doc.Value.Value, text)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s %q: %w", kind, text, err)
		}
		return leaf, nil
	}

	var childDocs []nodeDocument
	if err := json.Unmarshal(doc.Value.Value, &childDocs); err != nil {
		return nil, fmt.Errorf("failed to decode %s children: %w", kind, err)
	}
	children := make([]Node, 0, len(childDocs))
	for _, childDoc := range childDocs {
		child, err := decodeNode(childDoc)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}

	n, err := newParentOfKind(kind, children)
	if err != nil {
		return nil, err
	}
	if n.Text() != text {
		return nil, fmt.Errorf("%s text %q does not match children %q", kind, text, n.Text())
	}
	return n, nil
}

func decodeLeaf(kind Kind, raw json.RawMessage, text string) (Node, error) {
	switch {
	case kind.IsNoise():
		return NewSymbol(kind, text), nil
	case componentKinds[kind]:
		var value int
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, err
		}
		return NewComponent(kind, value, text), nil
	}

	if kind == KindBoolean {
		var value bool
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, err
		}
		return NewBoolean(value, text), nil
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, err
	}
	switch kind {
	case KindDigits:
		return NewDigits(text), nil
	case KindColumn:
		column, err := reference.ParseColumn(value)
		if err != nil {
			return nil, err
		}
		written, err := reference.ParseColumn(text)
		if err != nil {
			return nil, err
		}
		if written != column {
			return nil, fmt.Errorf("column %q does not match text", value)
		}
		return NewColumn(column, text), nil
	case KindRow:
		row, err := reference.ParseRow(value)
		if err != nil {
			return nil, err
		}
		written, err := reference.ParseRow(text)
		if err != nil {
			return nil, err
		}
		if written != row {
			return nil, fmt.Errorf("row %q does not match text", value)
		}
		return NewRow(row, text), nil
	case KindLabelName:
		return NewLabelName(reference.Label(value), text), nil
	case KindTemplateValueName:
		return NewTemplateValueName(reference.TemplateValueName(value), text), nil
	case KindFunctionName:
		return NewFunctionName(value, text), nil
	case KindTextLiteral:
		return NewTextLiteral(value, text), nil
	case KindError:
		code, ok := ErrorCodeByText(value)
		if !ok {
			return nil, fmt.Errorf("unknown error %q", value)
		}
		return NewError(code, text), nil
	}
	return nil, fmt.Errorf("unexpected leaf %s", kind)
}

// newParentOfKind calls the constructor for kind
func newParentOfKind(kind Kind, children []Node) (Node, error) {
	switch {
	case kind.IsBinary():
		return asNode(NewBinary(kind, children))
	case kind.IsUnary():
		return asNode(NewUnary(kind, children))
	case kind.IsConditionRight():
		return asNode(NewConditionRight(kind, children))
	}
	switch kind {
	case KindCell:
		return asNode(NewCell(children))
	case KindCellRange:
		return asNode(NewCellRange(children))
	case KindNumber:
		return asNode(NewNumber(children))
	case KindDate:
		return asNode(NewDate(children))
	case KindTime:
		return asNode(NewTime(children))
	case KindDateTime:
		return asNode(NewDateTime(children))
	case KindText:
		return asNode(NewText(children))
	case KindNamedFunction:
		return asNode(NewNamedFunction(children))
	case KindLambda:
		return asNode(NewLambda(children))
	case KindFunctionParameters:
		return asNode(NewFunctionParameters(children))
	}
	return nil, invalidArgument("%s is not a parent kind", kind)
}

// asNode drops the typed nil a failed constructor returns
func asNode[N Node](n N, err error) (Node, error) {
	if err != nil {
		return nil, err
	}
	return n, nil
}
