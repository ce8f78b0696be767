package formula

import "fmt"

// Kind discriminates the node family. the set is closed, every kind maps to
// exactly one Go type: leaf kinds to *Leaf, parent kinds to one of the parent
// structs.
type Kind uint8

const (
	KindInvalid Kind = iota

	// numeric and name components of numbers, dates and times
	KindDigits
	KindDayNumber
	KindMonthNumber
	KindMonthName
	KindMonthNameAbbreviation
	KindMonthNameInitial
	KindDayName
	KindDayNameAbbreviation
	KindYear
	KindHour
	KindMinute
	KindSeconds
	KindMillisecond // value holds nanoseconds
	KindAmPm        // value holds 0 for AM, 12 for PM

	// symbols
	KindPlus
	KindMinus
	KindMultiply
	KindDivide
	KindPower
	KindPercent
	KindEquals
	KindNotEquals
	KindGreaterThan
	KindGreaterThanEquals
	KindLessThan
	KindLessThanEquals
	KindParenthesisOpen
	KindParenthesisClose
	KindValueSeparator
	KindBetween
	KindDecimalSeparator
	KindExponent
	KindDoubleQuote
	KindApostrophe
	KindDateSeparator
	KindTimeSeparator
	KindComma
	KindWhitespace

	// references
	KindColumn
	KindRow
	KindLabelName
	KindTemplateValueName
	KindFunctionName

	// literals
	KindTextLiteral
	KindError
	KindBoolean

	// parents
	KindAddition
	KindSubtraction
	KindMultiplication
	KindDivision
	KindPowerOf
	KindEqualsCondition
	KindNotEqualsCondition
	KindGreaterThanCondition
	KindGreaterThanEqualsCondition
	KindLessThanCondition
	KindLessThanEqualsCondition
	KindConditionRightEquals
	KindConditionRightNotEquals
	KindConditionRightGreaterThan
	KindConditionRightGreaterThanEquals
	KindConditionRightLessThan
	KindConditionRightLessThanEquals
	KindNegative
	KindGroup
	KindExpression
	KindCell
	KindCellRange
	KindNumber
	KindDate
	KindTime
	KindDateTime
	KindText
	KindNamedFunction
	KindLambda
	KindFunctionParameters

	kindCount
)

var kindNames = [kindCount]string{
	KindInvalid: "invalid",

	KindDigits:                "digits",
	KindDayNumber:             "day-number",
	KindMonthNumber:           "month-number",
	KindMonthName:             "month-name",
	KindMonthNameAbbreviation: "month-name-abbreviation",
	KindMonthNameInitial:      "month-name-initial",
	KindDayName:               "day-name",
	KindDayNameAbbreviation:   "day-name-abbreviation",
	KindYear:                  "year",
	KindHour:                  "hour",
	KindMinute:                "minute",
	KindSeconds:               "seconds",
	KindMillisecond:           "millisecond",
	KindAmPm:                  "am-pm",

	KindPlus:              "plus-symbol",
	KindMinus:             "minus-symbol",
	KindMultiply:          "multiply-symbol",
	KindDivide:            "divide-symbol",
	KindPower:             "power-symbol",
	KindPercent:           "percent-symbol",
	KindEquals:            "equals-symbol",
	KindNotEquals:         "not-equals-symbol",
	KindGreaterThan:       "greater-than-symbol",
	KindGreaterThanEquals: "greater-than-equals-symbol",
	KindLessThan:          "less-than-symbol",
	KindLessThanEquals:    "less-than-equals-symbol",
	KindParenthesisOpen:   "parenthesis-open-symbol",
	KindParenthesisClose:  "parenthesis-close-symbol",
	KindValueSeparator:    "value-separator-symbol",
	KindBetween:           "between-symbol",
	KindDecimalSeparator:  "decimal-separator-symbol",
	KindExponent:          "exponent-symbol",
	KindDoubleQuote:       "double-quote-symbol",
	KindApostrophe:        "apostrophe-symbol",
	KindDateSeparator:     "date-separator-symbol",
	KindTimeSeparator:     "time-separator-symbol",
	KindComma:             "comma-symbol",
	KindWhitespace:        "whitespace",

	KindColumn:            "column",
	KindRow:               "row",
	KindLabelName:         "label-name",
	KindTemplateValueName: "template-value-name",
	KindFunctionName:      "function-name",

	KindTextLiteral: "text-literal",
	KindError:       "error",
	KindBoolean:     "boolean",

	KindAddition:                        "addition",
	KindSubtraction:                     "subtraction",
	KindMultiplication:                  "multiplication",
	KindDivision:                        "division",
	KindPowerOf:                         "power",
	KindEqualsCondition:                 "equals",
	KindNotEqualsCondition:              "not-equals",
	KindGreaterThanCondition:            "greater-than",
	KindGreaterThanEqualsCondition:      "greater-than-equals",
	KindLessThanCondition:               "less-than",
	KindLessThanEqualsCondition:         "less-than-equals",
	KindConditionRightEquals:            "condition-right-equals",
	KindConditionRightNotEquals:         "condition-right-not-equals",
	KindConditionRightGreaterThan:       "condition-right-greater-than",
	KindConditionRightGreaterThanEquals: "condition-right-greater-than-equals",
	KindConditionRightLessThan:          "condition-right-less-than",
	KindConditionRightLessThanEquals:    "condition-right-less-than-equals",
	KindNegative:                        "negative",
	KindGroup:                           "group",
	KindExpression:                      "expression",
	KindCell:                            "cell",
	KindCellRange:                       "cell-range",
	KindNumber:                          "number",
	KindDate:                            "date",
	KindTime:                            "time",
	KindDateTime:                        "date-time",
	KindText:                            "text",
	KindNamedFunction:                   "named-function",
	KindLambda:                          "lambda-function",
	KindFunctionParameters:              "function-parameters",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// KindByName is the inverse of Kind.String
func KindByName(name string) (Kind, bool) {
	for k := KindDigits; k < kindCount; k++ {
		if kindNames[k] == name {
			return k, true
		}
	}
	return KindInvalid, false
}

// IsSymbol reports punctuation and operator leaves
func (k Kind) IsSymbol() bool {
	return k >= KindPlus && k <= KindComma
}

// IsNoise reports nodes ignored when counting the operands of a parent
func (k Kind) IsNoise() bool {
	return k.IsSymbol() || k == KindWhitespace
}

// IsLeaf reports kinds represented by *Leaf
func (k Kind) IsLeaf() bool {
	return k >= KindDigits && k <= KindBoolean
}

// IsBinary reports kinds represented by *Binary
func (k Kind) IsBinary() bool {
	return k >= KindAddition && k <= KindLessThanEqualsCondition
}

// IsConditionRight reports kinds represented by *ConditionRight
func (k Kind) IsConditionRight() bool {
	return k >= KindConditionRightEquals && k <= KindConditionRightLessThanEquals
}

// IsUnary reports kinds represented by *Unary
func (k Kind) IsUnary() bool {
	return k == KindNegative || k == KindGroup || k == KindExpression
}

// conditionRightBinary maps a condition right kind to the comparison it
// produces once combined with a left operand
var conditionRightBinary = map[Kind]Kind{
	KindConditionRightEquals:            KindEqualsCondition,
	KindConditionRightNotEquals:         KindNotEqualsCondition,
	KindConditionRightGreaterThan:       KindGreaterThanCondition,
	KindConditionRightGreaterThanEquals: KindGreaterThanEqualsCondition,
	KindConditionRightLessThan:          KindLessThanCondition,
	KindConditionRightLessThanEquals:    KindLessThanEqualsCondition,
}

// binaryOperatorSymbols maps each binary kind to the symbol kind that joins its
// operands
var binaryOperatorSymbols = map[Kind]Kind{
	KindAddition:                   KindPlus,
	KindSubtraction:                KindMinus,
	KindMultiplication:             KindMultiply,
	KindDivision:                   KindDivide,
	KindPowerOf:                    KindPower,
	KindEqualsCondition:            KindEquals,
	KindNotEqualsCondition:         KindNotEquals,
	KindGreaterThanCondition:       KindGreaterThan,
	KindGreaterThanEqualsCondition: KindGreaterThanEquals,
	KindLessThanCondition:          KindLessThan,
	KindLessThanEqualsCondition:    KindLessThanEquals,
}

// symbolBinary is the inverse of binaryOperatorSymbols
var symbolBinary = func() map[Kind]Kind {
	m := make(map[Kind]Kind, len(binaryOperatorSymbols))
	for binary, symbol := range binaryOperatorSymbols {
		m[symbol] = binary
	}
	return m
}()
