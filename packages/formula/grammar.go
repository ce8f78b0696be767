package formula

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vogtb/go-spreadsheet/packages/reference"
)

// maxLabelLength is the longest label name accepted
const maxLabelLength = 255

// lambdaFunctionName is the function whose parameters are followed by the
// values it is invoked with
const lambdaFunctionName = "LAMBDA"

// Parser parses text into a single node
type Parser struct {
	name string
	rule rule
	ctx  *ParserContext
}

func (p Parser) Name() string {
	return p.name
}

// Parse parses all of text, trailing characters are an error
func (p Parser) Parse(text string) (Node, error) {
	node, _, err := p.parse(text, true)
	return node, err
}

// ParsePrefix parses the start of text and returns the number of runes
// consumed
func (p Parser) ParsePrefix(text string) (Node, int, error) {
	return p.parse(text, false)
}

func (p Parser) parse(text string, whole bool) (Node, int, error) {
	if length := utf8.RuneCountInString(text); length > MaxFormulaLength {
		err := newParseError(MaxFormulaLength, text, fmt.Sprintf("Text too long %d > %d", length, MaxFormulaLength))
		p.ctx.debug().Str("parser", p.name).Err(err).Msg("parse failed")
		return nil, 0, err
	}

	c := newCursor(text)
	nodes, ok, err := p.rule(c)
	if err == nil && !ok {
		err = invalidCharacter(c)
	}
	if err == nil && whole && !c.atEnd() {
		err = invalidCharacter(c)
	}
	if err != nil {
		p.ctx.debug().Str("parser", p.name).Str("text", text).Err(err).Msg("parse failed")
		return nil, c.pos, err
	}
	if len(nodes) != 1 {
		return nil, c.pos, NewApplicationError(Internal, fmt.Sprintf("%s: expected 1 node but got %d", p.name, len(nodes)))
	}
	return nodes[0], c.pos, nil
}

// Grammar builds the parsers for one ParserContext. a Grammar is immutable
// and may be shared between goroutines.
type Grammar struct {
	ctx *ParserContext

	months             names
	monthAbbreviations names
	monthInitials      names
	monthInitialValues []int
	days               names
	dayAbbreviations   names
	ampm               names
	booleans           names
	exponent           names
	errorTexts         names
	errorCodes         []ErrorCode

	column            rule
	row               rule
	cell              rule
	cellRange         rule
	label             rule
	templateValueName rule
	functionName      rule
	parameters        rule
	namedFunction     rule
	lambda            rule
	errorLiteral      rule
	boolean           rule
	text              rule
	apostropheText    rule
	number            rule
	signedNumber      rule
	date              rule
	time              rule
	dateTime          rule
	operand           rule
	operator          rule
	concatenation     rule
	conditionRight    rule
	valueOrExpression rule
}

// NewGrammar creates the parsers for ctx, nil uses NewParserContext
func NewGrammar(ctx *ParserContext) *Grammar {
	if ctx == nil {
		ctx = NewParserContext()
	}
	g := &Grammar{ctx: ctx}
	g.buildNames()
	g.buildRules()
	return g
}

func (g *Grammar) buildNames() {
	ctx := g.ctx
	g.months = newNames(ctx.MonthNames[:])
	g.monthAbbreviations = newNames(ctx.MonthNameAbbreviations[:])
	g.days = newNames(ctx.DayNames[:])
	g.dayAbbreviations = newNames(ctx.DayNameAbbreviations[:])
	g.ampm = newNames(ctx.AmPm[:])
	g.booleans = newNames([]string{"FALSE", "TRUE"})
	g.exponent = newNames([]string{ctx.ExponentSymbol})

	// an initial is only usable when no other month starts with the same letter
	fold := cases.Fold()
	count := map[string]int{}
	initials := make([]string, len(ctx.MonthNames))
	for i, name := range ctx.MonthNames {
		if r, _ := utf8.DecodeRuneInString(name); r != utf8.RuneError {
			initials[i] = fold.String(string(r))
			count[initials[i]]++
		}
	}
	var unique []string
	for i, initial := range initials {
		if initial != "" && count[initial] == 1 {
			unique = append(unique, initial)
			g.monthInitialValues = append(g.monthInitialValues, i+1)
		}
	}
	g.monthInitials = newNames(unique)

	var texts []string
	for code := ErrorCodeNull; code <= ErrorCodeCalc; code++ {
		texts = append(texts, ErrorMapper[code])
		g.errorCodes = append(g.errorCodes, code)
	}
	g.errorTexts = newNames(texts)
}

func (g *Grammar) buildRules() {
	ctx := g.ctx

	g.column = scan(g.scanColumn)
	g.row = scan(g.scanRow)
	g.cell = scan(g.scanCell)
	g.cellRange = transform(sequence(g.cell, symbol(KindBetween, string(charColon)), g.cell), NewCellRange)
	g.label = scan(g.scanLabel)
	g.templateValueName = scan(g.scanTemplateValueName)
	g.functionName = scan(g.scanFunctionName)

	argument := rule(g.scanExpression)
	g.parameters = transform(
		sequence(
			symbol(KindParenthesisOpen, string(charLParen)),
			optionalWhitespace,
			optional(sequence(
				argument,
				repeated(sequence(
					optionalWhitespace,
					symbol(KindValueSeparator, string(ctx.ValueSeparator)),
					optionalWhitespace,
					required(argument),
				)),
			)),
			optionalWhitespace,
			required(symbol(KindParenthesisClose, string(charRParen))),
		),
		NewFunctionParameters,
	)
	g.lambda = transform(sequence(scan(g.scanLambdaName), g.parameters, g.parameters), NewLambda)
	g.namedFunction = transform(sequence(g.functionName, g.parameters), NewNamedFunction)

	g.errorLiteral = scan(g.scanError)
	g.boolean = scan(g.scanBoolean)
	g.text = scan(g.scanQuotedText)
	g.apostropheText = transform(
		sequence(symbol(KindApostrophe, string(charApostrophe)), scan(scanRemainingLiteral)),
		NewText,
	)
	g.number = scan(func(c *cursor) (Node, error) { return g.scanNumber(c, false) })
	g.signedNumber = scan(func(c *cursor) (Node, error) { return g.scanNumber(c, true) })

	g.buildDateTimeRules()

	operand := rule(g.scanOperand)
	g.operand = alternatives(
		transform(
			sequence(symbol(KindMinus, string(charMinus)), optionalWhitespace, required(operand)),
			unary(KindNegative),
		),
		transform(
			sequence(
				symbol(KindParenthesisOpen, string(charLParen)),
				optionalWhitespace,
				required(argument),
				optionalWhitespace,
				required(symbol(KindParenthesisClose, string(charRParen))),
			),
			unary(KindGroup),
		),
		g.text,
		g.errorLiteral,
		g.number,
		g.lambda,
		g.namedFunction,
		g.boolean,
		g.cellRange,
		g.cell,
		g.label,
	)

	// two character operators first
	g.operator = alternatives(
		symbol(KindLessThanEquals, "<="),
		symbol(KindGreaterThanEquals, ">="),
		symbol(KindNotEquals, "<>"),
		symbol(KindLessThan, string(charLess)),
		symbol(KindGreaterThan, string(charGreater)),
		symbol(KindEquals, string(charEqual)),
		symbol(KindPlus, string(charPlus)),
		symbol(KindMinus, string(charMinus)),
		symbol(KindMultiply, string(charAsterisk)),
		symbol(KindDivide, string(charSlash)),
		symbol(KindPower, string(charCaret)),
	)
	g.concatenation = sequence(
		operand,
		repeated(sequence(optionalWhitespace, g.operator, optionalWhitespace, required(operand))),
	)

	conditionRight := func(kind Kind, text string) rule {
		return transform(
			sequence(symbol(symbolOf(kind), text), optionalWhitespace, required(argument)),
			func(children []Node) (*ConditionRight, error) { return NewConditionRight(kind, children) },
		)
	}
	g.conditionRight = alternatives(
		conditionRight(KindConditionRightLessThanEquals, "<="),
		conditionRight(KindConditionRightGreaterThanEquals, ">="),
		conditionRight(KindConditionRightNotEquals, "<>"),
		conditionRight(KindConditionRightLessThan, "<"),
		conditionRight(KindConditionRightGreaterThan, ">"),
		conditionRight(KindConditionRightEquals, "="),
	)

	g.valueOrExpression = alternatives(
		transform(
			sequence(
				symbol(KindEquals, string(charEqual)),
				optionalWhitespace,
				required(argument),
				optionalWhitespace,
			),
			unary(KindExpression),
		),
		complete(g.dateTime),
		complete(g.date),
		complete(g.time),
		complete(g.signedNumber),
		complete(g.apostropheText),
		scan(scanWholeText),
	)
}

func (g *Grammar) buildDateTimeRules() {
	ctx := g.ctx

	var separators []rule
	for _, sep := range ctx.DateSeparators {
		separators = append(separators, symbol(KindDateSeparator, string(sep)))
	}
	dateSeparator := alternatives(separators...)
	spaceOrSeparator := alternatives(whitespace, dateSeparator)

	day := digitsComponent(KindDayNumber, 1, 2, 1, 31)
	month := digitsComponent(KindMonthNumber, 1, 2, 1, 12)
	year := alternatives(digitsComponent(KindYear, 4, 4, 0, 9999), digitsComponent(KindYear, 1, 2, 0, 99))
	fullYear := digitsComponent(KindYear, 4, 4, 0, 9999)
	monthWord := alternatives(
		g.nameComponent(KindMonthName, g.months, nil),
		g.nameComponent(KindMonthNameAbbreviation, g.monthAbbreviations, nil),
		g.nameComponent(KindMonthNameInitial, g.monthInitials, g.monthInitialValues),
	)
	dayName := alternatives(
		g.nameComponent(KindDayName, g.days, nil),
		g.nameComponent(KindDayNameAbbreviation, g.dayAbbreviations, nil),
	)

	g.date = validate(
		sequence(
			optional(sequence(dayName, optional(symbol(KindComma, string(charComma))), whitespace)),
			alternatives(
				sequence(fullYear, dateSeparator, month, dateSeparator, day),
				sequence(day, dateSeparator, month, dateSeparator, year),
				sequence(day, dateSeparator, month),
				sequence(day, spaceOrSeparator, monthWord, spaceOrSeparator, year),
				sequence(day, spaceOrSeparator, monthWord),
				sequence(monthWord, spaceOrSeparator, year),
			),
		),
		func(children []Node) error {
			_, err := dateParts(children)
			return err
		},
		NewDate,
	)

	timeSeparator := symbol(KindTimeSeparator, string(ctx.TimeSeparator))
	ampm := g.nameComponent(KindAmPm, g.ampm, []int{0, 12})
	g.time = validate(
		alternatives(
			sequence(
				digitsComponent(KindHour, 1, 2, 0, 23),
				timeSeparator,
				digitsComponent(KindMinute, 2, 2, 0, 59),
				optional(sequence(
					timeSeparator,
					digitsComponent(KindSeconds, 2, 2, 0, 59),
					optional(sequence(
						symbol(KindDecimalSeparator, string(ctx.DecimalSeparator)),
						scan(scanFraction),
					)),
				)),
				optional(sequence(optionalWhitespace, ampm)),
			),
			sequence(digitsComponent(KindHour, 1, 2, 0, 12), optionalWhitespace, ampm),
		),
		func(children []Node) error {
			_, err := timeOf(children)
			return err
		},
		NewTime,
	)

	g.dateTime = transform(sequence(g.date, whitespace, g.time), NewDateTime)
}

func (g *Grammar) parser(name string, r rule) Parser {
	return Parser{name: name, rule: r, ctx: g.ctx}
}

func (g *Grammar) Column() Parser            { return g.parser("column", g.column) }
func (g *Grammar) Row() Parser               { return g.parser("row", g.row) }
func (g *Grammar) Cell() Parser              { return g.parser("cell", g.cell) }
func (g *Grammar) CellRange() Parser         { return g.parser("cell-range", g.cellRange) }
func (g *Grammar) Label() Parser             { return g.parser("label", g.label) }
func (g *Grammar) TemplateValueName() Parser { return g.parser("template-value-name", g.templateValueName) }
func (g *Grammar) FunctionName() Parser      { return g.parser("function-name", g.functionName) }
func (g *Grammar) NamedFunction() Parser     { return g.parser("named-function", g.namedFunction) }
func (g *Grammar) Lambda() Parser            { return g.parser("lambda-function", g.lambda) }
func (g *Grammar) Error() Parser             { return g.parser("error", g.errorLiteral) }
func (g *Grammar) Boolean() Parser           { return g.parser("boolean", g.boolean) }
func (g *Grammar) Text() Parser              { return g.parser("text", g.text) }
func (g *Grammar) ApostropheText() Parser    { return g.parser("apostrophe-text", g.apostropheText) }

// Number parses an optionally signed number
func (g *Grammar) Number() Parser   { return g.parser("number", g.signedNumber) }
func (g *Grammar) Date() Parser     { return g.parser("date", g.date) }
func (g *Grammar) Time() Parser     { return g.parser("time", g.time) }
func (g *Grammar) DateTime() Parser { return g.parser("date-time", g.dateTime) }

// Expression parses operands joined by operators, without the leading = of a
// formula
func (g *Grammar) Expression() Parser { return g.parser("expression", g.scanExpression) }

// ConditionRight parses a comparison operator followed by its right operand,
// such as the ">10" criteria of a conditional function
func (g *Grammar) ConditionRight() Parser { return g.parser("condition-right", g.conditionRight) }

// ValueOrExpression parses what a user types into a cell: a formula when the
// text starts with =, otherwise a date, time, number or text value.
func (g *Grammar) ValueOrExpression() Parser {
	return g.parser("value-or-expression", g.valueOrExpression)
}

var grammarParsers = map[string]func(*Grammar) Parser{
	"column":              (*Grammar).Column,
	"row":                 (*Grammar).Row,
	"cell":                (*Grammar).Cell,
	"cell-range":          (*Grammar).CellRange,
	"label":               (*Grammar).Label,
	"template-value-name": (*Grammar).TemplateValueName,
	"function-name":       (*Grammar).FunctionName,
	"named-function":      (*Grammar).NamedFunction,
	"lambda-function":     (*Grammar).Lambda,
	"error":               (*Grammar).Error,
	"boolean":             (*Grammar).Boolean,
	"text":                (*Grammar).Text,
	"apostrophe-text":     (*Grammar).ApostropheText,
	"number":              (*Grammar).Number,
	"date":                (*Grammar).Date,
	"time":                (*Grammar).Time,
	"date-time":           (*Grammar).DateTime,
	"expression":          (*Grammar).Expression,
	"condition-right":     (*Grammar).ConditionRight,
	"value-or-expression": (*Grammar).ValueOrExpression,
}

// Lookup returns the parser with the given name
func (g *Grammar) Lookup(name string) (Parser, bool) {
	factory, ok := grammarParsers[name]
	if !ok {
		return Parser{}, false
	}
	return factory(g), true
}

// ParserNames lists the names accepted by Lookup in sorted order
func ParserNames() []string {
	result := make([]string, 0, len(grammarParsers))
	for name := range grammarParsers {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

func (g *Grammar) scanOperand(c *cursor) ([]Node, bool, error) {
	return g.operand(c)
}

func (g *Grammar) scanExpression(c *cursor) ([]Node, bool, error) {
	nodes, ok, err := g.concatenation(c)
	if err != nil || !ok {
		return nil, false, err
	}
	n, err := Reduce(nodes)
	if err != nil {
		return nil, false, err
	}
	return []Node{n}, true, nil
}

func boundsError(start int, c *cursor, err error) *ParseError {
	return &ParseError{Pos: start, Text: c.text(), Message: err.Error(), Code: ErrorCodeRef, Err: err}
}

// scanColumn accumulates letters in radix 26 after an optional $
func (g *Grammar) scanColumn(c *cursor) (Node, error) {
	start := c.save()
	if c.current() == charDollar {
		c.next()
	}
	letters := c.save()
	for isAlpha(c.current()) {
		c.next()
	}
	if c.pos == letters {
		return nil, nil
	}
	text := c.textFrom(start)
	column, err := reference.ParseColumn(text)
	if err != nil {
		return nil, boundsError(start, c, err)
	}
	return NewColumn(column, text), nil
}

// scanRow accumulates digits after an optional $
func (g *Grammar) scanRow(c *cursor) (Node, error) {
	start := c.save()
	if c.current() == charDollar {
		c.next()
	}
	digits := c.save()
	for isDigit(c.current()) {
		c.next()
	}
	if c.pos == digits {
		return nil, nil
	}
	text := c.textFrom(start)
	row, err := reference.ParseRow(text)
	if err != nil {
		return nil, boundsError(start, c, err)
	}
	return NewRow(row, text), nil
}

func (g *Grammar) scanCell(c *cursor) (Node, error) {
	column, err := g.scanColumn(c)
	if err != nil {
		// too many letters is a label unless a row follows
		if isDigit(c.current()) || (c.current() == charDollar && isDigit(c.peek(1))) {
			return nil, err
		}
		return nil, nil
	}
	if column == nil {
		return nil, nil
	}
	row, err := g.scanRow(c)
	if err != nil {
		if isLabelPart(c.current()) {
			return nil, nil
		}
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	// A1B and LOG10( are not cells
	if isLabelPart(c.current()) || c.current() == charLParen {
		return nil, nil
	}
	return NewCell([]Node{column, row})
}

func (g *Grammar) scanLabel(c *cursor) (Node, error) {
	start := c.save()
	if !isAlpha(c.current()) && c.current() != charUnderscore {
		return nil, nil
	}
	for isLabelPart(c.current()) {
		c.next()
	}
	text := c.textFrom(start)
	if len(text) > maxLabelLength || c.current() == charLParen {
		return nil, nil
	}
	if index, _, ok := g.booleans.matchWord(newCursor(text)); ok && g.booleans.length[index] == len(text) {
		return nil, nil
	}
	if _, err := reference.ParseCell(text); err == nil {
		return nil, nil
	}
	return NewLabelName(reference.Label(text), text), nil
}

func (g *Grammar) scanTemplateValueName(c *cursor) (Node, error) {
	start := c.save()
	if !isAlpha(c.current()) && c.current() != charUnderscore {
		return nil, nil
	}
	for isLabelPart(c.current()) || c.current() == charMinus {
		c.next()
	}
	text := c.textFrom(start)
	return NewTemplateValueName(reference.TemplateValueName(text), text), nil
}

// scanFunctionName matches a name immediately followed by (
func (g *Grammar) scanFunctionName(c *cursor) (Node, error) {
	start := c.save()
	if !isAlpha(c.current()) {
		return nil, nil
	}
	for isLabelPart(c.current()) {
		c.next()
	}
	if c.current() != charLParen {
		return nil, nil
	}
	text := c.textFrom(start)
	return NewFunctionName(cases.Upper(language.Und).String(text), text), nil
}

func (g *Grammar) scanLambdaName(c *cursor) (Node, error) {
	n, err := g.scanFunctionName(c)
	if err != nil || n == nil {
		return nil, err
	}
	if n.(*Leaf).value != lambdaFunctionName {
		return nil, nil
	}
	return n, nil
}

func (g *Grammar) scanError(c *cursor) (Node, error) {
	if c.current() != charHash {
		return nil, nil
	}
	index, text, ok := g.errorTexts.matchPrefix(c)
	if !ok {
		return nil, nil
	}
	return NewError(g.errorCodes[index], text), nil
}

func (g *Grammar) scanBoolean(c *cursor) (Node, error) {
	index, text, ok := g.booleans.matchWord(c)
	if !ok || isLabelPart(c.current()) || c.current() == charLParen {
		return nil, nil
	}
	return NewBoolean(index == 1, text), nil
}

// scanQuotedText reads up to the closing quote, two quotes are one escaped
// quote
func (g *Grammar) scanQuotedText(c *cursor) (Node, error) {
	if c.current() != charQuote {
		return nil, nil
	}
	open := NewSymbol(KindDoubleQuote, string(charQuote))
	c.next()

	start := c.save()
	var value strings.Builder
	for {
		if c.atEnd() {
			return nil, invalidCharacter(c)
		}
		ch := c.current()
		if ch == charQuote {
			if c.peek(1) != charQuote {
				break
			}
			c.next()
		}
		value.WriteString(c.substring(c.pos, c.pos+1))
		c.next()
	}
	literal := NewTextLiteral(value.String(), c.textFrom(start))
	c.next()
	return NewText([]Node{open, literal, NewSymbol(KindDoubleQuote, string(charQuote))})
}

func scanRemainingLiteral(c *cursor) (Node, error) {
	start := c.save()
	c.restore(len(c.runes))
	text := c.textFrom(start)
	return NewTextLiteral(text, text), nil
}

func scanWholeText(c *cursor) (Node, error) {
	if c.atEnd() {
		return nil, nil
	}
	literal, _ := scanRemainingLiteral(c)
	return NewText([]Node{literal})
}

func (g *Grammar) digitRun(c *cursor) *Leaf {
	start := c.save()
	for isDigit(c.current()) {
		c.next()
	}
	if c.pos == start {
		return nil
	}
	return NewDigits(c.textFrom(start))
}

// scanNumber reads digits, an optional fraction, exponent and percent. signed
// numbers may start with + or -.
func (g *Grammar) scanNumber(c *cursor, signed bool) (Node, error) {
	ctx := g.ctx
	start := c.save()
	var children []Node

	if signed {
		switch c.current() {
		case ctx.NegativeSign:
			children = append(children, NewSymbol(KindMinus, string(ctx.NegativeSign)))
			c.next()
		case ctx.PositiveSign:
			children = append(children, NewSymbol(KindPlus, string(ctx.PositiveSign)))
			c.next()
		}
	}

	digits := false
	if leaf := g.digitRun(c); leaf != nil {
		children = append(children, leaf)
		digits = true
	}
	if c.current() == ctx.DecimalSeparator {
		fractionStart := c.save()
		c.next()
		fraction := g.digitRun(c)
		if !digits && fraction == nil {
			return nil, nil
		}
		children = append(children, NewSymbol(KindDecimalSeparator, c.substring(fractionStart, fractionStart+1)))
		if fraction != nil {
			children = append(children, fraction)
		}
		digits = true
	}
	if !digits {
		return nil, nil
	}

	exponentStart := c.save()
	if _, text, ok := g.exponent.matchPrefix(c); ok {
		exponent := []Node{NewSymbol(KindExponent, text)}
		switch c.current() {
		case charMinus:
			exponent = append(exponent, NewSymbol(KindMinus, string(charMinus)))
			c.next()
		case charPlus:
			exponent = append(exponent, NewSymbol(KindPlus, string(charPlus)))
			c.next()
		}
		if leaf := g.digitRun(c); leaf != nil {
			children = append(children, append(exponent, leaf)...)
		} else {
			c.restore(exponentStart)
		}
	}

	for c.current() == ctx.PercentSymbol {
		children = append(children, NewSymbol(KindPercent, string(ctx.PercentSymbol)))
		c.next()
	}

	if _, err := numberValue(children); err != nil {
		return nil, &ParseError{
			Pos:     start,
			Text:    c.text(),
			Message: fmt.Sprintf("Invalid number %q: %v", c.textFrom(start), err),
			Code:    ErrorCodeNum,
			Err:     err,
		}
	}
	return NewNumber(children)
}

// digitsComponent matches between min and max digits, not followed by another
// digit, with a value between lo and hi
func digitsComponent(kind Kind, minDigits, maxDigits, lo, hi int) rule {
	return scan(func(c *cursor) (Node, error) {
		start := c.save()
		for c.pos-start < maxDigits && isDigit(c.current()) {
			c.next()
		}
		if c.pos-start < minDigits || isDigit(c.current()) {
			return nil, nil
		}
		text := c.textFrom(start)
		value, err := strconv.Atoi(text)
		if err != nil || value < lo || value > hi {
			return nil, nil
		}
		return NewComponent(kind, value, text), nil
	})
}

// scanFraction reads the fraction of a second as nanoseconds
func scanFraction(c *cursor) (Node, error) {
	const digits = 9
	start := c.save()
	for c.pos-start < digits && isDigit(c.current()) {
		c.next()
	}
	if c.pos == start || isDigit(c.current()) {
		return nil, nil
	}
	text := c.textFrom(start)
	value, err := strconv.Atoi(text + strings.Repeat("0", digits-len(text)))
	if err != nil {
		return nil, nil
	}
	return NewComponent(KindMillisecond, value, text), nil
}

// nameComponent matches one of words, the component value is the index+1 or
// values[index] when given
func (g *Grammar) nameComponent(kind Kind, words names, values []int) rule {
	return scan(func(c *cursor) (Node, error) {
		index, text, ok := words.matchWord(c)
		if !ok {
			return nil, nil
		}
		value := index + 1
		if values != nil {
			value = values[index]
		}
		if kind == KindDayName || kind == KindDayNameAbbreviation {
			value = index // time.Weekday
		}
		return NewComponent(kind, value, text), nil
	})
}

func unary(kind Kind) func([]Node) (*Unary, error) {
	return func(children []Node) (*Unary, error) {
		return NewUnary(kind, children)
	}
}

func symbolOf(conditionRight Kind) Kind {
	return binaryOperatorSymbols[conditionRightBinary[conditionRight]]
}

// IsParseError reports whether err is a user input failure rather than a
// defect
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}
