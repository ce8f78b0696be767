package formula

// character classification constants. slightly easier to read.
const (
	charNull       = 0
	charTab        = '\t'
	charNewline    = '\n'
	charReturn     = '\r'
	charSpace      = ' '
	charQuote      = '"'
	charApostrophe = '\''
	charHash       = '#'
	charDollar     = '$'
	charLParen     = '('
	charRParen     = ')'
	charAsterisk   = '*'
	charPlus       = '+'
	charComma      = ','
	charMinus      = '-'
	charPeriod     = '.'
	charSlash      = '/'
	charColon      = ':'
	charLess       = '<'
	charEqual      = '='
	charGreater    = '>'
	charCaret      = '^'
	charUnderscore = '_'
)

// cursor walks the runes of the text being parsed. rules save the position
// before trying a match and restore it when the match fails.
type cursor struct {
	input   string
	runes   []rune // UTF-8 aware representation
	offsets []int  // byte offset of each rune, then len(input)
	pos     int
}

func newCursor(input string) *cursor {
	c := &cursor{
		input:   input,
		runes:   make([]rune, 0, len(input)),
		offsets: make([]int, 0, len(input)+1),
	}
	// invalid bytes decode as one utf8.RuneError each and keep their offset
	for i, ch := range input {
		c.runes = append(c.runes, ch)
		c.offsets = append(c.offsets, i)
	}
	c.offsets = append(c.offsets, len(input))
	return c
}

func (c *cursor) text() string {
	return c.input
}

func (c *cursor) atEnd() bool {
	return c.pos >= len(c.runes)
}

func (c *cursor) current() rune {
	if c.pos >= len(c.runes) {
		return charNull
	}
	return c.runes[c.pos]
}

func (c *cursor) peek(offset int) rune {
	pos := c.pos + offset
	if pos >= len(c.runes) || pos < 0 {
		return charNull
	}
	return c.runes[pos]
}

func (c *cursor) next() {
	if c.pos < len(c.runes) {
		c.pos++
	}
}

func (c *cursor) save() int {
	return c.pos
}

func (c *cursor) restore(pos int) {
	c.pos = pos
}

// substring slices the original input between two rune positions, bytes
// that are not valid UTF-8 are kept as written
func (c *cursor) substring(start, end int) string {
	if start < 0 || end > len(c.runes) || start > end {
		return ""
	}
	return c.input[c.offsets[start]:c.offsets[end]]
}

// textFrom is the text consumed since start
func (c *cursor) textFrom(start int) string {
	return c.substring(start, c.pos)
}

// remaining is the number of unread runes
func (c *cursor) remaining() int {
	return len(c.runes) - c.pos
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isAlphaNumeric(ch rune) bool {
	return isAlpha(ch) || isDigit(ch)
}

func isWhitespace(ch rune) bool {
	return ch == charSpace || ch == charTab || ch == charNewline || ch == charReturn
}

// isLabelPart reports characters allowed after the first character of a label
func isLabelPart(ch rune) bool {
	return isAlphaNumeric(ch) || ch == charUnderscore || ch == charPeriod
}
