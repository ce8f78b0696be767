package formula

import (
	"golang.org/x/text/cases"
)

// rule matches at the cursor and returns the nodes it consumed. ok is false
// when nothing matched, the cursor is then back where it started. an error
// means a required part was missing or a matched value was invalid.
type rule func(c *cursor) (nodes []Node, ok bool, err error)

// scan adapts a scanner producing at most one node. a nil node is no match.
func scan(fn func(c *cursor) (Node, error)) rule {
	return func(c *cursor) ([]Node, bool, error) {
		start := c.save()
		n, err := fn(c)
		if err != nil {
			return nil, false, err
		}
		if n == nil {
			c.restore(start)
			return nil, false, nil
		}
		return []Node{n}, true, nil
	}
}

// sequence matches every rule in order or nothing at all
func sequence(rules ...rule) rule {
	return func(c *cursor) ([]Node, bool, error) {
		start := c.save()
		var nodes []Node
		for _, r := range rules {
			matched, ok, err := r(c)
			if err != nil {
				return nil, false, err
			}
			if !ok {
				c.restore(start)
				return nil, false, nil
			}
			nodes = append(nodes, matched...)
		}
		return nodes, true, nil
	}
}

// alternatives returns the first rule that matches
func alternatives(rules ...rule) rule {
	return func(c *cursor) ([]Node, bool, error) {
		for _, r := range rules {
			nodes, ok, err := r(c)
			if err != nil || ok {
				return nodes, ok, err
			}
		}
		return nil, false, nil
	}
}

func optional(r rule) rule {
	return func(c *cursor) ([]Node, bool, error) {
		nodes, _, err := r(c)
		if err != nil {
			return nil, false, err
		}
		return nodes, true, nil
	}
}

// repeated matches r zero or more times
func repeated(r rule) rule {
	return func(c *cursor) ([]Node, bool, error) {
		var nodes []Node
		for {
			start := c.save()
			matched, ok, err := r(c)
			if err != nil {
				return nil, false, err
			}
			if !ok || c.pos == start {
				return nodes, true, nil
			}
			nodes = append(nodes, matched...)
		}
	}
}

// required turns no match into a ParseError at the cursor
func required(r rule) rule {
	return func(c *cursor) ([]Node, bool, error) {
		nodes, ok, err := r(c)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, invalidCharacter(c)
		}
		return nodes, true, nil
	}
}

// complete only matches when r consumes the rest of the text
func complete(r rule) rule {
	return func(c *cursor) ([]Node, bool, error) {
		start := c.save()
		nodes, ok, err := r(c)
		if err != nil || !ok {
			return nil, false, err
		}
		if !c.atEnd() {
			c.restore(start)
			return nil, false, nil
		}
		return nodes, true, nil
	}
}

// transform builds one parent from the nodes matched by r. constructor errors
// are returned as is, they are grammar defects.
func transform[N Node](r rule, build func(children []Node) (N, error)) rule {
	return func(c *cursor) ([]Node, bool, error) {
		nodes, ok, err := r(c)
		if err != nil || !ok {
			return nil, false, err
		}
		n, err := build(nodes)
		if err != nil {
			return nil, false, err
		}
		return []Node{n}, true, nil
	}
}

// validate builds one parent from the nodes matched by r, treating an invalid
// value as no match
func validate[N Node](r rule, check func(children []Node) error, build func(children []Node) (N, error)) rule {
	return func(c *cursor) ([]Node, bool, error) {
		start := c.save()
		nodes, ok, err := r(c)
		if err != nil || !ok {
			return nil, false, err
		}
		if check(nodes) != nil {
			c.restore(start)
			return nil, false, nil
		}
		n, err := build(nodes)
		if err != nil {
			return nil, false, err
		}
		return []Node{n}, true, nil
	}
}

// symbol matches text exactly
func symbol(kind Kind, text string) rule {
	want := []rune(text)
	return scan(func(c *cursor) (Node, error) {
		for i, ch := range want {
			if c.peek(i) != ch {
				return nil, nil
			}
		}
		start := c.save()
		c.restore(start + len(want))
		return NewSymbol(kind, c.textFrom(start)), nil
	})
}

// whitespace matches one or more whitespace characters
var whitespace = scan(func(c *cursor) (Node, error) {
	start := c.save()
	for isWhitespace(c.current()) {
		c.next()
	}
	if c.pos == start {
		return nil, nil
	}
	return NewWhitespace(c.textFrom(start)), nil
})

var optionalWhitespace = optional(whitespace)

// names matches one of a list of words ignoring case, the longest wins
type names struct {
	folded []string
	length []int
}

func newNames(words []string) names {
	fold := cases.Fold()
	n := names{folded: make([]string, len(words)), length: make([]int, len(words))}
	for i, word := range words {
		n.folded[i] = fold.String(word)
		n.length[i] = len([]rune(word))
	}
	return n
}

// matchPrefix consumes the longest word at the cursor
func (n names) matchPrefix(c *cursor) (index int, text string, ok bool) {
	fold := cases.Fold()
	index = -1
	best := 0
	for i, folded := range n.folded {
		length := n.length[i]
		if length <= best || length == 0 || length > c.remaining() {
			continue
		}
		if fold.String(c.substring(c.pos, c.pos+length)) == folded {
			index, best = i, length
		}
	}
	if index < 0 {
		return -1, "", false
	}
	start := c.save()
	c.restore(start + best)
	return index, c.textFrom(start), true
}

// matchWord is matchPrefix for words that must not run into further letters
func (n names) matchWord(c *cursor) (index int, text string, ok bool) {
	start := c.save()
	index, text, ok = n.matchPrefix(c)
	if ok && isAlpha(c.current()) {
		c.restore(start)
		return -1, "", false
	}
	return index, text, ok
}
