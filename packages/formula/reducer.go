package formula

// operator priorities, the lowest folds first
const (
	priorityNone       = 0
	priorityBetween    = 1
	priorityPower      = 2
	priorityMultiply   = 3
	priorityAdd        = 4
	priorityComparison = 5
)

// OperatorPriority returns the priority of an operator symbol, 0 for anything
// that is not an operator
func OperatorPriority(n Node) int {
	if _, ok := n.(*Leaf); !ok {
		return priorityNone
	}
	switch n.Kind() {
	case KindBetween:
		return priorityBetween
	case KindPower:
		return priorityPower
	case KindMultiply, KindDivide:
		return priorityMultiply
	case KindPlus, KindMinus:
		return priorityAdd
	case KindEquals, KindNotEquals, KindGreaterThan, KindGreaterThanEquals, KindLessThan, KindLessThanEquals:
		return priorityComparison
	}
	return priorityNone
}

// Reduce folds a flat run of operands, operators and whitespace into a single
// tree. the operator with the lowest priority is folded first, the leftmost
// on ties, so every operator is left associative. whitespace next to an
// operator ends up inside the folded node.
func Reduce(nodes []Node) (Node, error) {
	work := make([]Node, len(nodes))
	copy(work, nodes)

	for {
		op := -1
		lowest := 0
		for i, n := range work {
			priority := OperatorPriority(n)
			if priority != priorityNone && (op < 0 || priority < lowest) {
				op, lowest = i, priority
			}
		}
		if op < 0 {
			break
		}

		left := op - 1
		for left >= 0 && work[left].Kind() == KindWhitespace {
			left--
		}
		right := op + 1
		for right < len(work) && work[right].Kind() == KindWhitespace {
			right++
		}
		if left < 0 || right >= len(work) {
			return nil, invalidArgument("%s: missing operand in %s", work[op].Kind(), kindsOf(work))
		}

		folded, err := fold(work[op].Kind(), work[left:right+1])
		if err != nil {
			return nil, err
		}

		next := make([]Node, 0, len(work)-(right-left))
		next = append(next, work[:left]...)
		next = append(next, folded)
		next = append(next, work[right+1:]...)
		work = next
	}

	if len(work) != 1 {
		return nil, invalidArgument("expected 1 node after reducing but got %s", kindsOf(work))
	}
	return work[0], nil
}

func fold(operator Kind, span []Node) (Node, error) {
	if operator == KindBetween {
		return asNode(NewCellRange(span))
	}
	kind, ok := symbolBinary[operator]
	if !ok {
		return nil, invalidArgument("%s is not an operator", operator)
	}
	return asNode(NewBinary(kind, span))
}
