package chip8

/// StackDepth is the number of return addresses the stack can hold.
///
const StackDepth = 16

/// Stack of subroutine return addresses.
///
type Stack struct {
	addresses [StackDepth]uint16

	// number of addresses pushed
	depth int
}

/// Depth returns how many return addresses are on the stack.
///
func (s *Stack) Depth() int {
	return s.depth
}

/// Addresses returns the pushed return addresses, oldest first.
///
func (s *Stack) Addresses() []uint16 {
	return s.addresses[:s.depth]
}

func (s *Stack) push(address uint16) error {
	if s.depth == StackDepth {
		return StackOverflow
	}

	s.addresses[s.depth] = address
	s.depth++

	return nil
}

func (s *Stack) pop() (uint16, error) {
	if s.depth == 0 {
		return 0, StackUnderflow
	}

	s.depth--
	return s.addresses[s.depth], nil
}
