package history

// Entry is one step of a Stack.
type Entry struct {
	Token Token
	Path  string
}

// Stack is an in-memory, browser-like history. Push drops any forward entries;
// Back and Forward report the entry they land on to the pop callback.
type Stack struct {
	entries []Entry
	pos     int
	onPop   func(Token)
}

// NewStack returns a history positioned on path. The initial entry is closed
// unless path ends in a photo position.
func NewStack(path string) *Stack {
	t := None()
	if i, ok := IndexFromPath(path); ok {
		t = Selected(i)
	}
	return &Stack{entries: []Entry{{Token: t, Path: path}}}
}

// OnPop sets the function called whenever Back, Forward or Reload lands on an entry.
func (s *Stack) OnPop(f func(Token)) {
	s.onPop = f
}

// Push adds an entry for t after the current one.
func (s *Stack) Push(t Token) {
	path := PathFor(s.entries[s.pos].Path, t)
	s.entries = append(s.entries[:s.pos+1], Entry{Token: t, Path: path})
	s.pos++
}

// Back moves to the previous entry.
func (s *Stack) Back() bool {
	if s.pos == 0 {
		return false
	}
	s.pos--
	s.pop()
	return true
}

// Forward moves to the next entry.
func (s *Stack) Forward() bool {
	if s.pos >= len(s.entries)-1 {
		return false
	}
	s.pos++
	s.pop()
	return true
}

// Reload re-announces the current entry, the way some browsers do on page load.
func (s *Stack) Reload() {
	s.pop()
}

// Current returns the active entry.
func (s *Stack) Current() Entry {
	return s.entries[s.pos]
}

// Len returns the number of entries.
func (s *Stack) Len() int {
	return len(s.entries)
}

func (s *Stack) pop() {
	if s.onPop != nil {
		s.onPop(s.entries[s.pos].Token)
	}
}
