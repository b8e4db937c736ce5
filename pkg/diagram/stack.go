package diagram

import (
	"strings"

	"github.com/matzehuels/stackdiagram/pkg/errors"
)

// Scope is an open container that nodes and clusters attach to.
// It is implemented by [*Diagram] and [*Cluster].
type Scope interface {
	// Label is the human-readable name of the scope.
	Label() string
	// Children returns the nodes and clusters declared directly in the
	// scope, in declaration order.
	Children() []Element

	add(Element)
}

// Element is a child of a scope: either a [*Node] or a [*Cluster].
type Element interface {
	ID() string
	Label() string
}

// ContextStack is the ordered stack of open scopes of one diagram.
// The diagram itself sits at the bottom; open clusters are pushed above it.
//
// A ContextStack is owned by exactly one diagram and is not safe for
// concurrent use.
type ContextStack struct {
	scopes []Scope
}

// NewContextStack returns an empty stack.
func NewContextStack() *ContextStack {
	return &ContextStack{}
}

// Push makes s the active scope.
func (s *ContextStack) Push(sc Scope) {
	s.scopes = append(s.scopes, sc)
}

// Pop removes and returns the active scope.
// Popping an empty stack is a SCOPE_ERROR.
func (s *ContextStack) Pop() (Scope, error) {
	if len(s.scopes) == 0 {
		return nil, errors.New(errors.ErrCodeScope, "close: no open scope")
	}
	top := s.scopes[len(s.scopes)-1]
	s.scopes[len(s.scopes)-1] = nil
	s.scopes = s.scopes[:len(s.scopes)-1]
	return top, nil
}

// Top returns the active scope, or nil when the stack is empty.
func (s *ContextStack) Top() Scope {
	if len(s.scopes) == 0 {
		return nil
	}
	return s.scopes[len(s.scopes)-1]
}

// Depth returns the number of open scopes.
func (s *ContextStack) Depth() int { return len(s.scopes) }

// Path returns the labels of the open scopes from the bottom of the stack
// to the top.
func (s *ContextStack) Path() []string {
	path := make([]string, len(s.scopes))
	for i, sc := range s.scopes {
		path[i] = sc.Label()
	}
	return path
}

func (s *ContextStack) String() string {
	return strings.Join(s.Path(), " > ")
}

func (s *ContextStack) contains(sc Scope) bool {
	for _, open := range s.scopes {
		if open == sc {
			return true
		}
	}
	return false
}
