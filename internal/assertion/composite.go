package assertion

import "strings"

// Group returns an assertion that passes when every child passes.
// All children are evaluated even after a failure, so each failing
// child gets reported.
func Group(children ...Assertion) Assertion {
	return &group{children: children}
}

// AnyOf returns an assertion that passes when at least one child passes.
func AnyOf(children ...Assertion) Assertion {
	return &anyOf{children: children}
}

// Not returns an assertion that inverts its child.
func Not(child Assertion) Assertion {
	return &not{child: child}
}

type group struct {
	Binding
	children []Assertion
}

func (g *group) Bind(env Environment) {
	g.Binding.Bind(env)
	for _, c := range g.children {
		c.Bind(env)
	}
}

func (g *group) Describe(indent string) string {
	return describeChildren(indent, "all of:", g.children)
}

func (g *group) DescribeState(indent string) string {
	return describeChildrenState(indent, g.children)
}

func (g *group) Evaluate() bool {
	passed := true
	for _, c := range g.children {
		c.Bind(g.Environment())
		passed = c.Evaluate() && passed
	}
	return passed
}

type anyOf struct {
	Binding
	children []Assertion
}

func (a *anyOf) Bind(env Environment) {
	a.Binding.Bind(env)
	for _, c := range a.children {
		c.Bind(env)
	}
}

func (a *anyOf) Describe(indent string) string {
	return describeChildren(indent, "any of:", a.children)
}

func (a *anyOf) DescribeState(indent string) string {
	return describeChildrenState(indent, a.children)
}

func (a *anyOf) Evaluate() bool {
	passed := false
	for _, c := range a.children {
		c.Bind(a.Environment())
		passed = c.Evaluate() || passed
	}
	return passed
}

type not struct {
	Binding
	child Assertion
}

func (n *not) Bind(env Environment) {
	n.Binding.Bind(env)
	n.child.Bind(env)
}

func (n *not) Describe(indent string) string {
	return indent + "not:\n" + n.child.Describe(indent+"   ")
}

func (n *not) DescribeState(indent string) string {
	return n.child.DescribeState(indent)
}

func (n *not) Evaluate() bool {
	n.child.Bind(n.Environment())
	return !n.child.Evaluate()
}

func describeChildren(indent, label string, children []Assertion) string {
	var b strings.Builder
	b.WriteString(indent)
	b.WriteString(label)
	for _, c := range children {
		b.WriteString("\n")
		b.WriteString(c.Describe(indent + "   "))
	}
	return b.String()
}

func describeChildrenState(indent string, children []Assertion) string {
	parts := make([]string, 0, len(children))
	for _, c := range children {
		parts = append(parts, c.DescribeState(indent))
	}
	return strings.Join(parts, "\n")
}
