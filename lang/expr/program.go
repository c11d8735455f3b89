package expr

import (
	"log/slog"
	"strings"

	exprlang "github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	exprbuiltin "github.com/expr-lang/expr/builtin"
	"github.com/expr-lang/expr/parser"
	"github.com/expr-lang/expr/vm"
	"github.com/expr-lang/expr/vm/runtime"

	"github.com/ardnew/ftl/lang/model"
	"github.com/ardnew/ftl/lang/outputformat"
)

// addFunc is the function every binary "+" of a program is rewritten to.
const addFunc = "__ftl_add__"

// Program is a compiled expr-lang expression. Unknown variables evaluate
// to nil, which surfaces as an undefined value.
type Program struct {
	source  string
	program *vm.Program
	operand bool
	names   []string
}

// Compile compiles source. It fails for empty input.
func Compile(source string) (*Program, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, ErrCompile.With(slog.String("reason", "empty expression"))
	}

	tree, err := parser.Parse(source)
	if err != nil {
		return nil, ErrCompile.Wrap(err).With(slog.String("source", source))
	}

	c := &nameCollector{seen: map[string]bool{}, called: map[string]bool{}}
	ast.Walk(&tree.Node, c)

	opts := []exprlang.Option{
		exprlang.AllowUndefinedVariables(),
		exprlang.Function(addFunc, add),
		exprlang.Patch(addPatcher{}),
	}

	// A variable named like an expr-lang builtin refers to the variable.
	for _, name := range c.names {
		if _, ok := exprbuiltin.Index[name]; ok && !c.called[name] {
			opts = append(opts, exprlang.DisableBuiltin(name))
		}
	}

	program, err := exprlang.Compile(source, opts...)
	if err != nil {
		return nil, ErrCompile.Wrap(err).With(slog.String("source", source))
	}

	return &Program{
		source:  source,
		program: program,
		operand: isOperand(tree.Node),
		names:   c.names,
	}, nil
}

// MustCompile is like [Compile] but panics on error.
func MustCompile(source string) *Program {
	p, err := Compile(source)
	if err != nil {
		panic(err)
	}

	return p
}

func (p *Program) Eval(env Env) (model.Value, error) {
	out, err := p.run(env.Variables())
	if err != nil {
		return nil, ErrEval.Wrap(err).With(slog.String("source", p.source))
	}

	return model.Wrap(out), nil
}

func (p *Program) run(vars map[string]any) (any, error) {
	return exprlang.Run(p.program, vars)
}

// CanonicalForm returns the source, parenthesized unless it is a single
// operand, so that a postfix operator applies to the whole expression.
func (p *Program) CanonicalForm() string {
	if p.operand || enclosed(p.source) {
		return p.source
	}

	return "(" + p.source + ")"
}

// Source returns the expression as written.
func (p *Program) Source() string { return p.source }

// Names returns the top-level variables the expression refers to, in order
// of first use.
func (p *Program) Names() []string { return p.names }

func isOperand(node ast.Node) bool {
	switch node.(type) {
	case *ast.BinaryNode, *ast.UnaryNode, *ast.ConditionalNode,
		*ast.VariableDeclaratorNode:
		return false
	}

	return true
}

// nameCollector gathers identifiers not introduced by the expression itself,
// and the expr-lang builtins the expression calls.
type nameCollector struct {
	seen   map[string]bool
	called map[string]bool
	names  []string
}

func (c *nameCollector) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.BuiltinNode:
		c.called[n.Name] = true
	case *ast.IdentifierNode:
		if !c.seen[n.Value] {
			c.seen[n.Value] = true
			c.names = append(c.names, n.Value)
		}
	}
}

// addPatcher routes "+" through [add] so that markup operands concatenate
// in their output format.
type addPatcher struct{}

func (addPatcher) Visit(node *ast.Node) {
	bin, ok := (*node).(*ast.BinaryNode)
	if !ok || bin.Operator != "+" {
		return
	}

	ast.Patch(node, &ast.CallNode{
		Callee:    &ast.IdentifierNode{Value: addFunc},
		Arguments: []ast.Node{bin.Left, bin.Right},
	})
}

// add implements "+". Markup joins markup of the same format, and escapes
// a string joined to it; anything else adds the way expr-lang does.
func add(params ...any) (any, error) {
	a, b := params[0], params[1]

	ma, aok := a.(*outputformat.Markup)
	mb, bok := b.(*outputformat.Markup)

	switch {
	case aok && bok:
		return outputformat.Concat(ma, mb)
	case aok:
		if s, ok := b.(string); ok {
			return outputformat.ConcatText(ma, s, false), nil
		}
	case bok:
		if s, ok := a.(string); ok {
			return outputformat.ConcatText(mb, s, true), nil
		}
	}

	return runtime.Add(a, b), nil
}

// enclosed reports whether s is wrapped in one pair of parentheses.
func enclosed(s string) bool {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return false
	}

	depth := 0

	var quote byte

	for i := 0; i < len(s); i++ {
		c := s[i]

		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'' || c == '`':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			if depth--; depth == 0 && i < len(s)-1 {
				return false
			}
		}
	}

	return depth == 0
}
