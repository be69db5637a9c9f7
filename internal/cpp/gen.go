package cpp

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/AALEKH/oil/internal/tast"
)

// Local is one inferred local binding: C++ name plus lowered type.
type Local struct {
	Name  string
	CType string
}

// BodyEnv carries the per-function facts accumulated by earlier phases. The
// generator never computes these itself: locals come from the declaration
// phase, constant identifiers from the pool pass, format-helper names from
// the shared emission context.
type BodyEnv struct {
	Locals      []Local
	LookupConst func(value string) (string, error)
	FmtName     func(e *tast.Expr) (string, bool)
	Model       MemoryModel
}

// FormatSite pairs a string-format expression with the helper name minted
// for it during the declaration phase.
type FormatSite struct {
	E    *tast.Expr
	Name string
}

// BodyGen is the per-node code generator the emission phases delegate to.
// The declaration phase calls CollectLocals and CollectFormats; the
// definition phase calls EmitBody with the collected state.
type BodyGen interface {
	CollectLocals(fn *tast.Func) []Local
	CollectFormats(fn *tast.Func, mint func() string) []FormatSite
	FormatHelper(name string, e *tast.Expr) string
	EmitBody(w io.Writer, fn *tast.Func, env *BodyEnv) error
}

// Generator is the default BodyGen for the supported statement subset.
type Generator struct{}

// NewGenerator returns the default generator.
func NewGenerator() *Generator { return &Generator{} }

// ParamList renders the formal parameter list of fn.
func ParamList(fn *tast.Func) string {
	parts := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		parts[i] = CType(p.Type) + " " + SanitizeIdent(p.Name)
	}
	return strings.Join(parts, ", ")
}

// Prototype renders fn's signature without a trailing semicolon.
func Prototype(fn *tast.Func) string {
	return ReturnCType(fn.Ret) + " " + SanitizeIdent(fn.Name) + "(" + ParamList(fn) + ")"
}

// CollectLocals returns fn's local bindings in first-assignment order,
// excluding parameters. Rebinding a name keeps the first inferred type.
func (g *Generator) CollectLocals(fn *tast.Func) []Local {
	taken := make(map[string]bool, len(fn.Params))
	for _, p := range fn.Params {
		taken[p.Name] = true
	}
	var locals []Local
	var scan func(stmts []tast.Stmt)
	scan = func(stmts []tast.Stmt) {
		for i := range stmts {
			s := &stmts[i]
			if s.Kind == tast.StmtAssign && !taken[s.LHS] {
				taken[s.LHS] = true
				locals = append(locals, Local{Name: SanitizeIdent(s.LHS), CType: CType(s.Type)})
			}
			scan(s.Body)
			scan(s.Else)
		}
	}
	scan(fn.Body)
	return locals
}

// CollectFormats mints a helper name for every string-format site in fn's
// body, in traversal order.
func (g *Generator) CollectFormats(fn *tast.Func, mint func() string) []FormatSite {
	var sites []FormatSite
	tast.WalkExprs(fn, func(e *tast.Expr) {
		if isFormatSite(e) {
			sites = append(sites, FormatSite{E: e, Name: mint()})
		}
	})
	return sites
}

// FormatHelper renders the inline wrapper declared for one format site.
func (g *Generator) FormatHelper(name string, e *tast.Expr) string {
	if e.Y == nil {
		return fmt.Sprintf("inline Str* %s(Str* tmpl) { return str_format(tmpl); }", name)
	}
	return fmt.Sprintf("inline Str* %s(Str* tmpl, %s arg0) { return str_format(tmpl, arg0); }",
		name, CType(e.Y.Type))
}

// EmitBody writes fn's lowered body: local declarations first, then the
// statement sequence.
func (g *Generator) EmitBody(w io.Writer, fn *tast.Func, env *BodyEnv) error {
	var b strings.Builder
	for _, lo := range env.Locals {
		fmt.Fprintf(&b, "  %s %s;\n", env.Model.LocalType(lo.CType), lo.Name)
	}
	if len(env.Locals) > 0 {
		b.WriteByte('\n')
	}
	if err := g.stmts(&b, fn.Body, env, "  "); err != nil {
		return err
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (g *Generator) stmts(b *strings.Builder, stmts []tast.Stmt, env *BodyEnv, indent string) error {
	for i := range stmts {
		s := &stmts[i]
		switch s.Kind {
		case tast.StmtAssign:
			rhs, err := g.expr(s.X, env)
			if err != nil {
				return err
			}
			fmt.Fprintf(b, "%s%s = %s;\n", indent, SanitizeIdent(s.LHS), rhs)

		case tast.StmtExpr:
			x, err := g.expr(s.X, env)
			if err != nil {
				return err
			}
			fmt.Fprintf(b, "%s%s;\n", indent, x)

		case tast.StmtReturn:
			if s.X == nil {
				fmt.Fprintf(b, "%sreturn;\n", indent)
				break
			}
			x, err := g.expr(s.X, env)
			if err != nil {
				return err
			}
			fmt.Fprintf(b, "%sreturn %s;\n", indent, x)

		case tast.StmtIf:
			cond, err := g.expr(s.Cond, env)
			if err != nil {
				return err
			}
			fmt.Fprintf(b, "%sif (%s) {\n", indent, cond)
			if err := g.stmts(b, s.Body, env, indent+"  "); err != nil {
				return err
			}
			if len(s.Else) > 0 {
				fmt.Fprintf(b, "%s} else {\n", indent)
				if err := g.stmts(b, s.Else, env, indent+"  "); err != nil {
					return err
				}
			}
			fmt.Fprintf(b, "%s}\n", indent)

		case tast.StmtWhile:
			cond, err := g.expr(s.Cond, env)
			if err != nil {
				return err
			}
			fmt.Fprintf(b, "%swhile (%s) {\n", indent, cond)
			if err := g.stmts(b, s.Body, env, indent+"  "); err != nil {
				return err
			}
			fmt.Fprintf(b, "%s}\n", indent)

		default:
			return fmt.Errorf("unsupported statement kind %d", s.Kind)
		}
	}
	return nil
}

func (g *Generator) expr(e *tast.Expr, env *BodyEnv) (string, error) {
	switch e.Kind {
	case tast.ExprStrLit:
		return env.LookupConst(e.Str)

	case tast.ExprIntLit:
		return strconv.FormatInt(e.Int, 10), nil

	case tast.ExprFloatLit:
		return strconv.FormatFloat(e.Float, 'g', -1, 64), nil

	case tast.ExprBoolLit:
		if e.Bool {
			return "true", nil
		}
		return "false", nil

	case tast.ExprNone:
		return "nullptr", nil

	case tast.ExprName:
		if e.Str == "self" {
			return "this", nil
		}
		return SanitizeIdent(e.Str), nil

	case tast.ExprAttr:
		recv, err := g.expr(e.X, env)
		if err != nil {
			return "", err
		}
		return recv + "->" + SanitizeIdent(e.Str), nil

	case tast.ExprCall:
		callee, err := g.expr(e.X, env)
		if err != nil {
			return "", err
		}
		args, err := g.args(e.Args, env)
		if err != nil {
			return "", err
		}
		return callee + "(" + args + ")", nil

	case tast.ExprBinary:
		return g.binary(e, env)

	case tast.ExprNew:
		args, err := g.args(e.Args, env)
		if err != nil {
			return "", err
		}
		cls := tast.Type{Kind: tast.TypeClass, Name: e.Str}.ClassName()
		return env.Model.AllocExpr(SanitizeIdent(cls), args), nil
	}
	return "", fmt.Errorf("unsupported expression kind %d", e.Kind)
}

func (g *Generator) binary(e *tast.Expr, env *BodyEnv) (string, error) {
	left, err := g.expr(e.X, env)
	if err != nil {
		return "", err
	}
	right, err := g.expr(e.Y, env)
	if err != nil {
		return "", err
	}
	if isFormatSite(e) {
		name, ok := env.FmtName(e)
		if !ok {
			return "", fmt.Errorf("format site has no helper name (declaration phase did not run?)")
		}
		return name + "(" + left + ", " + right + ")", nil
	}
	if e.Str == "+" && e.X.Type.Kind == tast.TypeStr && e.Y.Type.Kind == tast.TypeStr {
		return "str_concat(" + left + ", " + right + ")", nil
	}
	return "(" + left + " " + e.Str + " " + right + ")", nil
}

func (g *Generator) args(args []*tast.Expr, env *BodyEnv) (string, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		s, err := g.expr(a, env)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return strings.Join(parts, ", "), nil
}

func isFormatSite(e *tast.Expr) bool {
	return e.Kind == tast.ExprBinary && e.Str == "%" && e.X != nil && e.X.Type.Kind == tast.TypeStr
}
