package tast

// Traversal order matters: the constant pass and the emission phases must
// see literal sites in exactly the same sequence, so every walk in this
// package is fixed left-to-right, outer before inner.

// ModuleFuncs returns every function in the module: class methods first in
// declaration order, then free functions.
func ModuleFuncs(m *Module) []*Func {
	var out []*Func
	for _, cls := range m.Classes {
		out = append(out, cls.Methods...)
	}
	return append(out, m.Funcs...)
}

// WalkExprs visits every expression reachable from the function body.
func WalkExprs(fn *Func, visit func(*Expr)) {
	walkStmts(fn.Body, visit)
}

// WalkStrings visits every string literal reachable from the function body.
func WalkStrings(fn *Func, visit func(*Expr)) {
	WalkExprs(fn, func(e *Expr) {
		if e.Kind == ExprStrLit {
			visit(e)
		}
	})
}

func walkStmts(stmts []Stmt, visit func(*Expr)) {
	for i := range stmts {
		s := &stmts[i]
		walkExpr(s.X, visit)
		walkExpr(s.Cond, visit)
		walkStmts(s.Body, visit)
		walkStmts(s.Else, visit)
	}
}

func walkExpr(e *Expr, visit func(*Expr)) {
	if e == nil {
		return
	}
	visit(e)
	walkExpr(e.X, visit)
	walkExpr(e.Y, visit)
	for _, arg := range e.Args {
		walkExpr(arg, visit)
	}
}
