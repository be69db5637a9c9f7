// Package tast defines the typed syntax tree handed over by the external
// type-checking front end. Everything here is read-only once ingested: the
// translator never mutates a module after it enters the pipeline.
package tast

// Graph is the full typed module graph for one translation run, in the
// front end's discovery order.
type Graph struct {
	Modules     []*Module
	Diagnostics []Diagnostic
}

// Diagnostic is a type-checker finding forwarded by the front end. The
// translator logs these; whether they abort the run is a policy decision
// made by the caller.
type Diagnostic struct {
	Module  string
	Message string
}

// Module is one source module with its top-level declarations.
type Module struct {
	Name    string // canonical dotted name, e.g. "core.vm"
	Classes []*Class
	Funcs   []*Func
}

// Class is a class declaration. Base is the dotted or plain name of the
// base class, empty when the class has none.
type Class struct {
	Name    string
	Base    string
	Fields  []Field
	Methods []*Func
}

// Field is a class attribute with its checked type.
type Field struct {
	Name string
	Type Type
}

// Func is a free function or a method. For methods the implicit receiver is
// not part of Params.
type Func struct {
	Name   string
	Params []Param
	Ret    Type
	Body   []Stmt
}

// Param is a formal parameter with its checked type.
type Param struct {
	Name string
	Type Type
}

// StmtKind discriminates the statement union.
type StmtKind uint8

const (
	// StmtAssign binds or rebinds a local name.
	StmtAssign StmtKind = iota + 1
	// StmtExpr evaluates an expression for effect.
	StmtExpr
	// StmtReturn returns from the enclosing function, X may be nil.
	StmtReturn
	// StmtIf branches on Cond with Body and optional Else.
	StmtIf
	// StmtWhile loops on Cond over Body.
	StmtWhile
)

// Stmt is a statement node. Field use depends on Kind:
// Assign uses LHS, Type (the binding's inferred type) and X; Expr and
// Return use X; If uses Cond, Body, Else; While uses Cond, Body.
type Stmt struct {
	Kind StmtKind
	LHS  string
	Type Type
	X    *Expr
	Cond *Expr
	Body []Stmt
	Else []Stmt
}

// ExprKind discriminates the expression union.
type ExprKind uint8

const (
	// ExprStrLit is a string literal, value in Str.
	ExprStrLit ExprKind = iota + 1
	// ExprIntLit is an integer literal, value in Int.
	ExprIntLit
	// ExprFloatLit is a float literal, value in Float.
	ExprFloatLit
	// ExprBoolLit is a boolean literal, value in Bool.
	ExprBoolLit
	// ExprNone is the null literal.
	ExprNone
	// ExprName is an identifier reference, name in Str.
	ExprName
	// ExprAttr is attribute access X.Str.
	ExprAttr
	// ExprCall calls X with Args.
	ExprCall
	// ExprBinary applies operator Str to X and Y.
	ExprBinary
	// ExprNew instantiates class Str with Args.
	ExprNew
)

// Expr is an expression node carrying the front end's inferred type for the
// whole expression. Field use depends on Kind, see ExprKind constants.
type Expr struct {
	Kind  ExprKind
	Str   string
	Int   int64
	Float float64
	Bool  bool
	X     *Expr
	Y     *Expr
	Args  []*Expr
	Type  Type
}
