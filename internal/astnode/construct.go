package astnode

// Constructors for every node kind. internal/lowering builds nodes
// exclusively through these, since the line-number fields embedded above
// are unexported (a node's line is immutable after lowering; only the
// constructor may set it).

func NewFunctionDef(line int, name string, params []string, defaults []Expr, body []Stmt, decorators []Decorator) *FunctionDef {
	return &FunctionDef{base{line}, name, params, defaults, body, decorators}
}

func NewClassDef(line int, name string, bases []Expr, body []Stmt, decorators []Decorator) *ClassDef {
	return &ClassDef{base{line}, name, bases, body, decorators}
}

func NewReturn(line int, value Expr) *Return { return &Return{base{line}, value} }

func NewAssign(line int, targets []AssignTarget, value Expr) *Assign {
	return &Assign{base{line}, targets, value}
}

func NewAnnAssign(line int, target AssignTarget, annotation, value Expr) *AnnAssign {
	return &AnnAssign{base{line}, target, annotation, value}
}

func NewAugAssign(line int, target AssignTarget, op AugOp, value Expr) *AugAssign {
	return &AugAssign{base{line}, target, op, value}
}

func NewDelete(line int, targets []Expr) *Delete { return &Delete{base{line}, targets} }

func NewGlobal(line int, names []string) *Global { return &Global{base{line}, names} }

func NewExprStmt(line int, value Expr) *ExprStmt { return &ExprStmt{base{line}, value} }

func NewIf(line int, test Expr, body, orelse []Stmt) *If {
	return &If{base{line}, test, body, orelse}
}

func NewFor(line int, target, iter Expr, body, orelse []Stmt) *For {
	return &For{base{line}, target, iter, body, orelse}
}

func NewWhile(line int, test Expr, body, orelse []Stmt) *While {
	return &While{base{line}, test, body, orelse}
}

func NewBreak(line int) *Break { return &Break{base{line}} }

func NewTry(line int, body []Stmt, handlers []ExceptHandler, orelse, finalbody []Stmt) *Try {
	return &Try{base{line}, body, handlers, orelse, finalbody}
}

func NewRaise(line int, exc Expr) *Raise { return &Raise{base{line}, exc} }

func NewConstantInt(line int, v int64) *Constant    { return &Constant{ebase: ebase{line}, Kind: ConstInt, Int: v} }
func NewConstantFloat(line int, v float64) *Constant {
	return &Constant{ebase: ebase{line}, Kind: ConstFloat, Float: v}
}
func NewConstantStr(line int, v string) *Constant { return &Constant{ebase: ebase{line}, Kind: ConstStr, Str: v} }
func NewConstantBool(line int, v bool) *Constant  { return &Constant{ebase: ebase{line}, Kind: ConstBool, Bool: v} }
func NewConstantNone(line int) *Constant          { return &Constant{ebase: ebase{line}, Kind: ConstNone} }

func NewName(line int, id string) *Name { return &Name{ebase{line}, id} }

func NewBinOp(line int, left Expr, op BinOpKind, right Expr) *BinOp {
	return &BinOp{ebase{line}, left, op, right}
}

func NewUnaryOp(line int, op UnaryOpKind, operand Expr) *UnaryOp {
	return &UnaryOp{ebase{line}, op, operand}
}

func NewBoolOp(line int, op BoolOpKind, values []Expr) *BoolOp {
	return &BoolOp{ebase{line}, op, values}
}

func NewCompare(line int, left Expr, op CmpOp, comparator Expr) *Compare {
	return &Compare{ebase{line}, left, op, comparator}
}

func NewCall(line int, fn Expr, args []Expr, keywords []Keyword) *Call {
	return &Call{ebase{line}, fn, args, keywords}
}

func NewAttribute(line int, value Expr, attr string, callerPosition bool) *Attribute {
	return &Attribute{ebase{line}, value, attr, callerPosition}
}

func NewSlice(line int, lower, upper, step Expr) *Slice {
	return &Slice{ebase{line}, lower, upper, step}
}

func NewSubscript(line int, value, index Expr) *Subscript {
	return &Subscript{ebase{line}, value, index}
}

func NewIfExp(line int, test, body, orelse Expr) *IfExp {
	return &IfExp{ebase{line}, test, body, orelse}
}

func NewListComp(line int, elt, target, iter Expr, ifs []Expr) *ListComp {
	return &ListComp{ebase{line}, elt, target, iter, ifs}
}

func NewTupleLit(line int, elts []Expr) *TupleLit { return &TupleLit{ebase{line}, elts} }
func NewListLit(line int, elts []Expr) *ListLit   { return &ListLit{ebase{line}, elts} }

func NewDictLit(line int, entries []DictEntry) *DictLit {
	return &DictLit{ebase{line}, entries}
}

func NewLambda(line int, params []string, defaults []Expr, body Expr) *Lambda {
	return &Lambda{ebase{line}, params, defaults, body}
}

func NewJoinedStr(line int, values []Expr) *JoinedStr { return &JoinedStr{ebase{line}, values} }

func NewFormattedValue(line int, value Expr) *FormattedValue {
	return &FormattedValue{ebase{line}, value}
}
