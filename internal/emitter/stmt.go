package emitter

import (
	"github.com/tsoniclang/tsonic/internal/ir"
)

// Stmt writes a single IR statement to p, recursing into block bodies.
// Grounded on tsgonest's Emitter.Line/Block usage in internal/codegen,
// generalised from manifest-field emission to full statement lowering.
func Stmt(p *Printer, s ir.Statement) {
	switch s.Kind {
	case ir.StmtExpr:
		p.Line("%s;", Expr(s.Expr))
	case ir.StmtReturn:
		if s.Expr.Kind == "" {
			p.Line("return;")
			return
		}
		p.Line("return %s;", Expr(s.Expr))
	case ir.StmtThrow:
		p.Line("throw %s;", Expr(s.Expr))
	case ir.StmtBreak:
		p.Line("break;")
	case ir.StmtContinue:
		p.Line("continue;")
	case ir.StmtYield:
		if s.Delegate {
			p.Line("foreach (var __v in %s) yield return __v;", Expr(s.Expr))
			return
		}
		p.Line("yield return %s;", Expr(s.Expr))
	case ir.StmtVarDecl:
		varDeclStmt(p, s)
	case ir.StmtIf:
		ifStmt(p, s)
	case ir.StmtWhile:
		p.OpenBrace("while (%s)", Expr(s.Cond))
		StmtList(p, s.Then)
		p.CloseBrace()
	case ir.StmtFor:
		forStmt(p, s)
	case ir.StmtForOf:
		forOfStmt(p, s)
	case ir.StmtBlock:
		p.OpenBrace("")
		StmtList(p, s.Then)
		p.CloseBrace()
	case ir.StmtTry:
		tryStmt(p, s)
	default:
		p.Line("/* unsupported statement */")
	}
}

// StmtList writes a sequence of statements in order.
func StmtList(p *Printer, stmts []ir.Statement) {
	for _, s := range stmts {
		Stmt(p, s)
	}
}

func varDeclStmt(p *Printer, s ir.Statement) {
	typeName := "var"
	if s.VarType.Kind != "" {
		typeName = TypeToCSharp(s.VarType)
	}
	if s.Expr.Kind == "" {
		p.Line("%s %s;", typeName, s.Name)
		return
	}
	p.Line("%s %s = %s;", typeName, s.Name, Expr(s.Expr))
}

func ifStmt(p *Printer, s ir.Statement) {
	p.OpenBrace("if (%s)", Expr(s.Cond))
	StmtList(p, s.Then)
	p.CloseBrace()
	if len(s.Else) > 0 {
		p.OpenBrace("else")
		StmtList(p, s.Else)
		p.CloseBrace()
	}
}

func forStmt(p *Printer, s ir.Statement) {
	init := ""
	if s.Init.Kind != "" {
		init = Expr(s.Init)
	}
	cond := ""
	if s.Cond.Kind != "" {
		cond = Expr(s.Cond)
	}
	post := ""
	if s.Post.Kind != "" {
		post = Expr(s.Post)
	}
	p.OpenBrace("for (%s; %s; %s)", init, cond, post)
	StmtList(p, s.Then)
	p.CloseBrace()
}

// forOfStmt lowers `for (const x of xs)` to a C# foreach, using `await
// foreach` when the loop is a for-await-of over an async iterable (spec
// §4.6 generator/async-iteration mapping).
func forOfStmt(p *Printer, s ir.Statement) {
	prefix := ""
	if s.Await {
		prefix = "await "
	}
	p.OpenBrace("%sforeach (var %s in %s)", prefix, s.LoopVar, Expr(s.Iterable))
	StmtList(p, s.Then)
	p.CloseBrace()
}

func tryStmt(p *Printer, s ir.Statement) {
	p.OpenBrace("try")
	StmtList(p, s.TryBlock)
	p.CloseBrace()
	if s.CatchBlock != nil || s.CatchName != "" {
		catchType := "Exception"
		if s.CatchType != nil {
			catchType = TypeToCSharp(*s.CatchType)
		}
		name := s.CatchName
		if name == "" {
			p.OpenBrace("catch (%s)", catchType)
		} else {
			p.OpenBrace("catch (%s %s)", catchType, name)
		}
		StmtList(p, s.CatchBlock)
		p.CloseBrace()
	}
	if len(s.FinallyBlock) > 0 {
		p.OpenBrace("finally")
		StmtList(p, s.FinallyBlock)
		p.CloseBrace()
	}
}

// BodyOrSemicolon writes a method/function body if present, or a bare
// semicolon for an abstract/interface member.
func BodyOrSemicolon(p *Printer, header string, body []ir.Statement, hasBody bool) {
	if !hasBody {
		p.Line("%s;", header)
		return
	}
	p.OpenBrace("%s", header)
	StmtList(p, body)
	p.CloseBrace()
}
