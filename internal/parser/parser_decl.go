package parser

import (
	"github.com/cm-lang/cmc/internal/ast"
	"github.com/cm-lang/cmc/internal/diag"
	"github.com/cm-lang/cmc/internal/lexer"
	"github.com/cm-lang/cmc/internal/sourcemap"
)

// parseTopLevelDecl dispatches on the leading keyword of a
// declaration, after first consuming any attributes and visibility
// marker that precede it.
func (p *Parser) parseTopLevelDecl() ast.Decl {
	attrs := p.parseAttributes()
	vis := ast.VisibilityPrivate
	if p.curTokenIs(lexer.EXPORT) {
		vis = ast.VisibilityExport
		p.nextToken()
	}

	switch p.curToken.Type {
	case lexer.USE:
		return p.parseUseDecl(attrs, vis)
	case lexer.MODULE, lexer.NAMESPACE:
		return p.parseModuleDecl(attrs, vis)
	case lexer.FUNC:
		return p.parseFunctionDecl(attrs, vis)
	case lexer.STRUCT:
		return p.parseStructDecl(attrs, vis)
	case lexer.INTERFACE:
		return p.parseInterfaceDecl(attrs, vis)
	case lexer.IMPL:
		return p.parseImplDecl(attrs, vis)
	case lexer.ENUM:
		return p.parseEnumDecl(attrs, vis)
	case lexer.TYPEDEF:
		return p.parseTypedefDecl(attrs, vis)
	case lexer.EXTERN:
		return p.parseExternBlockDecl(attrs, vis)
	case lexer.MACRO:
		return p.parseMacroDecl(attrs, vis)
	case lexer.TEMPLATE:
		return p.parseTemplateDecl(attrs, vis)
	case lexer.LET, lexer.CONST:
		return p.parseGlobalVarDecl(attrs, vis)
	default:
		p.reportf(diag.PAR001UnexpectedToken, "expected a declaration, got %s (%q)", p.curToken.Type, p.curToken.Literal)
		p.nextToken()
		return nil
	}
}

// parseAttributes consumes zero or more `#[name(args...)]` markers.
func (p *Parser) parseAttributes() []ast.Attribute {
	var attrs []ast.Attribute
	for p.curTokenIs(lexer.HASH) {
		p.nextToken()
		p.expect(lexer.LBRACKET)
		name := p.curToken.Literal
		p.expect(lexer.IDENT)
		var args []string
		if p.curTokenIs(lexer.LPAREN) {
			p.nextToken()
			for !p.curTokenIs(lexer.RPAREN) && !p.curTokenIs(lexer.EOF) {
				args = append(args, p.curToken.Literal)
				p.nextToken()
				if p.curTokenIs(lexer.COMMA) {
					p.nextToken()
				}
			}
			p.expect(lexer.RPAREN)
		}
		p.expect(lexer.RBRACKET)
		attrs = append(attrs, ast.Attribute{Name: name, Args: args})
	}
	return attrs
}

// parseGenericParams parses an optional `<T: Constraint, ...>` list.
func (p *Parser) parseGenericParams() []ast.GenericParam {
	if !p.curTokenIs(lexer.LT) {
		return nil
	}
	p.expect(lexer.LT)
	var params []ast.GenericParam
	for !p.curTokenIs(lexer.GT) && !p.curTokenIs(lexer.SHR) && !p.curTokenIs(lexer.EOF) {
		params = append(params, p.parseOneGenericParam())
		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	p.closeAngle()
	return params
}

func (p *Parser) parseOneGenericParam() ast.GenericParam {
	if p.curTokenIs(lexer.CONST) {
		p.nextToken()
		name := p.curToken.Literal
		p.expect(lexer.IDENT)
		p.expect(lexer.COLON)
		valType := p.parseType()
		return ast.GenericParam{Name: name, Constraint: ast.ConstConstraint{ValueType: valType}}
	}
	name := p.curToken.Literal
	p.expect(lexer.IDENT)
	if !p.curTokenIs(lexer.COLON) {
		return ast.GenericParam{Name: name}
	}
	p.nextToken()
	return ast.GenericParam{Name: name, Constraint: p.parseConstraint()}
}

func (p *Parser) parseConstraint() ast.Constraint {
	first := p.curToken.Literal
	p.expect(lexer.IDENT)
	if p.curTokenIs(lexer.PLUS) {
		ifaces := []string{first}
		for p.curTokenIs(lexer.PLUS) {
			p.nextToken()
			ifaces = append(ifaces, p.curToken.Literal)
			p.expect(lexer.IDENT)
		}
		return ast.AndConstraint{Interfaces: ifaces}
	}
	if p.curTokenIs(lexer.BITOR) {
		ifaces := []string{first}
		for p.curTokenIs(lexer.BITOR) {
			p.nextToken()
			ifaces = append(ifaces, p.curToken.Literal)
			p.expect(lexer.IDENT)
		}
		return ast.OrConstraint{Interfaces: ifaces}
	}
	return ast.SingleConstraint{Interface: first}
}

// parseWhereClause parses an optional trailing `where T: Constraint, ...`.
func (p *Parser) parseWhereClause() []ast.GenericParam {
	if !p.curTokenIs(lexer.WHERE) {
		return nil
	}
	p.nextToken()
	var params []ast.GenericParam
	for {
		name := p.curToken.Literal
		p.expect(lexer.IDENT)
		p.expect(lexer.COLON)
		params = append(params, ast.GenericParam{Name: name, Constraint: p.parseConstraint()})
		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	return params
}

func (p *Parser) newAttrs(attrs []ast.Attribute, vis ast.Visibility, start sourcemap.Pos) *ast.DeclAttrs {
	return &ast.DeclAttrs{Attributes: attrs, Visibility: vis, Span: p.spanFrom(start)}
}

func (p *Parser) parseParamList() []ast.Param {
	p.expect(lexer.LPAREN)
	var params []ast.Param
	for !p.curTokenIs(lexer.RPAREN) && !p.curTokenIs(lexer.EOF) {
		if p.curTokenIs(lexer.SELF) {
			params = append(params, ast.Param{Name: "self", Type: &ast.ReferenceType{Elem: &ast.NamedType{Name: "Self"}}})
			p.nextToken()
		} else {
			name := p.curToken.Literal
			p.expect(lexer.IDENT)
			p.expect(lexer.COLON)
			typ := p.parseType()
			params = append(params, ast.Param{Name: name, Type: typ})
		}
		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	p.expect(lexer.RPAREN)
	return params
}

func (p *Parser) parseFunctionDecl(attrs []ast.Attribute, vis ast.Visibility) ast.Decl {
	start := p.pos()
	p.expect(lexer.FUNC)
	name := p.curToken.Literal
	p.expect(lexer.IDENT)
	generics := p.parseGenericParams()
	params := p.parseParamList()
	var ret ast.Type = &ast.PrimitiveType{Kind: ast.PrimVoid}
	if p.curTokenIs(lexer.ARROW) {
		p.nextToken()
		ret = p.parseType()
	}
	where := p.parseWhereClause()

	d := p.newAttrs(attrs, vis, start)
	d.Generics = generics
	d.Where = where

	var body *ast.BlockExpr
	if p.curTokenIs(lexer.SEMI) {
		p.nextToken()
	} else {
		body = p.parseBlockExpr()
	}
	return &ast.FunctionDecl{Name: name, Params: params, ReturnType: ret, Body: body, DeclAttrs: d}
}

func (p *Parser) parseStructDecl(attrs []ast.Attribute, vis ast.Visibility) ast.Decl {
	start := p.pos()
	p.expect(lexer.STRUCT)
	name := p.curToken.Literal
	p.expect(lexer.IDENT)
	generics := p.parseGenericParams()
	p.expect(lexer.LBRACE)
	var fields []ast.FieldDecl
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		fname := p.curToken.Literal
		p.expect(lexer.IDENT)
		p.expect(lexer.COLON)
		ftype := p.parseType()
		fields = append(fields, ast.FieldDecl{Name: fname, Type: ftype})
		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	p.expect(lexer.RBRACE)
	d := p.newAttrs(attrs, vis, start)
	d.Generics = generics
	return &ast.StructDecl{Name: name, Fields: fields, DeclAttrs: d}
}

func (p *Parser) parseInterfaceDecl(attrs []ast.Attribute, vis ast.Visibility) ast.Decl {
	start := p.pos()
	p.expect(lexer.INTERFACE)
	name := p.curToken.Literal
	p.expect(lexer.IDENT)
	generics := p.parseGenericParams()
	p.expect(lexer.LBRACE)
	var methods []ast.MethodSig
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		methods = append(methods, p.parseMethodSig())
		if p.curTokenIs(lexer.SEMI) {
			p.nextToken()
		}
	}
	p.expect(lexer.RBRACE)
	d := p.newAttrs(attrs, vis, start)
	d.Generics = generics
	return &ast.InterfaceDecl{Name: name, Methods: methods, DeclAttrs: d}
}

func (p *Parser) parseMethodSig() ast.MethodSig {
	op := ""
	if p.curTokenIs(lexer.OPERATOR) {
		p.nextToken()
		op = p.curToken.Literal
		p.nextToken()
	}
	p.expect(lexer.FUNC)
	name := p.curToken.Literal
	p.expect(lexer.IDENT)
	params := p.parseParamList()
	var ret ast.Type = &ast.PrimitiveType{Kind: ast.PrimVoid}
	if p.curTokenIs(lexer.ARROW) {
		p.nextToken()
		ret = p.parseType()
	}
	return ast.MethodSig{Name: name, Params: params, ReturnType: ret, Operator: op}
}

func (p *Parser) parseImplDecl(attrs []ast.Attribute, vis ast.Visibility) ast.Decl {
	start := p.pos()
	p.expect(lexer.IMPL)
	generics := p.parseGenericParams()

	first := p.parseType()
	ifaceName := ""
	var target ast.Type
	if p.curTokenIs(lexer.FOR) {
		if nt, ok := first.(*ast.NamedType); ok {
			ifaceName = nt.Name
		}
		p.nextToken()
		target = p.parseType()
	} else {
		target = first
	}
	where := p.parseWhereClause()

	p.expect(lexer.LBRACE)
	var methods, ctors []*ast.FunctionDecl
	var dtor *ast.FunctionDecl
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		memberAttrs := p.parseAttributes()
		switch {
		case p.curTokenIs(lexer.IDENT) && p.curToken.Literal == "construct":
			p.nextToken()
			fn := p.parseFunctionDeclBody(memberAttrs, target)
			ctors = append(ctors, fn)
		case p.curTokenIs(lexer.IDENT) && p.curToken.Literal == "destruct":
			p.nextToken()
			dtor = p.parseFunctionDeclBody(memberAttrs, target)
		default:
			fn := p.parseFunctionDecl(memberAttrs, ast.VisibilityPrivate).(*ast.FunctionDecl)
			methods = append(methods, fn)
		}
	}
	p.expect(lexer.RBRACE)

	d := p.newAttrs(attrs, vis, start)
	d.Generics = generics
	d.Where = where
	return &ast.ImplDecl{TargetType: target, InterfaceName: ifaceName, Methods: methods, Constructors: ctors, Destructor: dtor, DeclAttrs: d}
}

// parseFunctionDeclBody parses a constructor/destructor body, which is
// named implicitly by its role rather than by a `func` keyword.
func (p *Parser) parseFunctionDeclBody(attrs []ast.Attribute, target ast.Type) *ast.FunctionDecl {
	start := p.pos()
	params := p.parseParamList()
	var ret ast.Type = &ast.PrimitiveType{Kind: ast.PrimVoid}
	if p.curTokenIs(lexer.ARROW) {
		p.nextToken()
		ret = p.parseType()
	}
	body := p.parseBlockExpr()
	name := "construct"
	if target != nil {
		name = target.String()
	}
	return &ast.FunctionDecl{Name: name, Params: params, ReturnType: ret, Body: body, DeclAttrs: p.newAttrs(attrs, ast.VisibilityPrivate, start)}
}

func (p *Parser) parseEnumDecl(attrs []ast.Attribute, vis ast.Visibility) ast.Decl {
	start := p.pos()
	p.expect(lexer.ENUM)
	name := p.curToken.Literal
	p.expect(lexer.IDENT)
	generics := p.parseGenericParams()
	p.expect(lexer.LBRACE)
	var variants []ast.EnumVariant
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		vname := p.curToken.Literal
		p.expect(lexer.IDENT)
		var fields []ast.Type
		if p.curTokenIs(lexer.LPAREN) {
			p.nextToken()
			for !p.curTokenIs(lexer.RPAREN) && !p.curTokenIs(lexer.EOF) {
				fields = append(fields, p.parseType())
				if p.curTokenIs(lexer.COMMA) {
					p.nextToken()
				}
			}
			p.expect(lexer.RPAREN)
		}
		variants = append(variants, ast.EnumVariant{Name: vname, Fields: fields})
		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	p.expect(lexer.RBRACE)
	d := p.newAttrs(attrs, vis, start)
	d.Generics = generics
	return &ast.EnumDecl{Name: name, Variants: variants, DeclAttrs: d}
}

func (p *Parser) parseTypedefDecl(attrs []ast.Attribute, vis ast.Visibility) ast.Decl {
	start := p.pos()
	p.expect(lexer.TYPEDEF)
	name := p.curToken.Literal
	p.expect(lexer.IDENT)
	generics := p.parseGenericParams()
	p.expect(lexer.ASSIGN)
	target := p.parseType()
	p.expect(lexer.SEMI)
	d := p.newAttrs(attrs, vis, start)
	d.Generics = generics
	return &ast.TypedefDecl{Name: name, Target: target, DeclAttrs: d}
}

func (p *Parser) parseGlobalVarDecl(attrs []ast.Attribute, vis ast.Visibility) ast.Decl {
	start := p.pos()
	isConst := p.curTokenIs(lexer.CONST)
	p.nextToken()
	name := p.curToken.Literal
	p.expect(lexer.IDENT)
	var typ ast.Type
	if p.curTokenIs(lexer.COLON) {
		p.nextToken()
		typ = p.parseType()
	}
	var init ast.Expr
	if p.curTokenIs(lexer.ASSIGN) {
		p.nextToken()
		init = p.parseExpr(LOWEST)
	}
	p.expect(lexer.SEMI)
	d := p.newAttrs(attrs, vis, start)
	if isConst {
		d.Attributes = append(d.Attributes, ast.Attribute{Name: "const"})
	}
	return &ast.GlobalVarDecl{Name: name, Type: typ, Init: init, DeclAttrs: d}
}

func (p *Parser) parseUseDecl(attrs []ast.Attribute, vis ast.Visibility) ast.Decl {
	start := p.pos()
	p.expect(lexer.USE)
	path := p.parseDottedPath()
	p.expect(lexer.SEMI)
	return &ast.UseDecl{Path: path, DeclAttrs: p.newAttrs(attrs, vis, start)}
}

func (p *Parser) parseModuleDecl(attrs []ast.Attribute, vis ast.Visibility) ast.Decl {
	start := p.pos()
	isNamespace := p.curTokenIs(lexer.NAMESPACE)
	p.nextToken() // `module` or `namespace`
	path := p.parseDottedPath()
	if isNamespace && p.curTokenIs(lexer.LBRACE) {
		p.nextToken()
		var decls []ast.Decl
		for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
			decls = append(decls, p.parseTopLevelDecl())
		}
		p.expect(lexer.RBRACE)
		return &ast.NamespaceDecl{Path: path, Declarations: decls, DeclAttrs: p.newAttrs(attrs, vis, start)}
	}
	p.expect(lexer.SEMI)
	return &ast.ModuleDecl{Path: path, DeclAttrs: p.newAttrs(attrs, vis, start)}
}

func (p *Parser) parseDottedPath() string {
	path := p.curToken.Literal
	p.expect(lexer.IDENT)
	for p.curTokenIs(lexer.DCOLON) || p.curTokenIs(lexer.DOT) {
		path += "::"
		p.nextToken()
		path += p.curToken.Literal
		p.expect(lexer.IDENT)
	}
	return path
}

func (p *Parser) parseExternBlockDecl(attrs []ast.Attribute, vis ast.Visibility) ast.Decl {
	start := p.pos()
	p.expect(lexer.EXTERN)
	abi := ""
	if p.curTokenIs(lexer.STRING) {
		abi = p.curToken.Literal
		p.nextToken()
	}
	p.expect(lexer.LBRACE)
	var fns []*ast.FunctionDecl
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		fnAttrs := p.parseAttributes()
		fn := p.parseFunctionDecl(fnAttrs, ast.VisibilityPrivate).(*ast.FunctionDecl)
		fns = append(fns, fn)
	}
	p.expect(lexer.RBRACE)
	return &ast.ExternBlockDecl{ABI: abi, Decls: fns, DeclAttrs: p.newAttrs(attrs, vis, start)}
}

// parseMacroDecl and parseTemplateDecl skip their bodies: macro/template
// expansion is out of scope, so these exist only so a file using them
// still parses, and the declaration's Body is left empty.
func (p *Parser) parseMacroDecl(attrs []ast.Attribute, vis ast.Visibility) ast.Decl {
	start := p.pos()
	p.expect(lexer.MACRO)
	name := p.curToken.Literal
	p.expect(lexer.IDENT)
	body := p.skipBalancedBraces()
	return &ast.MacroDecl{Name: name, Body: body, DeclAttrs: p.newAttrs(attrs, vis, start)}
}

func (p *Parser) parseTemplateDecl(attrs []ast.Attribute, vis ast.Visibility) ast.Decl {
	start := p.pos()
	p.expect(lexer.TEMPLATE)
	name := p.curToken.Literal
	p.expect(lexer.IDENT)
	p.parseGenericParams()
	body := p.skipBalancedBraces()
	return &ast.TemplateDecl{Name: name, Body: body, DeclAttrs: p.newAttrs(attrs, vis, start)}
}

func (p *Parser) skipBalancedBraces() string {
	if !p.curTokenIs(lexer.LBRACE) {
		return ""
	}
	depth := 0
	for {
		if p.curTokenIs(lexer.LBRACE) {
			depth++
		} else if p.curTokenIs(lexer.RBRACE) {
			depth--
		}
		done := depth == 0
		p.nextToken()
		if done || p.curTokenIs(lexer.EOF) {
			break
		}
	}
	return ""
}
