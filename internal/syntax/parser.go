package syntax

import "errors"

// maxDepth bounds expression nesting so hostile input cannot exhaust the
// stack.
const maxDepth = 512

// Parse parses Nix source text into a lossless syntax tree. The tree is
// always returned; err joins every lexical and syntax error found.
func Parse(src string) (*Tree, error) {
	toks, lexErrs := tokenize(src)
	p := &parser{
		src:  src,
		toks: toks,
		b:    newBuilder(src),
		errs: lexErrs,
	}
	p.parseRoot()
	return p.b.tree, errors.Join(p.errs...)
}

type parser struct {
	src   string
	toks  []lexToken
	pos   int
	b     *builder
	errs  []error
	depth int
}

func (p *parser) parseRoot() {
	p.b.startNode(NodeRoot)
	p.parseExpr()
	if p.peek() != tokenEOF {
		p.errorf("unexpected %s after expression", p.peek())
		p.b.startNode(NodeError)
		for p.peek() != tokenEOF {
			p.bump()
		}
		p.b.finishNode()
	}
	p.skipTrivia()
	p.b.finishNode()
}

// skipTrivia moves whitespace and comments into the node that is currently
// open, so that a node started afterwards begins with a real token.
func (p *parser) skipTrivia() {
	for p.pos < len(p.toks) && p.toks[p.pos].kind.IsTrivia() {
		p.emit()
	}
}

func (p *parser) emit() {
	t := p.toks[p.pos]
	p.b.token(t.kind, p.src[t.start:t.end], t.start)
	p.pos++
}

func (p *parser) peek() Kind {
	p.skipTrivia()
	if p.pos >= len(p.toks) {
		return tokenEOF
	}
	return p.toks[p.pos].kind
}

// peekNth looks n significant tokens ahead without consuming anything.
func (p *parser) peekNth(n int) Kind {
	for i := p.pos; i < len(p.toks); i++ {
		if p.toks[i].kind.IsTrivia() {
			continue
		}
		if n == 0 {
			return p.toks[i].kind
		}
		n--
	}
	return tokenEOF
}

func (p *parser) offset() int {
	if p.pos < len(p.toks) {
		return p.toks[p.pos].start
	}
	return len(p.src)
}

func (p *parser) bump() {
	if p.peek() != tokenEOF {
		p.emit()
	}
}

func (p *parser) eat(kind Kind) bool {
	if p.peek() == kind {
		p.bump()
		return true
	}
	return false
}

func (p *parser) expect(kind Kind) bool {
	if p.eat(kind) {
		return true
	}
	p.errorf("expected %s, found %s", kind, p.peek())
	return false
}

func (p *parser) errorf(format string, args ...any) {
	p.errs = append(p.errs, newError(p.src, p.offset(), format, args...))
}

// bumpError wraps the next token in an error node to guarantee progress.
func (p *parser) bumpError() {
	p.b.startNode(NodeError)
	p.bump()
	p.b.finishNode()
}

func isClosing(k Kind) bool {
	switch k {
	case TokenRBrace, TokenRBracket, TokenRParen, TokenSemicolon, TokenIn,
		TokenThen, TokenElse, TokenInterpolEnd, TokenStringEnd, tokenEOF:
		return true
	}
	return false
}

func (p *parser) parseExpr() {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxDepth {
		p.errorf("expression nested too deeply")
		p.b.startNode(NodeError)
		for p.peek() != tokenEOF {
			p.bump()
		}
		p.b.finishNode()
		return
	}

	switch p.peek() {
	case TokenLet:
		if p.peekNth(1) == TokenLBrace {
			p.parseBinary(0)
			return
		}
		p.parseLetIn()
	case TokenAssert:
		p.parseStatement(NodeAssert)
	case TokenWith:
		p.parseStatement(NodeWith)
	case TokenIf:
		p.parseIfElse()
	case TokenIdent:
		switch p.peekNth(1) {
		case TokenColon:
			p.parseIdentLambda()
		case TokenAt:
			p.parsePatternLambda()
		default:
			p.parseBinary(0)
		}
	case TokenLBrace:
		if p.looksLikePattern() {
			p.parsePatternLambda()
			return
		}
		p.parseBinary(0)
	default:
		p.parseBinary(0)
	}
}

// looksLikePattern decides, at an opening brace, whether a lambda pattern
// or an attribute set follows.
func (p *parser) looksLikePattern() bool {
	switch p.peekNth(1) {
	case TokenEllipsis:
		return true
	case TokenRBrace:
		k := p.peekNth(2)
		return k == TokenColon || k == TokenAt
	case TokenIdent:
		switch p.peekNth(2) {
		case TokenComma, TokenQuestion:
			return true
		case TokenRBrace:
			k := p.peekNth(3)
			return k == TokenColon || k == TokenAt
		}
	}
	return false
}

func (p *parser) parseIdentLambda() {
	p.b.startNode(NodeLambda)
	p.b.startNode(NodeIdentParam)
	p.parseIdent()
	p.b.finishNode()
	p.expect(TokenColon)
	p.parseExpr()
	p.b.finishNode()
}

func (p *parser) parsePatternLambda() {
	p.b.startNode(NodeLambda)
	p.parsePattern()
	p.expect(TokenColon)
	p.parseExpr()
	p.b.finishNode()
}

func (p *parser) parsePattern() {
	p.b.startNode(NodePattern)
	if p.peek() == TokenIdent {
		p.b.startNode(NodePatBind)
		p.parseIdent()
		p.expect(TokenAt)
		p.b.finishNode()
	}
	p.expect(TokenLBrace)
	for {
		k := p.peek()
		if k == TokenRBrace || k == tokenEOF {
			break
		}
		switch k {
		case TokenEllipsis:
			p.bump()
		case TokenIdent:
			p.b.startNode(NodePatEntry)
			p.parseIdent()
			if p.eat(TokenQuestion) {
				p.parseExpr()
			}
			p.b.finishNode()
		default:
			p.errorf("expected pattern entry, found %s", k)
			p.bumpError()
			continue
		}
		if !p.eat(TokenComma) {
			break
		}
	}
	p.expect(TokenRBrace)
	if p.peek() == TokenAt {
		p.b.startNode(NodePatBind)
		p.bump()
		if p.peek() == TokenIdent {
			p.parseIdent()
		} else {
			p.errorf("expected identifier after '@', found %s", p.peek())
		}
		p.b.finishNode()
	}
	p.b.finishNode()
}

func (p *parser) parseLetIn() {
	p.b.startNode(NodeLetIn)
	p.bump()
	p.parseBindings(TokenIn)
	p.expect(TokenIn)
	p.parseExpr()
	p.b.finishNode()
}

func (p *parser) parseStatement(kind Kind) {
	p.b.startNode(kind)
	p.bump()
	p.parseExpr()
	p.expect(TokenSemicolon)
	p.parseExpr()
	p.b.finishNode()
}

func (p *parser) parseIfElse() {
	p.b.startNode(NodeIfElse)
	p.bump()
	p.parseExpr()
	p.expect(TokenThen)
	p.parseExpr()
	p.expect(TokenElse)
	p.parseExpr()
	p.b.finishNode()
}

// parseBindings parses `attrpath = value;` and `inherit …;` entries until
// the given closing token.
func (p *parser) parseBindings(end Kind) {
	for {
		k := p.peek()
		if k == end || k == tokenEOF {
			return
		}
		switch k {
		case TokenInherit:
			p.parseInherit()
		case TokenIdent, TokenOr, TokenStringStart, TokenInterpolStart:
			p.parseAttrpathValue()
		default:
			p.errorf("expected binding, found %s", k)
			p.bumpError()
		}
	}
}

func (p *parser) parseAttrpathValue() {
	p.b.startNode(NodeAttrpathValue)
	p.parseAttrpath()
	p.expect(TokenAssign)
	p.parseExpr()
	p.expect(TokenSemicolon)
	p.b.finishNode()
}

func (p *parser) parseAttrpath() {
	p.b.startNode(NodeAttrpath)
	p.parseAttr()
	for p.eat(TokenDot) {
		p.parseAttr()
	}
	p.b.finishNode()
}

func isAttrStart(k Kind) bool {
	return k == TokenIdent || k == TokenOr || k == TokenStringStart || k == TokenInterpolStart
}

func (p *parser) parseAttr() {
	switch p.peek() {
	case TokenIdent, TokenOr:
		p.parseIdent()
	case TokenStringStart:
		p.parseString()
	case TokenInterpolStart:
		p.b.startNode(NodeDynamic)
		p.bump()
		p.parseExpr()
		p.expect(TokenInterpolEnd)
		p.b.finishNode()
	default:
		p.errorf("expected attribute name, found %s", p.peek())
	}
}

func (p *parser) parseInherit() {
	p.b.startNode(NodeInherit)
	p.bump()
	if p.peek() == TokenLParen {
		p.b.startNode(NodeInheritFrom)
		p.bump()
		p.parseExpr()
		p.expect(TokenRParen)
		p.b.finishNode()
	}
	for isAttrStart(p.peek()) {
		p.parseAttr()
	}
	p.expect(TokenSemicolon)
	p.b.finishNode()
}

func (p *parser) parseIdent() {
	p.b.startNode(NodeIdent)
	p.bump()
	p.b.finishNode()
}

func infixPower(k Kind) (left, right int, ok bool) {
	switch k {
	case TokenImplication:
		return 2, 1, true
	case TokenOrOr:
		return 3, 4, true
	case TokenAnd:
		return 5, 6, true
	case TokenEqual, TokenNotEqual:
		return 7, 8, true
	case TokenLess, TokenLessOrEq, TokenMore, TokenMoreOrEq:
		return 9, 10, true
	case TokenUpdate:
		return 12, 11, true
	case TokenAdd, TokenSub:
		return 14, 15, true
	case TokenMul, TokenDiv:
		return 16, 17, true
	case TokenConcat:
		return 19, 18, true
	}
	return 0, 0, false
}

const (
	invertPower  = 13
	hasAttrPower = 20
	negatePower  = 21
)

func (p *parser) parseBinary(minPower int) {
	p.peek()
	cp := p.b.checkpoint()

	switch p.peek() {
	case TokenInvert:
		p.b.startNode(NodeUnaryOp)
		p.bump()
		p.parseBinary(invertPower)
		p.b.finishNode()
	case TokenSub:
		p.b.startNode(NodeUnaryOp)
		p.bump()
		p.parseBinary(negatePower)
		p.b.finishNode()
	default:
		p.parseApply()
	}

	for {
		k := p.peek()
		if k == TokenQuestion {
			if hasAttrPower < minPower {
				return
			}
			p.b.startNodeAt(cp, NodeHasAttr)
			p.bump()
			p.parseAttrpath()
			p.b.finishNode()
			continue
		}
		left, right, ok := infixPower(k)
		if !ok || left < minPower {
			return
		}
		p.b.startNodeAt(cp, NodeBinOp)
		p.bump()
		p.parseBinary(right)
		p.b.finishNode()
	}
}

func startsSimple(k Kind) bool {
	switch k {
	case TokenIdent, TokenInteger, TokenFloat, TokenPath, TokenURI,
		TokenStringStart, TokenLParen, TokenLBracket, TokenLBrace, TokenRec:
		return true
	}
	return false
}

func (p *parser) parseApply() {
	p.peek()
	cp := p.b.checkpoint()
	p.parseSelect()
	for startsSimple(p.peek()) || (p.peek() == TokenLet && p.peekNth(1) == TokenLBrace) {
		p.b.startNodeAt(cp, NodeApply)
		p.parseSelect()
		p.b.finishNode()
	}
}

func (p *parser) parseSelect() {
	p.peek()
	cp := p.b.checkpoint()
	p.parseSimple()
	if p.peek() != TokenDot {
		return
	}
	p.b.startNodeAt(cp, NodeSelect)
	p.bump()
	p.parseAttrpath()
	if p.eat(TokenOr) {
		p.parseSelect()
	}
	p.b.finishNode()
}

func (p *parser) parseSimple() {
	switch k := p.peek(); k {
	case TokenIdent:
		p.parseIdent()
	case TokenInteger, TokenFloat, TokenURI:
		p.b.startNode(NodeLiteral)
		p.bump()
		p.b.finishNode()
	case TokenPath:
		p.b.startNode(NodePath)
		p.bump()
		p.b.finishNode()
	case TokenStringStart:
		p.parseString()
	case TokenLParen:
		p.b.startNode(NodeParen)
		p.bump()
		p.parseExpr()
		p.expect(TokenRParen)
		p.b.finishNode()
	case TokenLBracket:
		p.parseList()
	case TokenRec:
		p.b.startNode(NodeAttrSet)
		p.bump()
		p.expect(TokenLBrace)
		p.parseBindings(TokenRBrace)
		p.expect(TokenRBrace)
		p.b.finishNode()
	case TokenLBrace:
		p.b.startNode(NodeAttrSet)
		p.bump()
		p.parseBindings(TokenRBrace)
		p.expect(TokenRBrace)
		p.b.finishNode()
	case TokenLet:
		p.b.startNode(NodeLegacyLet)
		p.bump()
		p.expect(TokenLBrace)
		p.parseBindings(TokenRBrace)
		p.expect(TokenRBrace)
		p.b.finishNode()
	default:
		p.errorf("expected expression, found %s", k)
		if !isClosing(k) {
			p.bumpError()
		}
	}
}

func (p *parser) parseString() {
	p.b.startNode(NodeString)
	p.bump()
	for {
		switch p.peek() {
		case TokenStringContent:
			p.bump()
		case TokenInterpolStart:
			p.b.startNode(NodeInterpol)
			p.bump()
			p.parseExpr()
			p.expect(TokenInterpolEnd)
			p.b.finishNode()
		case TokenStringEnd:
			p.bump()
			p.b.finishNode()
			return
		default:
			p.errorf("unterminated string")
			p.b.finishNode()
			return
		}
	}
}

func (p *parser) parseList() {
	p.b.startNode(NodeList)
	p.bump()
	for {
		k := p.peek()
		if k == TokenRBracket || k == tokenEOF {
			break
		}
		before := p.pos
		p.parseSelect()
		if p.pos == before {
			p.bumpError()
		}
	}
	p.expect(TokenRBracket)
	p.b.finishNode()
}
