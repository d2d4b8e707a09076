package syntax

import (
	"regexp"
	"strings"
)

type lexToken struct {
	kind  Kind
	start int
	end   int
}

type lexMode int

const (
	modeCode lexMode = iota
	modeString
	modeIndString
)

type lexContext struct {
	mode lexMode
	// open braces inside an interpolation, so the closing '}' can be told
	// apart from the one ending the interpolation itself.
	depth int
}

var (
	pathRe       = regexp.MustCompile(`^[a-zA-Z0-9._\-+]*(/[a-zA-Z0-9._\-+]+)+/?`)
	homePathRe   = regexp.MustCompile(`^~(/[a-zA-Z0-9._\-+]+)+/?`)
	searchPathRe = regexp.MustCompile(`^<[a-zA-Z0-9._\-+]+(/[a-zA-Z0-9._\-+]+)*>`)
	uriRe        = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+\-.]*:[a-zA-Z0-9%/?:@&=+$,\-_.!~*']+`)
	floatRe      = regexp.MustCompile(`^(([1-9][0-9]*\.[0-9]*)|(0?\.[0-9]+))([Ee][+-]?[0-9]+)?`)
	integerRe    = regexp.MustCompile(`^[0-9]+`)
	identRe      = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_'\-]*`)
)

var operators = []struct {
	text string
	kind Kind
}{
	{"...", TokenEllipsis},
	{"++", TokenConcat},
	{"//", TokenUpdate},
	{"==", TokenEqual},
	{"!=", TokenNotEqual},
	{"<=", TokenLessOrEq},
	{">=", TokenMoreOrEq},
	{"&&", TokenAnd},
	{"||", TokenOrOr},
	{"->", TokenImplication},
	{"[", TokenLBracket},
	{"]", TokenRBracket},
	{"(", TokenLParen},
	{")", TokenRParen},
	{";", TokenSemicolon},
	{":", TokenColon},
	{",", TokenComma},
	{".", TokenDot},
	{"?", TokenQuestion},
	{"@", TokenAt},
	{"=", TokenAssign},
	{"+", TokenAdd},
	{"-", TokenSub},
	{"*", TokenMul},
	{"/", TokenDiv},
	{"<", TokenLess},
	{">", TokenMore},
	{"!", TokenInvert},
}

type lexer struct {
	src    string
	pos    int
	stack  []lexContext
	tokens []lexToken
	errs   []error
}

// tokenize splits src into tokens covering every byte of the input.
func tokenize(src string) ([]lexToken, []error) {
	l := &lexer{src: src, stack: []lexContext{{mode: modeCode}}}
	for l.pos < len(l.src) {
		switch l.top().mode {
		case modeString:
			l.lexString()
		case modeIndString:
			l.lexIndString()
		default:
			l.lexCode()
		}
	}
	if len(l.stack) > 1 {
		l.errorf(len(l.src), "unexpected end of file inside %s", l.describeOpen())
	}
	return l.tokens, l.errs
}

func (l *lexer) top() *lexContext {
	return &l.stack[len(l.stack)-1]
}

func (l *lexer) push(mode lexMode) {
	l.stack = append(l.stack, lexContext{mode: mode})
}

func (l *lexer) pop() {
	if len(l.stack) > 1 {
		l.stack = l.stack[:len(l.stack)-1]
	}
}

func (l *lexer) emit(kind Kind, length int) {
	l.tokens = append(l.tokens, lexToken{kind: kind, start: l.pos, end: l.pos + length})
	l.pos += length
}

func (l *lexer) errorf(offset int, format string, args ...any) {
	l.errs = append(l.errs, newError(l.src, offset, format, args...))
}

func (l *lexer) describeOpen() string {
	switch l.top().mode {
	case modeString, modeIndString:
		return "string"
	default:
		return "interpolation"
	}
}

func (l *lexer) lexCode() {
	rest := l.src[l.pos:]
	c := rest[0]

	switch {
	case c == ' ' || c == '\t' || c == '\r' || c == '\n':
		n := 1
		for n < len(rest) && strings.IndexByte(" \t\r\n", rest[n]) >= 0 {
			n++
		}
		l.emit(TokenWhitespace, n)
		return
	case c == '#':
		n := strings.IndexByte(rest, '\n')
		if n < 0 {
			n = len(rest)
		}
		l.emit(TokenComment, n)
		return
	case strings.HasPrefix(rest, "/*"):
		n := strings.Index(rest[2:], "*/")
		if n < 0 {
			l.errorf(l.pos, "unterminated block comment")
			l.emit(TokenComment, len(rest))
			return
		}
		l.emit(TokenComment, n+4)
		return
	case c == '"':
		l.emit(TokenStringStart, 1)
		l.push(modeString)
		return
	case strings.HasPrefix(rest, "''"):
		l.emit(TokenStringStart, 2)
		l.push(modeIndString)
		return
	case strings.HasPrefix(rest, "${"):
		l.emit(TokenInterpolStart, 2)
		l.push(modeCode)
		return
	case c == '{':
		l.top().depth++
		l.emit(TokenLBrace, 1)
		return
	case c == '}':
		if len(l.stack) > 1 && l.top().depth == 0 {
			l.emit(TokenInterpolEnd, 1)
			l.pop()
			return
		}
		if l.top().depth > 0 {
			l.top().depth--
		}
		l.emit(TokenRBrace, 1)
		return
	}

	if kind, n := l.matchAtom(rest); n > 0 {
		l.emit(kind, n)
		return
	}

	for _, op := range operators {
		if strings.HasPrefix(rest, op.text) {
			l.emit(op.kind, len(op.text))
			return
		}
	}

	l.errorf(l.pos, "unexpected character %q", rest[0])
	l.emit(KindError, 1)
}

// matchAtom picks the longest literal or identifier at the start of rest,
// the way Nix's own lexer resolves `a/b` (path) against `a` (identifier)
// and `x:y` (URI) against `x`.
func (l *lexer) matchAtom(rest string) (Kind, int) {
	best, bestLen := KindError, 0
	try := func(kind Kind, re *regexp.Regexp) {
		if loc := re.FindStringIndex(rest); loc != nil && loc[1] > bestLen {
			best, bestLen = kind, loc[1]
		}
	}
	try(TokenIdent, identRe)
	try(TokenInteger, integerRe)
	try(TokenFloat, floatRe)
	try(TokenPath, pathRe)
	try(TokenPath, homePathRe)
	try(TokenPath, searchPathRe)
	try(TokenURI, uriRe)

	if best == TokenIdent {
		if kw, ok := keywords[rest[:bestLen]]; ok {
			best = kw
		}
	}
	return best, bestLen
}

func (l *lexer) lexString() {
	rest := l.src[l.pos:]
	n := 0
	for n < len(rest) {
		switch {
		case rest[n] == '"':
			l.flushContent(n)
			l.emit(TokenStringEnd, 1)
			l.pop()
			return
		case rest[n] == '\\' && n+1 < len(rest):
			n += 2
		case strings.HasPrefix(rest[n:], "$${"):
			n += 3
		case strings.HasPrefix(rest[n:], "${"):
			l.flushContent(n)
			l.emit(TokenInterpolStart, 2)
			l.push(modeCode)
			return
		default:
			n++
		}
	}
	l.flushContent(n)
}

func (l *lexer) lexIndString() {
	rest := l.src[l.pos:]
	n := 0
	for n < len(rest) {
		switch {
		case strings.HasPrefix(rest[n:], "'''"), strings.HasPrefix(rest[n:], "''$"):
			n += 3
		case strings.HasPrefix(rest[n:], "''\\"):
			n += 3
			if n < len(rest) {
				n++
			}
		case strings.HasPrefix(rest[n:], "''"):
			l.flushContent(n)
			l.emit(TokenStringEnd, 2)
			l.pop()
			return
		case strings.HasPrefix(rest[n:], "$${"):
			n += 3
		case strings.HasPrefix(rest[n:], "${"):
			l.flushContent(n)
			l.emit(TokenInterpolStart, 2)
			l.push(modeCode)
			return
		default:
			n++
		}
	}
	l.flushContent(n)
}

func (l *lexer) flushContent(n int) {
	if n > 0 {
		l.emit(TokenStringContent, n)
	}
}
