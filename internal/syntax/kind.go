package syntax

import "fmt"

// Kind identifies the type of a token or node in the syntax tree.
type Kind uint16

const (
	KindError Kind = iota

	// Trivia
	TokenWhitespace
	TokenComment

	// Atoms
	TokenIdent
	TokenInteger
	TokenFloat
	TokenPath
	TokenURI
	TokenStringStart
	TokenStringContent
	TokenStringEnd
	TokenInterpolStart
	TokenInterpolEnd

	// Keywords
	TokenLet
	TokenIn
	TokenRec
	TokenInherit
	TokenIf
	TokenThen
	TokenElse
	TokenWith
	TokenAssert
	TokenOr

	// Punctuation
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenLParen
	TokenRParen
	TokenSemicolon
	TokenColon
	TokenComma
	TokenDot
	TokenEllipsis
	TokenQuestion
	TokenAt
	TokenAssign

	// Operators
	TokenConcat
	TokenAdd
	TokenSub
	TokenMul
	TokenDiv
	TokenUpdate
	TokenEqual
	TokenNotEqual
	TokenLess
	TokenLessOrEq
	TokenMore
	TokenMoreOrEq
	TokenAnd
	TokenOrOr
	TokenImplication
	TokenInvert

	tokenEOF

	// Nodes
	NodeRoot
	NodeError
	NodeLetIn
	NodeLegacyLet
	NodeAttrSet
	NodeAttrpathValue
	NodeAttrpath
	NodeInherit
	NodeInheritFrom
	NodeDynamic
	NodeLambda
	NodeIdentParam
	NodePattern
	NodePatEntry
	NodePatBind
	NodeIdent
	NodeLiteral
	NodePath
	NodeString
	NodeInterpol
	NodeList
	NodeParen
	NodeApply
	NodeSelect
	NodeHasAttr
	NodeBinOp
	NodeUnaryOp
	NodeIfElse
	NodeWith
	NodeAssert
)

var kindNames = map[Kind]string{
	KindError:          "Error",
	TokenWhitespace:    "Whitespace",
	TokenComment:       "Comment",
	TokenIdent:         "Ident",
	TokenInteger:       "Integer",
	TokenFloat:         "Float",
	TokenPath:          "Path",
	TokenURI:           "URI",
	TokenStringStart:   "StringStart",
	TokenStringContent: "StringContent",
	TokenStringEnd:     "StringEnd",
	TokenInterpolStart: "InterpolStart",
	TokenInterpolEnd:   "InterpolEnd",
	TokenLet:           "let",
	TokenIn:            "in",
	TokenRec:           "rec",
	TokenInherit:       "inherit",
	TokenIf:            "if",
	TokenThen:          "then",
	TokenElse:          "else",
	TokenWith:          "with",
	TokenAssert:        "assert",
	TokenOr:            "or",
	TokenLBrace:        "'{'",
	TokenRBrace:        "'}'",
	TokenLBracket:      "'['",
	TokenRBracket:      "']'",
	TokenLParen:        "'('",
	TokenRParen:        "')'",
	TokenSemicolon:     "';'",
	TokenColon:         "':'",
	TokenComma:         "','",
	TokenDot:           "'.'",
	TokenEllipsis:      "'...'",
	TokenQuestion:      "'?'",
	TokenAt:            "'@'",
	TokenAssign:        "'='",
	TokenConcat:        "'++'",
	TokenAdd:           "'+'",
	TokenSub:           "'-'",
	TokenMul:           "'*'",
	TokenDiv:           "'/'",
	TokenUpdate:        "'//'",
	TokenEqual:         "'=='",
	TokenNotEqual:      "'!='",
	TokenLess:          "'<'",
	TokenLessOrEq:      "'<='",
	TokenMore:          "'>'",
	TokenMoreOrEq:      "'>='",
	TokenAnd:           "'&&'",
	TokenOrOr:          "'||'",
	TokenImplication:   "'->'",
	TokenInvert:        "'!'",
	tokenEOF:           "end of file",
	NodeRoot:           "Root",
	NodeError:          "ErrorNode",
	NodeLetIn:          "LetIn",
	NodeLegacyLet:      "LegacyLet",
	NodeAttrSet:        "AttrSet",
	NodeAttrpathValue:  "AttrpathValue",
	NodeAttrpath:       "Attrpath",
	NodeInherit:        "Inherit",
	NodeInheritFrom:    "InheritFrom",
	NodeDynamic:        "Dynamic",
	NodeLambda:         "Lambda",
	NodeIdentParam:     "IdentParam",
	NodePattern:        "Pattern",
	NodePatEntry:       "PatEntry",
	NodePatBind:        "PatBind",
	NodeIdent:          "IdentNode",
	NodeLiteral:        "Literal",
	NodePath:           "PathNode",
	NodeString:         "String",
	NodeInterpol:       "Interpol",
	NodeList:           "List",
	NodeParen:          "Paren",
	NodeApply:          "Apply",
	NodeSelect:         "Select",
	NodeHasAttr:        "HasAttr",
	NodeBinOp:          "BinOp",
	NodeUnaryOp:        "UnaryOp",
	NodeIfElse:         "IfElse",
	NodeWith:           "With",
	NodeAssert:         "Assert",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint16(k))
}

// IsTrivia reports whether tokens of this kind carry no syntactic meaning.
func (k Kind) IsTrivia() bool {
	return k == TokenWhitespace || k == TokenComment
}

// IsNode reports whether k is a node kind rather than a token kind.
func (k Kind) IsNode() bool {
	return k > tokenEOF
}

var keywords = map[string]Kind{
	"let":     TokenLet,
	"in":      TokenIn,
	"rec":     TokenRec,
	"inherit": TokenInherit,
	"if":      TokenIf,
	"then":    TokenThen,
	"else":    TokenElse,
	"with":    TokenWith,
	"assert":  TokenAssert,
	"or":      TokenOr,
}
