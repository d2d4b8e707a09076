package extractor

import (
	"fmt"

	"nixdoc/internal/syntax"
)

// CollectLambdaArgs returns one Argument per curry level of lambda,
// following the body for as long as it is itself a lambda.
func CollectLambdaArgs(lambda syntax.Lambda) ([]Argument, error) {
	var args []Argument
	for {
		param := lambda.Param()
		if ident, ok := syntax.AsIdentParam(param); ok {
			arg, err := singleArg(ident.Node, ident.Ident())
			if err != nil {
				return nil, err
			}
			args = append(args, Flat{arg})
		} else if pat, ok := syntax.AsPattern(param); ok {
			var entries []SingleArg
			for _, entry := range pat.Entries() {
				arg, err := singleArg(entry.Node, entry.Ident())
				if err != nil {
					return nil, err
				}
				entries = append(entries, arg)
			}
			args = append(args, Pattern{Entries: entries})
		} else {
			return nil, fmt.Errorf("lambda at offset %d has no parameter: %w", lambda.Offset(), ErrMalformedTree)
		}

		inner, ok := syntax.AsLambda(lambda.Body())
		if !ok {
			return args, nil
		}
		lambda = inner
	}
}

// singleArg builds the parameter for node, whose name is held by ident.
// The comment is looked up on node with line comments allowed.
func singleArg(node, ident *syntax.Node) (SingleArg, error) {
	if ident == nil {
		return SingleArg{}, fmt.Errorf("parameter at offset %d has no identifier: %w", node.Offset(), ErrMalformedTree)
	}
	arg := SingleArg{Name: syntax.IdentName(ident)}
	if doc, ok := RetrieveDocComment(node, true); ok {
		arg.Doc = &doc
	}
	return arg, nil
}
