package extractor

import (
	"fmt"

	"nixdoc/internal/syntax"
)

// Scope maps binding names of a let header to their entries. It is only
// read when resolving `inherit name;` clauses.
type Scope map[string]ManualEntry

// CollectEntries returns the documented entries of a parsed library file.
//
// The first `let ... in` found in pre-order provides a scope built from its
// own bindings, and the entries are collected from its body. If an
// attribute set comes first, it is collected with an empty scope.
func CollectEntries(tree *syntax.Tree, category string) ([]ManualEntry, error) {
	for n := range tree.Root().Preorder() {
		if let, ok := syntax.AsLetIn(n); ok {
			scope, err := letScope(let, category)
			if err != nil {
				return nil, err
			}
			body := let.Body()
			if body == nil {
				return nil, nil
			}
			return CollectBindings(body, category, scope)
		}
		if n.Kind() == syntax.NodeAttrSet {
			return CollectBindings(n, category, nil)
		}
	}
	return nil, nil
}

func letScope(let syntax.LetIn, category string) (Scope, error) {
	scope := make(Scope)
	for _, child := range let.Children() {
		apv, ok := syntax.AsAttrpathValue(child)
		if !ok {
			continue
		}
		item, ok, err := collectEntryInformation(apv)
		if err != nil {
			return nil, err
		}
		if ok {
			scope[item.Name] = item.IntoEntry(category)
		}
	}
	return scope, nil
}

// CollectBindings collects the entries of the first attribute set found in
// pre-order below node, node included. Only the direct children of that
// set are considered. `inherit name;` clauses are resolved against scope;
// `inherit (from) ...` clauses and non-identifier keys are skipped.
func CollectBindings(node *syntax.Node, category string, scope Scope) ([]ManualEntry, error) {
	for n := range node.Preorder() {
		if n.Kind() != syntax.NodeAttrSet {
			continue
		}

		var entries []ManualEntry
		for _, child := range n.Children() {
			if apv, ok := syntax.AsAttrpathValue(child); ok {
				item, ok, err := collectEntryInformation(apv)
				if err != nil {
					return nil, err
				}
				if ok {
					entries = append(entries, item.IntoEntry(category))
				}
				continue
			}
			inh, ok := syntax.AsInherit(child)
			if !ok || inh.From() != nil {
				continue
			}
			for _, attr := range inh.Attrs() {
				if attr.Kind() != syntax.NodeIdent {
					continue
				}
				if entry, ok := scope[syntax.IdentName(attr)]; ok {
					entries = append(entries, entry)
				}
			}
		}
		return entries, nil
	}
	return nil, nil
}

// collectEntryInformation builds the DocItem of a documented binding. It
// reports false when the binding has no documentation comment.
func collectEntryInformation(apv syntax.AttrpathValue) (DocItem, bool, error) {
	comment, ok := RetrieveDocComment(apv.Node, false)
	if !ok {
		return DocItem{}, false, nil
	}
	path := apv.Attrpath()
	if path == nil {
		return DocItem{}, false, fmt.Errorf("binding at offset %d has no attribute path: %w", apv.Offset(), ErrMalformedTree)
	}

	item := DocItem{
		Name:    path.Text(),
		Comment: ParseDocComment(comment),
	}
	if lambda, ok := syntax.AsLambda(apv.Value()); ok {
		args, err := CollectLambdaArgs(lambda)
		if err != nil {
			return DocItem{}, false, fmt.Errorf("failed to collect arguments of %s: %w", item.Name, err)
		}
		item.Args = args
	}
	return item, true, nil
}
