// Package dom wraps golang.org/x/net/html node trees with the small set of
// DOM operations the page pipeline needs: element construction, class lists,
// text content, tree queries and in-place replacement.
//
// All helpers mutate nodes in place and follow browser append semantics: a
// node that already has a parent is detached before it is inserted elsewhere.
package dom
