// Package lang implements a front-end for the Nix expression language:
// lexical analysis, operator-precedence resolution, and grammar-driven
// construction of an abstract syntax tree.
//
// The package performs no evaluation, name resolution, or semantic
// checking — it validates syntactic well-formedness only. Parsing is
// single-threaded, synchronous, and side-effect-free over an immutable
// input buffer; each invocation owns its own cursor, and a successful
// parse hands the whole tree to the caller with no references retained.
//
// Entry points are [ParseFile], [ParseString], and [ParseReader], which
// require the entire input to be consumed, and [ParseRule], which runs a
// single sub-grammar without that requirement. Failures are reported as a
// position-tagged [ParseError] naming the alternatives that were viable at
// the deepest point reached; a parse never returns a partial tree.
package lang
