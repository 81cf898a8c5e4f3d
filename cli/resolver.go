package cli

import (
	"context"
	"io"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/fghibellini/language-nix/lang"
)

// resolve returns a [kong.ConfigurationLoader] that reads config files
// written as Nix attribute sets.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx, "config"), "/path/to/config")
//
// The file must contain a single attribute-set expression. If the set binds
// the given name to a nested attribute set, that nested set holds the
// configuration; otherwise the top-level set is used directly. Values are
// converted as follows:
//   - Flag names may use hyphens directly (log-level = "debug";) or
//     underscores (log_level)
//   - Dotted assignment paths become nested configuration
//   - Strings are quoted, numbers and booleans are not
//   - Lists become arrays
//
// Example config file:
//
//	{
//	  log-level = "debug";
//	  log-format = "json";
//	  log-pretty = true;
//	}
//
// Command-line flags override config file values.
func resolve(
	ctx context.Context,
	name string,
) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		expr, err := lang.ParseReader(ctx, name, r)
		if err != nil {
			// Unparseable config; fall back to defaults.
			return config{}, nil
		}

		if expr.Kind != lang.KindAttrSet {
			return config{}, nil
		}

		flat := attrsToMap(expr.Attrs)

		// A binding of the given name to a nested set scopes the
		// configuration; otherwise the whole file is the configuration.
		if scoped, ok := flat[name].(map[string]any); ok {
			return config(scoped), nil
		}

		return config(flat), nil
	}
}

// config implements [kong.Resolver] for Nix attribute-set configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	// The config was already parsed successfully.
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	// Underscore variant for identifiers written without hyphens.
	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	// Not found; let Kong use defaults.
	return nil, nil
}

// attrsToMap converts attribute-set clauses to a native map. Assignment
// paths with multiple segments produce nested maps. Inherit clauses carry
// no value and are skipped.
func attrsToMap(attrs []lang.Attr) map[string]any {
	result := make(map[string]any, len(attrs))

	for _, attr := range attrs {
		if attr.IsInherit() || len(attr.Path) == 0 {
			continue
		}

		node := result
		for _, seg := range attr.Path[:len(attr.Path)-1] {
			child, ok := node[seg].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[seg] = child
			}

			node = child
		}

		node[attr.Path[len(attr.Path)-1]] = exprToNative(attr.Value)
	}

	return result
}

// exprToNative converts an expression to the value shapes Kong resolvers
// accept. Numbers stay as their decimal text because Kong parses flag
// values from strings.
func exprToNative(e *lang.Expr) any {
	switch e.Kind {
	case lang.KindLit:
		return e.Lit

	case lang.KindIdent:
		switch e.Name {
		case "true":
			return true
		case "false":
			return false
		}

		return e.Name

	case lang.KindList:
		elems := make([]any, len(e.Elems))
		for i, elem := range e.Elems {
			elems[i] = exprToNative(elem)
		}

		return elems

	case lang.KindAttrSet:
		return attrsToMap(e.Attrs)

	default:
		// Operator and binder nodes have no flag-value shape; keep the
		// canonical text so the error surfaces at flag parsing.
		return e.String()
	}
}
