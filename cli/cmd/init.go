package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/fghibellini/language-nix/lang"
	"github.com/fghibellini/language-nix/log"
	"github.com/fghibellini/language-nix/pkg"
	"github.com/fghibellini/language-nix/profile"
)

// Init generates a default configuration file with current flag values,
// written as a Nix attribute set the config resolver reads back.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	// Refuse to clobber an existing file unless forced.
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return pkg.MakeError(ErrWriteConfig, ErrFileExists).
			Wrapf("%s", confPath)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return pkg.MakeError(ErrWriteConfig).Wrap(err)
	}
	defer file.Close()

	expr := i.buildExpr(ctx)

	err = expr.Format(file)
	if err != nil {
		return pkg.MakeError(ErrWriteConfig).Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// buildExpr constructs the config attribute set from current flag values.
func (i *Init) buildExpr(ctx context.Context) *lang.Expr {
	ktx := kongContextFrom(ctx)

	var attrs []lang.Attr

	prefixIgnore := []string{"help", "force", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		val := flagExpr(ktx.FlagValue(flag))
		if val != nil {
			attrs = append(attrs, lang.NewAssign(
				lang.ScopedIdent{flag.Name}, val,
			))
		}
	}

	return lang.NewAttrSet(false, attrs...)
}

// flagExpr converts a flag value to its expression node, or nil for values
// that have no representation (unset strings, empty lists).
func flagExpr(val any) *lang.Expr {
	switch v := val.(type) {
	case nil:
		return nil

	case bool:
		return lang.NewIdent(strconv.FormatBool(v))

	case string:
		if v == "" {
			return nil
		}

		return lang.NewLit(v)

	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return lang.NewLit(fmt.Sprint(v))

	case []string:
		if len(v) == 0 {
			return nil
		}

		elems := make([]*lang.Expr, len(v))
		for i, s := range v {
			elems[i] = lang.NewLit(s)
		}

		return lang.NewList(elems...)

	default:
		return nil
	}
}
