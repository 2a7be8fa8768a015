package preset

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/chazu/thickview/pkg/colormap"
	zygo "github.com/glycerine/zygomys/zygo"
)

// kwPrefix marks keyword tokens rewritten by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource adapts preset syntax to what zygomys accepts:
//
//   - ";" line comments become "//" comments,
//   - :keyword becomes the string "__kw_keyword",
//   - kebab-case identifiers become snake_case (start-color -> start_color).
//
// String literals pass through untouched, so "#ff0000" keeps its hash.
func preprocessSource(source string) string {
	var out strings.Builder
	out.Grow(len(source) + len(source)/4)
	b := []byte(source)
	for i := 0; i < len(b); i++ {
		c := b[i]
		switch {
		case c == '"':
			j := i + 1
			for j < len(b) && b[j] != '"' {
				if b[j] == '\\' {
					j++
				}
				j++
			}
			if j >= len(b) {
				j = len(b) - 1
			}
			out.Write(b[i : j+1])
			i = j

		case c == ';':
			for i < len(b) && b[i] == ';' {
				i++
			}
			out.WriteString("//")
			for i < len(b) && b[i] != '\n' {
				out.WriteByte(b[i])
				i++
			}
			i-- // let the loop emit the newline

		case c == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			out.WriteString(`"` + kwPrefix + string(b[i+1:j]) + `"`)
			i = j - 1

		case c == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			out.WriteByte('_')

		default:
			out.WriteByte(c)
		}
	}
	return out.String()
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// kwArgs splits a call's arguments into keywords and positionals.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

func parseArgs(args []zygo.Sexp) kwArgs {
	res := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		str, ok := args[i].(*zygo.SexpStr)
		if !ok || !strings.HasPrefix(str.S, kwPrefix) {
			res.positional = append(res.positional, args[i])
			continue
		}
		name := str.S[len(kwPrefix):]
		if i+1 < len(args) {
			res.kw[name] = args[i+1]
			i++
		} else {
			res.kw[name] = zygo.SexpNull
		}
	}
	return res
}

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toColor(s zygo.Sexp) (color.NRGBA, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return color.NRGBA{}, fmt.Errorf("expected color string, got %T (%s)", s, s.SexpString(nil))
	}
	return colormap.ParseHex(str.S)
}

// singleArg returns the one positional argument of a builtin.
func singleArg(fn string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%s requires exactly 1 argument, got %d", fn, len(args))
	}
	return args[0], nil
}

// registerBuiltins installs the preset builtins. Each one appends to p.Ops.
func registerBuiltins(env *zygo.Zlisp, p *Preset) {
	record := func(op Op) (zygo.Sexp, error) {
		p.Ops = append(p.Ops, op)
		return zygo.SexpNull, nil
	}

	// (gradient :from "#ff0000" :to "#0000ff")
	env.AddFunction("gradient", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		from, hasFrom := pa.kw["from"]
		to, hasTo := pa.kw["to"]
		if !hasFrom && !hasTo {
			return zygo.SexpNull, fmt.Errorf("gradient requires :from and/or :to")
		}
		if hasFrom {
			c, err := toColor(from)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("gradient: from: %w", err)
			}
			record(Op{Kind: OpStartColor, Color: c})
		}
		if hasTo {
			c, err := toColor(to)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("gradient: to: %w", err)
			}
			record(Op{Kind: OpEndColor, Color: c})
		}
		return zygo.SexpNull, nil
	})

	// (start-color "#ff0000") / (end-color "#0000ff")
	for fn, kind := range map[string]OpKind{"start_color": OpStartColor, "end_color": OpEndColor} {
		env.AddFunction(fn, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			a, err := singleArg(kind.String(), args)
			if err != nil {
				return zygo.SexpNull, err
			}
			c, err := toColor(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", kind, err)
			}
			return record(Op{Kind: kind, Color: c})
		})
	}

	// (transparency 0.8) / (threshold 2.5)
	for fn, kind := range map[string]OpKind{"transparency": OpTransparency, "threshold": OpBound} {
		env.AddFunction(fn, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			a, err := singleArg(fn, args)
			if err != nil {
				return zygo.SexpNull, err
			}
			v, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
			}
			return record(Op{Kind: kind, Value: v})
		})
	}

	// (continuous)
	env.AddFunction("continuous", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 0 {
			return zygo.SexpNull, fmt.Errorf("continuous takes no arguments, got %d", len(args))
		}
		return record(Op{Kind: OpContinuous})
	})
}
