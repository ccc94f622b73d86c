package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wippyai/jsembed/jsval"
	"github.com/wippyai/jsembed/native"
	"github.com/wippyai/jsembed/runtime"
)

// demoNatives builds the functions the CLI installs on the global object.
func demoNatives(cx *runtime.Context, out io.Writer) (*native.Table, error) {
	return native.NewTable([]native.Spec{
		{
			Name:  "print",
			Nargs: 1,
			Call: native.Wrap(func(c *native.Call) (jsval.Value, error) {
				args, err := c.Args()
				if err != nil {
					return nil, err
				}
				parts := make([]string, len(args))
				for i, a := range args {
					s, err := cx.ValueToString(a)
					if err != nil {
						return nil, err
					}
					parts[i] = s
				}
				_, err = fmt.Fprintln(out, strings.Join(parts, " "))
				return nil, err
			}),
		},
		{
			Name:  "add",
			Nargs: 2,
			Call: native.Wrap(func(c *native.Call) (jsval.Value, error) {
				sum := 0.0
				for i := 0; i < c.Argc(); i++ {
					n, err := c.ArgNumber(i)
					if err != nil {
						return nil, err
					}
					sum += n
				}
				return jsval.Number(sum), nil
			}),
		},
		{
			Name:  "concat",
			Nargs: 2,
			Call: native.Wrap(func(c *native.Call) (jsval.Value, error) {
				var b strings.Builder
				for i := 0; i < c.Argc(); i++ {
					s, err := c.ArgString(i)
					if err != nil {
						return nil, err
					}
					b.WriteString(s)
				}
				return c.Value(b.String())
			}),
		},
		{
			Name:  "typeOf",
			Nargs: 1,
			Call: native.Wrap(func(c *native.Call) (jsval.Value, error) {
				v, err := c.Arg(0)
				if err != nil {
					return nil, err
				}
				return c.Value(typeName(v))
			}),
		},
		{
			Name: "self",
			Call: native.Wrap(func(c *native.Call) (jsval.Value, error) {
				return c.This()
			}),
		},
	})
}

func typeName(v jsval.Value) string {
	switch v.(type) {
	case jsval.Int32, jsval.Double:
		return "number"
	case jsval.Boolean:
		return "boolean"
	case jsval.StringRef:
		return "string"
	case jsval.Undefined:
		return "undefined"
	default:
		return "object"
	}
}

// parseArg reads a command-line argument as a literal: numbers, booleans,
// null and undefined are recognized, anything else becomes a string.
func parseArg(cx *runtime.Context, s string) (jsval.Value, error) {
	switch s {
	case "true":
		return jsval.Boolean(true), nil
	case "false":
		return jsval.Boolean(false), nil
	case "null":
		return jsval.Null{}, nil
	case "undefined":
		return jsval.Undefined{}, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return jsval.Number(f), nil
	}
	return cx.NewString(strings.Trim(s, `"`))
}

func parseArgs(cx *runtime.Context, raw []string) ([]jsval.Value, error) {
	out := make([]jsval.Value, 0, len(raw))
	for _, s := range raw {
		v, err := parseArg(cx, s)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
