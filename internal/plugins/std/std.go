// Package std is the built-in plugin function library. Most functions
// implement every backend capability themselves; isRtl only exists for
// Swift and is installed through the registration table.
package std

import (
	"fmt"

	"soyc/internal/backend/jssrc"
	"soyc/internal/backend/pysrc"
	"soyc/internal/backend/swiftsrc"
	"soyc/internal/bidi"
	"soyc/internal/plugin"
)

// Install declares the library in d. It must run before d is sealed.
func Install(d *plugin.Dispatcher) error {
	for _, fn := range Functions() {
		if err := d.Declare(fn); err != nil {
			return fmt.Errorf("std: %w", err)
		}
	}
	if err := swiftsrc.Register(d, isRtlFunc, isRtlSwift{}); err != nil {
		return fmt.Errorf("std: %w", err)
	}
	return nil
}

// Functions returns the directly implemented functions.
func Functions() []plugin.Function {
	return []plugin.Function{
		strLen{plugin.NewFunc("strLen", plugin.MustSignature("int", "string"))},
		strContains{plugin.NewFunc("strContains", plugin.MustSignature("bool", "string", "string"))},
		bidiDirSign{plugin.NewFunc("bidiDirSign", plugin.MustSignature("int"))},
		floor{plugin.NewFunc("floor", plugin.MustSignature("int", "number"))},
		keys{plugin.NewFunc("keys", plugin.MustSignature("list<any>", "map<any, any>"))},
	}
}

var isRtlFunc = plugin.NewFunc("isRtl", plugin.MustSignature("bool"))

type strLen struct{ *plugin.Func }

func (strLen) ApplyForJsSrc(f *jssrc.ValueFactory, args []jssrc.Value, _ jssrc.Context) jssrc.Value {
	return f.Property(args[0], "length", jssrc.Integer)
}

func (strLen) ApplyForPySrc(f *pysrc.ValueFactory, args []pysrc.Value, _ pysrc.Context) pysrc.Value {
	return f.Call("len", pysrc.Int, args[0])
}

func (strLen) ApplyForSwiftSource(f *swiftsrc.ValueFactory, args []swiftsrc.Value, _ swiftsrc.Context) swiftsrc.Value {
	return f.Property(args[0], "count", swiftsrc.Int)
}

func (strLen) NativeSignatures(b plugin.Backend) []plugin.NativeSignature {
	switch b {
	case plugin.JSSrc:
		return []plugin.NativeSignature{{Params: []plugin.NativeType{jssrc.String}, Return: jssrc.Integer}}
	case plugin.PySrc:
		return []plugin.NativeSignature{{Params: []plugin.NativeType{pysrc.Str}, Return: pysrc.Int}}
	case plugin.SwiftSrc:
		return []plugin.NativeSignature{{Params: []plugin.NativeType{swiftsrc.String}, Return: swiftsrc.Int}}
	}
	return nil
}

type strContains struct{ *plugin.Func }

func (strContains) ApplyForJsSrc(f *jssrc.ValueFactory, args []jssrc.Value, _ jssrc.Context) jssrc.Value {
	idx := f.Method(args[0], "indexOf", jssrc.Integer, args[1])
	return f.Binary("!=", idx, f.Int(-1), jssrc.Boolean)
}

func (strContains) ApplyForPySrc(f *pysrc.ValueFactory, args []pysrc.Value, _ pysrc.Context) pysrc.Value {
	return f.Binary("in", args[1], args[0], pysrc.Bool)
}

func (strContains) ApplyForSwiftSource(f *swiftsrc.ValueFactory, args []swiftsrc.Value, _ swiftsrc.Context) swiftsrc.Value {
	return f.Method(args[0], "contains", swiftsrc.Bool, args[1])
}

// bidiDirSign is 1 in left-to-right and -1 in right-to-left locales.
type bidiDirSign struct{ *plugin.Func }

func (bidiDirSign) ApplyForJsSrc(_ *jssrc.ValueFactory, _ []jssrc.Value, ctx jssrc.Context) jssrc.Value {
	return ctx.BidiDirection()
}

func (bidiDirSign) ApplyForPySrc(_ *pysrc.ValueFactory, _ []pysrc.Value, ctx pysrc.Context) pysrc.Value {
	return ctx.BidiDirection()
}

func (bidiDirSign) ApplyForSwiftSource(_ *swiftsrc.ValueFactory, _ []swiftsrc.Value, ctx swiftsrc.Context) swiftsrc.Value {
	return ctx.BidiDirection()
}

type floor struct{ *plugin.Func }

func (floor) ApplyForJsSrc(f *jssrc.ValueFactory, args []jssrc.Value, _ jssrc.Context) jssrc.Value {
	return f.Call("Math.floor", jssrc.Integer, args[0])
}

func (floor) ApplyForPySrc(f *pysrc.ValueFactory, args []pysrc.Value, _ pysrc.Context) pysrc.Value {
	return f.Call("math.floor", pysrc.Int, args[0])
}

func (floor) ApplyForSwiftSource(f *swiftsrc.ValueFactory, args []swiftsrc.Value, _ swiftsrc.Context) swiftsrc.Value {
	down := f.Global(".down", swiftsrc.Any)
	return f.Call("Int", swiftsrc.Int, f.Method(args[0], "rounded", swiftsrc.Double, down))
}

type keys struct{ *plugin.Func }

func (keys) ApplyForJsSrc(f *jssrc.ValueFactory, args []jssrc.Value, _ jssrc.Context) jssrc.Value {
	return f.Call("Array.from", jssrc.ArrayOf(jssrc.Any), f.Method(args[0], "keys", jssrc.Any))
}

func (keys) ApplyForPySrc(f *pysrc.ValueFactory, args []pysrc.Value, _ pysrc.Context) pysrc.Value {
	return f.Call("list", pysrc.ListOf(pysrc.Object), f.Method(args[0], "keys", pysrc.Object))
}

func (keys) ApplyForSwiftSource(f *swiftsrc.ValueFactory, args []swiftsrc.Value, _ swiftsrc.Context) swiftsrc.Value {
	return f.Call("Array", swiftsrc.ArrayOf(swiftsrc.Any), f.Property(args[0], "keys", swiftsrc.Any))
}

type isRtlSwift struct{}

func (isRtlSwift) ApplyForSwiftSource(f *swiftsrc.ValueFactory, _ []swiftsrc.Value, ctx swiftsrc.Context) swiftsrc.Value {
	if ctx.Dir.Known() {
		return f.Bool(ctx.Dir == bidi.RTL)
	}
	return f.Binary("==", ctx.BidiDirection(), f.Int(-1), swiftsrc.Bool)
}
