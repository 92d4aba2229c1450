package driver

import (
	"errors"
	"fmt"

	"soyc/internal/backend"
	"soyc/internal/diag"
	"soyc/internal/expr"
	"soyc/internal/plugin"
	"soyc/internal/template"
)

// reportLowerError turns a lowering failure into a diagnostic naming the
// template, function and backend.
func reportLowerError(r diag.Reporter, b plugin.Backend, t *template.Template, call *expr.Call, err error) {
	span := call.Loc
	var le *backend.Error
	if errors.As(err, &le) {
		span = le.Span
	}
	var (
		missing *plugin.MissingImplementationError
		compat  *plugin.CompatError
		code    diag.Code
	)
	switch {
	case errors.As(err, &missing):
		code = diag.PlgMissingImplementation
	case errors.As(err, &compat):
		code = diag.PlgIncompatibleArg
		if compat.Position == plugin.ReturnPosition {
			code = diag.PlgIncompatibleReturn
		}
	case errors.Is(err, backend.ErrUnknownFunction):
		code = diag.SemaUnknownFunction
	case errors.Is(err, backend.ErrArity):
		code = diag.SemaArityMismatch
	case errors.Is(err, backend.ErrUnknownParam), errors.Is(err, backend.ErrUnbound):
		code = diag.SemaUnknownParam
	default:
		code = diag.PlgApplyFailed
	}
	rb := diag.ReportError(r, code, span, fmt.Sprintf("%s: %v", t.Name, err))
	if missing != nil {
		rb = rb.WithNote(t.Span, fmt.Sprintf("template %s is compiled for %s", t.Name, b))
	}
	rb.Emit()
}
