// Package driver runs one compilation pass per backend over a set of
// templates. Passes work on private clones of the templates and their own
// type interner, and share only the sealed plugin dispatcher, so they run
// in parallel. A failing pass records diagnostics and never stops the
// others.
package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"soyc/internal/backend"
	"soyc/internal/bidi"
	"soyc/internal/diag"
	"soyc/internal/expr"
	"soyc/internal/observ"
	"soyc/internal/plugin"
	"soyc/internal/source"
	"soyc/internal/template"
	"soyc/internal/trace"
	"soyc/internal/types"
)

// ErrNotSealed is returned when compiling against a dispatcher that still
// accepts registrations.
var ErrNotSealed = errors.New("plugin dispatcher is not sealed")

// Request describes one compile invocation.
type Request struct {
	Templates []*template.Template
	// Backends defaults to every backend.
	Backends   []plugin.Backend
	Dispatcher *plugin.Dispatcher
	// Locale fixes the writing direction at compile time; empty defers it
	// to render time.
	Locale string
	// Jobs bounds concurrent passes; <= 0 means GOMAXPROCS.
	Jobs int
	// MaxDiagnostics caps each pass's bag; 0 is unlimited.
	MaxDiagnostics int
	Progress       ProgressSink
}

// LoweredCall is a plugin call site turned into backend code.
type LoweredCall struct {
	Template string
	Function string
	Span     source.Span
	// Params names the template parameters read by the call, in argument
	// order.
	Params []string
	Code   string
	Native string
}

// PassResult is the outcome of one backend pass.
type PassResult struct {
	Backend   plugin.Backend
	Templates []*template.Template
	Calls     []LoweredCall
	Bag       *diag.Bag
	// Types interprets the resolved parameter types of Templates.
	Types   *types.Interner
	Timings observ.Report
}

func (p *PassResult) HasErrors() bool {
	return p != nil && p.Bag.HasErrors()
}

// Result holds every pass, in Request.Backends order.
type Result struct {
	Dir    bidi.Dir
	Passes []*PassResult
}

// Pass returns the result for b.
func (r *Result) Pass(b plugin.Backend) (*PassResult, bool) {
	for _, p := range r.Passes {
		if p.Backend == b {
			return p, true
		}
	}
	return nil, false
}

func (r *Result) HasErrors() bool {
	for _, p := range r.Passes {
		if p.HasErrors() {
			return true
		}
	}
	return false
}

// Diagnostics merges the pass bags. Declaration problems seen by every
// pass are reported once.
func (r *Result) Diagnostics() *diag.Bag {
	out := diag.NewBag(0)
	for _, p := range r.Passes {
		out.Merge(p.Bag)
	}
	out.Dedup()
	out.Sort()
	return out
}

// Compile runs a pass per requested backend. The returned error is reserved
// for invalid requests and cancellation; compile problems are diagnostics.
func Compile(ctx context.Context, req *Request) (*Result, error) {
	if req == nil || req.Dispatcher == nil {
		return nil, fmt.Errorf("driver: request without a plugin dispatcher")
	}
	if !req.Dispatcher.Sealed() {
		return nil, ErrNotSealed
	}
	dir, err := bidi.FromLocale(req.Locale)
	if err != nil {
		return nil, err
	}
	backends := req.Backends
	if len(backends) == 0 {
		backends = plugin.Backends
	}
	for _, b := range backends {
		if _, ok := TargetFor(b); !ok {
			return nil, fmt.Errorf("driver: no target for backend %s", b)
		}
	}
	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	if req.Progress != nil {
		bound := *req
		bound.Progress = bindContext(ctx, req.Progress)
		req = &bound
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "compile", trace.ParentSpan(ctx))
	ctx = trace.WithSpan(ctx, span)

	for _, b := range backends {
		emit(req.Progress, Event{Backend: b, Stage: StageClone, Status: StatusQueued})
	}
	passes := make([]*PassResult, len(backends))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(backends)))
	for i, b := range backends {
		i, b := i, b
		g.Go(func() error {
			res, err := runPass(gctx, req, b, dir)
			passes[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		span.End("cancelled")
		return nil, err
	}
	span.WithExtra("backends", strconv.Itoa(len(backends))).End(dir.String())
	return &Result{Dir: dir, Passes: passes}, nil
}

// runPass only fails on cancellation.
func runPass(ctx context.Context, req *Request, b plugin.Backend, dir bidi.Dir) (*PassResult, error) {
	target, _ := TargetFor(b)
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "pass:"+b.String(), trace.ParentSpan(ctx))
	timer := observ.NewTimer()
	bag := diag.NewBag(req.MaxDiagnostics)
	rep := diag.NewDedupReporter(diag.BagReporter{Bag: bag})
	in := types.NewInterner()
	res := &PassResult{Backend: b, Bag: bag, Types: in}

	stage := func(s Stage, fn func() error) error {
		start := time.Now()
		emit(req.Progress, Event{Backend: b, Stage: s, Status: StatusWorking})
		idx := timer.Begin(string(s))
		err := fn()
		timer.End(idx, "")
		status := StatusDone
		if err != nil || bag.HasErrors() {
			status = StatusError
		}
		emit(req.Progress, Event{Backend: b, Stage: s, Status: status, Err: err, Elapsed: time.Since(start)})
		return err
	}

	_ = stage(StageClone, func() error {
		res.Templates = template.CopyAll(req.Templates)
		return nil
	})

	skip := make(map[*expr.Call]bool)
	_ = stage(StageCheck, func() error {
		c := newChecker(in, req.Dispatcher, rep)
		for _, t := range res.Templates {
			for call := range c.check(t) {
				skip[call] = true
			}
		}
		return nil
	})

	env := &backend.Env{In: in, Dispatcher: req.Dispatcher, Dir: dir, Reporter: rep}
	err := stage(StageLower, func() error {
		for _, t := range res.Templates {
			if err := ctx.Err(); err != nil {
				return err
			}
			env.Template = t
			tspan := trace.Begin(tracer, trace.ScopeTemplate, "template:"+t.Name, span.ID())
			for _, call := range t.Calls {
				if skip[call] {
					continue
				}
				res.lower(env, target, t, call, rep, tracer, tspan.ID())
			}
			tspan.End("")
		}
		return nil
	})
	res.Timings = timer.Report()
	if err != nil {
		span.End("cancelled")
		return res, err
	}
	detail := "ok"
	if bag.HasErrors() {
		detail = "errors"
	}
	span.WithExtra("calls", strconv.Itoa(len(res.Calls))).End(detail)
	return res, nil
}

func (p *PassResult) lower(env *backend.Env, target backend.Target, t *template.Template, call *expr.Call, rep diag.Reporter, tracer trace.Tracer, parent uint64) {
	cspan := trace.Begin(tracer, trace.ScopeCall, "call:"+call.Name, parent)
	v, err := target.Lower(env, call)
	if err != nil {
		reportLowerError(rep, p.Backend, t, call, err)
		cspan.End(err.Error())
		return
	}
	p.Calls = append(p.Calls, LoweredCall{
		Template: t.Name,
		Function: call.Name,
		Span:     call.Loc,
		Params:   expr.Refs(call),
		Code:     v.Code(),
		Native:   v.Native().String(),
	})
	cspan.End(v.Code())
}
