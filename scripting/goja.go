package scripting

import (
	"context"

	"github.com/dop251/goja"
)

// GojaEngine runs scripts on a goja JavaScript runtime. The runtime is
// single-threaded; callers serialize Execute calls.
type GojaEngine struct {
	vm *goja.Runtime
}

func NewEngine() *GojaEngine {
	return &GojaEngine{vm: goja.New()}
}

func (e *GojaEngine) Execute(ctx context.Context, script string) (interface{}, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	defer close(done)
	defer e.vm.ClearInterrupt()

	go func() {
		select {
		case <-ctx.Done():
			e.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	val, err := e.vm.RunString(script)
	if err != nil {
		if interrupted, ok := err.(*goja.InterruptedError); ok {
			if cause := interrupted.Unwrap(); cause != nil {
				return nil, cause
			}
			return nil, context.Canceled
		}
		return nil, err
	}
	return val.Export(), nil
}

// Bind exposes the host as the "app" and "doc" globals scripts expect.
func (e *GojaEngine) Bind(host Host) error {
	app := e.vm.NewObject()
	if err := app.Set("alert", func(call goja.FunctionCall) goja.Value {
		msg := ""
		if len(call.Arguments) > 0 {
			msg = call.Arguments[0].String()
		}
		host.Alert(msg)
		return goja.Undefined()
	}); err != nil {
		return err
	}
	if err := e.vm.Set("app", app); err != nil {
		return err
	}

	doc := e.vm.NewObject()
	if err := doc.DefineAccessorProperty("numPages",
		e.vm.ToValue(func(goja.FunctionCall) goja.Value {
			return e.vm.ToValue(host.PageCount())
		}),
		nil,
		goja.FLAG_FALSE,
		goja.FLAG_TRUE,
	); err != nil {
		return err
	}
	if err := doc.DefineAccessorProperty("pageNum",
		e.vm.ToValue(func(goja.FunctionCall) goja.Value {
			return e.vm.ToValue(host.CurrentPage())
		}),
		e.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) > 0 {
				host.GotoPage(int(call.Arguments[0].ToInteger()))
			}
			return goja.Undefined()
		}),
		goja.FLAG_FALSE,
		goja.FLAG_TRUE,
	); err != nil {
		return err
	}
	if err := doc.Set("info", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Undefined()
		}
		return e.vm.ToValue(host.Info(call.Arguments[0].String()))
	}); err != nil {
		return err
	}
	return e.vm.Set("doc", doc)
}
