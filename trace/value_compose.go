package trace

// valueComposeOptions is a holder of options
type valueComposeOptions struct {
	panicCallback func(e interface{})
}

// ValueComposeOption specified Value compose option
type ValueComposeOption func(o *valueComposeOptions)

// WithValuePanicCallback specified behavior on panic
func WithValuePanicCallback(cb func(e interface{})) ValueComposeOption {
	return func(o *valueComposeOptions) {
		o.panicCallback = cb
	}
}

// Compose returns a new Value which has functional fields composed both from t and x.
//
//nolint:gocyclo,funlen
func (t *Value) Compose(x *Value, opts ...ValueComposeOption) *Value {
	if t == nil {
		t = &Value{}
	}
	if x == nil {
		x = &Value{}
	}
	var ret Value
	options := valueComposeOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	recoverPanic := func() {
		if options.panicCallback == nil {
			return
		}
		if e := recover(); e != nil {
			options.panicCallback(e)
		}
	}
	{
		h1 := t.OnNew
		h2 := x.OnNew
		ret.OnNew = func(info ValueNewInfo) {
			if options.panicCallback != nil {
				defer recoverPanic()
			}
			if h1 != nil {
				h1(info)
			}
			if h2 != nil {
				h2(info)
			}
		}
	}
	{
		h1 := t.OnClone
		h2 := x.OnClone
		ret.OnClone = func(info ValueCloneInfo) {
			if options.panicCallback != nil {
				defer recoverPanic()
			}
			if h1 != nil {
				h1(info)
			}
			if h2 != nil {
				h2(info)
			}
		}
	}
	{
		h1 := t.OnSet
		h2 := x.OnSet
		ret.OnSet = func(s ValueSetStartInfo) func(ValueSetDoneInfo) {
			if options.panicCallback != nil {
				defer recoverPanic()
			}
			var r, r1 func(ValueSetDoneInfo)
			if h1 != nil {
				r = h1(s)
			}
			if h2 != nil {
				r1 = h2(s)
			}

			return func(d ValueSetDoneInfo) {
				if options.panicCallback != nil {
					defer recoverPanic()
				}
				if r != nil {
					r(d)
				}
				if r1 != nil {
					r1(d)
				}
			}
		}
	}
	{
		h1 := t.OnUpdate
		h2 := x.OnUpdate
		ret.OnUpdate = func(s ValueUpdateStartInfo) func(ValueUpdateDoneInfo) {
			if options.panicCallback != nil {
				defer recoverPanic()
			}
			var r, r1 func(ValueUpdateDoneInfo)
			if h1 != nil {
				r = h1(s)
			}
			if h2 != nil {
				r1 = h2(s)
			}

			return func(d ValueUpdateDoneInfo) {
				if options.panicCallback != nil {
					defer recoverPanic()
				}
				if r != nil {
					r(d)
				}
				if r1 != nil {
					r1(d)
				}
			}
		}
	}
	{
		h1 := t.OnDecode
		h2 := x.OnDecode
		ret.OnDecode = func(s ValueDecodeStartInfo) func(ValueDecodeDoneInfo) {
			if options.panicCallback != nil {
				defer recoverPanic()
			}
			var r, r1 func(ValueDecodeDoneInfo)
			if h1 != nil {
				r = h1(s)
			}
			if h2 != nil {
				r1 = h2(s)
			}

			return func(d ValueDecodeDoneInfo) {
				if options.panicCallback != nil {
					defer recoverPanic()
				}
				if r != nil {
					r(d)
				}
				if r1 != nil {
					r1(d)
				}
			}
		}
	}

	return &ret
}

func (t *Value) onNew(info ValueNewInfo) {
	fn := t.OnNew
	if fn == nil {
		return
	}
	fn(info)
}

func (t *Value) onClone(info ValueCloneInfo) {
	fn := t.OnClone
	if fn == nil {
		return
	}
	fn(info)
}

func (t *Value) onSet(s ValueSetStartInfo) func(ValueSetDoneInfo) {
	fn := t.OnSet
	if fn == nil {
		return func(ValueSetDoneInfo) {}
	}
	res := fn(s)
	if res == nil {
		return func(ValueSetDoneInfo) {}
	}

	return res
}

func (t *Value) onUpdate(s ValueUpdateStartInfo) func(ValueUpdateDoneInfo) {
	fn := t.OnUpdate
	if fn == nil {
		return func(ValueUpdateDoneInfo) {}
	}
	res := fn(s)
	if res == nil {
		return func(ValueUpdateDoneInfo) {}
	}

	return res
}

func (t *Value) onDecode(s ValueDecodeStartInfo) func(ValueDecodeDoneInfo) {
	fn := t.OnDecode
	if fn == nil {
		return func(ValueDecodeDoneInfo) {}
	}
	res := fn(s)
	if res == nil {
		return func(ValueDecodeDoneInfo) {}
	}

	return res
}

// Internals: shortcuts used by package cow.
// A nil t disables tracing without allocations.

func ValueOnNew(t *Value, c call, typ string, allocation uint64) {
	if t == nil {
		return
	}
	t.onNew(ValueNewInfo{
		Call:       c,
		Type:       typ,
		Allocation: allocation,
	})
}

func ValueOnClone(t *Value, c call, typ string, allocation uint64) {
	if t == nil {
		return
	}
	t.onClone(ValueCloneInfo{
		Call:       c,
		Type:       typ,
		Allocation: allocation,
	})
}

func ValueOnSet(t *Value, c call, typ string, previous uint64) func(allocation uint64) {
	if t == nil {
		return func(uint64) {}
	}
	res := t.onSet(ValueSetStartInfo{
		Call:     c,
		Type:     typ,
		Previous: previous,
	})

	return func(allocation uint64) {
		res(ValueSetDoneInfo{
			Allocation: allocation,
		})
	}
}

func ValueOnUpdate(t *Value, c call, typ string, previous uint64) func(allocation uint64, _ error) {
	if t == nil {
		return func(uint64, error) {}
	}
	res := t.onUpdate(ValueUpdateStartInfo{
		Call:     c,
		Type:     typ,
		Previous: previous,
	})

	return func(allocation uint64, e error) {
		res(ValueUpdateDoneInfo{
			Allocation: allocation,
			Error:      e,
		})
	}
}

func ValueOnDecode(t *Value, c call, typ, format string, previous uint64) func(allocation uint64, _ error) {
	if t == nil {
		return func(uint64, error) {}
	}
	res := t.onDecode(ValueDecodeStartInfo{
		Call:     c,
		Type:     typ,
		Format:   format,
		Previous: previous,
	})

	return func(allocation uint64, e error) {
		res(ValueDecodeDoneInfo{
			Allocation: allocation,
			Error:      e,
		})
	}
}
