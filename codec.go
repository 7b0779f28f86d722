package cow

import (
	"encoding/json"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/cow-go/cow/internal/stack"
	"github.com/cow-go/cow/internal/xerrors"
	"github.com/cow-go/cow/trace"
)

var (
	_ json.Marshaler   = Value[int]{}
	_ json.Unmarshaler = (*Value[int])(nil)
	_ yaml.Marshaler   = Value[int]{}
	_ yaml.Unmarshaler = (*Value[int])(nil)
	_ cbor.Marshaler   = Value[int]{}
	_ cbor.Unmarshaler = (*Value[int])(nil)
)

// cborEncMode uses Core Deterministic Encoding: equal values give equal bytes
var cborEncMode cbor.EncMode

var cborDecMode cbor.DecMode

func init() {
	var err error

	cborEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("cow: CBOR encoder initialization failed: " + err.Error())
	}

	cborDecMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("cow: CBOR decoder initialization failed: " + err.Error())
	}
}

func (v Value[T]) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(v.Get())
	if err != nil {
		return nil, xerrors.WithStackTrace(err)
	}

	return b, nil
}

// UnmarshalJSON decodes data over a private copy of the current value and binds v to the result
func (v *Value[T]) UnmarshalJSON(data []byte) error {
	var c stack.Caller
	if v.cfg.traced() {
		c = callSite()
	}

	return v.decode(c, "json", func(dst *T) error {
		return json.Unmarshal(data, dst)
	})
}

func (v Value[T]) MarshalYAML() (interface{}, error) {
	return v.Get(), nil
}

// UnmarshalYAML decodes node over a private copy of the current value and binds v to the result
func (v *Value[T]) UnmarshalYAML(node *yaml.Node) error {
	var c stack.Caller
	if v.cfg.traced() {
		c = callSite()
	}

	return v.decode(c, "yaml", func(dst *T) error {
		return node.Decode(dst)
	})
}

func (v Value[T]) MarshalCBOR() ([]byte, error) {
	b, err := cborEncMode.Marshal(v.Get())
	if err != nil {
		return nil, xerrors.WithStackTrace(err)
	}

	return b, nil
}

// UnmarshalCBOR decodes data over a private copy of the current value and binds v to the result
func (v *Value[T]) UnmarshalCBOR(data []byte) error {
	var c stack.Caller
	if v.cfg.traced() {
		c = callSite()
	}

	return v.decode(c, "cbor", func(dst *T) error {
		return cborDecMode.Unmarshal(data, dst)
	})
}

func (v *Value[T]) decode(c stack.Caller, format string, decode func(dst *T) error) error {
	cfg := v.config()
	var onDone func(allocation uint64, _ error)
	if cfg.traced() {
		onDone = trace.ValueOnDecode(cfg.trace, c, cfg.typ, format, v.c.id())
	}

	next, err := cfg.derive(v.c, decode)
	if err != nil {
		err = xerrors.WithStackTrace(err)
		if onDone != nil {
			onDone(v.c.id(), err)
		}

		return err
	}

	v.c = next

	if onDone != nil {
		onDone(next.allocation, nil)
	}

	return nil
}
