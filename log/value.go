package log

import (
	"context"
	"time"

	"github.com/cow-go/cow/internal/kv"
	"github.com/cow-go/cow/trace"
)

// Value makes trace.Value with logging events from details
func Value(l Logger, d trace.Detailer) (t trace.Value) {
	return internalValue(l, d)
}

//nolint:funlen
func internalValue(l Logger, d trace.Detailer) trace.Value {
	return trace.Value{
		OnNew: func(info trace.ValueNewInfo) {
			if d.Details()&trace.ValueLifecycleEvents == 0 {
				return
			}
			ctx := with(context.Background(), TRACE, "cow", "value", "new")
			l.Log(ctx, "value allocated",
				appendFieldByCondition(info.Call != nil,
					kv.String("call", functionID(info.Call)),
					kv.String("type", info.Type),
					kv.Allocation("allocation", info.Allocation),
				)...,
			)
		},
		OnClone: func(info trace.ValueCloneInfo) {
			if d.Details()&trace.ValueLifecycleEvents == 0 {
				return
			}
			ctx := with(context.Background(), TRACE, "cow", "value", "clone")
			l.Log(ctx, "value shared",
				appendFieldByCondition(info.Call != nil,
					kv.String("call", functionID(info.Call)),
					kv.String("type", info.Type),
					kv.Allocation("allocation", info.Allocation),
				)...,
			)
		},
		OnSet: func(info trace.ValueSetStartInfo) func(trace.ValueSetDoneInfo) {
			if d.Details()&trace.ValueMutationEvents == 0 {
				return nil
			}
			ctx := with(context.Background(), DEBUG, "cow", "value", "set")
			typ := info.Type
			previous := info.Previous
			start := time.Now()

			return func(info trace.ValueSetDoneInfo) {
				l.Log(ctx, "value replaced",
					kv.String("type", typ),
					kv.Allocation("previous", previous),
					kv.Allocation("allocation", info.Allocation),
					kv.Latency(start),
				)
			}
		},
		OnUpdate: func(info trace.ValueUpdateStartInfo) func(trace.ValueUpdateDoneInfo) {
			if d.Details()&trace.ValueMutationEvents == 0 {
				return nil
			}
			ctx := with(context.Background(), DEBUG, "cow", "value", "update")
			typ := info.Type
			previous := info.Previous
			l.Log(ctx, "value update starting...",
				kv.String("type", typ),
				kv.Allocation("previous", previous),
			)
			start := time.Now()

			return func(info trace.ValueUpdateDoneInfo) {
				if info.Error == nil {
					l.Log(ctx, "value update done",
						kv.String("type", typ),
						kv.Allocation("previous", previous),
						kv.Allocation("allocation", info.Allocation),
						kv.Latency(start),
					)
				} else {
					l.Log(WithLevel(ctx, WARN), "value update failed",
						kv.Error(info.Error),
						kv.String("type", typ),
						kv.Allocation("allocation", info.Allocation),
						kv.Latency(start),
					)
				}
			}
		},
		OnDecode: func(info trace.ValueDecodeStartInfo) func(trace.ValueDecodeDoneInfo) {
			if d.Details()&trace.ValueMutationEvents == 0 {
				return nil
			}
			ctx := with(context.Background(), DEBUG, "cow", "value", "decode")
			typ := info.Type
			format := info.Format
			previous := info.Previous
			start := time.Now()

			return func(info trace.ValueDecodeDoneInfo) {
				if info.Error == nil {
					l.Log(ctx, "value decoded",
						kv.String("type", typ),
						kv.String("format", format),
						kv.Allocation("previous", previous),
						kv.Allocation("allocation", info.Allocation),
						kv.Latency(start),
					)
				} else {
					l.Log(WithLevel(ctx, WARN), "value decode failed",
						kv.Error(info.Error),
						kv.String("type", typ),
						kv.String("format", format),
						kv.Allocation("allocation", info.Allocation),
						kv.Latency(start),
					)
				}
			}
		},
	}
}

func functionID(c interface{ FunctionID() string }) string {
	if c == nil {
		return ""
	}

	return c.FunctionID()
}
