package log

import (
	"github.com/cow-go/cow/internal/kv"
)

type (
	Field     = kv.KeyValue
	FieldType = kv.FieldType
)

const (
	IntType      = kv.IntType
	Int64Type    = kv.Int64Type
	Uint64Type   = kv.Uint64Type
	StringType   = kv.StringType
	BoolType     = kv.BoolType
	DurationType = kv.DurationType
	StringsType  = kv.StringsType
	ErrorType    = kv.ErrorType
	AnyType      = kv.AnyType
	StringerType = kv.StringerType
)

func appendFieldByCondition(condition bool, ifTrueField Field, fields ...Field) []Field {
	if condition {
		fields = append(fields, ifTrueField)
	}

	return fields
}
