package stack

import (
	"runtime"
	"strconv"
	"strings"
)

type recordOptions struct {
	packagePath  bool
	packageName  bool
	structName   bool
	functionName bool
	fileName     bool
	line         bool
	lambdas      bool
}

type recordOption func(opts *recordOptions)

func PackagePath(b bool) recordOption {
	return func(opts *recordOptions) {
		opts.packagePath = b
	}
}

func PackageName(b bool) recordOption {
	return func(opts *recordOptions) {
		opts.packageName = b
	}
}

func StructName(b bool) recordOption {
	return func(opts *recordOptions) {
		opts.structName = b
	}
}

func FunctionName(b bool) recordOption {
	return func(opts *recordOptions) {
		opts.functionName = b
	}
}

func FileName(b bool) recordOption {
	return func(opts *recordOptions) {
		opts.fileName = b
	}
}

func Line(b bool) recordOption {
	return func(opts *recordOptions) {
		opts.line = b
	}
}

func Lambda(b bool) recordOption {
	return func(opts *recordOptions) {
		opts.lambdas = b
	}
}

var _ Caller = call{}

type call struct {
	function uintptr
	file     string
	line     int
}

// Call captures the caller of the function which calls Call, skipping depth frames more.
func Call(depth int) (c call) {
	c.function, c.file, c.line, _ = runtime.Caller(depth + 1)

	return c
}

func (c call) Record(opts ...recordOption) string {
	holder := recordOptions{
		packagePath:  true,
		packageName:  true,
		structName:   true,
		functionName: true,
		fileName:     true,
		line:         true,
		lambdas:      true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&holder)
		}
	}
	name, file := extractNames(c.function, c.file)
	pkgPath, pkgName, structName, funcName, lambdas := parseFunctionName(name)

	return buildRecordString(holder, pkgPath, pkgName, structName, funcName, file, c.line, lambdas)
}

func (c call) FunctionID() string {
	return c.Record(Lambda(false), FileName(false))
}

func extractNames(function uintptr, file string) (name, fileName string) {
	if f := runtime.FuncForPC(function); f != nil {
		name = f.Name()
	}
	if i := strings.LastIndex(file, "/"); i > -1 {
		fileName = file[i+1:]
	} else {
		fileName = file
	}
	name = strings.ReplaceAll(name, "[...]", "")

	return name, fileName
}

func parseFunctionName(name string) (pkgPath, pkgName, structName, funcName string, lambdas []string) {
	if i := strings.LastIndex(name, "/"); i > -1 {
		pkgPath, name = name[:i], name[i+1:]
	}
	split := strings.Split(name, ".")
	lambdas = extractLambdas(split)
	split = split[:len(split)-len(lambdas)]
	if len(split) > 0 {
		pkgName = split[0]
	}
	if len(split) > 1 {
		funcName = split[len(split)-1]
	}
	if len(split) > 2 {
		structName = strings.Trim(split[1], "(*)")
	}

	return pkgPath, pkgName, structName, funcName, lambdas
}

func extractLambdas(split []string) (lambdas []string) {
	lambdas = make([]string, 0, len(split))
	for i := range split {
		elem := split[len(split)-i-1]
		if !strings.HasPrefix(elem, "func") {
			break
		}
		lambdas = append(lambdas, elem)
	}

	return lambdas
}

func buildRecordString(
	holder recordOptions,
	pkgPath, pkgName, structName, funcName, file string,
	line int,
	lambdas []string,
) string {
	var b strings.Builder
	if holder.packagePath {
		b.WriteString(pkgPath)
	}
	if holder.packageName {
		if b.Len() > 0 {
			b.WriteByte('/')
		}
		b.WriteString(pkgName)
	}
	if holder.structName && len(structName) > 0 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(structName)
	}
	if holder.functionName {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(funcName)
		if holder.lambdas {
			for i := range lambdas {
				b.WriteByte('.')
				b.WriteString(lambdas[len(lambdas)-i-1])
			}
		}
	}
	if holder.fileName {
		var closeBrace bool
		if b.Len() > 0 {
			b.WriteByte('(')
			closeBrace = true
		}
		b.WriteString(file)
		if holder.line {
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(line))
		}
		if closeBrace {
			b.WriteByte(')')
		}
	}

	return b.String()
}

func Record(depth int, opts ...recordOption) string {
	return Call(depth + 1).Record(opts...)
}
