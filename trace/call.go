package trace

type call interface {
	FunctionID() string
}
