package stack

type Caller interface {
	FunctionID() string
}

var _ Caller = functionID("")

type functionID string

func (id functionID) FunctionID() string {
	return string(id)
}

// FunctionID returns id as a Caller, or the call site of FunctionID's caller when id is empty.
func FunctionID(id string, opts ...recordOption) Caller {
	if id != "" {
		return functionID(id)
	}

	return functionID(Call(1).Record(append([]recordOption{Lambda(false), FileName(false)}, opts...)...))
}
