package trace

type (
	// Value specified trace of copy-on-write handle activity.
	// Hooks are called synchronously from the goroutine which performs the operation.
	Value struct {
		OnNew    func(ValueNewInfo)
		OnClone  func(ValueCloneInfo)
		OnSet    func(ValueSetStartInfo) func(ValueSetDoneInfo)
		OnUpdate func(ValueUpdateStartInfo) func(ValueUpdateDoneInfo)
		OnDecode func(ValueDecodeStartInfo) func(ValueDecodeDoneInfo)
	}
	ValueNewInfo struct {
		Call       call
		Type       string
		Allocation uint64
	}
	ValueCloneInfo struct {
		Call       call
		Type       string
		Allocation uint64
	}
	ValueSetStartInfo struct {
		Call     call
		Type     string
		Previous uint64
	}
	ValueSetDoneInfo struct {
		Allocation uint64
	}
	ValueUpdateStartInfo struct {
		Call     call
		Type     string
		Previous uint64
	}
	// ValueUpdateDoneInfo holds the previous allocation when Error is not nil.
	ValueUpdateDoneInfo struct {
		Allocation uint64
		Error      error
	}
	ValueDecodeStartInfo struct {
		Call     call
		Type     string
		Format   string
		Previous uint64
	}
	// ValueDecodeDoneInfo holds the previous allocation when Error is not nil.
	ValueDecodeDoneInfo struct {
		Allocation uint64
		Error      error
	}
)
