package cow

import (
	"github.com/cow-go/cow/internal/stack"
)

// callSite records the caller of the exported function which calls callSite
func callSite() stack.Caller {
	return stack.Call(2)
}
