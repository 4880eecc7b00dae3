package cartesian

import (
	"fmt"

	"github.com/combitest/cartesian-test-harness/framework"
	"github.com/combitest/cartesian-test-harness/framework/ctest"
)

// Run resolves a method's argument combinations and runs the body once per
// combination, each as a subtest scope named by the formatted display name.
// If validation or resolution fails, the method's scope is reported as failed
// exactly once with the engine's error, and no combination runs.
func Run(t *ctest.T, reg *Registry, method Method, body func(*ctest.T, Tuple)) {
	t.Run(method.displayName(), func(t *ctest.T) {
		res, err := Resolve(reg, method)
		if err != nil {
			t.Errorf("%s", err)
			t.FailNow()
		}
		total := res.TotalCount()
		t.Debug("running %d combinations", total)
		gen := res.Generator()
		for {
			rec, ok := gen.Next()
			if !ok {
				break
			}
			logger := framework.LoggerWithPrefix(t.DebugLogger(), fmt.Sprintf("[%d/%d] ", rec.Index, total))
			logger.Printf("arguments: %s", rec.Arguments)
			t.Run(rec.Name, func(t1 *ctest.T) {
				body(t1, rec.Arguments)
			})
		}
	})
}
