package atomcell

import (
	"testing"

	"go.uber.org/goleak"
)

// goleakMain asserts that no goroutine launched by this package's tests
// (scenario harnesses in particular spin up dozens of writers/readers)
// outlives the test run, the same discipline grafana-tempo applies in
// modules/livestore/live_store_goroutine_leak_test.go.
func goleakMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
