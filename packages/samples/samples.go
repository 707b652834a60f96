// Package samples holds the built-in demonstration suite.
package samples

import (
	"time"

	"github.com/abdul-hamid-achik/suiterun/packages/core/suite"
)

// SuiteName is the name the sample suite is registered under
const SuiteName = "sample"

// Register adds the sample suite to r
func Register(r *suite.Registry) error {
	return r.Register(SuiteName, Define(time.Millisecond))
}

// Default returns a registry holding only the sample suite
func Default() *suite.Registry {
	r := suite.NewRegistry()
	if err := Register(r); err != nil {
		panic(err)
	}
	return r
}

// Define declares the twelve sample tests. unit scales the simulated work:
// time.Millisecond gives the real timings, smaller units speed the suite up.
func Define(unit time.Duration) suite.DefineFunc {
	work := func(name string, n int) suite.Body {
		return func(t *suite.T) error {
			t.Logf("Running Test %s", name)
			t.Sleep(time.Duration(n) * unit)
			return nil
		}
	}
	broken := func(name string, n int) suite.Body {
		return func(t *suite.T) error {
			t.Sleep(time.Duration(n) * unit)
			return suite.Failf("Test %s failed", name)
		}
	}

	return func(b *suite.Builder) {
		b.Test("testA", work("A", 100), suite.Order(1)).
			Test("testB", work("B", 200), suite.Order(2)).
			Test("testC", work("C", 150), suite.Order(3), suite.DependsOn("testB")).
			Test("testD", broken("D", 180), suite.Order(4)).
			Test("testE", work("E", 120), suite.Order(5)).
			Test("testF", work("F", 90), suite.Order(6)).
			Test("testG", work("G", 250), suite.Order(7)).
			Test("testH", work("H", 170), suite.Order(8)).
			Test("testI", work("I", 130), suite.Order(9)).
			Test("testJ", broken("J", 110), suite.Order(10)).
			Test("testK", work("K", 140), suite.DependsOn("testG")).
			Test("testL", work("L", 80))
	}
}
