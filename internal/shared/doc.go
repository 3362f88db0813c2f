// Package shared holds code used across packages that belongs to no single
// domain or layer.
//
// The testutil subpackage provides a buffered slog handler for asserting on
// log output and checklist file fixtures in UTF-8 and Latin-1:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    path := testutil.WriteChecklist(t, t.TempDir(), testutil.SampleRows)
//	    // ...
//	    testutil.AssertNoErrors(t, logs)
//	}
package shared
