// Package suitefile loads test suites from YAML files.
//
// A suite file names a suite and declares its tests:
//
//	suite: checkout
//	tests:
//	  - name: login
//	    priority: 1
//	    steps:
//	      - sleep: 200ms
//	      - log: logged in
//	  - name: pay
//	    priority: 2
//	    depends: [login]
//	    steps:
//	      - flaky: 2
//	  - name: refund
//	    steps:
//	      - fail: refunds are not implemented
//
// Files are validated against an embedded JSON schema before decoding.
// Supported steps are sleep (a Go duration), log, fail (a message), and
// flaky (fail the first N attempts, then pass).
package suitefile
