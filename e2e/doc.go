// Package e2e drives the registration and login pages in a headless browser.
//
// The tests are behind the e2e build tag:
//
//	go test -tags e2e ./e2e/...
//
// A Chromium binary is taken from $ROD_BROWSER_BIN, the system, or rod's download cache.
package e2e
