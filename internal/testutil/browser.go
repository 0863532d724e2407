package testutil

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/require"
)

// Fixed waits used by the browser suite. They are never retried.
const (
	SelectorTimeout   = 5 * time.Second
	NavigationTimeout = 10 * time.Second

	urlPollInterval = 50 * time.Millisecond
)

// BrowserBinEnv overrides browser discovery with an explicit executable.
const BrowserBinEnv = "ROD_BROWSER_BIN"

// ResolveBrowser returns a Chromium executable: $ROD_BROWSER_BIN, a system
// install, or a revision downloaded into rod's cache.
func ResolveBrowser() (string, error) {
	if bin := os.Getenv(BrowserBinEnv); bin != "" {
		return bin, nil
	}
	if bin, ok := launcher.LookPath(); ok {
		return bin, nil
	}
	bin, err := launcher.NewBrowser().Get()
	if err != nil {
		return "", fmt.Errorf("download browser: %w", err)
	}
	return bin, nil
}

// BrowserClient drives a single headless page.
type BrowserClient struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
}

// NewBrowser launches a headless browser from bin and opens a blank page. The
// browser is closed on cleanup.
func NewBrowser(t testing.TB, bin string) *BrowserClient {
	t.Helper()

	l := launcher.New().Bin(bin).Headless(true).NoSandbox(true)
	controlURL, err := l.Launch()
	require.NoError(t, err, "launch browser")

	browser := rod.New().ControlURL(controlURL)
	require.NoError(t, browser.Connect(), "connect to browser")

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	require.NoError(t, err, "open page")

	b := &BrowserClient{launcher: l, browser: browser, page: page}
	t.Cleanup(b.Close)
	return b
}

// Close shuts the browser down and removes its profile directory.
func (b *BrowserClient) Close() {
	if b.browser != nil {
		_ = b.browser.Close()
		b.browser = nil
	}
	if b.launcher != nil {
		b.launcher.Cleanup()
		b.launcher = nil
	}
}

// Page exposes the underlying rod page for assertions the helpers do not cover.
func (b *BrowserClient) Page() *rod.Page {
	return b.page
}

// Navigate loads url and waits for the load event.
func (b *BrowserClient) Navigate(url string) error {
	tp := b.page.Timeout(NavigationTimeout)
	defer tp.CancelTimeout()

	if err := tp.Navigate(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	if err := tp.WaitLoad(); err != nil {
		return fmt.Errorf("wait load %s: %w", url, err)
	}
	return nil
}

// WaitVisible waits up to timeout for selector to exist and be visible.
func (b *BrowserClient) WaitVisible(selector string, timeout time.Duration) (*rod.Element, error) {
	tp := b.page.Timeout(timeout)
	defer tp.CancelTimeout()

	el, err := tp.Element(selector)
	if err != nil {
		return nil, fmt.Errorf("wait for %q: %w", selector, err)
	}
	if err := el.WaitVisible(); err != nil {
		return nil, fmt.Errorf("wait for %q to be visible: %w", selector, err)
	}
	return el.Context(b.page.GetContext()), nil
}

func (b *BrowserClient) element(selector string) (*rod.Element, error) {
	tp := b.page.Timeout(SelectorTimeout)
	defer tp.CancelTimeout()

	el, err := tp.Element(selector)
	if err != nil {
		return nil, fmt.Errorf("find %q: %w", selector, err)
	}
	return el.Context(b.page.GetContext()), nil
}

// Fill replaces the value of the input matched by selector.
func (b *BrowserClient) Fill(selector, value string) error {
	el, err := b.element(selector)
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("select %q: %w", selector, err)
	}
	if err := el.Input(value); err != nil {
		return fmt.Errorf("fill %q: %w", selector, err)
	}
	return nil
}

// Click left-clicks the element matched by selector.
func (b *BrowserClient) Click(selector string) error {
	el, err := b.element(selector)
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %q: %w", selector, err)
	}
	return nil
}

// Check ticks a checkbox unless it is already checked.
func (b *BrowserClient) Check(selector string) error {
	checked, err := b.IsChecked(selector)
	if err != nil {
		return err
	}
	if checked {
		return nil
	}
	return b.Click(selector)
}

// Text returns the rendered text of the element matched by selector.
func (b *BrowserClient) Text(selector string) (string, error) {
	el, err := b.element(selector)
	if err != nil {
		return "", err
	}
	return el.Text()
}

// InputValue reads the live value property, not the value attribute.
func (b *BrowserClient) InputValue(selector string) (string, error) {
	el, err := b.element(selector)
	if err != nil {
		return "", err
	}
	v, err := el.Property("value")
	if err != nil {
		return "", fmt.Errorf("read value of %q: %w", selector, err)
	}
	return v.Str(), nil
}

// IsChecked reads the live checked property of a checkbox or radio input.
func (b *BrowserClient) IsChecked(selector string) (bool, error) {
	el, err := b.element(selector)
	if err != nil {
		return false, err
	}
	v, err := el.Property("checked")
	if err != nil {
		return false, fmt.Errorf("read checked of %q: %w", selector, err)
	}
	return v.Bool(), nil
}

// URL is the current location of the page.
func (b *BrowserClient) URL() (string, error) {
	info, err := b.page.Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

var errURLTimeout = errors.New("url did not change in time")

// WaitURLSuffix polls the page location until it ends with suffix, then waits
// for the new document to finish loading within the same budget.
func (b *BrowserClient) WaitURLSuffix(suffix string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	last := ""
	for {
		u, err := b.URL()
		if err == nil {
			last = u
			if strings.HasSuffix(u, suffix) {
				return b.waitLoad(time.Until(deadline))
			}
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: want suffix %q, last %q", errURLTimeout, suffix, last)
		}
		time.Sleep(urlPollInterval)
	}
}

func (b *BrowserClient) waitLoad(d time.Duration) error {
	if d <= 0 {
		d = urlPollInterval
	}
	tp := b.page.Timeout(d)
	defer tp.CancelTimeout()
	if err := tp.WaitLoad(); err != nil {
		return fmt.Errorf("wait load: %w", err)
	}
	return nil
}

// LocalStorage returns the stored value and whether the key exists.
func (b *BrowserClient) LocalStorage(key string) (string, bool, error) {
	res, err := b.page.Eval(`(k) => localStorage.getItem(k)`, key)
	if err != nil {
		return "", false, fmt.Errorf("read localStorage %q: %w", key, err)
	}
	if res.Value.Nil() {
		return "", false, nil
	}
	return res.Value.Str(), true, nil
}

// TrackFetches wraps window.fetch on the current document so FetchCount can
// report how many requests the page scripts issued. Navigation discards it.
func (b *BrowserClient) TrackFetches() error {
	_, err := b.page.Eval(`() => {
		window.__fetchCount = 0;
		const orig = window.fetch.bind(window);
		window.fetch = (...args) => {
			window.__fetchCount++;
			return orig(...args);
		};
	}`)
	if err != nil {
		return fmt.Errorf("install fetch counter: %w", err)
	}
	return nil
}

var errFetchesNotTracked = errors.New("fetch counter not installed on this document")

// FetchCount returns the number of fetch calls since TrackFetches.
func (b *BrowserClient) FetchCount() (int, error) {
	res, err := b.page.Eval(`() => window.__fetchCount === undefined ? -1 : window.__fetchCount`)
	if err != nil {
		return 0, fmt.Errorf("read fetch counter: %w", err)
	}
	n := res.Value.Int()
	if n < 0 {
		return 0, errFetchesNotTracked
	}
	return n, nil
}
