package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
)

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/120.0.0.0 Safari/537.36"

// queryTimeout bounds element queries and state probes. Clicks carry
// their own caller-provided timeout.
const queryTimeout = 5 * time.Second

// Options controls how the Chrome instance is launched.
type Options struct {
	Headless   bool
	ChromePath string
	UserAgent  string
}

// ChromePage drives a single tab in a dedicated headless Chrome
// process. One ChromePage is opened per poll cycle and torn down with
// Close when the cycle ends, whatever the outcome.
type ChromePage struct {
	tabCtx      context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
}

var _ Page = (*ChromePage)(nil)

// OpenChrome launches Chrome and opens one tab. The tab context is
// derived from ctx, so cancelling ctx tears the browser down.
func OpenChrome(ctx context.Context, opts Options) (*ChromePage, error) {
	ua := opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.UserAgent(ua),
	)
	if opts.ChromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ChromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	// Start the browser eagerly so launch failures surface here
	// instead of on the first navigation.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	return &ChromePage{tabCtx: tabCtx, cancelTab: cancelTab, cancelAlloc: cancelAlloc}, nil
}

// run executes chromedp actions on the tab, bounded by timeout. All
// actions must run on the tab context lineage, which already carries
// the caller's cancellation from OpenChrome.
func (p *ChromePage) run(timeout time.Duration, actions ...chromedp.Action) error {
	tctx := p.tabCtx
	cancel := func() {}
	if timeout > 0 {
		tctx, cancel = context.WithTimeout(p.tabCtx, timeout)
	}
	defer cancel()
	return chromedp.Run(tctx, actions...)
}

func (p *ChromePage) Navigate(_ context.Context, url string, timeout time.Duration) error {
	err := p.run(timeout,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (p *ChromePage) CurrentURL(_ context.Context) (string, error) {
	var u string
	if err := p.run(queryTimeout, chromedp.Location(&u)); err != nil {
		return "", fmt.Errorf("read location: %w", err)
	}
	return u, nil
}

func (p *ChromePage) BodyText(_ context.Context) (string, error) {
	var text string
	if err := p.run(queryTimeout, chromedp.Text("body", &text, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read body text: %w", err)
	}
	return text, nil
}

func (p *ChromePage) Query(_ context.Context, selector string) ([]Element, error) {
	var nodes []*cdp.Node
	err := p.run(queryTimeout,
		chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)),
	)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	els := make([]Element, 0, len(nodes))
	for _, n := range nodes {
		els = append(els, &chromeElement{page: p, xpath: n.FullXPath()})
	}
	return els, nil
}

func (p *ChromePage) Close() error {
	p.cancelTab()
	p.cancelAlloc()
	return nil
}

// chromeElement addresses a node by its full XPath, which survives
// re-use across probes as long as the page does not re-render.
type chromeElement struct {
	page  *ChromePage
	xpath string
}

var _ Element = (*chromeElement)(nil)

func (e *chromeElement) Text(_ context.Context) (string, error) {
	var text string
	if err := e.page.run(queryTimeout, chromedp.Text(e.xpath, &text, chromedp.BySearch)); err != nil {
		return "", fmt.Errorf("element text: %w", err)
	}
	return text, nil
}

func (e *chromeElement) Attr(_ context.Context, name string) (string, bool, error) {
	var (
		value string
		ok    bool
	)
	err := e.page.run(queryTimeout,
		chromedp.AttributeValue(e.xpath, name, &value, &ok, chromedp.BySearch),
	)
	if err != nil {
		return "", false, fmt.Errorf("attribute %s: %w", name, err)
	}
	return value, ok, nil
}

// visibleJS resolves an element by XPath and applies the usual
// "actually rendered" checks.
const visibleJS = `(function(xp) {
	var el = document.evaluate(xp, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
	if (!el) return false;
	var style = window.getComputedStyle(el);
	if (style.display === 'none' || style.visibility === 'hidden') return false;
	return el.offsetWidth > 0 && el.offsetHeight > 0;
})(%q)`

func (e *chromeElement) Visible(_ context.Context) (bool, error) {
	var visible bool
	err := e.page.run(queryTimeout,
		chromedp.Evaluate(fmt.Sprintf(visibleJS, e.xpath), &visible),
	)
	if err != nil {
		return false, fmt.Errorf("visibility check: %w", err)
	}
	return visible, nil
}

const enabledJS = `(function(xp) {
	var el = document.evaluate(xp, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
	if (!el) return false;
	return el.disabled !== true;
})(%q)`

func (e *chromeElement) Enabled(_ context.Context) (bool, error) {
	var enabled bool
	err := e.page.run(queryTimeout,
		chromedp.Evaluate(fmt.Sprintf(enabledJS, e.xpath), &enabled),
	)
	if err != nil {
		return false, fmt.Errorf("enabled check: %w", err)
	}
	return enabled, nil
}

func (e *chromeElement) Click(_ context.Context, timeout time.Duration) error {
	if err := e.page.run(timeout, chromedp.Click(e.xpath, chromedp.BySearch)); err != nil {
		return fmt.Errorf("click: %w", err)
	}
	return nil
}

// ancestorClickJS clicks the element itself when it is clickable,
// otherwise its closest button/link ancestor. Returns false when the
// element vanished or no clickable ancestor exists.
const ancestorClickJS = `(function(xp) {
	var el = document.evaluate(xp, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
	if (!el) return false;
	var target = el.closest('button, a') || el;
	target.click();
	return true;
})(%q)`

func (e *chromeElement) ClickNearestClickable(_ context.Context, timeout time.Duration) error {
	var clicked bool
	err := e.page.run(timeout,
		chromedp.Evaluate(fmt.Sprintf(ancestorClickJS, e.xpath), &clicked),
	)
	if err != nil {
		return fmt.Errorf("click ancestor: %w", err)
	}
	if !clicked {
		return fmt.Errorf("no clickable element at %s", e.xpath)
	}
	return nil
}
