package rod

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/fwojciec/docmerge"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultMaxPages is the number of tabs a Chrome process serves before it is
// replaced. Chrome keeps memory from closed tabs, so long crawls relaunch it.
const DefaultMaxPages = 75

// BrowserManager hands out tabs of a headless Chrome process and relaunches
// the process once it has served maxPages tabs. A relaunch only happens while
// no tab is open, so a recycle never tears down a page still being read.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	current  *chrome
	open     int
	pages    int64
	recycles int64
	closed   bool

	bin      string
	maxPages int64
	logger   *slog.Logger
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets the number of tabs served before Chrome is relaunched.
// Zero or a negative value disables recycling.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// WithBin sets the path of the Chrome binary. By default the launcher looks
// up an installed Chrome or downloads one.
func WithBin(path string) ManagerOption {
	return func(bm *BrowserManager) {
		bm.bin = path
	}
}

// WithLogger sets the logger that reports Chrome relaunches.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(bm *BrowserManager) {
		bm.logger = logger
	}
}

// NewBrowserManager launches a headless Chrome process.
// Close must be called when the BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{
		maxPages: DefaultMaxPages,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(bm)
	}

	c, err := launchChrome(bm.bin)
	if err != nil {
		return nil, err
	}
	bm.current = c

	return bm, nil
}

// NewTab opens a blank tab. The returned release func closes the tab and
// counts it toward the recycle budget; it must be called exactly once.
func (bm *BrowserManager) NewTab() (page *rod.Page, release func(), err error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil, nil, docmerge.Errorf(docmerge.EINVALID, "browser is closed")
	}
	if bm.open == 0 && bm.recycleDue() {
		bm.recycle()
	}

	page, err = bm.current.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, nil, err
	}
	bm.open++

	var once sync.Once
	release = func() {
		once.Do(func() {
			_ = page.Close()

			bm.mu.Lock()
			defer bm.mu.Unlock()
			bm.open--
			bm.pages++
		})
	}
	return page, release, nil
}

// Pages returns the number of tabs released since the current Chrome
// process was launched.
func (bm *BrowserManager) Pages() int64 {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	return bm.pages
}

// Recycles returns how many times Chrome has been relaunched.
func (bm *BrowserManager) Recycles() int64 {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	return bm.recycles
}

// Close shuts Chrome down. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true

	err := bm.current.close()
	bm.current = nil
	return err
}

// LauncherPID returns the process ID of the Chrome launcher, or zero once
// the manager is closed.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.current == nil {
		return 0
	}
	return bm.current.launcher.PID()
}

// recycleDue must be called with mu held.
func (bm *BrowserManager) recycleDue() bool {
	return bm.maxPages > 0 && bm.pages >= bm.maxPages
}

// recycle swaps in a fresh Chrome process. When the relaunch fails the old
// process stays in service and the page budget is retried on the next tab.
// Must be called with mu held and no tab open.
func (bm *BrowserManager) recycle() {
	bm.logger.Info("recycling browser", "pages", bm.pages, "max_pages", bm.maxPages)

	next, err := launchChrome(bm.bin)
	if err != nil {
		bm.logger.Warn("browser relaunch failed, keeping current process", "err", err)
		return
	}

	if err := bm.current.close(); err != nil {
		bm.logger.Debug("closing recycled browser", "err", err)
	}
	bm.current = next
	bm.pages = 0
	bm.recycles++
}

// chrome is one launched Chrome process and the connection driving it.
type chrome struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
}

func launchChrome(bin string) (*chrome, error) {
	l := launcher.New().
		Set("disable-gpu").
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)
	if bin != "" {
		l = l.Bin(bin)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &chrome{browser: browser, launcher: l}, nil
}

// close disconnects from Chrome and kills the process.
func (c *chrome) close() error {
	err := c.browser.Close()
	c.launcher.Kill()
	return err
}
