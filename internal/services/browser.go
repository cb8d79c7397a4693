package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/nexconsult/autofill-api/internal/config"
	"github.com/sirupsen/logrus"
)

// BrowserService renders pages in a headless Chrome so forms assembled by
// scripts are present in the HTML handed to the form controller
type BrowserService struct {
	config config.BrowserConfig
	logger *logrus.Logger

	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	startOnce sync.Once
	startErr  error

	mu     sync.RWMutex
	closed bool

	renders atomic.Int64
	failed  atomic.Int64
}

// NewBrowserService creates the allocator. Chrome starts on the first render.
func NewBrowserService(cfg config.BrowserConfig, logger *logrus.Logger) (*BrowserService, error) {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-timer-throttling", true),
		chromedp.Flag("disable-backgrounding-occluded-windows", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("disable-features", "TranslateUI"),
		chromedp.WindowSize(1366, 768),
		chromedp.UserAgent(cfg.UserAgent),
	}
	if cfg.Headless {
		opts = append(opts, chromedp.Headless)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	logger.WithField("headless", cfg.Headless).Info("Browser service initialized")

	return &BrowserService{
		config:        cfg,
		logger:        logger,
		allocCtx:      allocCtx,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

// RenderPage opens url in a new tab, waits for the body and returns the document HTML
func (s *BrowserService) RenderPage(ctx context.Context, url string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", fmt.Errorf("browser service is closed")
	}

	if err := s.start(); err != nil {
		return "", err
	}

	start := time.Now()
	tabCtx, cancel := chromedp.NewContext(s.browserCtx)
	defer cancel()

	tabCtx, timeoutCancel := context.WithTimeout(tabCtx, s.config.PageTimeout)
	defer timeoutCancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		s.failed.Add(1)
		s.logger.WithFields(logrus.Fields{
			"url":   url,
			"error": err.Error(),
		}).Warn("Page render failed")
		return "", fmt.Errorf("failed to render %s: %w", url, err)
	}

	s.renders.Add(1)
	s.logger.WithFields(logrus.Fields{
		"url":      url,
		"bytes":    len(html),
		"duration": time.Since(start),
	}).Debug("Page rendered")

	return html, nil
}

// start launches Chrome once so every render opens a tab in the same browser
func (s *BrowserService) start() error {
	s.startOnce.Do(func() {
		if err := chromedp.Run(s.browserCtx); err != nil {
			s.startErr = fmt.Errorf("failed to start browser: %w", err)
		}
	})
	return s.startErr
}

// GetStats returns renderer statistics
func (s *BrowserService) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"renders":  s.renders.Load(),
		"failed":   s.failed.Load(),
		"headless": s.config.Headless,
		"closed":   s.closed,
	}
}

// Health returns browser service health status
func (s *BrowserService) Health() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := "healthy"
	if s.closed {
		status = "closed"
	}
	return map[string]interface{}{
		"status":  status,
		"renders": s.renders.Load(),
	}
}

// Close stops Chrome
func (s *BrowserService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.browserCancel()
	s.allocCancel()

	s.logger.Info("Browser service closed")
	return nil
}
