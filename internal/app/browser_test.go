//go:build e2e

package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floorcheck/internal/shared/testutil"
)

func TestDashboardBrowser_LoginAndSummary(t *testing.T) {
	cfg := testConfig(t)
	cfg.Security.EnableCORS = false
	testutil.WriteChecklist(t, filepath.Join(cfg.Paths.BaseDir, "datasets"), testutil.SampleRows)
	_, srv := newTestApp(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	t.Run("login form is shown first", func(t *testing.T) {
		var title string
		err := chromedp.Run(browserCtx,
			chromedp.Navigate(srv.URL),
			chromedp.WaitVisible("#login", chromedp.ByID),
			chromedp.Title(&title),
		)
		require.NoError(t, err)
		assert.Contains(t, title, "Checklist de Andares")
	})

	t.Run("wrong password shows the error", func(t *testing.T) {
		var message string
		err := chromedp.Run(browserCtx,
			chromedp.SendKeys("#username", "admin", chromedp.ByID),
			chromedp.SendKeys("#password", "wrong", chromedp.ByID),
			chromedp.Click("#login-btn", chromedp.ByID),
			chromedp.Poll(`document.getElementById("login-error").textContent.length > 0`, nil),
			chromedp.Text("#login-error", &message, chromedp.ByID),
		)
		require.NoError(t, err)
		assert.NotEmpty(t, message)
	})

	t.Run("admin sees the KPIs and the recipient list", func(t *testing.T) {
		var kpis, list string
		err := chromedp.Run(browserCtx,
			chromedp.SetValue("#password", "", chromedp.ByID),
			chromedp.SendKeys("#password", "adm-pass", chromedp.ByID),
			chromedp.Click("#login-btn", chromedp.ByID),
			chromedp.WaitVisible("#app", chromedp.ByID),
			chromedp.Poll(`document.getElementById("kpis").textContent.indexOf("FloorA") >= 0`, nil),
			chromedp.Text("#kpis", &kpis, chromedp.ByID),
			chromedp.WaitVisible("#recipients-admin", chromedp.ByID),
			chromedp.Text("#recipients", &list, chromedp.ByID),
		)
		require.NoError(t, err)
		assert.Contains(t, kpis, "FloorA")
		assert.Contains(t, list, "exemplo@destinatario.com")
	})
}
