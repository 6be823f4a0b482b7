package report

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"money":   money,
	"percent": percent,
	"date": func(t time.Time) string {
		return t.Format("02-01-2006")
	},
	"inc": func(i int) int { return i + 1 },
}).ParseFS(templateFS, "templates/*.html"))

// ChromeRenderer prints HTML templates to PDF with headless Chrome.
type ChromeRenderer struct {
	execPath string
	timeout  time.Duration
}

// NewChromeRenderer creates a renderer. An empty execPath lets chromedp
// find Chrome on the PATH.
func NewChromeRenderer(execPath string, timeout time.Duration) (*ChromeRenderer, error) {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ChromeRenderer{execPath: execPath, timeout: timeout}, nil
}

func (r *ChromeRenderer) Name() string { return "chrome" }

func (r *ChromeRenderer) Accession(ctx context.Context, rep *AccessionReport) ([]byte, error) {
	html, err := renderHTML("accession.html", rep)
	if err != nil {
		return nil, err
	}
	return r.print(ctx, html, true)
}

func (r *ChromeRenderer) StockInvoice(ctx context.Context, inv *StockInvoice) ([]byte, error) {
	html, err := renderHTML("invoice.html", inv)
	if err != nil {
		return nil, err
	}
	return r.print(ctx, html, false)
}

func renderHTML(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

func (r *ChromeRenderer) print(ctx context.Context, html string, landscape bool) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := chromedp.DefaultExecAllocatorOptions[:]
	if r.execPath != "" {
		opts = append(opts, chromedp.ExecPath(r.execPath))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var pdfBuf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithLandscape(landscape).
				WithPaperWidth(8.27).  // A4 width
				WithPaperHeight(11.7). // A4 height
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to print pdf: %w", err)
	}
	return pdfBuf, nil
}
