// Package render drives the Europass CV editor in a headless browser to turn
// an exported XML document into a PDF. The guest editor needs no login: the
// session uploads the XML, switches to the requested template, names the
// document, and captures the download.
package render

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/chromedp"
)

// DefaultEditorURL is the guest CV editor entry point.
const DefaultEditorURL = "https://europa.eu/europass/eportfolio/screen/cv-editor?lang=fr"

// DefaultTimeout bounds a whole editor session.
const DefaultTimeout = 90 * time.Second

// retryIntervals paces repeated download clicks while the editor's frontend
// finishes attaching its handlers.
var retryIntervals = []time.Duration{
	200 * time.Millisecond,
	300 * time.Millisecond,
	500 * time.Millisecond,
	1 * time.Second,
	2 * time.Second,
}

const (
	fileInputSelector      = `input[type="file"]`
	betaBuilderButton      = `//button[contains(., "Try the new CV builder")]`
	continueButton         = `//button[contains(., "Continuer")]`
	dismissDialogButton    = `//button[contains(., "OK")]`
	templateSelectSelector = `select.ecl-select`
	nameInputSelector      = `//input[@aria-label="Nom" or @name="cv-name"]`
	downloadButtonSelector = `button[aria-label="Télécharger"]`
)

// Renderer holds the editor session configuration. The zero value uses the
// public editor with default timeout.
type Renderer struct {
	EditorURL string
	Timeout   time.Duration
	Verbose   bool
}

func (r *Renderer) editorURL() string {
	if r.EditorURL != "" {
		return r.EditorURL
	}
	return DefaultEditorURL
}

func (r *Renderer) timeout() time.Duration {
	if r.Timeout > 0 {
		return r.Timeout
	}
	return DefaultTimeout
}

func (r *Renderer) logf(format string, args ...any) {
	if r.Verbose {
		log.Printf("[RENDER] "+format, args...)
	}
}

// Render uploads the XML document to the editor, applies the template, and
// writes the resulting PDF to outputPath. The document name shown in the PDF
// header is the output file's base name.
func (r *Renderer) Render(ctx context.Context, xmlContent string, template Template, outputPath string) error {
	template, err := ValidateTemplate(string(template))
	if err != nil {
		return err
	}

	xmlPath, cleanup, err := writeUploadFile(xmlContent)
	if err != nil {
		return err
	}
	defer cleanup()

	downloadDir, err := os.MkdirTemp("", "europass-pdf-*")
	if err != nil {
		return &RenderError{Message: "failed to create download directory", Cause: err}
	}
	defer func() { _ = os.RemoveAll(downloadDir) }()

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("lang", "fr-FR"),
			chromedp.WindowSize(1920, 1080),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, r.timeout())
	defer cancel()

	downloaded := make(chan string, 1)
	chromedp.ListenTarget(browserCtx, func(ev any) {
		if progress, ok := ev.(*browser.EventDownloadProgress); ok {
			if progress.State == browser.DownloadProgressStateCompleted {
				select {
				case downloaded <- progress.GUID:
				default:
				}
			}
		}
	})

	docName := strings.TrimSuffix(filepath.Base(outputPath), filepath.Ext(outputPath))

	r.logf("opening editor for template %s", template)
	err = chromedp.Run(browserCtx,
		browser.SetDownloadBehavior(browser.SetDownloadBehaviorBehaviorAllowAndName).
			WithDownloadPath(downloadDir).
			WithEventsEnabled(true),
		chromedp.Navigate(r.editorURL()),
		chromedp.WaitReady("body"),
		dismissIfPresent(continueButton),
		chromedp.SetUploadFiles(fileInputSelector, []string{xmlPath}, chromedp.ByQuery),
		chromedp.WaitVisible(betaBuilderButton, chromedp.BySearch),
		chromedp.Click(betaBuilderButton, chromedp.BySearch),
		dismissIfPresent(continueButton),
		dismissIfPresent(dismissDialogButton),
		chromedp.WaitVisible(templateSelectSelector, chromedp.ByQuery),
		chromedp.SetValue(templateSelectSelector, string(template), chromedp.ByQuery),
		chromedp.WaitVisible(nameInputSelector, chromedp.BySearch),
		chromedp.SetValue(nameInputSelector, docName, chromedp.BySearch),
		chromedp.WaitVisible(downloadButtonSelector, chromedp.ByQuery),
	)
	if err != nil {
		return &RenderError{Message: "editor session failed", Cause: err}
	}

	guid, err := r.downloadWithRetry(browserCtx, downloaded)
	if err != nil {
		return err
	}

	return moveDownload(filepath.Join(downloadDir, guid), outputPath)
}

// downloadWithRetry clicks the download button and waits for the completion
// event, re-clicking on the ladder intervals when the first clicks land
// before the frontend is ready.
func (r *Renderer) downloadWithRetry(ctx context.Context, downloaded <-chan string) (string, error) {
	attempts := len(retryIntervals)
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := chromedp.Run(ctx, chromedp.Click(downloadButtonSelector, chromedp.ByQuery)); err != nil {
			return "", &RenderError{Message: "download click failed", Cause: err}
		}

		select {
		case guid := <-downloaded:
			if attempt > 1 {
				r.logf("download succeeded on attempt %d", attempt)
			}
			return guid, nil
		case <-time.After(5 * time.Second):
			if attempt < attempts {
				r.logf("attempt %d: no download, retrying in %s", attempt, retryIntervals[attempt-1])
				select {
				case <-time.After(retryIntervals[attempt-1]):
				case <-ctx.Done():
					return "", &RenderError{Message: "session timed out", Cause: ctx.Err()}
				}
			}
		case <-ctx.Done():
			return "", &RenderError{Message: "session timed out", Cause: ctx.Err()}
		}
	}
	return "", &RenderError{Message: fmt.Sprintf("no download after %d attempts", attempts)}
}

// dismissIfPresent clicks a dialog button when it shows up within a short
// window and is a no-op otherwise.
func dismissIfPresent(selector string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		short, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		_ = chromedp.Run(short,
			chromedp.WaitVisible(selector, chromedp.BySearch),
			chromedp.Click(selector, chromedp.BySearch),
		)
		return nil
	})
}

func writeUploadFile(xmlContent string) (string, func(), error) {
	f, err := os.CreateTemp("", "europass-*.xml")
	if err != nil {
		return "", nil, &RenderError{Message: "failed to stage upload file", Cause: err}
	}
	path := f.Name()
	cleanup := func() { _ = os.Remove(path) }

	if _, err := f.WriteString(xmlContent); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, &RenderError{Message: "failed to write upload file", Cause: err}
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, &RenderError{Message: "failed to write upload file", Cause: err}
	}
	return path, cleanup, nil
}

func moveDownload(from, to string) error {
	info, err := os.Stat(from)
	if err != nil {
		return &RenderError{Message: "downloaded file missing", Cause: err}
	}
	if info.Size() == 0 {
		return &RenderError{Message: "downloaded file is empty"}
	}

	if err := os.MkdirAll(filepath.Dir(to), 0755); err != nil {
		return &RenderError{Message: "failed to create output directory", Cause: err}
	}
	if err := os.Rename(from, to); err != nil {
		// Cross-device moves need a copy.
		data, readErr := os.ReadFile(from)
		if readErr != nil {
			return &RenderError{Message: "failed to move download", Cause: err}
		}
		if writeErr := os.WriteFile(to, data, 0644); writeErr != nil {
			return &RenderError{Message: "failed to move download", Cause: writeErr}
		}
	}
	return nil
}
