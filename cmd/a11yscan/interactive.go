package main

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// prompter asks the user for audit settings.
type prompter interface {
	// URL asks for the site to audit.
	URL() (string, error)

	// PageCount asks how many of the found pages to audit. 0 means all.
	PageCount(found int) (int, error)
}

// terminalPrompter asks on the terminal with promptui.
type terminalPrompter struct{}

var _ prompter = terminalPrompter{}

func (terminalPrompter) URL() (string, error) {
	p := promptui.Prompt{
		Label:    "URL to audit (including https://)",
		Validate: validateURL,
	}
	answer, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("url input cancelled: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

func (terminalPrompter) PageCount(found int) (int, error) {
	p := promptui.Prompt{
		Label:    fmt.Sprintf("How many of the %d pages should be audited? (0 for all)", found),
		Default:  "0",
		Validate: validatePageCount,
	}
	answer, err := p.Run()
	if err != nil {
		return 0, fmt.Errorf("page count input cancelled: %w", err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil {
		return 0, nil
	}
	return n, nil
}

// validateURL accepts absolute http and https URLs.
func validateURL(input string) error {
	s := strings.TrimSpace(input)
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return errors.New("the URL must start with http:// or https://")
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return errors.New("not a valid URL")
	}
	return nil
}

// validatePageCount accepts non-negative integers.
func validatePageCount(input string) error {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < 0 {
		return errors.New("enter a number, 0 for all pages")
	}
	return nil
}

// isTerminal reports whether f is an interactive terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// progress is the part of a progress bar the audit uses.
type progress interface {
	Add(n int) error
	Finish() error
}

type noProgress struct{}

func (noProgress) Add(int) error { return nil }
func (noProgress) Finish() error { return nil }

// newProgress returns a progress bar on w, or a no-op when disabled.
func newProgress(w io.Writer, total int, enabled bool) progress {
	if !enabled || total == 0 {
		return noProgress{}
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(18),
		progressbar.OptionSetDescription("Auditing pages"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)
}
