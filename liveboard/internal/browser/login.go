package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
)

// Selector chains for the login form, most specific first. The board's
// default theme matches the first entry of each chain; the rest cover the
// other themes seen in the wild.
var (
	emailSelectors = []string{
		`input[name="id"]`,
		`input[name="email"]`,
		`#id`,
		`#email`,
		`input[type="email"]`,
	}
	passwordSelectors = []string{
		`input[name="passwd"]`,
		`input[name="password"]`,
		`#passwd`,
		`#password`,
		`input[type="password"]`,
	}
	submitSelectors = []string{
		`input[type="submit"].btn`,
		`input[type="submit"]`,
		`button[type="submit"]`,
		`button.btn-primary`,
		`button.login`,
	}
)

// findBySelectors tries each selector in order with a short wait and
// returns the first element found.
func findBySelectors(page *rod.Page, selectors []string) (*rod.Element, error) {
	for _, sel := range selectors {
		el, err := page.Timeout(2 * time.Second).Element(sel)
		if err == nil && el != nil {
			return el, nil
		}
	}
	return nil, fmt.Errorf("browser: no element for %v", selectors)
}

// Login navigates to the board's entry URL and submits the credential
// form. It reports success heuristically: after submit, the page either
// left the login URL or landed on a listing view.
func (s *Session) Login(ctx context.Context, entryURL, email, password string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.page == nil {
		return false, fmt.Errorf("browser: session not started")
	}
	log := s.cfg.Logger

	if err := s.navigateLocked(ctx, entryURL); err != nil {
		return false, err
	}

	emailEl, err := findBySelectors(s.page, emailSelectors)
	if err != nil {
		return false, fmt.Errorf("browser: email field: %w", err)
	}
	if err := fillInput(emailEl, email); err != nil {
		return false, fmt.Errorf("browser: fill email: %w", err)
	}

	passEl, err := findBySelectors(s.page, passwordSelectors)
	if err != nil {
		return false, fmt.Errorf("browser: password field: %w", err)
	}
	if err := fillInput(passEl, password); err != nil {
		return false, fmt.Errorf("browser: fill password: %w", err)
	}

	// Submit: click the button, Enter on the password field as fallback
	// for themes that re-render the button out from under us.
	if submitEl, err := findBySelectors(s.page, submitSelectors); err == nil {
		if err := submitEl.Click(proto.InputMouseButtonLeft, 1); err != nil {
			log.Warn("browser: submit click failed, sending Enter", "error", err)
			if err := passEl.Type(input.Enter); err != nil {
				return false, fmt.Errorf("browser: submit: %w", err)
			}
		}
	} else {
		if err := passEl.Type(input.Enter); err != nil {
			return false, fmt.Errorf("browser: submit: %w", err)
		}
	}

	// The login roundtrip is slower than a regular navigation.
	s.settle(ctx)
	s.settle(ctx)

	info, err := s.page.Context(ctx).Info()
	if err != nil {
		return false, fmt.Errorf("browser: page info after login: %w", err)
	}
	current := strings.ToLower(info.URL)
	ok := !strings.Contains(current, "login") || strings.Contains(current, "post_list")
	log.Info("browser: login submitted", "url", info.URL, "ok", ok)
	return ok, nil
}

// fillInput types value into an input, replacing any prefilled text.
func fillInput(el *rod.Element, value string) error {
	// Select-all first so Input replaces instead of appending.
	el.SelectAllText()
	return el.Input(value)
}
