package browser

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Opener prepares a command that opens a URL in the user's browser using
// $BROWSER, falling back to the platform opener. It does NOT start the
// command; callers decide how to run it.
type Opener struct {
	goos string
}

// NewOpener creates an Opener for the running platform.
func NewOpener() *Opener {
	return &Opener{goos: runtime.GOOS}
}

// Cmd returns the command for rawURL. Only absolute http(s) URLs are accepted.
func (o *Opener) Cmd(rawURL string) (*exec.Cmd, error) {
	if !IsSafeURL(rawURL) {
		return nil, fmt.Errorf("refusing to open %q", rawURL)
	}

	if b := strings.TrimSpace(os.Getenv("BROWSER")); b != "" {
		return exec.Command(b, rawURL), nil
	}

	switch o.goos {
	case "darwin":
		return exec.Command("open", rawURL), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL), nil
	default:
		return exec.Command("xdg-open", rawURL), nil
	}
}

// IsSafeURL reports whether raw is an absolute http or https URL.
func IsSafeURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return false
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		return true
	default:
		return false
	}
}
