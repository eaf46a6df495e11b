package ui

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"
)

var errNoClipboard = errors.New("no clipboard available (install xclip, xsel, or wl-clipboard)")

// Swapped in tests
var (
	writeClipboard       = clipboard.WriteAll
	clipboardUnsupported = func() bool { return clipboard.Unsupported }
	startCommand         = func(argv []string) error { return exec.Command(argv[0], argv[1:]...).Start() }
)

// copyToClipboard writes text to the system clipboard
func copyToClipboard(text string) error {
	if text == "" {
		return fmt.Errorf("cannot copy empty text to clipboard")
	}
	if clipboardUnsupported() {
		return errNoClipboard
	}

	if err := writeClipboard(text); err != nil {
		return fmt.Errorf("failed to write to clipboard: %w", err)
	}
	return nil
}

// browserCommand picks the URL opener for goos
func browserCommand(goos, url string) ([]string, error) {
	switch goos {
	case "darwin":
		return []string{"open", url}, nil
	case "linux":
		return []string{"xdg-open", url}, nil
	case "windows":
		// cmd /c start would hand & and | in the url to the shell
		return []string{"rundll32", "url.dll,FileProtocolHandler", url}, nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

// openInBrowser opens url without waiting for the browser
func openInBrowser(url string) error {
	if url == "" {
		return fmt.Errorf("cannot open empty URL")
	}

	argv, err := browserCommand(runtime.GOOS, url)
	if err != nil {
		return err
	}

	if err := startCommand(argv); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
