// Package installer fetches an installer, checks it against a known SHA-256
// digest and unpacks it. Every stage reports to a Reporter and the whole run
// can be cancelled through it.
package installer

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"appinst/pkg/archive"
	"appinst/pkg/config"
	"appinst/pkg/display"
	"appinst/pkg/hash"
	"appinst/pkg/resource"
)

var (
	// ErrHashMismatch is returned when the downloaded file does not match the
	// expected digest and the user declined to continue.
	ErrHashMismatch = errors.New("installer hash mismatch")
	// ErrCancelled is returned when the run was cancelled before it finished.
	ErrCancelled = errors.New("installation cancelled")
)

// Reporter is what the installer needs from the terminal.
// *display.Reporter implements it.
type Reporter interface {
	display.ProgressSink
	BeginProgress() error
	EndProgress(hideWhenDone bool) error
	SetProgressCallback(cb display.ProgressCallback)
	PromptForBoolResponse(message string, level display.Level) (bool, error)
	Info() display.Stream
	Warn() display.Stream
	Error() display.Stream
	Verbose() display.Stream
	Localizer() *resource.Localizer
}

var _ Reporter = (*display.Reporter)(nil)

// Request is what the user asked to install.
type Request struct {
	URL string
	// Name overrides the name derived from the URL.
	Name string
	// SHA256 is the expected digest in hex. Empty skips verification.
	SHA256 string
	// Force continues past a hash mismatch without asking.
	Force bool
}

// Plan contains the resolved paths for one installation.
type Plan struct {
	Name     string
	URL      string
	Expected *hash.Digest
	Force    bool

	// DownloadPath is where the downloaded file is kept.
	DownloadPath string
	// InstallPath is where an archive is unpacked. Empty when the download
	// is not an archive.
	InstallPath string
}

// NewPlan validates req and works out where its files go.
func NewPlan(cfg config.ReadOnly, req Request) (*Plan, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("invalid url %q: missing scheme", req.URL)
	}

	var expected *hash.Digest
	if req.SHA256 != "" {
		d, err := hash.Parse(req.SHA256)
		if err != nil {
			return nil, err
		}
		expected = &d
	}

	if err := os.MkdirAll(cfg.GetDownloadDir(), 0755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.GetPkgDir(), 0755); err != nil {
		return nil, err
	}

	name := req.Name
	fileName := path.Base(u.Path)
	if fileName == "" || fileName == "." || fileName == "/" {
		if name == "" {
			return nil, fmt.Errorf("cannot derive a name from %q, pass one explicitly", req.URL)
		}
		fileName = name + ".bin"
	}
	if name == "" {
		name = trimArchiveSuffix(fileName)
	}

	plan := &Plan{
		Name:         name,
		URL:          req.URL,
		Expected:     expected,
		Force:        req.Force,
		DownloadPath: filepath.Join(cfg.GetDownloadDir(), fileName),
	}
	if archive.IsSupported(fileName) {
		plan.InstallPath = filepath.Join(cfg.GetPkgDir(), name)
	}
	return plan, nil
}

func trimArchiveSuffix(fileName string) string {
	for _, ext := range archive.SupportedExtensions() {
		if trimmed, ok := strings.CutSuffix(fileName, ext); ok && trimmed != "" {
			return trimmed
		}
	}
	return fileName
}
