package installer

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"appinst/pkg/config"
	"appinst/pkg/display"
	"appinst/pkg/hash"
)

func testConfig(t *testing.T) config.ReadOnly {
	tmp := t.TempDir()
	cfg := config.Init()
	w := cfg.Checkout()
	w.SetCacheDir(filepath.Join(tmp, "cache"))
	w.SetConfigDir(filepath.Join(tmp, "config"))
	w.SetStateDir(filepath.Join(tmp, "state"))
	cfg.Freeze()
	return cfg
}

func packageArchive(t *testing.T) []byte {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)

	content := []byte("hello from package")
	hdr := &tar.Header{
		Name: "testpkg/hello.txt",
		Mode: 0644,
		Size: int64(len(content)),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		t.Fatal(err)
	}
	tw.Write(content)
	tw.Close()
	gw.Close()
	return buf.Bytes()
}

func serve(t *testing.T, body []byte) *httptest.Server {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func newReporter(input string) (*display.Reporter, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return display.New(out, strings.NewReader(input)), out
}

func TestInstall(t *testing.T) {
	body := packageArchive(t)
	ts := serve(t, body)
	cfg := testConfig(t)

	plan, err := NewPlan(cfg, Request{
		URL:    ts.URL + "/testpkg.tar.gz",
		SHA256: hash.Compute(body).String(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if plan.Name != "testpkg" {
		t.Errorf("Expected name testpkg, got %q", plan.Name)
	}

	rep, out := newReporter("")
	if err := Install(context.Background(), plan, rep); err != nil {
		t.Fatalf("Install failed: %v\n%s", err, out.String())
	}

	if _, err := os.Stat(plan.DownloadPath); err != nil {
		t.Errorf("Download file missing: %v", err)
	}
	content, err := os.ReadFile(filepath.Join(plan.InstallPath, "testpkg", "hello.txt"))
	if err != nil {
		t.Fatalf("Extracted file missing: %v", err)
	}
	if string(content) != "hello from package" {
		t.Errorf("Content mismatch: %q", string(content))
	}

	for _, want := range []string{"Downloading", "Successfully verified installer hash", "Extracting archive", "Successfully installed testpkg"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Expected %q in output:\n%s", want, out.String())
		}
	}
}

func TestInstallSkipsInstalled(t *testing.T) {
	cfg := testConfig(t)
	plan, err := NewPlan(cfg, Request{URL: "http://127.0.0.1:1/tool.zip"})
	if err != nil {
		t.Fatal(err)
	}
	os.MkdirAll(plan.InstallPath, 0755)

	rep, _ := newReporter("")
	if err := Install(context.Background(), plan, rep); err != nil {
		t.Errorf("Expected an installed package to be skipped, got %v", err)
	}
}

func TestHashMismatch(t *testing.T) {
	body := []byte("not what you expected")
	wrong := hash.ComputeString("something else").String()

	tests := []struct {
		name    string
		input   string
		force   bool
		wantErr error
		prompts bool
	}{
		{"declined", "n\n", false, ErrHashMismatch, true},
		{"accepted", "y\n", false, nil, true},
		{"forced", "", true, nil, false},
		{"no answer", "", false, display.ErrPromptInput, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := serve(t, body)
			plan, err := NewPlan(testConfig(t), Request{
				URL:    ts.URL + "/tool.bin",
				SHA256: wrong,
				Force:  tt.force,
			})
			if err != nil {
				t.Fatal(err)
			}

			rep, out := newReporter(tt.input)
			err = Install(context.Background(), plan, rep)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected %v, got %v", tt.wantErr, err)
			}

			if !strings.Contains(out.String(), "does not match") {
				t.Errorf("Expected the mismatch to be reported:\n%s", out.String())
			}
			if got := strings.Contains(out.String(), "continue anyway"); got != tt.prompts {
				t.Errorf("Prompted = %v, expected %v:\n%s", got, tt.prompts, out.String())
			}

			_, statErr := os.Stat(plan.DownloadPath)
			if errors.Is(tt.wantErr, ErrHashMismatch) && statErr == nil {
				t.Error("A rejected download should be removed")
			}
			if tt.wantErr == nil && statErr != nil {
				t.Errorf("An accepted download should be kept: %v", statErr)
			}
		})
	}
}

// cancelOnProgress requests cancellation the first time progress arrives,
// the way a signal handler would.
type cancelOnProgress struct {
	*display.Reporter
	once sync.Once
}

func (c *cancelOnProgress) OnProgress(current, maximum uint64, typ display.ProgressType) {
	c.Reporter.OnProgress(current, maximum, typ)
	c.once.Do(func() { c.CancelInProgressTask(false) })
}

func TestInstallCancelled(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "100000")
		w.Write([]byte("partial"))
		w.(http.Flusher).Flush()
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	plan, err := NewPlan(testConfig(t), Request{URL: ts.URL + "/slow.tar.gz"})
	if err != nil {
		t.Fatal(err)
	}

	base, _ := newReporter("")
	rep := &cancelOnProgress{Reporter: base}
	err = Install(context.Background(), plan, rep)
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("Expected a cancelled install, got %v", err)
	}
	if _, err := os.Stat(plan.DownloadPath); !os.IsNotExist(err) {
		t.Error("A cancelled download must not be left in place")
	}
}

func TestNewPlanPlainFile(t *testing.T) {
	cfg := testConfig(t)
	plan, err := NewPlan(cfg, Request{URL: "https://example.com/dl/setup.exe", Name: "setup"})
	if err != nil {
		t.Fatal(err)
	}

	if plan.DownloadPath != filepath.Join(cfg.GetDownloadDir(), "setup.exe") {
		t.Errorf("Unexpected DownloadPath %s", plan.DownloadPath)
	}
	if plan.InstallPath != "" {
		t.Errorf("A plain file has no install path, got %s", plan.InstallPath)
	}
	if plan.Expected != nil {
		t.Error("Expected no digest")
	}
}

func TestNewPlanErrors(t *testing.T) {
	cfg := testConfig(t)
	for _, req := range []Request{
		{URL: "no-scheme"},
		{URL: "https://example.com/"},
		{URL: "https://example.com/a.zip", SHA256: "xyz"},
	} {
		if _, err := NewPlan(cfg, req); err == nil {
			t.Errorf("Expected an error for %+v", req)
		}
	}
}

func TestHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data")
	os.WriteFile(path, []byte("abc"), 0644)

	sink := &countingSink{}
	details, err := HashFile(context.Background(), path, sink)
	if err != nil {
		t.Fatal(err)
	}
	if details.Hash.String() != "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad" {
		t.Errorf("Unexpected digest %s", details.Hash)
	}
	if details.Size != 3 || sink.current != 3 || sink.maximum != 3 {
		t.Errorf("Expected 3/3 bytes, got size %d and progress %d/%d", details.Size, sink.current, sink.maximum)
	}
}

type countingSink struct {
	current, maximum uint64
}

func (s *countingSink) OnProgress(current, maximum uint64, _ display.ProgressType) {
	s.current, s.maximum = current, maximum
}
