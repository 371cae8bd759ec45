package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/akolanti/propdocs/internal/config"
	"github.com/akolanti/propdocs/internal/extraction"
)

type Config struct {
	Tesseract string
	Pdftoppm  string
	Lang      string
	DPI       int
	// MaxPages caps how many rasterised PDF pages are recognised, 0 = no cap.
	MaxPages int
}

// Service shells out to tesseract. PDFs are rasterised with pdftoppm first.
type Service struct {
	cfg    Config
	runner Runner
}

func NewService(cfg Config) *Service {
	return newService(cfg, execRunner{})
}

func newService(cfg Config, runner Runner) *Service {
	if cfg.Tesseract == "" {
		cfg.Tesseract = config.TesseractBinary
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = config.PdftoppmBinary
	}
	if cfg.Lang == "" {
		cfg.Lang = config.TesseractLang
	}
	if cfg.DPI <= 0 {
		cfg.DPI = config.OCRDPI
	}
	return &Service{cfg: cfg, runner: runner}
}

var reBoxNoise = regexp.MustCompile(`[|¦]{2,}`)

func (s *Service) Recognize(ctx context.Context, data []byte, mimeType string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "propdocs-ocr-*")
	if err != nil {
		return "", fmt.Errorf("ocr temp dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			logger.Warn("failed to remove ocr temp dir", "dir", tmpDir, "error", err)
		}
	}()

	in := filepath.Join(tmpDir, "input"+extensionFor(mimeType))
	if err := os.WriteFile(in, data, 0o600); err != nil {
		return "", fmt.Errorf("ocr spool: %w", err)
	}

	if mimeType == "application/pdf" {
		return s.recognizePDF(ctx, in, tmpDir)
	}
	return s.tesseract(ctx, in)
}

func (s *Service) recognizePDF(ctx context.Context, path, tmpDir string) (string, error) {
	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	_, errb, err := s.runner.Run(ctx, s.cfg.Pdftoppm, "-r", strconv.Itoa(s.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return "", fmt.Errorf("%w: pdftoppm: %v (%s)", extraction.ErrServiceUnavailable, err, truncate(string(errb), 512))
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if s.cfg.MaxPages > 0 && len(matches) > s.cfg.MaxPages {
		matches = matches[:s.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: pdftoppm produced no images", extraction.ErrServiceUnavailable)
	}

	var b strings.Builder
	for _, img := range matches {
		txt, err := s.tesseract(ctx, img)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			logger.Warn("page ocr failed", "image", filepath.Base(img), "error", err)
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(txt)
	}
	return b.String(), nil
}

func (s *Service) tesseract(ctx context.Context, path string) (string, error) {
	// tesseract <file> stdout -l <lang>
	out, errb, err := s.runner.Run(ctx, s.cfg.Tesseract, path, "stdout", "-l", s.cfg.Lang)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: tesseract: %v (%s)", extraction.ErrServiceUnavailable, err, truncate(string(errb), 512))
	}
	return strings.TrimSpace(reBoxNoise.ReplaceAllString(string(out), "")), nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "application/pdf":
		return ".pdf"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}
