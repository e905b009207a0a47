package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/sfnt"

	"loadplan/internal/config"
	log "loadplan/internal/infra/logging"
)

// Assets holds the font and logo bytes shared by every render. It is filled
// once at startup and only read afterwards.
type Assets struct {
	Regular []byte
	Bold    []byte

	Logo     []byte
	LogoType string
}

// LoadAssets reads the configured files. Unreadable or invalid fonts are an
// error; a missing or broken logo is logged and left out.
func LoadAssets(cfg config.AssetsConfig) (*Assets, error) {
	regular, err := readFont(cfg.FontRegular)
	if err != nil {
		return nil, err
	}
	bold, err := readFont(cfg.FontBold)
	if err != nil {
		return nil, err
	}

	a := &Assets{Regular: regular, Bold: bold}
	if cfg.Logo == "" {
		return a, nil
	}

	logo, err := os.ReadFile(cfg.Logo)
	if err != nil {
		log.Warn("Logo not available, rendering without it", "path", cfg.Logo, "error", err)
		return a, nil
	}
	if err := a.SetLogo(logo, imageType(cfg.Logo)); err != nil {
		log.Warn("Logo rejected, rendering without it", "path", cfg.Logo, "error", err)
	}
	return a, nil
}

// NewAssets validates in-memory fonts.
func NewAssets(regular, bold []byte) (*Assets, error) {
	if err := checkFont(regular); err != nil {
		return nil, fmt.Errorf("regular font: %w", err)
	}
	if err := checkFont(bold); err != nil {
		return nil, fmt.Errorf("bold font: %w", err)
	}
	return &Assets{Regular: regular, Bold: bold}, nil
}

// SetLogo installs a logo after checking that the PDF writer can decode it.
// On error the previous logo is kept.
func (a *Assets) SetLogo(data []byte, imgType string) error {
	switch imgType {
	case "png", "jpg", "jpeg", "gif":
	default:
		return fmt.Errorf("unsupported image type %q", imgType)
	}
	probe := fpdf.New("P", "mm", "A4", "")
	probe.RegisterImageOptionsReader("logo", fpdf.ImageOptions{ImageType: imgType}, bytes.NewReader(data))
	if err := probe.Error(); err != nil {
		return err
	}
	a.Logo, a.LogoType = data, imgType
	return nil
}

func readFont(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	if err := checkFont(data); err != nil {
		return nil, fmt.Errorf("font %s: %w", path, err)
	}
	return data, nil
}

func checkFont(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty font data")
	}
	if _, err := sfnt.Parse(data); err != nil {
		return err
	}
	return nil
}

func imageType(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}
