package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/credited/internal/classify"
	"github.com/cleared-dev/credited/internal/config"
	"github.com/cleared-dev/credited/internal/extract"
	"github.com/cleared-dev/credited/internal/ledger"
	"github.com/cleared-dev/credited/internal/ocr"
	"github.com/cleared-dev/credited/internal/store"
)

// app is the state shared by all subcommands once flags are parsed.
type app struct {
	configFlag   string
	logLevelFlag string

	configPath string
	root       string // directory holding the config file and import/
	cfg        *config.Config
	log        zerolog.Logger
}

// openService wires the ledger Service to the configured store. Callers
// must close the returned store.
func (a *app) openService() (*ledger.Service, store.Store, error) {
	brackets, err := a.cfg.TaxBrackets()
	if err != nil {
		return nil, nil, err
	}

	st, err := store.Open(a.cfg.Store.Driver, a.cfg.Store.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}

	assembler := ledger.NewAssembler(
		classify.New(a.cfg.Classifier),
		extract.New(a.cfg.Extractor, time.Now),
	)
	profile := a.cfg.Profile
	svc := ledger.NewService(st, assembler, brackets).WithDefaultProfile(&profile)
	return svc, st, nil
}

// recognizer returns the cached tesseract recognizer, or nil when the
// binary is not installed.
func (a *app) recognizer() ocr.Recognizer {
	tess := ocr.NewTesseract(a.cfg.OCR.Language)
	if !tess.Available() {
		a.log.Debug().Msg("tesseract not found, image alerts disabled")
		return nil
	}
	ttl := a.cfg.OCR.CacheTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return ocr.NewCached(tess, ttl)
}

// alertText joins args into one alert, or reads stdin when there are none
// or the only arg is "-".
func alertText(args []string, stdin io.Reader) (string, error) {
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return strings.Join(args, " "), nil
}

func closeStore(st store.Store) {
	if err := st.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing store: %v\n", err)
	}
}
