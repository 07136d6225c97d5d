package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/kinerja-cli/internal/tabular"
)

// readInput returns the text of path. "-" reads stdin; .xlsx files are
// flattened to the tab-delimited shape of a spreadsheet copy.
func readInput(path, sheet string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", eris.Wrap(err, "read stdin")
		}
		return string(data), nil
	}

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		rows, err := tabular.ReadXLSX(path, tabular.XLSXOptions{SheetName: sheet})
		if err != nil {
			return "", eris.Wrapf(err, "read %s", path)
		}
		return tabular.RowsToText(rows), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", eris.Wrapf(err, "read %s", path)
	}
	return string(data), nil
}

// readInputs reads every path concurrently, keeping the order of paths.
func readInputs(ctx context.Context, paths []string, sheet string, limit int) ([]string, error) {
	texts := make([]string, len(paths))

	g, _ := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, p := range paths {
		g.Go(func() error {
			text, err := readInput(p, sheet)
			if err != nil {
				return err
			}
			texts[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return texts, nil
}
