// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset enumerates the on-disk paper corpus:
//
//	<root>/Reference/Publishable/<CONF>/*.pdf
//	<root>/Reference/Non-Publishable/*.pdf
//	<root>/Papers/*.pdf
//
// Directory names carry the reference labels.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/paperscreen/internal/convert"
	"github.com/pdiddy/paperscreen/pkg/types"
)

const (
	referenceDir      = "Reference"
	publishableDir    = "Publishable"
	nonPublishableDir = "Non-Publishable"
	papersDir         = "Papers"
)

// ErrDatasetMissing reports a dataset root or required branch that does not
// exist.
var ErrDatasetMissing = errors.New("dataset directory missing")

// Layout resolves the standard directories under a dataset root.
type Layout struct {
	Root string
}

func (l Layout) Reference() string      { return filepath.Join(l.Root, referenceDir) }
func (l Layout) Publishable() string    { return filepath.Join(l.Root, referenceDir, publishableDir) }
func (l Layout) NonPublishable() string { return filepath.Join(l.Root, referenceDir, nonPublishableDir) }
func (l Layout) Papers() string         { return filepath.Join(l.Root, papersDir) }

// Conference returns the directory of one venue.
func (l Layout) Conference(name string) string {
	return filepath.Join(l.Publishable(), name)
}

// Init creates the dataset skeleton with one directory per conference.
// Existing directories and files are left alone. Each created directory is
// reported to w.
func Init(root string, conferences []string, w io.Writer) error {
	l := Layout{Root: root}
	dirs := []string{l.NonPublishable(), l.Papers()}
	for _, c := range conferences {
		if c == "" || strings.ContainsAny(c, `/\`) {
			return fmt.Errorf("invalid conference name %q", c)
		}
		dirs = append(dirs, l.Conference(c))
	}

	for _, d := range dirs {
		if _, err := os.Stat(d); err == nil {
			continue
		}
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", d, err)
		}
		fmt.Fprintf(w, "created %s\n", d)
	}
	return nil
}

// Check verifies that the root and its required branches exist.
func Check(root string) error {
	l := Layout{Root: root}
	for _, d := range []string{l.Root, l.Publishable(), l.NonPublishable(), l.Papers()} {
		info, err := os.Stat(d)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("%w: %s", ErrDatasetMissing, d)
		}
	}
	return nil
}

// Enumerate lists every paper in the dataset, references first, in
// lexical path order. Reference labels come from the directory names. Text
// is left empty; Load fills it.
func Enumerate(root string) ([]types.Input, error) {
	if err := Check(root); err != nil {
		return nil, err
	}
	l := Layout{Root: root}

	var inputs []types.Input
	confs, err := os.ReadDir(l.Publishable())
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", l.Publishable(), err)
	}
	for _, c := range confs {
		if !c.IsDir() {
			continue
		}
		paths, err := papers(l.Conference(c.Name()))
		if err != nil {
			return nil, err
		}
		for _, p := range paths {
			inputs = append(inputs, types.Input{
				Path:        p,
				IsReference: true,
				Label:       &types.Label{Publishable: true, Conference: c.Name()},
			})
		}
	}

	rejected, err := papers(l.NonPublishable())
	if err != nil {
		return nil, err
	}
	for _, p := range rejected {
		inputs = append(inputs, types.Input{
			Path:        p,
			IsReference: true,
			Label:       &types.Label{Publishable: false, Conference: types.NoConference},
		})
	}

	queries, err := papers(l.Papers())
	if err != nil {
		return nil, err
	}
	for _, p := range queries {
		inputs = append(inputs, types.Input{Path: p})
	}
	return inputs, nil
}

// papers walks dir for paper files. PDFs are listed; a .txt file is listed
// only when no PDF of the same name exists, since it is otherwise that
// PDF's side-car.
func papers(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".pdf":
			out = append(out, path)
		case ".txt":
			base := strings.TrimSuffix(path, filepath.Ext(path))
			if !exists(base+".pdf") && !exists(base+".PDF") {
				out = append(out, path)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	sort.Strings(out)
	return out, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Load fills the text of every input with c, using up to workers
// goroutines. Files that yield no text keep empty text and are counted as
// failures; the pipeline reports them as extraction failures.
func Load(ctx context.Context, c convert.Converter, inputs []types.Input, workers int, w io.Writer) ([]types.Input, convert.BatchResult) {
	if workers < 1 {
		workers = 1
	}
	cached, _ := c.(*convert.Cached)

	out := make([]types.Input, len(inputs))
	copy(out, inputs)

	var (
		mu     sync.Mutex
		result convert.BatchResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range out {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			hit := false
			if cached != nil {
				_, hit = cached.Lookup(out[i].Path)
			}

			var log strings.Builder
			out[i].Text = convert.Extract(c, out[i].Path, &log)

			mu.Lock()
			defer mu.Unlock()
			io.WriteString(w, log.String())
			switch {
			case out[i].Text == "":
				result.Failed++
			case hit:
				result.Cached++
			default:
				result.Extracted++
			}
			return nil
		})
	}
	_ = g.Wait()

	fmt.Fprintf(w, "\nExtraction summary: %d extracted, %d cached, %d failed (total: %d)\n",
		result.Extracted, result.Cached, result.Failed, result.Total())
	return out, result
}
