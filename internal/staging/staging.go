package staging

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/leakgate/internal/logging"
)

// sniffLen is how much of each blob is inspected to tell text from binary.
const sniffLen = 3072

// Provider lists staged paths and opens their staged contents. Paths use
// forward slashes and are relative to the repository root.
type Provider interface {
	ListStaged(ctx context.Context) ([]string, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// Result summarizes a materialization.
type Result struct {
	Written []string // staged paths copied into the directory
	Skipped []string // staged paths left out as binary
}

// Materialize writes every staged text blob from p under dir, preserving
// relative paths. Binary blobs are skipped. Any unsafe path aborts the
// whole run with ErrUnsafePath, before anything is written.
func Materialize(ctx context.Context, p Provider, dir string) (Result, error) {
	log := logging.FromContext(ctx)

	paths, err := p.ListStaged(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("listing staged files: %w", err)
	}
	for _, rel := range paths {
		if err := CheckPath(rel); err != nil {
			return Result{}, err
		}
	}

	var res Result
	for _, rel := range paths {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		written, err := copyBlob(ctx, p, dir, rel)
		if err != nil {
			return res, err
		}
		if written {
			res.Written = append(res.Written, rel)
		} else {
			log.Debug(ctx, "skipping binary staged file", zap.String("path", rel))
			res.Skipped = append(res.Skipped, rel)
		}
	}
	log.Debug(ctx, "staged files materialized",
		zap.Int("written", len(res.Written)), zap.Int("skipped", len(res.Skipped)))
	return res, nil
}

// CheckPath rejects staged paths that could land outside the staging root.
func CheckPath(rel string) error {
	switch {
	case rel == "":
		return fmt.Errorf("%w: empty path", ErrUnsafePath)
	case strings.IndexByte(rel, 0) >= 0:
		return fmt.Errorf("%w: %q contains NUL", ErrUnsafePath, rel)
	case path.IsAbs(rel) || filepath.IsAbs(rel) || filepath.VolumeName(rel) != "":
		return fmt.Errorf("%w: %q is absolute", ErrUnsafePath, rel)
	}
	clean := path.Clean(strings.ReplaceAll(rel, `\`, "/"))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("%w: %q escapes the staging root", ErrUnsafePath, rel)
	}
	return nil
}

func copyBlob(ctx context.Context, p Provider, dir, rel string) (bool, error) {
	rc, err := p.Open(ctx, rel)
	if err != nil {
		return false, fmt.Errorf("reading staged %s: %w", rel, err)
	}
	defer rc.Close()

	br := bufio.NewReaderSize(rc, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return false, fmt.Errorf("reading staged %s: %w", rel, err)
	}
	if !isText(head) {
		return false, nil
	}

	target, err := securejoin.SecureJoin(dir, filepath.FromSlash(rel))
	if err != nil {
		return false, fmt.Errorf("%w: %q: %v", ErrUnsafePath, rel, err)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o700); err != nil {
		return false, fmt.Errorf("creating directory for %s: %w", rel, err)
	}
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return false, fmt.Errorf("creating %s: %w", rel, err)
	}
	if _, err := io.Copy(f, br); err != nil {
		f.Close()
		return false, fmt.Errorf("writing %s: %w", rel, err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("writing %s: %w", rel, err)
	}
	return true, nil
}

// isText reports whether a blob's leading bytes look like text. Like git,
// a blob is binary only when they contain a NUL byte. mimetype can still
// claim NUL-bearing text such as UTF-16 with a BOM. Empty blobs count as
// text.
func isText(head []byte) bool {
	if bytes.IndexByte(head, 0) < 0 {
		return true
	}
	for m := mimetype.Detect(head); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}
