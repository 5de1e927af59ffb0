package archive

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	ferrors "github.com/PolarWolf314/frontcrypt/internal/errors"
)

// WriterOption configures Serialize.
type WriterOption func(*writerConfig)

type writerConfig struct {
	exclude    []string
	observer   func(Entry)
	onExcluded func(rel string)
}

// WithExclude skips every entry whose slash-separated relative path matches
// one of the doublestar patterns. Excluded directories are not descended
// into, and excluded entries are never inspected.
func WithExclude(patterns ...string) WriterOption {
	return func(c *writerConfig) {
		c.exclude = append(c.exclude, patterns...)
	}
}

// WithWalkObserver registers fn to be called for every entry written.
// The entry's Content must not be retained or modified.
func WithWalkObserver(fn func(Entry)) WriterOption {
	return func(c *writerConfig) {
		c.observer = fn
	}
}

// WithExcludeObserver registers fn to be called with the relative path of
// every entry skipped by an exclude pattern.
func WithExcludeObserver(fn func(rel string)) WriterOption {
	return func(c *writerConfig) {
		c.onExcluded = fn
	}
}

// pending is a directory entry waiting on the walk stack.
type pending struct {
	abs string
	rel string
	de  fs.DirEntry
}

// Serialize walks root and returns the archive bytes. Entries are emitted
// depth-first with children in name order. On any error no bytes are
// returned.
func Serialize(root string, opts ...WriterOption) ([]byte, error) {
	var cfg writerConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	for _, pattern := range cfg.exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("exclude pattern %q: %w", pattern, ferrors.ErrInvalidPattern)
		}
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, &ferrors.PathError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &ferrors.PathError{Path: root, Err: ferrors.ErrSourceNotDirectory}
	}

	var buf bytes.Buffer
	stack, err := cfg.children(root, "", nil)
	if err != nil {
		return nil, err
	}

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		fi, err := item.de.Info()
		if err != nil {
			return nil, &ferrors.PathError{Path: item.rel, Err: err}
		}

		switch mode := fi.Mode(); {
		case mode.IsDir():
			entry := Entry{
				Path:    item.rel + "/",
				Kind:    KindDirectory,
				Mode:    mode,
				ModTime: fi.ModTime(),
			}
			if err := cfg.emit(&buf, entry); err != nil {
				return nil, err
			}
			stack, err = cfg.children(item.abs, item.rel, stack)
			if err != nil {
				return nil, err
			}

		case mode.IsRegular():
			content, err := os.ReadFile(item.abs)
			if err != nil {
				return nil, &ferrors.PathError{Path: item.rel, Err: err}
			}
			entry := Entry{
				Path:    item.rel,
				Kind:    KindFile,
				Mode:    mode,
				ModTime: fi.ModTime(),
				Content: content,
			}
			if err := cfg.emit(&buf, entry); err != nil {
				return nil, err
			}

		default:
			return nil, &ferrors.UnsupportedEntryError{Path: item.rel, Mode: mode}
		}
	}

	buf.Write(zeroBlock[:])
	buf.Write(zeroBlock[:])
	return buf.Bytes(), nil
}

// children pushes the non-excluded entries of dir onto stack in reverse
// name order so that they pop in name order.
func (c *writerConfig) children(dir, rel string, stack []pending) ([]pending, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		name := rel
		if name == "" {
			name = dir
		}
		return nil, &ferrors.PathError{Path: name, Err: err}
	}
	for i := len(entries) - 1; i >= 0; i-- {
		de := entries[i]
		childRel := de.Name()
		if rel != "" {
			childRel = path.Join(rel, de.Name())
		}
		if c.excluded(childRel) {
			if c.onExcluded != nil {
				c.onExcluded(childRel)
			}
			continue
		}
		// The reader trims header names, so such a segment would come back renamed.
		if strings.TrimSpace(de.Name()) != de.Name() {
			return nil, fmt.Errorf("%q: %w", childRel, ferrors.ErrUnsupportedName)
		}
		stack = append(stack, pending{
			abs: filepath.Join(dir, de.Name()),
			rel: childRel,
			de:  de,
		})
	}
	return stack, nil
}

func (c *writerConfig) excluded(rel string) bool {
	for _, pattern := range c.exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (c *writerConfig) emit(buf *bytes.Buffer, e Entry) error {
	if err := appendEntry(buf, e); err != nil {
		return err
	}
	if c.observer != nil {
		c.observer(e)
	}
	return nil
}

// appendEntry writes the header block and padded content of e.
func appendEntry(buf *bytes.Buffer, e Entry) error {
	hdr, err := encodeHeader(e)
	if err != nil {
		return err
	}
	buf.Write(hdr[:])
	if e.Kind == KindDirectory || len(e.Content) == 0 {
		return nil
	}
	buf.Write(e.Content)
	if pad := paddedLen(int64(len(e.Content))) - int64(len(e.Content)); pad > 0 {
		buf.Write(zeroBlock[:pad])
	}
	return nil
}
