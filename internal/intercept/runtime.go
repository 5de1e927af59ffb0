package intercept

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/PolarWolf314/frontcrypt/internal/archive"
	ferrors "github.com/PolarWolf314/frontcrypt/internal/errors"
)

// State of a Runtime.
type State int

const (
	StateIdle State = iota
	StateReady
)

func (s State) String() string {
	if s == StateReady {
		return "ready"
	}
	return "idle"
}

// File is one served entry.
type File struct {
	Content []byte
	MIME    string
}

// Index maps normalized request paths to files. An Index is never mutated
// after it is installed.
type Index map[string]File

// BuildIndex parses an archive into a new Index.
func BuildIndex(buf []byte) (Index, error) {
	records, err := archive.Parse(buf)
	if err != nil {
		return nil, err
	}
	idx := make(Index, len(records))
	for _, r := range records {
		idx[r.Path] = File{Content: r.Content, MIME: DetectMIME(r.Path)}
	}
	return idx, nil
}

// Runtime answers content requests for one origin from the last archive
// loaded into it.
type Runtime struct {
	origin *url.URL

	// loadMu serializes Load so at most one rebuild is in flight.
	loadMu sync.Mutex

	mu    sync.RWMutex
	index Index
}

// New creates an Idle runtime for origin, e.g. "http://127.0.0.1:8080".
// An empty origin accepts requests for any host, which is what a
// handler mounted behind a single-host listener wants.
func New(origin string) (*Runtime, error) {
	rt := &Runtime{}
	if origin == "" {
		return rt, nil
	}
	u, err := url.Parse(origin)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid origin %q", origin)
	}
	rt.origin = &url.URL{Scheme: strings.ToLower(u.Scheme), Host: strings.ToLower(u.Host)}
	return rt, nil
}

// Load replaces the index with the files of buf and moves to Ready. On
// error the runtime keeps its previous state and index.
func (rt *Runtime) Load(buf []byte) error {
	rt.loadMu.Lock()
	defer rt.loadMu.Unlock()

	idx, err := BuildIndex(buf)
	if err != nil {
		return fmt.Errorf("loading archive: %w", err)
	}

	rt.mu.Lock()
	rt.index = idx
	rt.mu.Unlock()
	return nil
}

// State reports whether an archive is loaded.
func (rt *Runtime) State() State {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	if rt.index == nil {
		return StateIdle
	}
	return StateReady
}

// Len returns the number of files in the current index.
func (rt *Runtime) Len() int {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return len(rt.index)
}

// Paths returns the sorted paths of the current index.
func (rt *Runtime) Paths() []string {
	rt.mu.RLock()
	idx := rt.index
	rt.mu.RUnlock()

	paths := make([]string, 0, len(idx))
	for p := range idx {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Snapshot returns the current index. It is safe to read concurrently with
// later loads because indexes are replaced, not modified.
func (rt *Runtime) Snapshot() (Index, error) {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	if rt.index == nil {
		return nil, ferrors.ErrNotReady
	}
	return rt.index, nil
}

// Lookup resolves a request URL. It declines foreign origins, the Idle
// state and paths missing from the index.
func (rt *Runtime) Lookup(rawURL string) (File, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return File{}, false
	}
	return rt.lookup(u)
}

func (rt *Runtime) lookup(u *url.URL) (File, bool) {
	if !rt.sameOrigin(u) {
		return File{}, false
	}
	rt.mu.RLock()
	idx := rt.index
	rt.mu.RUnlock()
	if idx == nil {
		return File{}, false
	}
	f, ok := idx[NormalizeRequestPath(u.Path)]
	return f, ok
}

// sameOrigin compares scheme and host. Relative URLs are same-origin.
func (rt *Runtime) sameOrigin(u *url.URL) bool {
	if rt.origin == nil || u.Host == "" {
		return true
	}
	return strings.EqualFold(u.Scheme, rt.origin.Scheme) && strings.EqualFold(u.Host, rt.origin.Host)
}
