package workflows

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/PolarWolf314/frontcrypt/internal/audit"
	"github.com/PolarWolf314/frontcrypt/internal/bundle"
	"github.com/PolarWolf314/frontcrypt/internal/intercept"
	"github.com/PolarWolf314/frontcrypt/internal/secrets"
)

// shutdownTimeout bounds how long in-flight requests may run after cancel.
const shutdownTimeout = 5 * time.Second

// ServeOptions configures the serve workflow.
type ServeOptions struct {
	BundleDir string

	// Addr is the listen address, e.g. "127.0.0.1:8080". Port 0 picks a free port.
	Addr string

	// Unlock decrypts the bundle up front and answers from the archive,
	// the way the installed service worker would.
	Unlock   bool
	Password secrets.PasswordOptions

	Audit bool

	// OnListening is called with the bound address once requests are accepted.
	OnListening func(addr string)
}

// Serve hosts a bundle over HTTP until ctx is cancelled.
//
// The three bundle files are served with caching disabled. With Unlock set
// the decrypted archive is loaded into an intercept runtime that answers
// first; misses fall through to the static bundle.
func Serve(ctx context.Context, opts ServeOptions) error {
	handler, err := serveHandler(ctx, opts)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return err
	}
	addr := ln.Addr().String()

	if opts.Audit {
		entry := audit.NewEntry(audit.OpServe)
		entry.Output = opts.BundleDir
		entry.Addr = addr
		audit.Log(entry)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if opts.OnListening != nil {
		opts.OnListening(addr)
	}
	return eg.Wait()
}

func serveHandler(ctx context.Context, opts ServeOptions) (http.Handler, error) {
	if !opts.Unlock {
		artifacts, err := bundle.Load(opts.BundleDir)
		if err != nil {
			return nil, err
		}
		if _, err := artifacts.Params(); err != nil {
			return nil, err
		}
		return NewBundleRouter(artifacts), nil
	}

	unlocked, err := Unlock(ctx, UnlockOptions{BundleDir: opts.BundleDir, Password: opts.Password})
	if err != nil {
		return nil, err
	}
	rt, err := intercept.New("")
	if err != nil {
		return nil, err
	}
	if err := rt.Load(unlocked.Archive); err != nil {
		return nil, err
	}
	return rt.Middleware(NewBundleRouter(unlocked.Artifacts)), nil
}

// NewBundleRouter serves the bundle files at the site root.
func NewBundleRouter(a *bundle.Artifacts) *mux.Router {
	router := mux.NewRouter()

	loader := staticFile(a.LoaderHTML, "text/html; charset=utf-8")
	router.Handle("/", loader).Methods(http.MethodGet, http.MethodHead)
	router.Handle("/"+bundle.LoaderFile, loader).Methods(http.MethodGet, http.MethodHead)
	router.Handle("/"+bundle.PayloadFile, staticFile(a.Payload, "application/octet-stream")).
		Methods(http.MethodGet, http.MethodHead)

	runtime := staticFile(a.RuntimeJS, "text/javascript; charset=utf-8")
	router.Handle("/"+bundle.RuntimeFile, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Service-Worker-Allowed", "/")
		runtime.ServeHTTP(w, r)
	})).Methods(http.MethodGet, http.MethodHead)

	return router
}

func staticFile(data []byte, contentType string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Content-Type", contentType)
		h.Set("Cache-Control", "no-store")
		h.Set("Content-Length", strconv.Itoa(len(data)))
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			_, _ = w.Write(data)
		}
	})
}
