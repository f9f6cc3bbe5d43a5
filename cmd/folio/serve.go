package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/liamso/folio"
	"github.com/liamso/folio/content"
)

func (c *cli) serveCmd() *cobra.Command {
	var (
		addr   string
		static string
		watch  bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site",
		Long: `serve starts the HTTP server. With --watch, edits to the content
directory are logged and drop the article cache as soon as they land.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg
			if addr != "" {
				cfg.Addr = addr
			}

			lib, closer, err := folio.OpenLibrary(cfg, c.logger)
			if err != nil {
				return err
			}
			app := folio.New(cfg, folio.ViewFuncs{},
				folio.WithLibrary(lib),
				folio.WithCloser(closer),
				folio.WithStaticDir(static),
			)
			defer app.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if watch {
				if cfg.ContentDB != "" {
					c.logger.Warn("--watch has no effect when serving from content_db")
				} else {
					w, err := watchContent(ctx, cfg.ContentDir, lib, c.logger, 200*time.Millisecond)
					if err != nil {
						return err
					}
					defer w.Close()
				}
			}

			errc := make(chan error, 1)
			go func() { errc <- app.Start() }()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}
			c.logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := app.Echo.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&static, "static", "public", "directory served under /public")
	cmd.Flags().BoolVar(&watch, "watch", false, "invalidate the article cache when content files change")
	return cmd
}

type warnLogger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

type invalidator interface {
	Invalidate()
}

// watchContent invalidates lib whenever a markdown file in dir changes.
// Events are debounced so an editor's save burst causes one invalidation;
// nothing fires once ctx is done.
func watchContent(ctx context.Context, dir string, lib invalidator, logger warnLogger, debounce time.Duration) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}
	logger.Infof("watching %s for changes", dir)

	go func() {
		var timer *time.Timer
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !strings.EqualFold(filepath.Ext(ev.Name), content.Ext) {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
					!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				name := filepath.Base(ev.Name)
				timer = time.AfterFunc(debounce, func() {
					if ctx.Err() != nil {
						return
					}
					logger.Infof("content changed (%s), invalidating cache", name)
					lib.Invalidate()
				})
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warnf("watch: %v", err)
			}
		}
	}()
	return w, nil
}
