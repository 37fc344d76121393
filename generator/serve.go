package main

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"znkr.io/patchview/generator/server"
	"znkr.io/patchview/generator/site"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [dir]",
		Short: "Serves the review site in dir and reloads it on every change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := siteDir(args)
			if err != nil {
				return err
			}
			return serve(cmd, dir)
		},
	}
	cmd.Flags().String("addr", "localhost:8080", "address to serve at")
	return cmd
}

// siteDir returns the absolute site directory from args, the working directory is the default.
func siteDir(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("determining site directory: %v", err)
	}
	return dir, nil
}

func loadSite(cmd *cobra.Command, dir string) (*site.Site, error) {
	cfg, err := loadConfig(cmd, dir)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.SiteOptions()
	if err != nil {
		return nil, err
	}
	return site.Load(dir, opts)
}

func serve(cmd *cobra.Command, dir string) error {
	cfg, err := loadConfig(cmd, dir)
	if err != nil {
		return err
	}
	s, err := loadSite(cmd, dir)
	if err != nil {
		return fmt.Errorf("loading site: %v", err)
	}

	// Start serving.
	srv, err := server.Run(cfg.Addr, s)
	if err != nil {
		return err
	}
	defer srv.Shutdown(context.Background())
	log.Printf("Now serving %s at http://%s, press Ctrl-C to shut down", dir, srv.Addr())

	// Setup file watcher to trigger reloading of the site should anything change on disk.
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %v", err)
	}
	defer watcher.Close()
	if err := watchDir(watcher, dir); err != nil {
		return fmt.Errorf("starting watch: %v", err)
	}
	{
		wl := watcher.WatchList()
		for i := range wl {
			wl[i], _ = filepath.Rel(dir, wl[i])
		}
		slices.Sort(wl)
		log.Printf("Watching:\n    %v", strings.Join(wl, "\n    "))
	}

	// Setup signals to react to Ctrl-C.
	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt)
	defer signal.Stop(sigint)

	for {
		select {
		case event := <-watcher.Events:
			if event.Has(fsnotify.Chmod) {
				continue
			}

			// Update watch list should new directories be added or removed.
			switch stat, err := os.Stat(event.Name); {
			case os.IsNotExist(err) && (event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)):
				if slices.Contains(watcher.WatchList(), event.Name) {
					watcher.Remove(event.Name)
					wd, _ := filepath.Rel(dir, event.Name)
					log.Printf("Removed watch directory: %v", wd)
				}
			case err == nil && event.Has(fsnotify.Create) && stat.IsDir():
				if err := watchDir(watcher, event.Name); err != nil {
					return fmt.Errorf("adding watch: %v", err)
				}
				wd, _ := filepath.Rel(dir, event.Name)
				log.Printf("Added watch directory: %v", wd)
			case err != nil && !os.IsNotExist(err):
				return fmt.Errorf("watching site: %v", err)
			}

			// Reload site, including the configuration file.
			start := time.Now()
			s, err := loadSite(cmd, dir)
			if err != nil {
				log.Printf("failed to update site: %v", err)
				continue
			}
			srv.ReplaceSite(s)
			log.Printf("Site reloaded (%v)", time.Since(start))
		case err := <-watcher.Errors:
			return fmt.Errorf("watching: %v", err)
		case err := <-srv.Error():
			return fmt.Errorf("serving: %v", err)
		case <-sigint:
			fmt.Print("\r") // remove Ctrl-C output characters
			log.Printf("Received Ctrl-C, shutting down")
			return nil
		}
	}
}

func watchDir(watcher *fsnotify.Watcher, dir string) error {
	walkfn := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && site.Hidden(d.Name()) {
				return filepath.SkipDir
			}
			if err := watcher.Add(path); err != nil {
				return err
			}
		}
		return nil
	}
	return filepath.WalkDir(dir, walkfn)
}
