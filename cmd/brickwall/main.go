// brickwall builds a static justified-grid photo gallery, optionally serving
// it and rebuilding whenever the input changes.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"k8s.io/klog/v2"

	"github.com/tstromberg/brickwall/pkg/gallery"
	"github.com/tstromberg/brickwall/pkg/layout"
	"github.com/tstromberg/brickwall/pkg/serve"
	"github.com/tstromberg/brickwall/pkg/site"
)

var (
	configPath    = flag.String("config", "", "Path to a YAML configuration file")
	inDirs        = flag.String("in", "", "Comma-separated list of input directories")
	outDir        = flag.String("out", "", "Location of output directory")
	title         = flag.String("title", "", "Title of photo collection")
	description   = flag.String("description", "", "Description of photo collection")
	layoutName    = flag.String("layout", "", "Layout strategy: bricky, gplus or simple")
	width         = flag.Int("width", 0, "Container width in pixels for precomputed rows")
	margin        = flag.Int("margin", -1, "Margin between photos in pixels")
	thumbTemplate = flag.String("thumb-template", "", "Thumbnail URL template with {path} and {0} placeholders")
	cachePath     = flag.String("cache", "", "Path to the sqlite metadata cache")
	listen        = flag.Bool("listen", false, "serve content via HTTP")
	addr          = flag.String("addr", "localhost:12800", "host:port to bind to in listen mode")
	watchFlag     = flag.Bool("watch", false, "watch for changes to the input directories and rebuild")
	debounce      = flag.Duration("debounce", 2*time.Second, "how long the input must be quiet before a rebuild")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	c, err := config()
	if err != nil {
		klog.Exitf("config: %v", err)
	}

	a, err := build(c)
	if err != nil {
		klog.Exitf("build failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := serve.New(c, a)

	var wg sync.WaitGroup
	if *watchFlag {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := watch(ctx, c, a, srv); err != nil {
				klog.Exitf("watch failed: %v", err)
			}
		}()
	}

	if *listen {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := srv.ListenAndServe(ctx, *addr); err != nil {
				klog.Exitf("listen failed: %v", err)
			}
		}()
	}

	wg.Wait()
}

// config merges the configuration file with command-line flags.
func config() (*site.Config, error) {
	c := site.DefaultConfig()
	if *configPath != "" {
		var err error
		c, err = site.LoadConfig(*configPath)
		if err != nil {
			return nil, err
		}
	}

	if *inDirs != "" {
		c.InDirs = strings.Split(*inDirs, ",")
	}
	c.InDirs = append(c.InDirs, flag.Args()...)
	if *outDir != "" {
		c.OutDir = *outDir
	}
	if *title != "" {
		c.Collection = *title
	}
	if *description != "" {
		c.Description = *description
	}
	if *layoutName != "" {
		c.Gallery.Layout.Strategy = layout.Strategy(*layoutName)
	}
	if *width > 0 {
		c.Gallery.Layout.ContainerWidth = *width
	}
	if *margin >= 0 {
		c.Gallery.Layout.ItemMargin = *margin
	}
	if *thumbTemplate != "" {
		c.ThumbTemplate = *thumbTemplate
	}
	if *cachePath != "" {
		c.CachePath = *cachePath
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func build(c *site.Config) (*site.Assembly, error) {
	start := time.Now()
	a, err := site.Collect(c)
	if err != nil {
		return nil, fmt.Errorf("collect: %w", err)
	}
	if err := site.Render(c, a); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	klog.Infof("built %d photos in %d albums in %s", len(a.Photos), len(a.Albums), time.Since(start))
	return a, nil
}

// watch rebuilds the site whenever the input directories settle after a change.
func watch(ctx context.Context, c *site.Config, a *site.Assembly, srv *serve.Server) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("new watcher: %w", err)
	}
	defer w.Close()

	rebuild := gallery.NewDebouncer(*debounce, func() {
		na, err := build(c)
		if err != nil {
			klog.Errorf("rebuild failed: %v", err)
			return
		}
		srv.Swap(na)
	})
	defer rebuild.Stop()

	dirs := slices.Clone(c.InDirs)
	for _, p := range a.Photos {
		dirs = append(dirs, filepath.Dir(p.Path))
	}
	slices.Sort(dirs)
	dirs = slices.Compact(dirs)

	klog.Infof("watching %d dirs ...", len(dirs))
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			klog.V(1).Infof("event: %s", event)
			if event.Has(fsnotify.Create) {
				if st, err := os.Stat(event.Name); err == nil && st.IsDir() {
					if err := w.Add(event.Name); err != nil {
						klog.Warningf("watch %s: %v", event.Name, err)
					}
				}
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				rebuild.Trigger()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			klog.Errorf("watch error: %v", err)
		}
	}
}
