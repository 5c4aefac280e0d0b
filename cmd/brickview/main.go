// brickview browses a photo collection in the terminal.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"k8s.io/klog/v2"

	"github.com/tstromberg/brickwall/pkg/layout"
	"github.com/tstromberg/brickwall/pkg/site"
	"github.com/tstromberg/brickwall/pkg/tui"
)

var (
	configPath = flag.String("config", "", "Path to a YAML configuration file")
	albumPath  = flag.String("album", "", "Album to browse, e.g. 2024/iceland or tags/all; empty browses everything")
	layoutName = flag.String("layout", "", "Layout strategy: bricky, gplus or simple")
	cachePath  = flag.String("cache", "", "Path to the sqlite metadata cache")
	open       = flag.Int("open", 0, "Open the viewer on the n-th photo (1-based)")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	c := site.DefaultConfig()
	if *configPath != "" {
		var err error
		c, err = site.LoadConfig(*configPath)
		if err != nil {
			klog.Exitf("config: %v", err)
		}
	}
	c.InDirs = append(c.InDirs, flag.Args()...)
	if len(c.InDirs) == 0 {
		klog.Exitf("usage: %s [flags] <photo dir> [photo dir ...]", os.Args[0])
	}
	if *layoutName != "" {
		st, err := layout.ParseStrategy(*layoutName)
		if err != nil {
			klog.Exitf("layout: %v", err)
		}
		c.Gallery.Layout.Strategy = st
	}
	if *cachePath != "" {
		c.CachePath = *cachePath
	}

	a, err := site.Collect(c)
	if err != nil {
		klog.Exitf("collect failed: %v", err)
	}

	al := &site.Album{Title: c.Collection, Photos: a.Photos}
	if *albumPath != "" {
		al = a.Album(*albumPath)
		if al == nil {
			klog.Exitf("no album %q", *albumPath)
		}
	}
	if len(al.Photos) == 0 {
		fmt.Println("No photos found.")
		os.Exit(0)
	}

	path := "/" + al.Path
	if *open > 0 {
		path = fmt.Sprintf("%s/%d", strings.TrimSuffix(path, "/"), *open)
	}

	m, err := tui.New(al.Title, al.Photos, c.Gallery, path)
	if err != nil {
		klog.Exitf("browser: %v", err)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		klog.Exitf("Error running brickview: %v", err)
	}
}
