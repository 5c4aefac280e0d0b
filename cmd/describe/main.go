// describe fills in missing photo descriptions and keywords using a
// generative model, writing them back into the image metadata.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/barasher/go-exiftool"
	"k8s.io/klog/v2"

	"github.com/tstromberg/brickwall/pkg/caption"
	"github.com/tstromberg/brickwall/pkg/photo"
)

var (
	dryRun    = flag.Bool("n", false, "dry-run mode, don't write anything")
	overwrite = flag.Bool("o", false, "overwrite existing descriptions and tags")
	tags      = flag.Bool("tags", false, "also suggest keywords for photos without any")
	model     = flag.String("model", caption.DefaultModel, "generative model to use")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if len(flag.Args()) == 0 {
		klog.Exitf("No input directories provided. Usage: %s [flags] <input_dir1> [input_dir2 ...]", os.Args[0])
	}

	ctx := context.Background()
	client, err := caption.NewClient(ctx, os.Getenv("GOOGLE_AI_API_KEY"))
	if err != nil {
		klog.Exitf("client: %v", err)
	}

	e, err := exiftool.NewExiftool()
	if err != nil {
		klog.Exitf("exiftool: %v", err)
	}
	defer func() {
		if err := e.Close(); err != nil {
			klog.Errorf("Failed to close exiftool: %v", err)
		}
	}()

	f := &photo.Finder{}
	total, updated := 0, 0
	for _, d := range flag.Args() {
		ps, err := f.Find(d)
		if ps == nil {
			klog.Exitf("find %s: %v", d, err)
		}
		if err != nil {
			klog.Warningf("%s: %v", d, err)
		}

		for _, p := range ps {
			total++
			o := e.ExtractMetadata(p.Path)
			if err := photo.CheckMetadata(o); err != nil {
				klog.Errorf("read %s: %v", p.Path, err)
				continue
			}
			changed := false

			if *overwrite || p.Description == "" {
				desc, err := caption.Describe(ctx, client.Models, *model, p)
				if err != nil {
					klog.Errorf("describe %s: %v", p.Path, err)
				} else {
					klog.Infof("%s: %s", p.Path, desc)
					o[0].SetString("ImageDescription", desc)
					changed = true
				}
			}

			if *tags && (*overwrite || len(p.Keywords) == 0) {
				ts, err := caption.Tags(ctx, client.Models, *model, p)
				if err != nil {
					klog.Errorf("tags %s: %v", p.Path, err)
				} else if len(ts) > 0 {
					klog.Infof("adding tags to %s: %v", p.Path, ts)
					o[0].SetStrings("Keywords", ts)
					changed = true
				}
			}

			if !changed || *dryRun {
				continue
			}
			e.WriteMetadata(o)
			if o[0].Err != nil {
				klog.Errorf("Failed to write metadata for %s: %v", p.Path, o[0].Err)
				continue
			}
			updated++
		}
	}

	klog.Infof("describe completed. Updated %d of %d photos", updated, total)
}
