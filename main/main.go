package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mindes-tools/vtsview/config"
	"github.com/mindes-tools/vtsview/playback"
	"github.com/mindes-tools/vtsview/probe"
	"github.com/mindes-tools/vtsview/render"
	"github.com/mindes-tools/vtsview/series"
	"github.com/mindes-tools/vtsview/vtsio"
)

func main() {
	// The main function figures out which mode the user asked for, does
	// the input sanitization, and hands off to the per-mode secondary
	// main functions.

	var (
		renderStr, playbackStr, probeStr string
		synthStr                         string
		exampleConfig                    bool
	)
	vars := map[string]*string{
		"Render":   &renderStr,
		"Playback": &playbackStr,
		"Probe":    &probeStr,
		"Synth":    &synthStr,
	}

	flag.StringVar(
		&renderStr, "Render", "",
		"Configuration file for [Render] mode. Every non-flag argument "+
			"is a folder holding a .vts series to render to images.",
	)
	flag.StringVar(
		&playbackStr, "Playback", "",
		"Configuration file for [Playback] mode. Plays the series in the "+
			"given folder headlessly, rendering each frame as it arrives.",
	)
	flag.StringVar(
		&probeStr, "Probe", "",
		"Configuration file for [Probe] mode. Samples the probe line "+
			"through the newest frame and writes table, CSV and plot.",
	)
	flag.StringVar(
		&synthStr, "Synth", "",
		"Directory to write a small synthetic .vts series into, for "+
			"smoke-testing a fresh checkout.",
	)
	flag.BoolVar(
		&exampleConfig, "ExampleConfig", false,
		"Prints an example configuration file to stdout.",
	)

	flag.Parse()

	if exampleConfig {
		fmt.Println(config.ExampleViewerFile)
		return
	}

	modeName, err := selectedMode(vars)
	if err != nil {
		log.Fatal(err.Error())
	}

	switch modeName {
	case "Render":
		wrap := readConfig(renderStr)
		if flag.NArg() == 0 {
			log.Fatal("[Render] mode needs at least one series folder.")
		}
		for _, folder := range flag.Args() {
			renderMain(wrap, folder)
		}
	case "Playback":
		wrap := readConfig(playbackStr)
		if flag.NArg() != 1 {
			log.Fatal("[Playback] mode needs exactly one series folder.")
		}
		playbackMain(wrap, flag.Arg(0))
	case "Probe":
		wrap := readConfig(probeStr)
		if flag.NArg() != 1 {
			log.Fatal("[Probe] mode needs exactly one series folder.")
		}
		probeMain(wrap, flag.Arg(0))
	case "Synth":
		synthMain(synthStr)
	}
}

// selectedMode picks the mode whose flag was given a value. The mode
// flags are mutually exclusive; zero or several of them is an error.
func selectedMode(vars map[string]*string) (string, error) {
	var chosen []string
	for name, v := range vars {
		if *v != "" {
			chosen = append(chosen, name)
		}
	}
	switch len(chosen) {
	case 1:
		return chosen[0], nil
	case 0:
		return "", fmt.Errorf(
			"No mode selected. Pass exactly one of -Render, -Playback, " +
				"-Probe, or -Synth (or -ExampleConfig).")
	default:
		sort.Strings(chosen)
		return "", fmt.Errorf(
			"The -%s flags select conflicting modes. Pass exactly one.",
			strings.Join(chosen, ", -"))
	}
}

func readConfig(path string) *config.Wrapper {
	wrap, err := config.ReadFile(path)
	if err != nil {
		log.Fatal(err.Error())
	}

	con := &wrap.Viewer
	if !con.ValidMode() {
		log.Fatalf("Invalid 'Mode' value, %q.", con.Mode)
	} else if !con.ValidColormap() {
		log.Fatalf("Invalid 'Colormap' value, %q.", con.Colormap)
	} else if !con.ValidOpacity() {
		log.Fatalf("Invalid 'Opacity' value, %g.", con.Opacity)
	} else if !con.ValidClipAxis() {
		log.Fatalf("Invalid 'ClipAxis' value, %q.", con.ClipAxis)
	} else if !con.ValidGlyphSizeMode() {
		log.Fatalf("Invalid 'GlyphSizeMode' value, %q.", con.GlyphSizeMode)
	} else if !con.ValidGlyphColorMode() {
		log.Fatalf("Invalid 'GlyphColorMode' value, %q.", con.GlyphColorMode)
	} else if !con.ValidBackground() {
		log.Fatalf("Invalid 'Background' value, %q.", con.Background)
	} else if !con.ValidImageSize() {
		log.Fatal("Invalid 'ImageWidth'/'ImageHeight' values.")
	} else if !con.ValidOutput() {
		log.Fatal("Invalid/non-existent 'Output' value.")
	} else if !con.ValidImageFormat() {
		log.Fatalf("Invalid 'ImageFormat' value, %q.", con.ImageFormat)
	} else if !wrap.Playback.ValidDelayMS() {
		log.Fatal("Invalid 'DelayMS' value.")
	} else if !wrap.Playback.ValidAutoIntervalMS() {
		log.Fatal("Invalid 'AutoIntervalMS' value.")
	} else if !wrap.Playback.ValidQueueCapacity() {
		log.Fatal("Invalid 'QueueCapacity' value.")
	} else if !wrap.Probe.ValidSegments() {
		log.Fatal("Invalid 'Segments' value.")
	}
	return wrap
}

func loadSeries(wrap *config.Wrapper, folder string) *series.Descriptor {
	if wrap.Viewer.Prefix != "" {
		desc, err := series.Resolve(folder, wrap.Viewer.Prefix)
		if err != nil {
			log.Fatal(err.Error())
		}
		return desc
	}
	desc, err := series.Load(folder)
	if err != nil {
		log.Fatal(err.Error())
	}
	return desc
}

// renderMain renders every frame of one folder's series to image files
// in the output directory.
func renderMain(wrap *config.Wrapper, folder string) {
	con := &wrap.Viewer
	cfg, err := con.ToRenderConfig()
	if err != nil {
		log.Fatal(err.Error())
	}

	desc := loadSeries(wrap, folder)
	log.Printf("Rendering %d frames from %s", desc.Len(), folder)

	p := render.NewPipeline(con.ImageWidth, con.ImageHeight)
	p.Status = func(msg string) { log.Println(msg) }
	p.NewSeries()

	for i := 0; i < desc.Len(); i++ {
		frame, err := vtsio.Read(desc.Files[i])
		if err != nil {
			log.Printf("Skipping %s: %v", desc.Base(i), err)
			continue
		}

		res := p.Render(frame, cfg)
		if res.Skipped {
			log.Printf("Skipping %s: %s", desc.Base(i), res.Reason)
			continue
		}

		stem := strings.TrimSuffix(desc.Base(i), series.Ext)
		out := filepath.Join(con.Output, stem+"."+con.ImageFormat)
		if err := render.WriteImage(res.Image, out); err != nil {
			log.Fatal(err.Error())
		}
		log.Printf("Wrote %s (scalar %s, range [%g, %g])",
			out, res.ScalarName, res.Range[0], res.Range[1])
	}
}

// playbackMain runs a timed headless playback of the series, rendering
// each frame as the controller hands it over.
func playbackMain(wrap *config.Wrapper, folder string) {
	con := &wrap.Viewer
	cfg, err := con.ToRenderConfig()
	if err != nil {
		log.Fatal(err.Error())
	}

	desc := loadSeries(wrap, folder)
	p := render.NewPipeline(con.ImageWidth, con.ImageHeight)
	p.NewSeries()

	ctrl := playback.NewController(desc, playback.Hooks{
		FrameChanged: func(i int, name string) {
			log.Printf("Frame %d: %s", i, name)
		},
		Status: func(msg string) { log.Println(msg) },
		Render: func(frame *vtsio.GridFrame) {
			res := p.Render(frame, cfg)
			if res.Skipped {
				log.Printf("Render skipped: %s", res.Reason)
			}
		},
	})
	ctrl.Delay = time.Duration(wrap.Playback.DelayMS) * time.Millisecond
	ctrl.QueueCapacity = wrap.Playback.QueueCapacity

	if err := ctrl.Play(); err != nil {
		log.Fatal(err.Error())
	}
	ctrl.Run(context.Background())

	out := filepath.Join(con.Output, "last_frame."+con.ImageFormat)
	if err := p.Screenshot(out); err != nil {
		log.Fatal(err.Error())
	}
	log.Printf("Wrote %s", out)
}

// probeMain samples the configured line through the newest frame of the
// series and writes the table, CSV and plot outputs.
func probeMain(wrap *config.Wrapper, folder string) {
	desc := loadSeries(wrap, folder)
	frame, err := vtsio.Read(desc.Files[desc.Len()-1])
	if err != nil {
		log.Fatal(err.Error())
	}

	p1, p2 := wrap.Probe.Endpoints()
	res := probe.SampleN(frame, p1, p2, wrap.Probe.Segments)
	if res.Empty() {
		log.Fatal("Probe produced no samples; check the endpoints.")
	}

	out := wrap.Viewer.Output
	tablePath := filepath.Join(out, "probe.txt")
	csvPath := filepath.Join(out, "probe.csv")
	figPath := filepath.Join(out, "probe.png")

	if err := probe.WriteTable(res, tablePath); err != nil {
		log.Fatal(err.Error())
	}
	if err := probe.WriteCSV(res, csvPath); err != nil {
		log.Fatal(err.Error())
	}
	probe.Plot(res, figPath)
	log.Printf("Wrote %s, %s and %s (%d samples, %d columns)",
		tablePath, csvPath, figPath, len(res.Rows), len(res.Columns))
}

// synthMain writes a small synthetic series so a fresh checkout has
// something to look at.
func synthMain(dir string) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Fatal(err.Error())
	}
	n := 5
	for i := 0; i < n; i++ {
		g := vtsio.Synthetic([3]int{16, 16, 16}, 1, float64(i)*0.5)
		path := filepath.Join(dir, fmt.Sprintf("synth%d%s", i, series.Ext))
		if err := vtsio.Write(path, g); err != nil {
			log.Fatal(err.Error())
		}
		log.Printf("Wrote %s", path)
	}
}
