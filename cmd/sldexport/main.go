// Command sldexport renders a diagram view from a project file to PNG
// without starting the editor.
package main

import (
	"fmt"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"sld-editor/internal/config"
	"sld-editor/internal/diagram"
	"sld-editor/internal/export"
	"sld-editor/internal/model"
	"sld-editor/internal/project"
	"sld-editor/internal/version"
	"sld-editor/pkg/geometry"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type exportOpts struct {
	output  string
	view    string
	width   int
	height  int
	title   string
	verbose bool
}

func newRootCmd() *cobra.Command {
	var opts exportOpts

	cmd := &cobra.Command{
		Use:          "sldexport <project.sldproj>",
		Short:        "Export single-line diagram views to PNG",
		Version:      version.Version,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.verbose {
				charmlog.SetLevel(charmlog.DebugLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "out", "o", "diagram.png", "output PNG path")
	cmd.Flags().StringVar(&opts.view, "view", "layout", `view to render: "layout" or a location name`)
	cmd.Flags().IntVar(&opts.width, "width", 1600, "image width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", 1200, "image height in pixels")
	cmd.Flags().StringVar(&opts.title, "title", "", "title drawn at the top of the image")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")

	return cmd
}

func runExport(path string, opts exportOpts) error {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		cfg = config.Default()
	}

	f, err := project.Load(path)
	if err != nil {
		return err
	}
	p, err := f.Restore(geometry.Size{Width: cfg.Canvas.Width, Height: cfg.Canvas.Height})
	if err != nil {
		return err
	}

	view, err := resolveView(p, opts.view)
	if err != nil {
		return err
	}

	renderOpts := export.DefaultOptions()
	renderOpts.Width = opts.width
	renderOpts.Height = opts.height
	renderOpts.Title = opts.title

	charmlog.Debug("rendering", "project", path, "view", opts.view, "out", opts.output)
	if err := export.WritePNG(p, view, opts.output, renderOpts); err != nil {
		return err
	}
	charmlog.Info("exported", "out", opts.output)
	return nil
}

// resolveView maps the --view flag onto a view id: "layout" for the
// top-level view, otherwise a location matched by name.
func resolveView(p *model.Project, name string) (diagram.ViewID, error) {
	if name == "layout" {
		return diagram.LayoutViewID, nil
	}
	var locations []string
	for _, b := range p.Children(model.RootID) {
		if b.Kind != model.KindLocation {
			continue
		}
		if strings.EqualFold(b.Name, name) {
			return diagram.ViewID(b.ID), nil
		}
		locations = append(locations, b.Name)
	}
	return 0, fmt.Errorf("no location named %q (have: %s)", name, strings.Join(locations, ", "))
}
