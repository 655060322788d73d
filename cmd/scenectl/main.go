package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/tdewolff/argp"

	"github.com/inamate/vecscene/internal/document"
	"github.com/inamate/vecscene/internal/markup"
	"github.com/inamate/vecscene/internal/snapshot"
	"github.com/inamate/vecscene/internal/store"
)

type Main struct{}

type Render struct {
	Minify bool   `short:"m" desc:"Minify the SVG output"`
	Format string `short:"f" desc:"Input format (json or yaml), defaults to the input extension"`
	Output string `short:"o" desc:"Output file, stdout if empty"`
	Input  string `index:"0" desc:"Input snapshot, stdin if empty or -"`
}

type Convert struct {
	From   string `desc:"Input format, defaults to the input extension"`
	To     string `desc:"Output format, defaults to the output extension"`
	Output string `short:"o" desc:"Output file, stdout if empty"`
	Input  string `index:"0" desc:"Input snapshot, stdin if empty or -"`
}

type Sample struct {
	Format string `short:"f" default:"json" desc:"Output format (json or yaml)"`
	Output string `short:"o" desc:"Output file, stdout if empty"`
}

type Inspect struct {
	Format string `short:"f" desc:"Input format, defaults to the input extension"`
	Input  string `index:"0" desc:"Input snapshot, stdin if empty or -"`
}

func main() {
	root := argp.NewCmd(&Main{}, "Vector scene snapshot toolkit")
	root.AddCmd(&Render{}, "render", "Render a snapshot as SVG")
	root.AddCmd(&Convert{}, "convert", "Convert a snapshot between JSON and YAML")
	root.AddCmd(&Sample{}, "sample", "Write a sample scene using every shape and path command")
	root.AddCmd(&Inspect{}, "inspect", "Summarise a snapshot")
	root.Parse()
	root.PrintHelp()
}

func (cmd *Main) Run() error {
	return argp.ShowUsage
}

func (cmd *Render) Run() error {
	scene, err := readScene(cmd.Input, cmd.Format)
	if err != nil {
		return err
	}
	if cmd.Output != "" {
		return store.ExportMarkup(cmd.Output, scene, cmd.Minify)
	}

	out, err := markup.Bytes(scene)
	if err != nil {
		return err
	}
	if cmd.Minify {
		if out, err = markup.Minify(out); err != nil {
			return err
		}
	}
	_, err = os.Stdout.Write(out)
	return err
}

func (cmd *Convert) Run() error {
	scene, err := readScene(cmd.Input, cmd.From)
	if err != nil {
		return err
	}
	to := cmd.To
	if to == "" {
		to = cmd.Output
	}
	if to == "" {
		fmt.Fprintln(os.Stderr, "ERROR: must specify --to or an output filename")
		return argp.ShowUsage
	}
	codec, err := snapshot.CodecFor(to)
	if err != nil {
		return err
	}
	return writeScene(cmd.Output, codec, scene)
}

func (cmd *Sample) Run() error {
	codec, err := snapshot.CodecFor(cmd.Format)
	if err != nil {
		return err
	}
	return writeScene(cmd.Output, codec, document.Sample())
}

func (cmd *Inspect) Run() error {
	scene, err := readScene(cmd.Input, cmd.Format)
	if err != nil {
		return err
	}

	st := collect(scene.Shapes, 1)
	fmt.Printf("Viewport: %d %d %d %d\n", scene.Viewport.From.X, scene.Viewport.From.Y, scene.Viewport.To.X, scene.Viewport.To.Y)
	fmt.Println("Top-level shapes:", len(scene.Shapes))
	fmt.Println("Total shapes:", st.shapes)
	fmt.Println("Max depth:", st.depth)
	fmt.Println("Points:", st.points)
	fmt.Println("Path commands:", st.commands)

	kinds := make([]string, 0, len(st.kinds))
	for k := range st.kinds {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Printf("  %-10s %d\n", k, st.kinds[document.ShapeKind(k)])
	}
	return nil
}

type stats struct {
	shapes   int
	depth    int
	points   int
	commands int
	kinds    map[document.ShapeKind]int
}

func collect(shapes []document.Shape, depth int) stats {
	st := stats{kinds: map[document.ShapeKind]int{}}
	if len(shapes) > 0 {
		st.depth = depth
	}
	for _, shape := range shapes {
		st.shapes++
		st.kinds[shape.Kind()]++
		switch v := shape.Variant.(type) {
		case document.Polyline:
			st.points += len(v.Points)
		case document.Polygon:
			st.points += len(v.Points)
		case document.Path:
			st.commands += len(v.Commands)
		case document.Group:
			sub := collect(v.Children, depth+1)
			st.shapes += sub.shapes
			st.points += sub.points
			st.commands += sub.commands
			st.depth = max(st.depth, sub.depth)
			for k, n := range sub.kinds {
				st.kinds[k] += n
			}
		}
	}
	return st
}

func readScene(input, format string) (document.Scene, error) {
	if format == "" {
		format = input
	}
	if input == "" || input == "-" {
		if format == "" || format == "-" {
			format = "json"
		}
		codec, err := snapshot.CodecFor(format)
		if err != nil {
			return document.Scene{}, err
		}
		return codec.Decode(os.Stdin)
	}

	codec, err := snapshot.CodecFor(format)
	if err != nil {
		return document.Scene{}, err
	}
	return store.ReadFile(input, codec)
}

func writeScene(output string, codec snapshot.Codec, scene document.Scene) error {
	if output == "" {
		var buf bytes.Buffer
		if err := codec.Encode(&buf, scene); err != nil {
			return err
		}
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}
	return store.WriteFile(output, func(w io.Writer) error {
		return codec.Encode(w, scene)
	})
}
