package main

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/roomview"
	"github.com/bodgit/roomview/photo"
	"github.com/bodgit/roomview/sprite"
	"github.com/bodgit/roomview/terminal"
	"github.com/gdamore/tcell/v2"
	"github.com/urfave/cli/v2"
	"golang.org/x/image/draw"
)

const (
	defaultDB     = "roomview.db"
	defaultWidth  = 320
	defaultHeight = 182
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func newLoader(c *cli.Context) (*roomview.Loader, *log.Logger, error) {
	logger := newLogger(c)
	l, err := roomview.New(c.String("db"), logger)
	if err != nil {
		return nil, nil, err
	}
	return l, logger, nil
}

// parseObject splits FILE@X,Y.
func parseObject(s string) (string, image.Point, error) {
	file, pos, ok := strings.Cut(s, "@")
	if !ok {
		return "", image.Point{}, fmt.Errorf("object %q has no position", s)
	}
	var p image.Point
	if _, err := fmt.Sscanf(pos, "%d,%d", &p.X, &p.Y); err != nil {
		return "", image.Point{}, fmt.Errorf("object %q: bad position: %w", s, err)
	}
	return file, p, nil
}

func loadScene(c *cli.Context, l *roomview.Loader) (*roomview.Scene, error) {
	if !c.IsSet("photo") {
		return nil, errors.New("no room photo given")
	}

	m, err := l.LoadPhoto(c.String("photo"), c.String("quantizer"))
	if err != nil {
		return nil, err
	}
	s := roomview.NewScene(m)

	for _, o := range c.StringSlice("object") {
		file, p, err := parseObject(o)
		if err != nil {
			return nil, err
		}
		obj, err := l.LoadSprite(file)
		if err != nil {
			return nil, err
		}
		s.Add(p.X, p.Y, obj)
	}

	return s, nil
}

func prepare(s *roomview.Scene, logger *log.Logger) (*roomview.View, *roomview.Registers, error) {
	regs := new(roomview.Registers)
	if err := regs.LoadPalette(0, sprite.DisplayColors()); err != nil {
		return nil, nil, err
	}

	v := roomview.NewView(regs, logger)
	if err := v.Prep(s); err != nil {
		return nil, nil, err
	}
	return v, regs, nil
}

func writePNG(file string, m image.Image) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, m); err != nil {
		return err
	}
	return f.Close()
}

// fit scales m down to fit within w by h, keeping its aspect ratio.
func fit(m image.Image, w, h int) image.Image {
	b := m.Bounds()
	if b.Dx() <= w && b.Dy() <= h {
		return m
	}

	dw, dh := w, b.Dy()*w/b.Dx()
	if dh > h {
		dw, dh = b.Dx()*h/b.Dy(), h
	}
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), m, b, draw.Src, nil)
	return dst
}

func convert(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}
	logger := newLogger(c)

	in, err := os.Open(c.Args().Get(0))
	if err != nil {
		return err
	}
	defer in.Close()

	m, format, err := image.Decode(in)
	if err != nil {
		return err
	}

	maxW, maxH := photo.MaxWidth, photo.MaxHeight
	if c.Bool("sprite") {
		maxW, maxH = sprite.MaxWidth, sprite.MaxHeight
	}
	if c.Bool("fit") {
		m = fit(m, maxW, maxH)
	}

	out, err := os.Create(c.Args().Get(1))
	if err != nil {
		return err
	}
	defer out.Close()

	if c.Bool("sprite") {
		err = sprite.Encode(out, m)
	} else {
		err = photo.Encode(out, m)
	}
	if err != nil {
		return err
	}
	logger.Printf("Converted %s image to %dx%d\n", format, m.Bounds().Dx(), m.Bounds().Dy())

	return out.Close()
}

func quantize(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	l, logger, err := newLoader(c)
	if err != nil {
		return err
	}
	defer l.Close()

	m, err := l.LoadPhoto(c.Args().Get(0), c.String("quantizer"))
	if err != nil {
		return err
	}

	v, regs, err := prepare(roomview.NewScene(m), logger)
	if err != nil {
		return err
	}

	return writePNG(c.Args().Get(1), roomview.Render(v, m.Bounds(), regs.Colors()))
}

func preload(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	l, _, err := newLoader(c)
	if err != nil {
		return err
	}
	defer l.Close()

	return l.Preload(c.Args().First(), c.String("quantizer"))
}

func render(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	l, logger, err := newLoader(c)
	if err != nil {
		return err
	}
	defer l.Close()

	s, err := loadScene(c, l)
	if err != nil {
		return err
	}

	v, regs, err := prepare(s, logger)
	if err != nil {
		return err
	}

	r := image.Rect(0, 0, c.Int("width"), c.Int("height")).Add(image.Pt(c.Int("x"), c.Int("y")))

	return writePNG(c.Args().First(), roomview.Render(v, r, regs.Colors()))
}

func view(c *cli.Context) error {
	l, logger, err := newLoader(c)
	if err != nil {
		return err
	}
	defer l.Close()

	s, err := loadScene(c, l)
	if err != nil {
		return err
	}

	v, regs, err := prepare(s, logger)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	viewer := terminal.New(screen, v, regs.Colors(), logger)
	viewer.Viewport().MoveTo(c.Int("x"), c.Int("y"))

	return viewer.Run()
}

func exitOnError(fn cli.ActionFunc) cli.ActionFunc {
	return func(c *cli.Context) error {
		if err := fn(c); err != nil {
			return cli.Exit(err, 1)
		}
		return nil
	}
}

func main() {
	app := cli.NewApp()

	app.Name = "roomview"
	app.Usage = "Room photo quantizer and scrolling compositor"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"ROOMVIEW_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to asset cache",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	quantizerFlag := &cli.StringFlag{
		Name:    "quantizer",
		Aliases: []string{"q"},
		Value:   roomview.DefaultQuantizer,
		Usage:   "palette builder, octree or mediancut",
	}

	sceneFlags := []cli.Flag{
		quantizerFlag,
		&cli.StringFlag{
			Name:  "photo",
			Usage: "room photo `FILE`",
		},
		&cli.StringSliceFlag{
			Name:  "object",
			Usage: "object image drawn at a position, as `FILE@X,Y`; repeat to add more",
		},
		&cli.IntFlag{
			Name:  "x",
			Usage: "left edge of the view",
		},
		&cli.IntFlag{
			Name:  "y",
			Usage: "top edge of the view",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "convert",
			Usage:     "Convert a GIF, JPEG or PNG image to a room photo or object image",
			ArgsUsage: "INPUT OUTPUT",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "sprite",
					Usage: "write an object image rather than a room photo",
				},
				&cli.BoolFlag{
					Name:  "fit",
					Usage: "scale the image down to the largest size the format allows",
				},
			},
			Action: exitOnError(convert),
		},
		{
			Name:      "quantize",
			Usage:     "Quantize a room photo and write it as a PNG",
			ArgsUsage: "PHOTO OUTPUT",
			Flags:     []cli.Flag{quantizerFlag},
			Action:    exitOnError(quantize),
		},
		{
			Name:      "preload",
			Usage:     "Quantize and cache every room photo and object image in a directory",
			ArgsUsage: "DIRECTORY",
			Flags:     []cli.Flag{quantizerFlag},
			Action:    exitOnError(preload),
		},
		{
			Name:      "render",
			Usage:     "Composite a room with its objects and write it as a PNG",
			ArgsUsage: "OUTPUT",
			Flags: append(sceneFlags,
				&cli.IntFlag{
					Name:  "width",
					Value: defaultWidth,
					Usage: "width of the view",
				},
				&cli.IntFlag{
					Name:  "height",
					Value: defaultHeight,
					Usage: "height of the view",
				},
			),
			Action: exitOnError(render),
		},
		{
			Name:   "view",
			Usage:  "Scroll around a room in the terminal",
			Flags:  sceneFlags,
			Action: exitOnError(view),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
