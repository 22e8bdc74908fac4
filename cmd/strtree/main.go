package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	clog "github.com/cenkalti/log"
	"github.com/mitchellh/go-homedir"
	"github.com/rcrowley/go-metrics"
	"github.com/urfave/cli"

	"github.com/bmharper/strtree"
	"github.com/bmharper/strtree/internal/jsonutil"
	"github.com/bmharper/strtree/internal/logger"
)

const defaultConfig = "~/.strtree.yaml"

var (
	log      = logger.New("strtree")
	registry = strtree.NewMetrics()
)

func main() {
	app := cli.NewApp()
	app.Name = "strtree"
	app.Usage = "Bulk load rectangles into an R-tree and inspect it"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Value: defaultConfig,
			Usage: "config file",
		},
		cli.BoolFlag{
			Name:  "debug, d",
			Usage: "enable debug log",
		},
		cli.BoolFlag{
			Name:  "metrics",
			Usage: "print build metrics to stderr on exit",
		},
	}
	app.Before = func(c *cli.Context) error {
		if c.GlobalBool("debug") {
			logger.SetLevel(clog.DEBUG)
		}
		return nil
	}
	app.After = func(c *cli.Context) error {
		if c.GlobalBool("metrics") {
			metrics.WriteOnce(registry.Registry, os.Stderr)
		}
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:      "build",
			Usage:     "build a tree and print its statistics",
			ArgsUsage: "FILE.csv",
			Action:    handleBuild,
		},
		{
			Name:      "dump",
			Usage:     "print the node hierarchy",
			ArgsUsage: "FILE.csv",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "depth",
					Value: 0,
					Usage: "stop descending below this depth (0 means no limit)",
				},
				cli.BoolFlag{
					Name:  "leaves",
					Usage: "print leaves too",
				},
			},
			Action: handleDump,
		},
		{
			Name:      "search",
			Usage:     "print identifiers of rectangles overlapping a query box",
			ArgsUsage: "FILE.csv MINX MINY MAXX MAXY",
			Action:    handleSearch,
		},
		{
			Name:      "gen",
			Usage:     "write N random rectangles as CSV to stdout",
			ArgsUsage: "N",
			Flags: []cli.Flag{
				cli.Uint64Flag{
					Name:  "seed",
					Value: 0,
				},
				cli.Float64Flag{
					Name:  "extent",
					Value: 1000,
					Usage: "rectangles are placed in [0, extent) on both axes",
				},
				cli.Float64Flag{
					Name:  "size",
					Value: 10,
					Usage: "maximum width and height of a rectangle",
				},
			},
			Action: handleGen,
		},
	}
	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func loadConfig(c *cli.Context) (*strtree.Config, error) {
	configFile, err := homedir.Expand(c.GlobalString("config"))
	if err != nil {
		return nil, err
	}
	return strtree.LoadConfig(configFile)
}

func buildFromFile(c *cli.Context) (*strtree.Tree, error) {
	if c.NArg() < 1 {
		return nil, cli.NewExitError("missing csv file argument", 1)
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(c.Args().Get(0))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	items, err := readItems(f)
	if err != nil {
		return nil, err
	}
	log.Debugf("read %d rectangles from %s", len(items), f.Name())
	b := strtree.NewBuilder(*cfg)
	b.Metrics = registry
	b.Reserve(len(items))
	for _, it := range items {
		b.AddItem(it)
	}
	return b.Finish()
}

func handleBuild(c *cli.Context) error {
	t, err := buildFromFile(c)
	if err != nil {
		return err
	}
	b, err := jsonutil.MarshalCompactPretty(t.Stats())
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(b)
	return err
}

func handleDump(c *cli.Context) error {
	t, err := buildFromFile(c)
	if err != nil {
		return err
	}
	maxDepth := c.Int("depth")
	withLeaves := c.Bool("leaves")
	root := t.Root()
	fmt.Printf("root %s children=%d leaves=%d\n", formatBox(root.Box()), root.NumChildren(), root.NumLeaves())
	root.Walk(func(ch strtree.Child, depth int) bool {
		indent := strings.Repeat("  ", depth)
		switch ch.Kind() {
		case strtree.KindNode:
			n, _ := ch.Node()
			fmt.Printf("%snode %s children=%d leaves=%d\n", indent, formatBox(n.Box()), n.NumChildren(), n.NumLeaves())
		case strtree.KindLeaf:
			if withLeaves {
				l, _ := ch.Leaf()
				fmt.Printf("%sleaf %d %s\n", indent, l.ID(), formatBox(l.Box()))
			}
		}
		return maxDepth == 0 || depth < maxDepth
	})
	return nil
}

func handleSearch(c *cli.Context) error {
	if c.NArg() != 5 {
		return cli.NewExitError("usage: search FILE.csv MINX MINY MAXX MAXY", 1)
	}
	var q [4]float64
	for i := range q {
		v, err := strconv.ParseFloat(c.Args().Get(i+1), 64)
		if err != nil {
			return err
		}
		q[i] = v
	}
	t, err := buildFromFile(c)
	if err != nil {
		return err
	}
	for _, id := range t.Search(q[0], q[1], q[2], q[3]) {
		fmt.Println(id)
	}
	return nil
}

func handleGen(c *cli.Context) error {
	n, err := strconv.Atoi(c.Args().First())
	if err != nil || n < 0 {
		return cli.NewExitError("N must be a non-negative integer", 1)
	}
	faker := gofakeit.New(c.Uint64("seed"))
	return writeRandom(os.Stdout, faker, n, c.Float64("extent"), c.Float64("size"))
}

func formatBox(b strtree.Box) string {
	if b.IsEmpty() {
		return "(empty)"
	}
	return fmt.Sprintf("(%g %g, %g %g)", b.MinX, b.MinY, b.MaxX, b.MaxY)
}
