package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/bmharper/strtree"
)

// readItems parses rows of "minx,miny,maxx,maxy". Row i gets identifier i.
// Blank lines are skipped and lines starting with '#' are comments.
func readItems(r io.Reader) ([]strtree.Item, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = 4
	cr.TrimLeadingSpace = true
	var items []strtree.Item
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return items, nil
		}
		if err != nil {
			return nil, err
		}
		var v [4]float64
		for i, s := range rec {
			v[i], err = strconv.ParseFloat(s, 64)
			if err != nil {
				line, _ := cr.FieldPos(i)
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
		}
		items = append(items, strtree.Item{
			Box: strtree.Box{MinX: v[0], MinY: v[1], MaxX: v[2], MaxY: v[3]},
			ID:  len(items),
		})
	}
}

func writeRandom(w io.Writer, faker *gofakeit.Faker, n int, extent, size float64) error {
	cw := csv.NewWriter(w)
	for i := 0; i < n; i++ {
		x := faker.Float64Range(0, extent)
		y := faker.Float64Range(0, extent)
		rec := []string{
			strconv.FormatFloat(x, 'g', -1, 64),
			strconv.FormatFloat(y, 'g', -1, 64),
			strconv.FormatFloat(x+faker.Float64Range(0, size), 'g', -1, 64),
			strconv.FormatFloat(y+faker.Float64Range(0, size), 'g', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
