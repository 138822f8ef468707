// Copyright 2024 The simstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simstat

import (
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Chart writes one PNG bar chart per non-empty table into dir,
// plotting CPI against configuration label. Empty tables produce no
// chart.
func Chart(tables []*Table, dir string) error {
	if err := os.MkdirAll(dir, 0777); err != nil {
		return err
	}

	for _, t := range tables {
		if len(t.Records) == 0 {
			continue
		}

		values := make(plotter.Values, len(t.Records))
		labels := make([]string, len(t.Records))
		for i, r := range t.Records {
			values[i] = r.CPI
			labels[i] = r.Label
		}

		pl := plot.New()
		pl.Title.Text = t.Test
		pl.Y.Label.Text = "CPI"

		bars, err := plotter.NewBarChart(values, vg.Points(20))
		if err != nil {
			return err
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = color.NRGBA{R: 0x33, G: 0x66, B: 0xcc, A: 0xff}
		pl.Add(bars)
		pl.NominalX(labels...)

		pl.X.Tick.Label.Rotation = -math.Pi / 8
		pl.X.Tick.Label.YAlign = draw.YTop
		pl.X.Tick.Label.XAlign = draw.XLeft

		// A CPI of 1 is the ideal pipeline; keep it on scale so
		// bars are read against it.
		if pl.Y.Min > 1 {
			pl.Y.Min = 1
		}

		// Heuristic width: room for each labeled bar.
		width := vg.Length(2+2*len(values)) * vg.Centimeter
		if width < 10*vg.Centimeter {
			width = 10 * vg.Centimeter
		}
		height := 8 * vg.Centimeter

		can := vgimg.PngCanvas{Canvas: vgimg.NewWith(
			vgimg.UseWH(width, height),
			vgimg.UseDPI(150),
			vgimg.UseBackgroundColor(color.White))}
		pl.Draw(draw.New(can))

		// Test names are word/hyphen tokens, but be safe about
		// separators anyway.
		name := strings.ReplaceAll(t.Test, string(os.PathSeparator), "-")
		f, err := os.Create(filepath.Join(dir, name+".png"))
		if err != nil {
			return err
		}
		if _, err := can.WriteTo(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
