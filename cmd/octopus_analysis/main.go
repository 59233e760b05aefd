// Command octopus_analysis summarizes octopus_sweep JSONL output and renders
// an HTML chart of proof size versus tree size, comparing the octopus
// opening against M independent authentication paths.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// SweepRow mirrors the octopus_sweep output schema.
type SweepRow struct {
	M            int              `json:"M"`
	N            int              `json:"N"`
	Leaves       int              `json:"Leaves"`
	Height       int              `json:"Height"`
	Abandoned    int              `json:"Abandoned"`
	Trials       int              `json:"Trials"`
	MeanRevealed float64          `json:"MeanRevealed"`
	MeanBytes    float64          `json:"MeanBytes"`
	NaiveNodes   int              `json:"NaiveNodes"`
	TimingsUS    map[string]int64 `json:"TimingsUS"`
}

type summaryStats struct {
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Max   float64
}

func computeStats(x []float64) summaryStats {
	n := len(x)
	if n == 0 {
		return summaryStats{}
	}
	minv, maxv := x[0], x[0]
	var m float64
	for _, v := range x {
		m += v
		if v < minv {
			minv = v
		}
		if v > maxv {
			maxv = v
		}
	}
	m /= float64(n)
	var m2 float64
	for _, v := range x {
		d := v - m
		m2 += d * d
	}
	std := 0.0
	if n > 1 {
		std = math.Sqrt(m2 / float64(n-1))
	}
	return summaryStats{Count: n, Mean: m, Std: std, Min: minv, Max: maxv}
}

func main() {
	inPath := flag.String("in", "Additionnals/octopus_sweep.jsonl", "sweep JSONL input")
	outPath := flag.String("out", "Additionnals/octopus_sweep.html", "HTML chart output")
	flag.Parse()

	rows, err := readRows(*inPath)
	if err != nil {
		fatalf("read %s: %v", *inPath, err)
	}
	if len(rows) == 0 {
		fatalf("no sweep rows in %s", *inPath)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Leaves < rows[j].Leaves })

	bytesVals := make([]float64, len(rows))
	savings := make([]float64, len(rows))
	for i, r := range rows {
		bytesVals[i] = r.MeanBytes
		if r.NaiveNodes > 0 {
			savings[i] = 1 - r.MeanRevealed/float64(r.NaiveNodes)
		}
	}
	bs := computeStats(bytesVals)
	sv := computeStats(savings)
	fmt.Printf("rows=%d proof bytes: mean=%.1f std=%.1f min=%.0f max=%.0f\n",
		bs.Count, bs.Mean, bs.Std, bs.Min, bs.Max)
	fmt.Printf("node savings vs naive paths: mean=%.1f%% min=%.1f%% max=%.1f%%\n",
		100*sv.Mean, 100*sv.Min, 100*sv.Max)

	if err := renderChart(rows, *outPath); err != nil {
		fatalf("render chart: %v", err)
	}
	fmt.Printf("wrote %s\n", *outPath)
}

func readRows(path string) ([]SweepRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64<<10), 16<<20)
	var rows []SweepRow
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var row SweepRow
		if err := json.Unmarshal(line, &row); err != nil {
			continue
		}
		if row.Leaves > 0 && row.Trials > 0 {
			rows = append(rows, row)
		}
	}
	return rows, sc.Err()
}

func renderChart(rows []SweepRow, outPath string) error {
	labels := make([]string, len(rows))
	proofBytes := make([]opts.LineData, len(rows))
	revealed := make([]opts.LineData, len(rows))
	naive := make([]opts.LineData, len(rows))
	for i, r := range rows {
		labels[i] = fmt.Sprintf("%dx%d", r.M, r.N)
		proofBytes[i] = opts.LineData{Value: r.MeanBytes}
		revealed[i] = opts.LineData{Value: r.MeanRevealed}
		naive[i] = opts.LineData{Value: r.NaiveNodes}
	}

	sizeChart := charts.NewLine()
	sizeChart.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Octopus proof size",
			Subtitle: "mean serialized bytes per (M,N) grid point",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "M x N"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "bytes"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}, opts.DataZoom{Type: "slider"}),
	)
	sizeChart.SetXAxis(labels).AddSeries("proof bytes", proofBytes)

	nodeChart := charts.NewLine()
	nodeChart.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Revealed nodes",
			Subtitle: "octopus vs M independent authentication paths",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "M x N"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "nodes"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	nodeChart.SetXAxis(labels).
		AddSeries("octopus", revealed).
		AddSeries("naive paths", naive)

	page := components.NewPage().SetPageTitle("Octopus sweep")
	page.AddCharts(sizeChart, nodeChart)
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return page.Render(f)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "octopus_analysis: "+format+"\n", args...)
	os.Exit(1)
}
