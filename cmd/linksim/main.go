package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/charmbracelet/log"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/pflag"

	"github.com/jeongseonghan/optic-link/internal/config"
	"github.com/jeongseonghan/optic-link/internal/sim"
)

func main() {
	configPath := pflag.StringP("config", "c", "scenarios.yaml", "Scenario file")
	scenario := pflag.StringP("scenario", "s", "", "Scenario name (default: all)")
	asJSON := pflag.Bool("json", false, "Emit results as JSON instead of tables")
	verbose := pflag.BoolP("verbose", "v", false, "Debug logging")
	pflag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	f, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("load scenarios", "err", err)
	}

	names := f.Names()
	if *scenario != "" {
		names = []string{*scenario}
	}

	results := make(map[string][]sim.Point, len(names))
	for _, name := range names {
		sc, err := f.Scenario(name)
		if err != nil {
			log.Fatal("select scenario", "err", err)
		}

		log.Info("running sweep", "scenario", sc.Name, "m", sc.M, "type", sc.Type,
			"symbols", sc.Symbols, "modes", sc.Modes)

		points, err := sim.Run(sc, func(p sim.Point) {
			log.Debug("point done", "scenario", sc.Name, "ebn0", p.EbN0dB,
				"ber", meanOf(p.BER), "gmi", meanOf(p.GMI))
		})
		if err != nil {
			log.Fatal("sweep failed", "scenario", sc.Name, "err", err)
		}
		results[name] = points

		if !*asJSON {
			printTable(sc, points)
		}
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			log.Fatal("encode results", "err", err)
		}
	}
}

func printTable(sc config.Scenario, points []sim.Point) {
	fmt.Printf("\n%s: %d-%s, %d symbols x %d modes\n", sc.Name, sc.M, sc.Type, sc.Symbols, sc.Modes)

	table := tablewriter.NewWriter(os.Stdout)
	header := []string{"Eb/N0 (dB)", "BER", "SER", "SNR (dB)", "GMI", "MI", "Theory BER"}
	if sc.FEC.Enabled {
		header = append(header, "pre-FEC", "post-FEC")
	}
	table.SetHeader(header)

	for _, p := range points {
		theory := "-"
		if p.Theory != nil {
			theory = fmt.Sprintf("%.3e", *p.Theory)
		}
		row := []string{
			fmt.Sprintf("%.1f", p.EbN0dB),
			fmt.Sprintf("%.3e", meanOf(p.BER)),
			fmt.Sprintf("%.3e", meanOf(p.SER)),
			fmt.Sprintf("%.2f", meanOf(p.SNR)),
			fmt.Sprintf("%.3f", meanOf(p.GMI)),
			fmt.Sprintf("%.3f", meanOf(p.MI)),
			theory,
		}
		if p.FEC != nil {
			row = append(row,
				fmt.Sprintf("%.3e", p.FEC.PreFECBER),
				fmt.Sprintf("%.3e", p.FEC.PostFECBER))
		}
		table.Append(row)
	}
	table.Render()
}

func meanOf(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	var s float64
	for _, v := range x {
		s += v
	}
	return s / float64(len(x))
}
