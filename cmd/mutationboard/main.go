package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/ahxxm-foodgamere/mutationboard"
)

// workloadFile is the on-disk shape of the wishlist argument: a flat array
// of {"id": mutationId, "quantity": n} entries.
type workloadFile []struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// cellFile is the on-disk shape of an optional unlocked-cells override.
type cellFile []struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func fullBoard() []mutationboard.Cell {
	cells := make([]mutationboard.Cell, 0, mutationboard.BoardSize*mutationboard.BoardSize)
	for y := 0; y < mutationboard.BoardSize; y++ {
		for x := 0; x < mutationboard.BoardSize; x++ {
			cells = append(cells, mutationboard.Cell{X: x, Y: y})
		}
	}
	return cells
}

func loadCatalog(path string) (map[mutationboard.MutationID]*mutationboard.RawMutation, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if err := mutationboard.ValidateCatalogJSON(string(doc)); err != nil {
		return nil, err
	}
	return mutationboard.ParseCatalogJSON(string(doc))
}

func loadWorkload(path string) ([]mutationboard.WorkloadEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workload: %w", err)
	}
	var wf workloadFile
	if err := json.Unmarshal(raw, &wf); err != nil {
		return nil, fmt.Errorf("parse workload: %w", err)
	}
	entries := make([]mutationboard.WorkloadEntry, 0, len(wf))
	for _, e := range wf {
		entries = append(entries, mutationboard.WorkloadEntry{MutationID: mutationboard.MutationID(e.ID), Quantity: e.Quantity})
	}
	return entries, nil
}

func loadUnlocked(path string) ([]mutationboard.Cell, error) {
	if path == "" {
		return fullBoard(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read unlocked cells: %w", err)
	}
	var cf cellFile
	if err := json.Unmarshal(raw, &cf); err != nil {
		return nil, fmt.Errorf("parse unlocked cells: %w", err)
	}
	cells := make([]mutationboard.Cell, 0, len(cf))
	for _, c := range cf {
		cells = append(cells, mutationboard.Cell{X: c.X, Y: c.Y})
	}
	return cells, nil
}

func printTable(out mutationboard.LayoutOutput) {
	for y := 0; y < mutationboard.BoardSize; y++ {
		for x := 0; x < mutationboard.BoardSize; x++ {
			cell := out.Grid[y][x]
			switch cell.Kind {
			case mutationboard.GridCellMutationArea:
				if cell.MutationArea.IsCenter {
					fmt.Printf(" [%-4s]", short(string(cell.MutationArea.MutationID)))
				} else {
					fmt.Printf("  %-4s ", short(string(cell.MutationArea.MutationID)))
				}
			case mutationboard.GridCellCrop:
				fmt.Printf("  %-4s ", short(string(cell.Crop.Crop)))
			case mutationboard.GridCellEmptyZone:
				fmt.Print("   ..  ")
			default:
				fmt.Print("   .   ")
			}
		}
		fmt.Println()
	}
}

func short(s string) string {
	if len(s) > 4 {
		return s[:4]
	}
	return s
}

func printBreakdown(out mutationboard.LayoutOutput) {
	f := out.Fitness
	fmt.Printf("placed %d/%d (%.1f%%)  crops %d shared=%d (eff %.2f)  compactness %.2f  synergies %d\n",
		f.Placed, f.Requested, f.PlacementRate*100, f.TotalCrops, f.SharedCrops, f.CropEfficiency, f.CompactnessScore, f.Synergies)
	fmt.Printf("total score: %.2f\n", f.TotalScore)
}

const usage = `Usage: mutationboard -catalog catalog.json -workload workload.json [-unlocked cells.json] [-objective [-preset quick|default|thorough] [-profit]] [-json] [-verbose]

Flags:
`

func main() {
	catalogPath := flag.String("catalog", "", "Path to raw catalog JSON")
	workloadPath := flag.String("workload", "", "Path to workload JSON (array of {id,quantity})")
	unlockedPath := flag.String("unlocked", "", "Path to unlocked-cells JSON override (default: full board)")
	jsonOut := flag.Bool("json", false, "Output LayoutOutput as JSON instead of a table")
	verbose := flag.Bool("verbose", false, "Print solver progress to stdout")
	objectiveMode := flag.Bool("objective", false, "Run the objective-driven loop instead of Optimize")
	preset := flag.String("preset", "default", "Objective preset: quick, default, thorough")
	profit := flag.Bool("profit", false, "Objective=MaxProfit instead of MaxCount (only with -objective)")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *catalogPath == "" || *workloadPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	mutationboard.Verbose = *verbose

	rawCatalog, err := loadCatalog(*catalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	workload, err := loadWorkload(*workloadPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	unlocked, err := loadUnlocked(*unlockedPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cfg := mutationboard.DefaultConfig()

	var out mutationboard.LayoutOutput
	if *objectiveMode {
		allowed := make([]mutationboard.MutationID, 0, len(workload))
		for _, w := range workload {
			allowed = append(allowed, w.MutationID)
		}
		objective := mutationboard.MaxCount
		if *profit {
			objective = mutationboard.MaxProfit
		}
		out, err = mutationboard.OptimizeLayout(rawCatalog, allowed, unlocked, objective, *preset, cfg)
	} else {
		out, err = mutationboard.Optimize(rawCatalog, workload, unlocked, cfg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(out)
		return
	}

	printTable(out)
	printBreakdown(out)
}
