// Command fairadjust fits a fairness-constrained threshold adjustment to a
// CSV of calibration scores and reports the derived per-group rules. The
// fitted rule set can be persisted to SQLite and visualized as HTML or PNG.
//
// The input CSV needs a header with group, label, and score columns
// (names configurable). Example:
//
//	fairadjust -input calib.csv -criterion equalized_odds -plot hulls.html
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/parity-tools/fairadjust/internal/fairness"
	"github.com/parity-tools/fairadjust/internal/fairplot"
	"github.com/parity-tools/fairadjust/internal/rulestore"
	"github.com/parity-tools/fairadjust/internal/version"
)

var (
	input     = flag.String("input", "", "Calibration CSV file (required)")
	criterion = flag.String("criterion", "demographic_parity", "Parity criterion: demographic_parity or equalized_odds")
	groupCols = flag.String("group-col", "group", "Group attribute column name(s), comma separated")
	labelCol  = flag.String("label-col", "label", "Binary label column name")
	scoreCol  = flag.String("score-col", "score", "Raw score column name")
	seed      = flag.Int64("seed", 0, "Seed for hard-label sampling (0 = unseeded)")
	dbPath    = flag.String("db", "", "Persist the fitted rules to this SQLite store")
	notes     = flag.String("notes", "", "Free-form notes stored with the run")
	plotHTML  = flag.String("plot", "", "Write an HTML hull chart to this path")
	plotPNG   = flag.String("png", "", "Write a PNG hull chart to this path")
	predict   = flag.Bool("predict", false, "Emit sampled hard labels for the input rows instead of rules JSON")
	showVer   = flag.Bool("version", false, "Print version information and exit")
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Println(version.String())
		return
	}

	if *input == "" {
		flag.Usage()
		log.Fatal("-input is required")
	}

	data, err := loadCalibration(*input, *groupCols, *labelCol, *scoreCol)
	if err != nil {
		log.Fatalf("failed to load calibration data: %v", err)
	}

	var rng *rand.Rand
	if *seed != 0 {
		rng = rand.New(rand.NewSource(*seed))
	}

	opt, err := fairness.New(fairness.Config{
		Model:     fairness.ScoreColumnModel{Column: 0},
		Criterion: fairness.Criterion(*criterion),
		Rand:      rng,
	})
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if err := opt.Fit(data.X, data.Labels, data.Groups); err != nil {
		log.Fatalf("fit failed: %v", err)
	}

	rules, err := opt.Rules()
	if err != nil {
		log.Fatalf("failed to read fitted rules: %v", err)
	}
	sol, err := opt.Solution()
	if err != nil {
		log.Fatalf("failed to read solution: %v", err)
	}

	if *dbPath != "" {
		store, err := rulestore.Open(*dbPath)
		if err != nil {
			log.Fatalf("failed to open rule store: %v", err)
		}
		defer store.Close()

		id, err := store.SaveRun(sol, rules, *notes)
		if err != nil {
			log.Fatalf("failed to save run: %v", err)
		}
		log.Printf("saved run %s to %s", id, *dbPath)
	}

	if *plotHTML != "" {
		f, err := os.Create(*plotHTML)
		if err != nil {
			log.Fatalf("failed to create %s: %v", *plotHTML, err)
		}
		if err := fairplot.WriteHTML(f, sol); err != nil {
			log.Fatalf("failed to render HTML chart: %v", err)
		}
		f.Close()
		log.Printf("wrote hull chart to %s", *plotHTML)
	}

	if *plotPNG != "" {
		if err := fairplot.SavePNG(*plotPNG, sol); err != nil {
			log.Fatalf("failed to render PNG chart: %v", err)
		}
		log.Printf("wrote hull chart to %s", *plotPNG)
	}

	if *predict {
		if err := writePredictions(opt, data); err != nil {
			log.Fatalf("failed to write predictions: %v", err)
		}
		return
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rules); err != nil {
		log.Fatalf("failed to encode rules: %v", err)
	}
}

// writePredictions samples one hard label per input row and writes a CSV of
// group, score, label, prediction to stdout.
func writePredictions(opt *fairness.ThresholdOptimizer, data *calibrationData) error {
	preds, err := opt.Predict(data.X, data.Groups)
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	if err := w.Write([]string{"group", "score", "label", "prediction"}); err != nil {
		return err
	}
	for i, p := range preds {
		rec := []string{
			data.Groups[i],
			fmt.Sprintf("%g", data.X[i][0]),
			fmt.Sprintf("%d", data.Labels[i]),
			fmt.Sprintf("%d", p),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
