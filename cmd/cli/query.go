// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"debt-advice-engine/cmd/common"
	"debt-advice-engine/pkg/engine"
)

func loadSystem(configPath string) (*common.System, error) {
	var cfg *common.Config
	if configPath != "" {
		loaded, err := common.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	} else {
		cfg = common.LoadConfigFromEnv()
	}

	return common.InitializeSystem(cfg)
}

func parseClientValues(raw string) (map[string]float64, error) {
	if raw == "" {
		return nil, nil
	}

	values := make(map[string]float64)
	if strings.HasPrefix(strings.TrimSpace(raw), "{") {
		if err := json.Unmarshal([]byte(raw), &values); err != nil {
			return nil, fmt.Errorf("failed to parse client values JSON: %w", err)
		}
		return values, nil
	}

	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid client value %q, want key=value", pair)
		}
		amount, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid client value for %q: %w", parts[0], err)
		}
		values[strings.TrimSpace(parts[0])] = amount
	}
	return values, nil
}

func runQuery(args []string) error {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config.json (defaults to environment)")
	topK := fs.Int("top-k", 0, "number of manual chunks to retrieve (0 = use config default)")
	maxIterations := fs.Int("max-iterations", 0, "maximum synthesis tool-call iterations (0 = use config default)")
	showReasoning := fs.Bool("show-reasoning", false, "include a trace of the reasoning steps taken")
	disableSymbolic := fs.Bool("no-symbolic", false, "disable symbolic numerical reasoning for this query")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: debt-advice-engine query [options] <question>

Ask a free-text question against the manual corpus.

Examples:
  debt-advice-engine query "What is a Debt Relief Order?"
  debt-advice-engine query -show-reasoning "What is the DRO debt limit?"
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("a question is required")
	}
	question := strings.Join(fs.Args(), " ")

	sys, err := loadSystem(*configPath)
	if err != nil {
		return err
	}
	defer sys.Close()

	opts := engine.Options{
		TopK:          *topK,
		MaxIterations: *maxIterations,
		ShowReasoning: *showReasoning,
	}
	if *disableSymbolic {
		disabled := false
		opts.SymbolicEnabled = &disabled
	}

	result, err := sys.Engine.AnswerQuery(context.Background(), question, opts)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	displayQueryResult(result)
	return nil
}

func runEligibility(args []string) error {
	fs := flag.NewFlagSet("eligibility", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config.json (defaults to environment)")
	topic := fs.String("topic", "", "eligibility topic, e.g. dro_eligibility, bankruptcy_eligibility, iva_eligibility")
	clientValuesRaw := fs.String("values", "", `client values as JSON (e.g. '{"debt":45000,"income":70,"assets":1500}') or key=value pairs`)
	includeDiagram := fs.Bool("diagram", false, "include a rendered decision path in the output")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: debt-advice-engine eligibility -topic <topic> -values <values> [options] <question>

Evaluate a client's eligibility for a debt solution against the decision tree for topic.

Examples:
  debt-advice-engine eligibility -topic dro_eligibility -values debt=45000,income=70,assets=1500 "Is this client eligible for a DRO?"
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("a question is required")
	}
	if *topic == "" {
		return fmt.Errorf("-topic is required")
	}
	question := strings.Join(fs.Args(), " ")

	clientValues, err := parseClientValues(*clientValuesRaw)
	if err != nil {
		return err
	}

	sys, err := loadSystem(*configPath)
	if err != nil {
		return err
	}
	defer sys.Close()

	result, err := sys.Engine.EvaluateEligibility(context.Background(), question, clientValues, *topic, engine.Options{
		IncludeDiagram: *includeDiagram,
	})
	if err != nil {
		return fmt.Errorf("eligibility evaluation failed: %w", err)
	}

	displayEligibilityResult(result)
	return nil
}

func runBootstrap(args []string) error {
	fs := flag.NewFlagSet("bootstrap", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config.json (defaults to environment)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: debt-advice-engine bootstrap [options]

(Re)populate the numeric threshold cache and decision trees from the manual corpus.
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	sys, err := loadSystem(*configPath)
	if err != nil {
		return err
	}
	defer sys.Close()

	if err := sys.Bootstrap(context.Background()); err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}

	fmt.Println("Threshold cache and decision trees refreshed from the manual corpus.")
	return nil
}

func displayQueryResult(result *engine.QueryResult) {
	fmt.Println(result.Answer)
	fmt.Println()
	fmt.Printf("Confidence: %s\n", result.Confidence)
	if len(result.Sources) > 0 {
		fmt.Printf("Sources: %s\n", strings.Join(result.Sources, ", "))
	}
	fmt.Printf("Iterations used: %d\n", result.IterationsUsed)

	if len(result.ReasoningSteps) > 0 {
		fmt.Println("\nReasoning trace:")
		for _, step := range result.ReasoningSteps {
			fmt.Printf("  [%s] %s\n    %s\n", step.Step, step.Description, step.Result)
		}
	}
}

func displayEligibilityResult(result *engine.EligibilityResult) {
	fmt.Println(result.Answer)
	fmt.Println()
	fmt.Printf("Overall result: %s (confidence %.0f%%)\n", result.OverallResult, result.Confidence*100)

	if len(result.Criteria) > 0 {
		fmt.Println("\nCriteria:")
		for _, c := range result.Criteria {
			fmt.Printf("  %-12s %s %v %v (gap %.2f) -> %s\n", c.Criterion, c.ThresholdName, c.ClientValue, c.Operator, c.Gap, c.Status)
		}
	}

	if len(result.NearMisses) > 0 {
		fmt.Println("\nNear misses:")
		for _, nm := range result.NearMisses {
			fmt.Printf("  %s (gap %.2f, tolerance %.2f)\n", nm.ThresholdName, nm.Gap, nm.Tolerance)
			for _, strategy := range nm.Strategies {
				fmt.Printf("    - %s (%s)\n", strategy.Description, strategy.Likelihood)
			}
		}
	}

	if len(result.Recommendations) > 0 {
		fmt.Println("\nRecommendations:")
		for _, rec := range result.Recommendations {
			fmt.Printf("  [%s/%s] %s\n", rec.Type, rec.Priority, rec.Action)
			for _, step := range rec.Steps {
				fmt.Printf("    - %s\n", step)
			}
		}
	}

	if len(result.Sources) > 0 {
		fmt.Printf("\nSources: %s\n", strings.Join(result.Sources, ", "))
	}

	if result.Diagram != nil {
		fmt.Printf("\nDecision path: %s\n", *result.Diagram)
	}
}
