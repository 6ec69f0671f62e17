package cmd

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/SHivit700/InteLect/internal/llm"
	"github.com/SHivit700/InteLect/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect logged LLM calls: repairs, tool turns, failures and cost",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM calls",
	Long: "List recent LLM calls, newest first. The Try column is the repair attempt " +
		"for quiz generation or the turn number inside a tool loop.",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		requestID, _ := cmd.Flags().GetString("request-id")
		failed, _ := cmd.Flags().GetBool("failed")
		since, _ := cmd.Flags().GetDuration("since")

		opts := store.QueryOpts{Limit: limit, Purpose: purpose, RequestID: requestID, FailedOnly: failed}
		if since > 0 {
			opts.From = time.Now().Add(-since)
		}

		s, err := openEventStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No LLM events found.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-19s  %-19s  %3s  %-24s  %6s  %6s  %7s  %s\n",
			"ID", "Timestamp", "Purpose", "Try", "Model", "In", "Out", "Ms", "Status")
		fmt.Fprintln(out, strings.Repeat("─", 108))
		for _, e := range events {
			fmt.Fprintf(out, "%-5d  %-19s  %-19s  %3d  %-24s  %6d  %6d  %7d  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(e.Purpose, 19),
				e.Attempt,
				truncate(e.Model, 24),
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				status(e),
			)
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View the full request and response of one LLM call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openEventStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ID:        %d\n", e.ID)
		fmt.Fprintf(out, "Time:      %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		if e.RequestID != "" {
			fmt.Fprintf(out, "Request:   %s\n", e.RequestID)
		}
		fmt.Fprintf(out, "Purpose:   %s (%s)\n", e.Purpose, workflowOf(e.Purpose))
		fmt.Fprintf(out, "Attempt:   %d\n", e.Attempt)
		fmt.Fprintf(out, "Provider:  %s\n", e.Provider)
		fmt.Fprintf(out, "Model:     %s\n", e.Model)
		fmt.Fprintf(out, "Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
		if c, ok := llm.EstimateCost(e.Model, e.InputTokens, e.OutputTokens); ok {
			fmt.Fprintf(out, "Cost:      %s\n", formatCost(c))
		}
		fmt.Fprintf(out, "Latency:   %dms\n", e.LatencyMs)
		fmt.Fprintf(out, "Status:    %s\n", status(*e))
		if e.ErrorMessage != "" {
			fmt.Fprintf(out, "Error:     %s\n", e.ErrorMessage)
		}

		section(out, "REQUEST", e.RequestBody)
		section(out, "RESPONSE", e.ResponseBody)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show follow-up calls, failure rates and estimated cost per workflow",
	Long: "Show LLM usage per workflow (generation, judging, recap) and per purpose. " +
		"Follow-ups are repair attempts and tool-loop turns after the first call.",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openEventStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		usage, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(usage) == 0 {
			fmt.Fprintln(out, "No LLM usage recorded yet.")
			return nil
		}

		fmt.Fprintln(out, "Usage by Workflow")
		usageTable(out, byWorkflow(usage))
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Usage by Purpose")
		usageTable(out, usage)

		models, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		fmt.Fprintln(out)
		costTable(out, models)
		return nil
	},
}

// workflowOf groups purpose labels into the service's workflows.
func workflowOf(purpose string) string {
	switch {
	case strings.HasPrefix(purpose, "quiz-"):
		return "generation"
	case purpose == "answer-judge":
		return "judging"
	case purpose == "recap":
		return "recap"
	default:
		return "other"
	}
}

// byWorkflow folds per-purpose usage into per-workflow rows, keeping the
// first-seen order (busiest first).
func byWorkflow(usage []store.PurposeUsage) []store.PurposeUsage {
	idx := map[string]int{}
	var latency []int64
	var out []store.PurposeUsage
	for _, u := range usage {
		name := workflowOf(u.Purpose)
		i, ok := idx[name]
		if !ok {
			i = len(out)
			idx[name] = i
			out = append(out, store.PurposeUsage{Purpose: name})
			latency = append(latency, 0)
		}
		w := &out[i]
		w.Calls += u.Calls
		w.InputTokens += u.InputTokens
		w.OutputTokens += u.OutputTokens
		w.Failures += u.Failures
		w.FollowUps += u.FollowUps
		latency[i] += u.AvgLatencyMs * int64(u.Calls)
	}
	for i := range out {
		if out[i].Calls > 0 {
			out[i].AvgLatencyMs = latency[i] / int64(out[i].Calls)
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Calls > out[b].Calls })
	return out
}

func usageTable(out io.Writer, rows []store.PurposeUsage) {
	rule := strings.Repeat("─", 96)
	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "%-20s  %6s  %9s  %8s  %6s  %10s  %10s  %8s\n",
		"Name", "Calls", "Follow-up", "Failures", "Fail%", "Input", "Output", "Avg Ms")
	fmt.Fprintln(out, rule)

	var total store.PurposeUsage
	for _, u := range rows {
		fmt.Fprintf(out, "%-20s  %6d  %9d  %8d  %5.1f%%  %10d  %10d  %8d\n",
			truncate(u.Purpose, 20), u.Calls, u.FollowUps, u.Failures, 100*u.FailureRate(),
			u.InputTokens, u.OutputTokens, u.AvgLatencyMs)
		total.Calls += u.Calls
		total.FollowUps += u.FollowUps
		total.Failures += u.Failures
		total.InputTokens += u.InputTokens
		total.OutputTokens += u.OutputTokens
	}
	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "%-20s  %6d  %9d  %8d  %5.1f%%  %10d  %10d\n",
		"TOTAL", total.Calls, total.FollowUps, total.Failures, 100*total.FailureRate(),
		total.InputTokens, total.OutputTokens)
}

func costTable(out io.Writer, models []store.ModelUsage) {
	rule := strings.Repeat("─", 76)
	fmt.Fprintln(out, "Estimated Cost (USD)")
	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "%-32s  %6s  %10s  %10s  %10s\n", "Model", "Calls", "Input", "Output", "Cost")
	fmt.Fprintln(out, rule)

	var totalCost float64
	var unpriced []string
	for _, m := range models {
		cost := "?"
		if c, ok := llm.EstimateCost(m.Model, m.InputTokens, m.OutputTokens); ok {
			totalCost += c
			cost = formatCost(c)
		} else {
			unpriced = append(unpriced, m.Model)
		}
		fmt.Fprintf(out, "%-32s  %6d  %10d  %10d  %10s\n",
			truncate(m.Model, 32), m.Calls, m.InputTokens, m.OutputTokens, cost)
	}

	fmt.Fprintln(out, rule)
	label := "TOTAL"
	if len(unpriced) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(out, "%-32s  %6s  %10s  %10s  %10s\n", label, "", "", "", formatCost(totalCost))
	if len(unpriced) > 0 {
		fmt.Fprintf(out, "\nPricing unavailable for: %s\n", strings.Join(unpriced, ", "))
	}
}

func section(out io.Writer, title, body string) {
	sep := strings.Repeat("─", 60)
	fmt.Fprintln(out)
	fmt.Fprintln(out, sep)
	fmt.Fprintln(out, title)
	fmt.Fprintln(out, sep)
	if body == "" {
		body = "(not captured)"
	}
	fmt.Fprintln(out, body)
}

func status(e store.LLMEvent) string {
	if e.Success {
		return "ok"
	}
	return "failed"
}

// openEventStore opens the configured LLM event database.
func openEventStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	if dbPath == "" {
		return nil, errors.New("LLM event logging is disabled (--db off)")
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (quiz-generate, quiz-generate-tools, quiz-adaptive, answer-judge, recap)")
	llmListCmd.Flags().String("request-id", "", "Show only calls made for this HTTP request")
	llmListCmd.Flags().Bool("failed", false, "Show only failed calls")
	llmListCmd.Flags().Duration("since", 0, "Show only calls newer than this (e.g. 24h)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
