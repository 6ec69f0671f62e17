package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SHivit700/InteLect/internal/quiz"
	"github.com/SHivit700/InteLect/internal/service"
)

var judgeCmd = &cobra.Command{
	Use:   "judge",
	Short: "Judge a learner's answer to a quiz question",
	Long: "Judge a learner's answer. MCQ answers are compared directly; short answers " +
		"are judged by the model, falling back to keyword matching when no provider is configured.",
	RunE: func(cmd *cobra.Command, args []string) error {
		qType, _ := cmd.Flags().GetString("type")
		question, _ := cmd.Flags().GetString("question")
		correct, _ := cmd.Flags().GetString("correct")
		answer, _ := cmd.Flags().GetString("answer")
		rawOptions, _ := cmd.Flags().GetStringSlice("options")
		transcriptFile, _ := cmd.Flags().GetString("transcript")

		options, err := parseOptions(rawOptions)
		if err != nil {
			return err
		}
		req := service.AnswerValidationRequest{
			QuestionText:  question,
			QuestionType:  qType,
			CorrectAnswer: correct,
			UserAnswer:    answer,
			Options:       options,
		}
		if transcriptFile != "" {
			text, err := readInput(transcriptFile)
			if err != nil {
				return err
			}
			req.Transcript = string(text)
		}

		rt, err := newRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		resp, err := service.New(rt.provider, rt.cfg, rt.log).ValidateAnswer(cmd.Context(), req)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), resp)
	},
}

// parseOptions turns "A=text" pairs into options.
func parseOptions(raw []string) ([]quiz.Option, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]quiz.Option, 0, len(raw))
	for _, r := range raw {
		id, text, ok := strings.Cut(r, "=")
		if !ok || strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("invalid option %q, want ID=text", r)
		}
		out = append(out, quiz.Option{ID: strings.ToUpper(strings.TrimSpace(id)), Text: strings.TrimSpace(text)})
	}
	return out, nil
}

func init() {
	judgeCmd.Flags().String("type", string(quiz.TypeShortAnswer), "Question type: mcq or short_answer")
	judgeCmd.Flags().StringP("question", "q", "", "Question text")
	judgeCmd.Flags().StringP("correct", "c", "", "Correct answer (option ID for mcq)")
	judgeCmd.Flags().StringP("answer", "a", "", "Learner's answer")
	judgeCmd.Flags().StringSlice("options", nil, "MCQ options as ID=text, repeatable")
	judgeCmd.Flags().String("transcript", "", "Transcript file used as context")
}
