package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/SHivit700/InteLect/internal/service"
	"github.com/SHivit700/InteLect/internal/transcript"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a quiz from a transcript",
	Long: "Generate a quiz from a plain-text transcript (--file) or from a JSON array " +
		"of timestamped segments (--segments). Use \"-\" to read from stdin.",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		segFile, _ := cmd.Flags().GetString("segments")
		target, _ := cmd.Flags().GetString("target")
		perSegment, _ := cmd.Flags().GetBool("per-segment")
		quizID, _ := cmd.Flags().GetString("quiz-id")
		window, _ := cmd.Flags().GetInt("window")
		perQuiz, _ := cmd.Flags().GetInt("questions")
		title, _ := cmd.Flags().GetString("title")

		if (file == "") == (segFile == "") {
			return errors.New("exactly one of --file or --segments is required")
		}

		rt, err := newRuntime(cmd, true)
		if err != nil {
			return err
		}
		defer rt.Close()
		svc := service.New(rt.provider, rt.cfg, rt.log)
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		if file != "" {
			text, err := readInput(file)
			if err != nil {
				return err
			}
			content := string(text)
			if title != "" {
				content = transcript.BuildPrompt(transcript.FromPlainText(content, title), "")
			}
			resp, err := svc.GenerateQuiz(ctx, service.QuizRequest{
				QuizID:              optional(quizID),
				SourceWindowMinutes: optional(window),
				Transcript:          content,
			})
			if err != nil {
				return err
			}
			return printJSON(out, resp)
		}

		var segments []transcript.Segment
		if err := readJSON(segFile, &segments); err != nil {
			return err
		}
		req := service.StructuredQuizRequest{
			Segments:            segments,
			QuizID:              optional(quizID),
			TargetSegment:       optional(target),
			QuestionsPerSegment: optional(perQuiz),
		}
		if perSegment {
			quizzes, err := svc.GeneratePerSegment(ctx, req)
			if err != nil {
				return err
			}
			return printJSON(out, quizzes)
		}
		resp, err := svc.GenerateStructured(ctx, req)
		if err != nil {
			return err
		}
		return printJSON(out, resp)
	},
}

func init() {
	generateCmd.Flags().StringP("file", "f", "", "Plain-text transcript file")
	generateCmd.Flags().StringP("segments", "s", "", "JSON file with transcript segments")
	generateCmd.Flags().StringP("target", "t", "", "Focus on the segment with this title")
	generateCmd.Flags().Bool("per-segment", false, "Generate one quiz per segment")
	generateCmd.Flags().String("quiz-id", "", "Quiz ID (random when empty)")
	generateCmd.Flags().String("title", "", "Lecture title; wraps a plain-text transcript in the structured prompt")
	generateCmd.Flags().Int("window", 0, "Source window in minutes (plain-text mode)")
	generateCmd.Flags().IntP("questions", "n", 0, "Questions per quiz, 3 to 5 (segments mode)")
}
