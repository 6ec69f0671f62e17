package cmd

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SHivit700/InteLect/internal/difficulty"
	"github.com/SHivit700/InteLect/internal/service"
	"github.com/SHivit700/InteLect/internal/transcript"
)

var adaptiveCmd = &cobra.Command{
	Use:   "adaptive",
	Short: "Generate a segment quiz whose difficulty follows past performance",
	RunE: func(cmd *cobra.Command, args []string) error {
		segFile, _ := cmd.Flags().GetString("segments")
		segmentID, _ := cmd.Flags().GetInt("segment-id")
		videoID, _ := cmd.Flags().GetString("video-id")
		prevFile, _ := cmd.Flags().GetString("previous")
		level, _ := cmd.Flags().GetString("difficulty")
		n, _ := cmd.Flags().GetInt("questions")

		if segFile == "" {
			return errors.New("--segments is required")
		}
		if videoID == "" {
			videoID = strings.TrimSuffix(filepath.Base(segFile), filepath.Ext(segFile))
		}

		req := service.AdaptiveQuizRequest{
			VideoID:          videoID,
			SegmentID:        segmentID,
			NumQuestions:     optional(n),
			TargetDifficulty: optional(level),
		}
		if err := readJSON(segFile, &req.Segments); err != nil {
			return err
		}
		if prevFile != "" {
			var prev difficulty.Performance
			if err := readJSON(prevFile, &prev); err != nil {
				return err
			}
			req.PreviousPerformance = &prev
		}
		if len(req.Segments) == 0 {
			return errors.New("segments file holds no segments")
		}
		req.Segments = selectSegment(req.Segments, segmentID)

		rt, err := newRuntime(cmd, true)
		if err != nil {
			return err
		}
		defer rt.Close()

		resp, err := service.New(rt.provider, rt.cfg, rt.log).GenerateAdaptive(cmd.Context(), req)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), resp)
	},
}

// selectSegment narrows segments to the one numbered id, keeping them all
// when none matches.
func selectSegment(segments []transcript.Segment, id int) []transcript.Segment {
	for _, s := range segments {
		if s.SegmentNumber != nil && *s.SegmentNumber == id {
			return []transcript.Segment{s}
		}
	}
	return segments
}

func init() {
	adaptiveCmd.Flags().StringP("segments", "s", "", "JSON file with transcript segments")
	adaptiveCmd.Flags().Int("segment-id", 1, "Segment number the quiz covers")
	adaptiveCmd.Flags().String("video-id", "", "Video ID (defaults to the segments file name)")
	adaptiveCmd.Flags().String("previous", "", "JSON file with the previous segment's performance")
	adaptiveCmd.Flags().StringP("difficulty", "d", "", "Force difficulty: easy, medium or hard")
	adaptiveCmd.Flags().IntP("questions", "n", 0, "Number of questions, 3 to 5")
}
