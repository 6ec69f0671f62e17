package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/SHivit700/InteLect/internal/recap"
	"github.com/SHivit700/InteLect/internal/service"
)

var recapCmd = &cobra.Command{
	Use:   "recap",
	Short: "Recommend segments to rewatch after a quiz",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		if file == "" {
			return errors.New("--file is required")
		}
		var req recap.Request
		if err := readJSON(file, &req); err != nil {
			return err
		}

		rt, err := newRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		resp, err := service.New(rt.provider, rt.cfg, rt.log).Recommend(cmd.Context(), req)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), resp)
	},
}

func init() {
	recapCmd.Flags().StringP("file", "f", "", "JSON file with video_id, segments and answers")
}
