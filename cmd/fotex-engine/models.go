package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newModelsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List models installed on the Ollama server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, flags, false)
			if err != nil {
				return err
			}
			defer a.close()

			res, rpcErr := a.router.Dispatch(cmd.Context(), "ModelsList", nil)
			if rpcErr != nil {
				return callError(rpcErr)
			}
			result := res.(map[string]any)
			selected, _ := result["selected"].(string)
			models, _ := result["models"].([]string)
			out := cmd.OutOrStdout()
			if len(models) == 0 {
				fmt.Fprintln(out, dimStyle.Render("no models installed"))
				return nil
			}
			for _, model := range models {
				if model == selected {
					fmt.Fprintln(out, selectedStyle.Render("* "+model))
					continue
				}
				fmt.Fprintln(out, "  "+model)
			}
			return nil
		},
	}
}
