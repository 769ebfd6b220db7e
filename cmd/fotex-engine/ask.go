package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAskCmd(flags *rootFlags) *cobra.Command {
	var formula bool
	cmd := &cobra.Command{
		Use:   "ask <prompt...>",
		Short: "Ask the assistant for LaTeX",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, flags, false)
			if err != nil {
				return err
			}
			defer a.close()

			prompt := strings.Join(args, " ")
			method, params := "AssistantAsk", map[string]any{"prompt": prompt}
			if formula {
				method, params = "AssistantToFormula", map[string]any{"text": prompt}
			}
			res, rpcErr := a.router.Dispatch(cmd.Context(), method, mustParams(params))
			if rpcErr != nil {
				return callError(rpcErr)
			}
			result := res.(map[string]any)
			fmt.Fprintln(cmd.ErrOrStderr(), dimStyle.Render(fmt.Sprint(result["model"])))
			fmt.Fprintln(cmd.OutOrStdout(), result["text"])
			return nil
		},
	}
	cmd.Flags().BoolVar(&formula, "formula", false, "convert a plain-language description into a formula")
	return cmd
}

func mustParams(value any) json.RawMessage {
	data, err := json.Marshal(value)
	if err != nil {
		panic(err)
	}
	return data
}
