package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newCompileCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "compile [file.tex]",
		Short: "Compile a document; without a file, the workspace main.tex",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, flags, false)
			if err != nil {
				return err
			}
			defer a.close()

			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			ctx := cmd.Context()
			var content string
			if path == "" {
				res, rpcErr := a.router.Dispatch(ctx, "DocumentReadMain", nil)
				if rpcErr != nil {
					return callError(rpcErr)
				}
				content, _ = res.(map[string]any)["content"].(string)
			} else {
				res, rpcErr := a.router.Dispatch(ctx, "DocumentReadText", mustParams(map[string]any{"path": path}))
				if rpcErr != nil {
					return callError(rpcErr)
				}
				content, _ = res.(map[string]any)["content"].(string)
			}

			res, rpcErr := a.router.Dispatch(ctx, "CompileRun", mustParams(map[string]any{"path": path, "content": content}))
			if rpcErr != nil {
				return callError(rpcErr)
			}
			result := res.(map[string]any)
			elapsed := time.Duration(result["duration_ms"].(int64)) * time.Millisecond
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("compiled"), result["output_path"], dimStyle.Render(elapsed.String()))
			return nil
		},
	}
}
