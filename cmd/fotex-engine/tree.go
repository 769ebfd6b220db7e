package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dariafung/fotex/internal/filetree"
)

func newTreeCmd(flags *rootFlags) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "tree [dir]",
		Short: "Print a directory snapshot; without a dir, the workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "text", "json", "yaml":
			default:
				return fmt.Errorf("unsupported format %q (text, json, yaml)", format)
			}
			a, err := setup(cmd, flags, false)
			if err != nil {
				return err
			}
			defer a.close()

			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			res, rpcErr := a.router.Dispatch(cmd.Context(), "FolderRead", mustParams(map[string]any{"path": path}))
			if rpcErr != nil {
				return callError(rpcErr)
			}
			return writeTree(cmd.OutOrStdout(), res.(*filetree.Node), format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json, yaml")
	return cmd
}

func writeTree(w io.Writer, node *filetree.Node, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(node)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(node); err != nil {
			return err
		}
		return enc.Close()
	}
	printNode(w, node, 0)
	return nil
}

func printNode(w io.Writer, node *filetree.Node, depth int) {
	name := node.Name
	if node.IsDir {
		name = infoStyle.Render(name + "/")
	}
	fmt.Fprintln(w, strings.Repeat("  ", depth)+name)
	for _, child := range node.Children {
		printNode(w, child, depth+1)
	}
}
