package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dariafung/fotex/internal/engine"
	"github.com/dariafung/fotex/internal/httpapi"
	"github.com/dariafung/fotex/internal/rpc"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve JSON-RPC over stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags)
		},
	}
}

func runServe(cmd *cobra.Command, flags *rootFlags) error {
	a, err := setup(cmd, flags, true)
	if err != nil {
		return err
	}
	defer a.close()

	server := rpc.NewServer(engine.APIVersion, os.Stdin, os.Stdout, a.router, a.logger)
	a.engine.SetNotifier(server.Notify)
	a.logger.Info("engine.started", "transport", "stdio", "methods", len(a.router.Methods()))
	if err := server.Serve(cmd.Context()); err != nil {
		a.logger.Error("rpc.server_error", "error", err.Error())
		return err
	}
	return nil
}

func newServeHTTPCmd(flags *rootFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve-http",
		Short: "Serve the same methods over local HTTP",
		Long: `Serve every engine method as POST /rpc/<Method> with the params as the JSON
body. GET /rpc lists methods and GET /healthz reports liveness.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, flags, true)
			if err != nil {
				return err
			}
			defer a.close()

			cmd.Println(infoStyle.Render("listening on http://" + addr))
			a.logger.Info("engine.started", "transport", "http", "addr", addr)
			return httpapi.New(a.router, a.logger).ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", httpapi.DefaultAddr, "listen address")
	return cmd
}
