package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"grephl/internal/document"
	"grephl/internal/notify"
	"grephl/internal/protocol"
	"grephl/internal/server"
)

func newServeCommand(root *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [FILE]",
		Short: "Serve the editing panel protocol over a websocket",
		Long: `Serve the panel protocol on /ws so a browser panel can edit terms and
highlights, run greps against FILE and manage saved settings.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			if addr == "" {
				addr = a.Config.Server.Addr
			}

			hub := server.NewHub()
			host := protocol.NewHost(protocol.Deps{
				Store:       a.Store,
				State:       a.State,
				Documents:   document.NewFileSource(path),
				Notifier:    notify.Multi{notify.NewLogNotifier(a.Log), hub},
				Results:     hub,
				Highlighter: a.Engine,
				Bus:         a.Bus,
				Logger:      a.Log,
			})
			srv := server.New(server.Config{
				Addr:           addr,
				AllowedOrigins: a.Config.Server.AllowedOrigins,
			}, host, hub, a.Store, a.Log)

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			fmt.Fprintf(cmd.ErrOrStderr(), "grephl serving on http://%s (websocket /ws)\n", addr)

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error { return srv.Run(ctx) })
			g.Go(func() error {
				err := host.Run(ctx)
				if ctx.Err() != nil {
					return nil
				}
				return err
			})
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
