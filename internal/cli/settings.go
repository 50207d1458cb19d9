package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"grephl/internal/transfer"
)

func newSettingsCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage saved term and highlight sets",
	}
	cmd.AddCommand(
		newSettingsListCommand(root),
		newSettingsShowCommand(root),
		newSettingsDeleteCommand(root),
		newSettingsExportCommand(root),
		newSettingsImportCommand(root),
	)
	return cmd
}

func newSettingsListCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			names, err := a.Store.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newSettingsShowCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Print the terms and highlights of saved settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			cfg, err := a.Store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name: %s\n", cfg.Name)
			fmt.Fprintln(out, "Grep:")
			for _, t := range cfg.Terms {
				fmt.Fprintf(out, "  %s\n", t)
			}
			fmt.Fprintln(out, "Highlight:")
			for _, h := range cfg.Highlights {
				fmt.Fprintf(out, "  %s = %s\n", h.Word, h.Color)
			}
			return nil
		},
	}
}

func newSettingsDeleteCommand(root *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete saved settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !yes {
				prompt := promptui.Prompt{
					Label:     fmt.Sprintf("Delete settings '%s'", name),
					IsConfirm: true,
				}
				if _, err := prompt.Run(); err != nil {
					if errors.Is(err, promptui.ErrAbort) {
						fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
						return nil
					}
					return err
				}
			}

			a, err := root.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Store.Delete(cmd.Context(), name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Settings '%s' deleted\n", name)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "don't ask for confirmation")
	return cmd
}

func newSettingsExportCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export NAME",
		Short: "Print saved settings in the shareable JSON form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			cfg, err := a.Store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			text, err := transfer.Export(cfg.Terms, cfg.Highlights)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func newSettingsImportCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import NAME [FILE]",
		Short: "Save JSON settings under NAME, reading FILE or standard input",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if len(args) == 2 && args[1] != "-" {
				f, err := os.Open(args[1])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			data, err := io.ReadAll(r)
			if err != nil {
				return err
			}
			terms, highlights, err := transfer.Import(strings.TrimSpace(string(data)))
			if err != nil {
				return err
			}

			a, err := root.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Store.Save(cmd.Context(), args[0], terms, highlights); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Settings '%s' saved\n", args[0])
			return nil
		},
	}
}
