package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"verified-ideas/internal/bootstrap"
	"verified-ideas/internal/ideas"
	"verified-ideas/internal/shared/config"
)

// serviceOpener returns the ideas service and a func releasing its store.
type serviceOpener func(ctx context.Context) (*ideas.Service, func() error, error)

func openService(ctx context.Context) (*ideas.Service, func() error, error) {
	store, err := bootstrap.OpenStore(ctx, config.Load())
	if err != nil {
		return nil, nil, err
	}
	closeFn := store.Close
	if closeFn == nil {
		closeFn = func() error { return nil }
	}
	return ideas.NewService(store.Repo), closeFn, nil
}

func newRootCmd(open serviceOpener) *cobra.Command {
	var output string

	rootCmd := &cobra.Command{
		Use:          "ideactl",
		Short:        "Verified ideas admin CLI",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch output {
			case formatJSON, formatYAML:
				return nil
			default:
				return fmt.Errorf("unsupported output format %q (want json or yaml)", output)
			}
		},
	}
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", formatJSON, "output format: json or yaml")

	// withService opens the store for the duration of one command.
	withService := func(cmd *cobra.Command, fn func(*ideas.Service) (any, error)) error {
		svc, closeFn, err := open(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()
		result, err := fn(svc)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), output, result)
	}

	var file string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Validate and store an idea read from a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readInput(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			return withService(cmd, func(svc *ideas.Service) (any, error) {
				return svc.Create(cmd.Context(), body)
			})
		},
	}
	createCmd.Flags().StringVarP(&file, "file", "f", "", "path to the idea JSON, or - for stdin (required)")
	_ = createCmd.MarkFlagRequired("file")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Print one stored idea",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(svc *ideas.Service) (any, error) {
				return svc.Get(cmd.Context(), args[0])
			})
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print the summary of every stored idea",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(svc *ideas.Service) (any, error) {
				return svc.List(cmd.Context())
			})
		},
	}

	rootCmd.AddCommand(createCmd, getCmd, listCmd)
	return rootCmd
}

func readInput(stdin io.Reader, file string) ([]byte, error) {
	if file == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	return data, nil
}
