package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/gpumark/scene"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List scenes and their options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := scene.DefaultRegistry()
			out := cmd.OutOrStdout()
			for _, name := range reg.Names() {
				s, err := reg.New(name, nil)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "[Scene] %s\n", name)
				for _, opt := range s.Options().List() {
					fmt.Fprintf(out, "  [Option] %s\n", opt.Name)
					fmt.Fprintf(out, "    Description  : %s\n", opt.Description)
					fmt.Fprintf(out, "    Default Value: %s\n", opt.Default)
				}
			}
			return nil
		},
	}
}
