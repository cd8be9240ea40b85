package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.trai.ch/sqip/internal/app"
	"go.trai.ch/sqip/internal/core/domain"
	"go.trai.ch/sqip/internal/ui/style"
	"go.trai.ch/zerr"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Regenerate previews as images change",
		Long: "Generate previews for every image below a directory, then keep regenerating\n" +
			"the preview of each image that is created or modified until interrupted.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := app.WatchOptions{Template: inputTemplate(cmd)}
			if len(args) == 1 {
				opts.Root = args[0]
			}
			opts.Debounce, _ = cmd.Flags().GetDuration("debounce")

			asJSON, _ := cmd.Flags().GetBool("json")
			outDir, _ := cmd.Flags().GetString("output")
			if outDir != "" {
				if err := os.MkdirAll(outDir, domain.DirPerm); err != nil {
					return zerr.With(zerr.Wrap(err, "failed to create output directory"), "dir", outDir)
				}
			}

			names := newPreviewNames(outDir)
			out := cmd.OutOrStdout()
			errOut := cmd.ErrOrStderr()
			enc := json.NewEncoder(out)
			enc.SetEscapeHTML(false)

			return c.app.Watch(cmd.Context(), opts, func(result app.GenerateOutput) {
				switch {
				case asJSON:
					_ = enc.Encode(toPreviewJSON(result))
				case outDir != "":
					if err := writeFile(out, names, result); err != nil {
						_, _ = fmt.Fprintf(errOut, "%s %v\n", lipgloss.NewStyle().Foreground(style.Red).Render(style.Cross), err)
					}
				case result.Err != nil:
					_, _ = fmt.Fprintf(errOut, "%s %s: %v\n",
						lipgloss.NewStyle().Foreground(style.Red).Render(style.Cross), result.Path, result.Err)
				default:
					writeDataURIs(out, []app.GenerateOutput{result})
				}
			})
		},
	}

	addGenerationFlags(cmd, c.app.Defaults())
	cmd.Flags().Duration("debounce", 0, "Quiet period before changed images are regenerated (default 200ms)")
	cmd.Flags().Bool("json", false, "Print each preview as a JSON line")
	cmd.Flags().StringP("output", "o", "", "Write each preview as <name>.svg into this directory")
	cmd.MarkFlagsMutuallyExclusive("json", "output")

	return cmd
}
