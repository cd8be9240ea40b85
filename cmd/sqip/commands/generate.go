package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.trai.ch/sqip/internal/app"
	"go.trai.ch/sqip/internal/core/domain"
	"go.trai.ch/sqip/internal/ui/style"
	"go.trai.ch/zerr"
)

// previewJSON is the --json representation of one generated preview.
type previewJSON struct {
	Path    string `json:"path"`
	SVG     string `json:"svg,omitempty"`
	DataURI string `json:"dataURI,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (c *CLI) newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [images...]",
		Short: "Generate SVG previews for images",
		Long: "Generate SVG previews for images, directories or glob patterns.\n" +
			"Previews are cached by image content and options, so repeated runs are cheap.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}

			inputs, err := c.generateInputs(cmd, args)
			if err != nil {
				return err
			}

			outputs, genErr := c.app.GenerateAll(cmd.Context(), inputs)

			asJSON, _ := cmd.Flags().GetBool("json")
			outDir, _ := cmd.Flags().GetString("output")
			out := cmd.OutOrStdout()

			switch {
			case asJSON:
				if err := writeJSON(out, outputs); err != nil {
					return err
				}
			case outDir != "":
				if err := writeFiles(out, outDir, outputs); err != nil {
					return err
				}
			default:
				writeDataURIs(out, outputs)
			}

			return genErr
		},
	}

	addGenerationFlags(cmd, c.app.Defaults())
	cmd.Flags().Bool("json", false, "Print previews as JSON")
	cmd.Flags().StringP("output", "o", "", "Write each preview as <name>.svg into this directory")
	cmd.MarkFlagsMutuallyExclusive("json", "output")

	return cmd
}

// addGenerationFlags registers the flags shared by commands that generate previews.
func addGenerationFlags(cmd *cobra.Command, defaults domain.Options) {
	cmd.Flags().IntP("primitives", "n", defaults.NumberOfPrimitives, "Number of primitive shapes")
	cmd.Flags().Float64P("blur", "b", defaults.Blur, "Gaussian blur standard deviation (0 disables)")
	cmd.Flags().StringP("mode", "m", defaults.Mode.String(),
		"Shape mode: "+strings.Join(domain.ModeNames(), ", "))
	cmd.Flags().String("cache-dir", "", "Artifact directory (defaults to the configured cache_dir)")
}

// inputTemplate builds a GenerateInput from the generation flags the user changed.
func inputTemplate(cmd *cobra.Command) app.GenerateInput {
	cacheDir, _ := cmd.Flags().GetString("cache-dir")
	template := app.GenerateInput{CacheDir: cacheDir}

	if cmd.Flags().Changed("primitives") {
		template.NumberOfPrimitives, _ = cmd.Flags().GetInt("primitives")
	}
	if cmd.Flags().Changed("blur") {
		blur, _ := cmd.Flags().GetFloat64("blur")
		template.Blur = &blur
	}
	if cmd.Flags().Changed("mode") {
		template.Mode, _ = cmd.Flags().GetString("mode")
	}
	return template
}

func (c *CLI) generateInputs(cmd *cobra.Command, args []string) ([]app.GenerateInput, error) {
	paths, err := c.app.ResolveImages(args)
	if err != nil {
		return nil, err
	}

	template := inputTemplate(cmd)

	inputs := make([]app.GenerateInput, len(paths))
	for i, path := range paths {
		in := template
		in.AbsolutePath = path
		inputs[i] = in
	}
	return inputs, nil
}

func toPreviewJSON(out app.GenerateOutput) previewJSON {
	if out.Err != nil {
		return previewJSON{Path: out.Path, Error: out.Err.Error()}
	}
	return previewJSON{
		Path:    out.Path,
		SVG:     out.Result.SVG,
		DataURI: out.Result.DataURI,
	}
}

func writeJSON(w io.Writer, outputs []app.GenerateOutput) error {
	previews := make([]previewJSON, len(outputs))
	for i, out := range outputs {
		previews[i] = toPreviewJSON(out)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(previews); err != nil {
		return zerr.Wrap(err, "failed to encode previews")
	}
	return nil
}

func writeFiles(w io.Writer, dir string, outputs []app.GenerateOutput) error {
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create output directory"), "dir", dir)
	}

	names := newPreviewNames(dir)
	for _, out := range outputs {
		if out.Err != nil {
			continue
		}
		if _, err := names.claim(out.Path); err != nil {
			return err
		}
	}

	for _, out := range outputs {
		if err := writeFile(w, names, out); err != nil {
			return err
		}
	}
	return nil
}

// previewNames maps images to <name>.svg files in one directory and refuses to
// give two images the same file.
type previewNames struct {
	dir    string
	owners map[string]string
}

func newPreviewNames(dir string) *previewNames {
	return &previewNames{dir: dir, owners: make(map[string]string)}
}

func (n *previewNames) claim(image string) (string, error) {
	base := filepath.Base(image)
	target := filepath.Join(n.dir, strings.TrimSuffix(base, filepath.Ext(base))+domain.ArtifactExt)

	if owner, ok := n.owners[target]; ok && owner != image {
		err := zerr.Wrap(domain.ErrPreviewNameCollision, fmt.Sprintf("%s and %s both map to %s", owner, image, target))
		return "", zerr.With(err, "path", target)
	}
	n.owners[target] = image
	return target, nil
}

// writeFile stores one preview as <name>.svg and prints a status line.
func writeFile(w io.Writer, names *previewNames, out app.GenerateOutput) error {
	if out.Err != nil {
		_, _ = fmt.Fprintf(w, "%s %s\n", lipgloss.NewStyle().Foreground(style.Red).Render(style.Cross), out.Path)
		return nil
	}

	target, err := names.claim(out.Path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(target, []byte(out.Result.SVG), domain.FilePerm); err != nil { //nolint:gosec // Previews are public assets
		return zerr.With(zerr.Wrap(err, "failed to write preview"), "path", target)
	}

	_, _ = fmt.Fprintf(w, "%s %s (%s)\n",
		lipgloss.NewStyle().Foreground(style.Green).Render(style.Check), target, humanize.Bytes(uint64(len(out.Result.SVG))))
	return nil
}

func writeDataURIs(w io.Writer, outputs []app.GenerateOutput) {
	for _, out := range outputs {
		if out.Err != nil {
			continue
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\n", out.Path, out.Result.DataURI)
	}
}
