package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/packforge/atlaspack/pkg/descriptor"
	atlasio "github.com/packforge/atlaspack/pkg/io"
)

// inspectCommand creates the inspect command for browsing a descriptor.
func (c *CLI) inspectCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "inspect DESCRIPTOR",
		Short: "Browse the sprite records of a packed atlas",
		Long: `Browse the sprite records of a packed atlas.

Reads a descriptor file (.json, .xml or .bin) and opens an interactive
browser over its sprite records: position, size, rotation and original
frame per sprite. Use --plain for non-interactive output suitable for
piping.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := atlasio.ImportDescriptor(args[0])
			if err != nil {
				return err
			}
			if plain {
				printDocument(doc)
				return nil
			}
			return c.runInspectTUI(doc)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print records instead of opening the browser")

	return cmd
}

// runInspectTUI opens the interactive record browser.
func (c *CLI) runInspectTUI(doc descriptor.Document) error {
	model := NewRecordListModel(doc)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("record browser: %w", err)
	}
	return nil
}

// printDocument prints every record, one texture section at a time.
func printDocument(doc descriptor.Document) {
	for _, tex := range doc.Textures {
		fmt.Println(StyleTitle.Render(tex.Name))
		for _, rec := range tex.Images {
			printKeyValue(rec.Name, formatRecord(rec))
		}
		printDetail("%d sprites", len(tex.Images))
	}
}

// formatRecord renders one record's geometry as a single line.
func formatRecord(rec descriptor.Record) string {
	s := fmt.Sprintf("%dx%d at (%d,%d)", rec.W, rec.H, rec.X, rec.Y)
	if rec.Rotated {
		s += " rotated"
	}
	if rec.FrameX != 0 || rec.FrameY != 0 || rec.FrameW != rec.W || rec.FrameH != rec.H {
		s += fmt.Sprintf(" frame %dx%d at (%d,%d)", rec.FrameW, rec.FrameH, rec.FrameX, rec.FrameY)
	}
	return s
}
