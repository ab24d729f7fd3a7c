package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wavetower/pkg/compile"
	"github.com/matzehuels/wavetower/pkg/errors"
	"github.com/matzehuels/wavetower/pkg/wavejson"
)

// validateCommand creates the validate command for checking WaveJSON
// documents without rendering them.
func (c *CLI) validateCommand() *cobra.Command {
	var groupRows bool

	cmd := &cobra.Command{
		Use:   "validate [files...]",
		Short: "Check WaveJSON documents for problems",
		Long: `Check WaveJSON documents for problems without rendering them.

Every problem in a document is collected and reported, not just the first:
a bad wave string on one signal does not hide a dangling edge three rows
down. The command exits non-zero when any file has problems.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cfgPath, err := loadFileConfig(".")
			if err != nil {
				return err
			}
			if cfgPath != "" && !cmd.Flags().Changed("group-rows") {
				groupRows = cfg.GroupRows
			}

			failed := 0
			for i, input := range args {
				if i > 0 {
					printNewline()
				}
				if !c.validateFile(input, groupRows) {
					failed++
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d file(s) failed validation", failed, len(args))
			}
			if len(args) == 1 {
				printNewline()
				printNextStep("Render", "wavetower render "+args[0])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&groupRows, "group-rows", false, "reserve a label row for untitled groups")

	return cmd
}

// validateFile decodes and compiles one document, reporting its warnings and
// problems. It returns false when the document has problems.
func (c *CLI) validateFile(input string, groupRows bool) bool {
	src, err := os.ReadFile(input)
	if err != nil {
		printError("%s: %v", input, err)
		return false
	}

	doc, err := wavejson.Decode(src)
	if err != nil {
		printError("%s: %s", input, errors.UserMessage(err))
		return false
	}

	diagram, err := compile.Compile(doc, compile.Options{ReserveEmptyGroupRows: groupRows})
	if err != nil {
		printError("%s: %s", input, errors.UserMessage(err))
		return false
	}

	for _, w := range diagram.Warnings {
		printWarning("%s: %s", input, w.Message)
	}

	if !diagram.Valid() {
		printError("%s has %d problem(s)", input, len(diagram.Problems))
		fmt.Println(problemTable(diagram.Problems))
		return false
	}

	printSuccess("%s is valid", input)
	printDetail("%d row(s), %d column(s), %d node(s), %d edge(s)",
		len(diagram.Rows), diagram.Columns, diagram.Nodes.Len(), len(diagram.Edges))
	return true
}

// problemTable renders compile problems as a bordered table, one row per
// problem.
func problemTable(problems []compile.Problem) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(colorGray)
	codeStyle := lipgloss.NewStyle().Foreground(colorRed)

	rows := make([][]string, 0, len(problems))
	for _, p := range problems {
		rows = append(rows, []string{
			p.Name,
			string(errors.GetCode(p.Err)),
			errors.UserMessage(p.Err),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Entity", "Code", "Detail").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 1 {
				return codeStyle
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
