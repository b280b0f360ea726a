package commands

import (
	"fmt"
	"os"
	"path/filepath"

	intconfig "github.com/leapstack-labs/leapsp/internal/config"
	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new leapsp project",
		Long: `Initialize a new leapsp project with a configuration file and a sample
procedure.

This creates:
  - leapsp.yaml configuration file (DuckDB target)
  - procs/hello.star sample procedure
  - .gitignore for the run history and database files`,
		Example: `  # Initialize in current directory
  leapsp init

  # Initialize in a new directory
  leapsp init my-project

  # Force overwrite existing files
  leapsp init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(NewCommandContext(cmd), dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")

	return cmd
}

func runInit(cc *CommandContext, dir string, force bool) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if existing := intconfig.FindConfigFile(dir); existing != "" && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", filepath.Base(existing))
	}

	if err := copyTemplate("minimal", dir, force); err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	files, err := listTemplateFiles("minimal")
	if err != nil {
		return err
	}
	for _, f := range files {
		cc.Renderer.Println("  " + cc.Renderer.Styles().Success.Render("✓") + " " + f)
	}

	cc.Renderer.Println()
	cc.Renderer.Success("leapsp project initialized!")
	cc.Renderer.Println()
	cc.Renderer.Println("Next steps:")
	cc.Renderer.Println("  leapsp run procs/hello.star   Run the sample procedure")
	cc.Renderer.Println("  leapsp runs                   Show the run history")
	cc.Renderer.Println("  leapsp ops                    List operator overloads")

	return nil
}
