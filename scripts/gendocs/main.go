// Package main generates markdown reference docs from leapsp's command tree,
// operator table and configuration schema.
//
// Usage:
//
//	go run ./scripts/gendocs -gen=cli -outdir=docs/cli
//	go run ./scripts/gendocs -gen=operators -outdir=docs/reference
//	go run ./scripts/gendocs -gen=config -outdir=docs/reference
//	go run ./scripts/gendocs -gen=all
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

var (
	genFlag    = flag.String("gen", "all", "what to generate: cli, operators, config, all")
	outDirFlag = flag.String("outdir", "", "output directory (defaults based on gen type)")
)

// generators maps each -gen value to its generator and default directory
// under docs/.
var generators = map[string]struct {
	dir string
	fn  func(outDir string) error
}{
	"cli":       {dir: "cli", fn: generateCLIDocs},
	"operators": {dir: "reference", fn: generateOperatorDocs},
	"config":    {dir: "reference", fn: generateSchemaDocs},
}

func main() {
	flag.Parse()

	projectRoot, err := findProjectRoot()
	if err != nil {
		log.Fatalf("failed to find project root: %v", err)
	}
	log.Printf("Project root: %s", projectRoot)

	if err := generate(*genFlag, *outDirFlag, filepath.Join(projectRoot, "docs")); err != nil {
		log.Fatal(err)
	}
	log.Println("Done!")
}

// generate runs one generator, or all of them for "all". outDir overrides
// the default directory of a single generator.
func generate(gen, outDir, docsDir string) error {
	names := []string{gen}
	if gen == "all" {
		names, outDir = []string{"cli", "operators", "config"}, ""
	}
	for _, name := range names {
		g, ok := generators[name]
		if !ok {
			return fmt.Errorf("unknown -gen value: %s (use: cli, operators, config, all)", name)
		}
		dir := outDir
		if dir == "" {
			dir = filepath.Join(docsDir, g.dir)
		}
		if err := g.fn(dir); err != nil {
			return fmt.Errorf("failed to generate %s docs: %w", name, err)
		}
	}
	return nil
}

// findProjectRoot walks up from current directory to find go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}
