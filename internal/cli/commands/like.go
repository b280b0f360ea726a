package commands

import (
	"fmt"

	"github.com/leapstack-labs/leapsp/internal/cli/output"
	"github.com/leapstack-labs/leapsp/pkg/op"
	"github.com/leapstack-labs/leapsp/pkg/value"
	"github.com/spf13/cobra"
)

// LikeOptions holds options for the like command.
type LikeOptions struct {
	Escape string
}

type likeMatch struct {
	Subject string `json:"subject" yaml:"subject"`
	Match   bool   `json:"match" yaml:"match"`
}

type likeResult struct {
	Pattern string      `json:"pattern" yaml:"pattern"`
	Escape  string      `json:"escape,omitempty" yaml:"escape,omitempty"`
	Regexp  string      `json:"regexp" yaml:"regexp"`
	Matches []likeMatch `json:"matches,omitempty" yaml:"matches,omitempty"`
}

// NewLikeCommand creates the like command.
func NewLikeCommand() *cobra.Command {
	opts := &LikeOptions{}

	cmd := &cobra.Command{
		Use:   "like <pattern> [subject...]",
		Short: "Compile a LIKE pattern and test subjects against it",
		Long: `Compile a LIKE pattern and show the regular expression it becomes.

% matches any run of characters and _ exactly one, newlines included. With
--escape, the character after the escape is taken literally.`,
		Example: `  leapsp like 'A%' Alice Bob
  leapsp like '100!%' --escape '!' '100%' '1000'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLike(cmd, args[0], args[1:], opts)
		},
	}

	cmd.Flags().StringVar(&opts.Escape, "escape", "", "Escape character")

	return cmd
}

func runLike(cmd *cobra.Command, pattern string, subjects []string, opts *LikeOptions) error {
	cc := NewCommandContext(cmd)

	escape := value.None[string]()
	if opts.Escape != "" {
		escape = value.Some(opts.Escape)
	}
	m := op.CompileLike(pattern, escape)

	res := likeResult{Pattern: m.String(), Escape: opts.Escape, Regexp: m.Regexp().String()}
	for _, s := range subjects {
		matched, _ := m.Match(value.Some(s)).Get()
		res.Matches = append(res.Matches, likeMatch{Subject: s, Match: matched})
	}

	if ok, err := cc.Renderer.Structured(res); ok {
		return err
	}

	if cc.Renderer.EffectiveMode() == output.ModeMarkdown {
		cc.Renderer.Println(output.FormatKeyValue("pattern", "`"+res.Pattern+"`"))
		cc.Renderer.Println(output.FormatKeyValue("regexp", "`"+res.Regexp+"`"))
	} else {
		cc.Renderer.Printf("pattern: %s\n", res.Pattern)
		cc.Renderer.Printf("regexp:  %s\n", res.Regexp)
	}
	if len(res.Matches) == 0 {
		return nil
	}

	cc.Renderer.Println()
	rows := make([][]string, len(res.Matches))
	for i, lm := range res.Matches {
		rows[i] = []string{lm.Subject, fmt.Sprint(lm.Match)}
	}
	cc.Renderer.Table([]string{"subject", "match"}, rows)
	return nil
}
