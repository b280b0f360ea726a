package commands

import (
	"fmt"
	"slices"

	"github.com/leapstack-labs/leapsp/pkg/overload"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// operatorFamilies groups operators for display. Operators missing here
// are listed under "other".
var operatorFamilies = map[string]string{
	"Add": "arithmetic", "Sub": "arithmetic", "Mult": "arithmetic", "Div": "arithmetic",
	"DivInt": "arithmetic", "Mod": "arithmetic", "Neg": "arithmetic",

	"BitAnd": "bitwise", "BitOr": "bitwise", "BitXor": "bitwise", "BitCompli": "bitwise",
	"BitShiftLeft": "bitwise", "BitShiftRight": "bitwise",

	"Eq": "comparison", "Neq": "comparison", "NullSafeEq": "comparison", "Lt": "comparison",
	"Le": "comparison", "Gt": "comparison", "Ge": "comparison", "Between": "comparison",
	"In": "comparison", "IsNull": "comparison",

	"And": "logical", "Or": "logical", "Xor": "logical", "Not": "logical",

	"Concat": "string", "Like": "string",
}

var familyOrder = []string{"arithmetic", "bitwise", "comparison", "logical", "string", "other"}

// OpsOptions holds options for the ops command.
type OpsOptions struct {
	Reserved bool
}

// opEntry is one overload as rendered by ops.
type opEntry struct {
	Name      string   `json:"name" yaml:"name"`
	Family    string   `json:"family" yaml:"family"`
	Signature string   `json:"signature" yaml:"signature"`
	Params    []string `json:"params" yaml:"params"`
	Result    string   `json:"result" yaml:"result"`
	Variadic  bool     `json:"variadic,omitempty" yaml:"variadic,omitempty"`
	Reserved  bool     `json:"reserved,omitempty" yaml:"reserved,omitempty"`
}

// NewOpsCommand creates the ops command.
func NewOpsCommand() *cobra.Command {
	opts := &OpsOptions{}

	cmd := &cobra.Command{
		Use:   "ops [operator]",
		Short: "List operator overloads",
		Long: `List the operator signature table.

Every operator has one overload per operand type combination. Overloads over
the zoned timestamp type are reserved: they resolve but cannot be called, and
are hidden unless --reserved is given.`,
		Example: `  leapsp ops
  leapsp ops Div
  leapsp ops --reserved -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return runOps(cmd, overload.Default(), name, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Reserved, "reserved", false, "Include reserved overloads")

	return cmd
}

func runOps(cmd *cobra.Command, reg *overload.Registry, name string, opts *OpsOptions) error {
	cc := NewCommandContext(cmd)

	entries, err := collectOps(reg, name, opts.Reserved)
	if err != nil {
		return err
	}

	if ok, err := cc.Renderer.Structured(entries); ok {
		return err
	}

	title := cases.Title(language.English)
	for _, family := range familyOrder {
		var rows [][]string
		for _, e := range entries {
			if e.Family != family {
				continue
			}
			sig := e.Signature
			if e.Reserved {
				sig += " (reserved)"
			}
			rows = append(rows, []string{e.Name, sig})
		}
		if len(rows) == 0 {
			continue
		}
		cc.Renderer.Header(2, title.String(family))
		cc.Renderer.Table([]string{"op", "signature"}, rows)
		cc.Renderer.Println()
	}
	cc.Renderer.Muted(fmt.Sprintf("%d overloads", len(entries)))
	return nil
}

func collectOps(reg *overload.Registry, name string, withReserved bool) ([]opEntry, error) {
	list := reg.List()
	if name != "" {
		list = reg.Lookup(name)
		if len(list) == 0 {
			return nil, fmt.Errorf("unknown operator %q (see 'leapsp ops')", name)
		}
	}

	entries := make([]opEntry, 0, len(list))
	for _, o := range list {
		if o.Reserved && !withReserved {
			continue
		}
		params := make([]string, len(o.Params))
		for i, p := range o.Params {
			params[i] = overload.TypeName(p)
		}
		entries = append(entries, opEntry{
			Name:      o.Name,
			Family:    familyOf(o.Name),
			Signature: o.Signature(),
			Params:    params,
			Result:    overload.TypeName(o.Result),
			Variadic:  o.Variadic,
			Reserved:  o.Reserved,
		})
	}
	return entries, nil
}

func familyOf(name string) string {
	if f, ok := operatorFamilies[name]; ok && slices.Contains(familyOrder, f) {
		return f
	}
	return "other"
}
