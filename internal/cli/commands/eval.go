package commands

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/leapsp/internal/cli/output"
	"github.com/leapstack-labs/leapsp/pkg/cond"
	"github.com/leapstack-labs/leapsp/pkg/op"
	"github.com/leapstack-labs/leapsp/pkg/overload"
	"github.com/leapstack-labs/leapsp/pkg/types"
	"github.com/leapstack-labs/leapsp/pkg/value"
	"github.com/spf13/cobra"
)

type evalResult struct {
	Op        string `json:"op" yaml:"op"`
	Signature string `json:"signature" yaml:"signature"`
	Type      string `json:"type" yaml:"type"`
	Result    string `json:"result" yaml:"result"`
	Null      bool   `json:"null" yaml:"null"`
}

// NewEvalCommand creates the eval command.
func NewEvalCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "eval <operator> [TYPE:value...]",
		Short: "Apply an operator to typed values",
		Long: `Resolve an operator overload for the argument types and apply it.

Arguments are written TYPE:text, e.g. int:3, numeric:1.50, date:2024-01-31 or
varchar:abc. A bare NULL is the untyped absent value and binds to any
parameter type.`,
		Example: `  leapsp eval Add int:1 int:2
  leapsp eval Div numeric:1 numeric:3
  leapsp eval Concat varchar:a NULL`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			reg, err := cc.registry()
			if err != nil {
				return err
			}
			return runEval(cc, reg, args[0], args[1:])
		},
	}
}

// registry returns the default overloads with NUMERIC division rounded as
// the decimal settings ask.
func (c *CommandContext) registry() (*overload.Registry, error) {
	rounding, err := c.Cfg.DecimalSettings().OpRounding()
	if err != nil {
		return nil, fmt.Errorf("invalid decimal configuration: %w", err)
	}
	reg := overload.Default()
	if rounding != op.HalfUp {
		reg = reg.WithDecimalRounding(rounding)
	}
	return reg, nil
}

func runEval(cc *CommandContext, reg *overload.Registry, name string, raw []string) error {

	args := make([]value.Value, len(raw))
	argTypes := make([]types.Type, len(raw))
	for i, s := range raw {
		v, err := value.ParseTyped(s)
		if err != nil {
			return fmt.Errorf("argument %d: %w", i+1, err)
		}
		args[i] = v
		argTypes[i] = v.Type()
	}

	o, err := reg.Resolve(name, argTypes...)
	if err != nil {
		return err
	}
	cc.Logger.Debug("resolved overload", "signature", o.Signature())

	v, err := o.CallGuarded(args...)
	if err != nil {
		var c *cond.Condition
		if errors.As(err, &c) {
			return fmt.Errorf("%s raised %s (SQLCODE %d): %s", o.Signature(), c.Kind, c.SQLCode(), c.SQLErrM())
		}
		return err
	}

	res := evalResult{
		Op:        o.Name,
		Signature: o.Signature(),
		Type:      v.Type().String(),
		Result:    v.String(),
		Null:      v.IsNull(),
	}
	if ok, err := cc.Renderer.Structured(res); ok {
		return err
	}

	if cc.Renderer.EffectiveMode() == output.ModeMarkdown {
		cc.Renderer.Println(output.FormatKeyValue("signature", "`"+res.Signature+"`"))
		cc.Renderer.Println(output.FormatKeyValue("result", "`"+res.Result+"`"))
		return nil
	}
	cc.Renderer.Muted(res.Signature)
	cc.Renderer.Println(res.Result)
	return nil
}
