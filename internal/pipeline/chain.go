package pipeline

import (
	"fmt"

	"travel-etl/internal/config"
	"travel-etl/internal/transformer"
	"travel-etl/internal/transformer/builtin"
)

// DefaultChain is the reference projection: drop keys, drop irrelevant
// columns, rename the departure columns, then localize names into locale.
func DefaultChain(locale string) (transformer.Chain, error) {
	loc, err := builtin.NewLocalize(nil, locale)
	if err != nil {
		return nil, err
	}
	return transformer.Chain{
		builtin.DropKeys(),
		builtin.DropIrrelevant(),
		builtin.Rename{Label: "rename_departure", Mapping: builtin.DepartureRename},
		loc,
	}, nil
}

// BuildChain turns the configured transform list into a chain. An empty list
// yields DefaultChain(locale). locale also fills in localize steps that do not
// name one.
func BuildChain(ts []config.Transform, locale string) (transformer.Chain, error) {
	if len(ts) == 0 {
		return DefaultChain(locale)
	}

	chain := make(transformer.Chain, 0, len(ts))
	for i, t := range ts {
		var (
			tr  transformer.Transformer
			err error
		)
		switch t.Kind {
		case "drop":
			tr = builtin.Drop{
				Label:         t.Options.String("label", ""),
				Columns:       t.Options.StringSlice("columns"),
				IgnoreMissing: t.Options.Bool("ignore_missing", false),
			}
		case "rename":
			mapping := t.Options.StringMap("mapping")
			if len(mapping) == 0 {
				mapping = builtin.DepartureRename
			}
			tr = builtin.Rename{Label: t.Options.String("label", ""), Mapping: mapping}
		case "localize":
			var loc builtin.Localize
			loc, err = builtin.NewLocalize(t.Options.StringSlice("columns"), t.Options.String("locale", locale))
			loc.NFC = t.Options.Bool("nfc", false)
			tr = loc
		default:
			err = fmt.Errorf("unsupported transform.kind=%s", t.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("transform[%d]: %w", i, err)
		}
		chain = append(chain, tr)
	}
	return chain, nil
}
