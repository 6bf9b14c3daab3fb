package commands

import (
	"fmt"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/htmltags/internal/foundation/errors"
	"git.home.luguber.info/inful/htmltags/internal/options"
	"git.home.luguber.info/inful/htmltags/internal/tagsplugin"
)

// ValidateCmd implements the 'validate' command.
type ValidateCmd struct {
	Quiet bool `short:"q" help:"Only report errors"`
}

type normalizedPlugin struct {
	Name    string           `yaml:"name"`
	Options *options.Options `yaml:"options"`
}

func (v *ValidateCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}

	normalized := make([]normalizedPlugin, 0, len(cfg.Plugins))
	for i, pc := range cfg.Plugins {
		name := cfg.PluginName(i)
		p, err := tagsplugin.New(pc.Options,
			tagsplugin.WithName(name),
			tagsplugin.WithPrefix(fmt.Sprintf("plugins[%d].options", i)),
			tagsplugin.WithLogger(g.Logger()))
		if err != nil {
			return err
		}
		normalized = append(normalized, normalizedPlugin{Name: name, Options: p.Options()})
	}

	if v.Quiet {
		return nil
	}
	enc := yaml.NewEncoder(g.stdout())
	enc.SetIndent(2)
	if err := enc.Encode(normalized); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to encode options").Build()
	}
	return enc.Close()
}
