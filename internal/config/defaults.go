package config

import (
	"github.com/AndreyAkinshin/testnorm/internal/status"
	"github.com/AndreyAkinshin/testnorm/internal/testparser"
)

// DefaultFileName is the configuration file looked up in the working directory.
const DefaultFileName = ".testnorm.yaml"

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills in default values for unset configuration fields.
func applyDefaults(cfg *Config) {
	applyStatusDefaults(cfg)
	applyFieldDefaults(cfg)
	applyNameDefaults(cfg)
	applyTRXDefaults(cfg)
}

func applyStatusDefaults(cfg *Config) {
	if cfg.Statuses == nil {
		cfg.Statuses = &StatusesConfig{}
	}
	tax := status.DefaultTaxonomy()
	orDefault(&cfg.Statuses.Passed, tax.Passed)
	orDefault(&cfg.Statuses.Failed, tax.Failed)
	orDefault(&cfg.Statuses.Skipped, tax.Skipped)
	orDefault(&cfg.Statuses.XFailed, tax.XFailed)
}

func applyFieldDefaults(cfg *Config) {
	if cfg.Fields == nil {
		cfg.Fields = &FieldsConfig{}
	}
	tree := testparser.DefaultTreeFields()
	orDefault(&cfg.Fields.Name, tree.Names.Qualified)
	orDefault(&cfg.Fields.Title, tree.Names.Title)
	orDefault(&cfg.Fields.Ancestors, tree.Names.Ancestors)
	orDefault(&cfg.Fields.Suite, tree.Suite)
	orDefault(&cfg.Fields.SuiteBase, tree.SuiteBase)
	orDefault(&cfg.Fields.AssertionStatus, tree.AssertionStatus)
	orDefault(&cfg.Fields.LeafStatus, tree.LeafStatus)
	orDefault(&cfg.Fields.Nested, tree.Nested)
}

func applyNameDefaults(cfg *Config) {
	if cfg.Names == nil {
		cfg.Names = &NamesConfig{}
	}
	if cfg.Names.AncestorSeparator == "" {
		cfg.Names.AncestorSeparator = testparser.DefaultNameFields().Separator
	}
}

func applyTRXDefaults(cfg *Config) {
	if cfg.TRX == nil {
		cfg.TRX = &TRXConfig{}
	}
	def := testparser.DefaultTRXOptions()
	if cfg.TRX.Namespace == "" {
		cfg.TRX.Namespace = def.Namespace
	}
	if cfg.TRX.NameSeparator == "" {
		cfg.TRX.NameSeparator = def.NameSeparator
	}
}

func orDefault(dst *[]string, def []string) {
	if len(*dst) == 0 {
		*dst = append([]string(nil), def...)
	}
}

// Taxonomy returns the status vocabulary. cfg must have defaults applied.
func (cfg *Config) Taxonomy() status.Taxonomy {
	return status.Taxonomy{
		Passed:  cfg.Statuses.Passed,
		Failed:  cfg.Statuses.Failed,
		Skipped: cfg.Statuses.Skipped,
		XFailed: cfg.Statuses.XFailed,
	}
}

// ParserOptions returns the parser configuration. cfg must have defaults applied.
func (cfg *Config) ParserOptions() testparser.Options {
	return testparser.Options{
		Tree: testparser.TreeFields{
			Names: testparser.NameFields{
				Qualified: cfg.Fields.Name,
				Title:     cfg.Fields.Title,
				Ancestors: cfg.Fields.Ancestors,
				Separator: cfg.Names.AncestorSeparator,
			},
			Suite:           cfg.Fields.Suite,
			SuiteBase:       cfg.Fields.SuiteBase,
			AssertionStatus: cfg.Fields.AssertionStatus,
			LeafStatus:      cfg.Fields.LeafStatus,
			Nested:          cfg.Fields.Nested,
		},
		TRX: testparser.TRXOptions{
			Namespace:     cfg.TRX.Namespace,
			NameSeparator: cfg.TRX.NameSeparator,
		},
	}
}
