// Package config provides loading and validation for .testnorm.yaml.
package config

// Config represents the complete .testnorm.yaml configuration.
// Empty sections and lists fall back to built-in defaults.
type Config struct {
	Statuses *StatusesConfig `yaml:"statuses,omitempty"`
	Fields   *FieldsConfig   `yaml:"fields,omitempty"`
	Names    *NamesConfig    `yaml:"names,omitempty"`
	TRX      *TRXConfig      `yaml:"trx,omitempty"`
}

// StatusesConfig lists the raw status tokens of each canonical outcome.
type StatusesConfig struct {
	Passed  []string `yaml:"passed,omitempty"`
	Failed  []string `yaml:"failed,omitempty"`
	Skipped []string `yaml:"skipped,omitempty"`
	XFailed []string `yaml:"xfailed,omitempty"`
}

// FieldsConfig lists JSON field names probed by the tree walker, in priority order.
type FieldsConfig struct {
	Name            []string `yaml:"name,omitempty"`
	Title           []string `yaml:"title,omitempty"`
	Ancestors       []string `yaml:"ancestors,omitempty"`
	Suite           []string `yaml:"suite,omitempty"`
	SuiteBase       []string `yaml:"suite_base,omitempty"`
	AssertionStatus []string `yaml:"assertion_status,omitempty"`
	LeafStatus      []string `yaml:"leaf_status,omitempty"`
	Nested          []string `yaml:"nested,omitempty"`
}

// NamesConfig configures display name construction.
type NamesConfig struct {
	AncestorSeparator string `yaml:"ancestor_separator,omitempty"`
}

// TRXConfig configures the TRX parser.
type TRXConfig struct {
	Namespace     string `yaml:"namespace,omitempty"`
	NameSeparator string `yaml:"name_separator,omitempty"`
}
