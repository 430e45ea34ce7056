package domain

// Template is a named preset of structure and rules text offered by the
// setup wizard.
type Template struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Structure   string `yaml:"struttura" json:"struttura"`
	Rules       string `yaml:"regole" json:"regole"`
	Source      string `yaml:"-" json:"source"`
}
