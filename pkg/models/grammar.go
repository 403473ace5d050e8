package models

// Grammar is a free-form grammar note with ordered examples
type Grammar struct {
	ID        string   `json:"id" yaml:"id"`
	Title     string   `json:"title" yaml:"title"`
	Content   string   `json:"content" yaml:"content"`
	Examples  []string `json:"examples" yaml:"examples"`
	CreatedAt int64    `json:"createdAt" yaml:"createdAt"`
}

// GrammarFields holds the user supplied fields of a new grammar entry
type GrammarFields struct {
	Title    string
	Content  string
	Examples []string
}

// GrammarPatch is a merge-style update of a grammar entry
type GrammarPatch struct {
	Title    Patch[string]
	Content  Patch[string]
	Examples Patch[[]string]
}

// Apply merges the patch into g
func (p GrammarPatch) Apply(g *Grammar) {
	p.Title.ApplyValue(&g.Title)
	p.Content.ApplyValue(&g.Content)
	if p.Examples.IsSet() {
		if v, ok := p.Examples.Get(); ok {
			g.Examples = append([]string{}, v...)
		} else {
			g.Examples = []string{}
		}
	}
}
