package models

// Vocab is a single vocabulary card
type Vocab struct {
	ID        string  `json:"id" yaml:"id"`
	Word      string  `json:"word" yaml:"word"`
	Meaning   string  `json:"meaning" yaml:"meaning"`
	ChapterID *int    `json:"chapterId,omitempty" yaml:"chapterId,omitempty"` // nil for additional items
	ImageURL  *string `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`   // data URI or URL
	CreatedAt int64   `json:"createdAt" yaml:"createdAt"`                     // Unix milliseconds
}

// HasImage reports whether the item can be used in image quizzes
func (v Vocab) HasImage() bool {
	return v.ImageURL != nil && *v.ImageURL != ""
}

// IsAdditional reports whether the item belongs to no chapter
func (v Vocab) IsAdditional() bool {
	return v.ChapterID == nil
}

// VocabFields holds the user supplied fields of a new vocabulary item
type VocabFields struct {
	Word      string
	Meaning   string
	ChapterID *int
	ImageURL  *string
}

// VocabPatch is a merge-style update. Unset fields are kept as they are.
type VocabPatch struct {
	Word      Patch[string]
	Meaning   Patch[string]
	ChapterID Patch[int]
	ImageURL  Patch[string]
}

// Apply merges the patch into v
func (p VocabPatch) Apply(v *Vocab) {
	p.Word.ApplyValue(&v.Word)
	p.Meaning.ApplyValue(&v.Meaning)
	p.ChapterID.Apply(&v.ChapterID)
	p.ImageURL.Apply(&v.ImageURL)
}
