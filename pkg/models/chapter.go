package models

// Chapters are a fixed, pre-declared range
const (
	MinChapter = 1
	MaxChapter = 60
)

// ValidChapter reports whether id lies in the chapter range
func ValidChapter(id int) bool {
	return id >= MinChapter && id <= MaxChapter
}

// Chapter returns a pointer usable as Vocab.ChapterID
func Chapter(id int) *int {
	return &id
}
