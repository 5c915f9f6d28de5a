package check

// Section identifies the part of the explanatory note a remark points at.
// The set is closed; display labels live in sectionLabels.
type Section string

const (
	SectionTitle        Section = "title"
	SectionTask         Section = "task"
	SectionAbstract     Section = "abstract"
	SectionContents     Section = "contents"
	SectionIntroduction Section = "introduction"
	SectionBody         Section = "body"
	SectionConclusion   Section = "conclusion"
	SectionSource       Section = "source"
	SectionAttachment   Section = "attachment"
)

// Sections lists all valid sections in display order.
var Sections = []Section{
	SectionTitle,
	SectionTask,
	SectionAbstract,
	SectionContents,
	SectionIntroduction,
	SectionBody,
	SectionConclusion,
	SectionSource,
	SectionAttachment,
}

var sectionLabels = map[Section]string{
	SectionTitle:        "Title page",
	SectionTask:         "Thesis assignment",
	SectionAbstract:     "Abstract",
	SectionContents:     "Table of contents",
	SectionIntroduction: "Introduction",
	SectionBody:         "Main body",
	SectionConclusion:   "Conclusion",
	SectionSource:       "List of references",
	SectionAttachment:   "Appendix",
}

func (s Section) Valid() bool {
	_, ok := sectionLabels[s]
	return ok
}

// Label returns the display string stored on remarks for this section.
func (s Section) Label() string {
	return sectionLabels[s]
}
