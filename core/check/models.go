package check

import (
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/normoctl/normocontrol/core"
)

// MaxFileSize is the upload limit for each document, in bytes.
const MaxFileSize = 8000000

// MaxNoteLen limits the optional covering note.
const MaxNoteLen = 1000

// MaxRemarkLen limits a remark's text.
const MaxRemarkLen = 300

// Check is one document-review request ("checkout") owned by a student.
type Check struct {
	ID              int         `json:"id"`
	StudentID       int         `json:"student_id"`
	StudentUsername string      `json:"student_username"`
	Note            null.String `json:"note"`
	IsArchived      bool        `json:"is_archived"`
	DocxFile        string      `json:"docx_file"`
	PDFFile         string      `json:"pdf_file"`
	CreatedAt       time.Time   `json:"created_at"` // UTC
}

// Remark is one reviewer comment tied to a location in a check's document.
type Remark struct {
	ID         int         `json:"id"`
	CheckID    int         `json:"check_id"`
	AuthorID   int         `json:"author_id"`
	Section    string      `json:"section"` // display label, see Section.Label
	PageNumber null.String `json:"page_number"`
	Paragraph  null.String `json:"paragraph"`
	CheckAll   null.String `json:"check_all"`
	Text       string      `json:"text"`
	CreatedAt  time.Time   `json:"created_at"` // UTC
}

// FileUpload carries one uploaded document into the service layer.
type FileUpload struct {
	Name    string
	Size    int64
	Content io.Reader
}

// fileExt returns the suffix after the last dot, mirroring a
// `name.split('.')[-1]` check: case-sensitive, no dot means the whole name.
func fileExt(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}

var (
	errExtDocx   = "file must have the .docx extension"
	errExtPDF    = "file must have the .pdf extension"
	errFileSize  = "file must be no larger than 8 MB"
	errFileReqd  = "this field is required"
	errNoteLen   = "note must be at most 1000 characters"
)

// NewCheck contains information needed to create a new Check.
type NewCheck struct {
	Docx *FileUpload
	PDF  *FileUpload
	Note string
}

// Validate checks both files independently (extension exact-match, size
// limit) and the optional note; violations are reported together.
func (nc *NewCheck) Validate() error {
	nc.Note = core.CleanString(nc.Note)

	var flds []core.FieldError
	reportErr := func(field, text string) {
		flds = append(flds, core.FieldError{Field: field, Error: text})
	}

	if nc.Docx == nil {
		reportErr("docx_file", errFileReqd)
	} else {
		if fileExt(nc.Docx.Name) != "docx" {
			reportErr("docx_file", errExtDocx)
		}
		if nc.Docx.Size > MaxFileSize {
			reportErr("docx_file", errFileSize)
		}
	}

	if nc.PDF == nil {
		reportErr("pdf_file", errFileReqd)
	} else {
		if fileExt(nc.PDF.Name) != "pdf" {
			reportErr("pdf_file", errExtPDF)
		}
		if nc.PDF.Size > MaxFileSize {
			reportErr("pdf_file", errFileSize)
		}
	}

	if len(nc.Note) > MaxNoteLen {
		reportErr("note", errNoteLen)
	}

	if flds != nil {
		return core.NewValidationError(errors.New("invalid check"), flds...)
	}
	return nil
}

var (
	errSectionUnknown = "unknown section"
	errTextLen        = "remark text must be at most 300 characters"
	errFieldReqd      = "this field is required"
)

// RemarkForm is one remark-authoring POST: the navigation form (section,
// location, optional free text, whole-document flag) plus the set of
// checked standard-error checkbox keys.
type RemarkForm struct {
	Section    string
	PageNumber string
	Paragraph  string
	CheckAll   bool
	CustomText string
	Checked    []string
}

func (rf *RemarkForm) Validate() error {
	rf.PageNumber = core.CleanString(rf.PageNumber)
	rf.Paragraph = core.CleanString(rf.Paragraph)
	rf.CustomText = core.CleanString(rf.CustomText)

	var flds []core.FieldError
	if rf.Section == "" {
		flds = append(flds, core.FieldError{Field: "section", Error: errFieldReqd})
	} else if !Section(rf.Section).Valid() {
		flds = append(flds, core.FieldError{Field: "section", Error: errSectionUnknown})
	}
	if len(rf.CustomText) > MaxRemarkLen {
		flds = append(flds, core.FieldError{Field: "custom_error", Error: errTextLen})
	}

	if flds != nil {
		return core.NewValidationError(errors.New("invalid remark form"), flds...)
	}
	return nil
}

// EditRemark replaces the location and text of an existing remark.
// All four fields are required.
type EditRemark struct {
	Section    string `json:"section" form:"section" validate:"required"`
	PageNumber string `json:"page_number" form:"page_number" validate:"required"`
	Paragraph  string `json:"paragraph" form:"paragraph" validate:"required"`
	Text       string `json:"text" form:"text" validate:"required,max=300"`
}

func (er *EditRemark) Validate() error {
	er.Section = core.CleanString(er.Section)
	er.PageNumber = core.CleanString(er.PageNumber)
	er.Paragraph = core.CleanString(er.Paragraph)
	er.Text = core.CleanString(er.Text)

	return core.Validate.Struct(er)
}

// QueryFilter narrows check listings. An empty StudentUsername matches all
// students (reviewer visibility).
type QueryFilter struct {
	StudentUsername string
	Archived        bool
}

// Page is one window of a check listing.
type Page struct {
	Checks []Check       `json:"checks"`
	Info   core.PageInfo `json:"page"`
}
