package check

// CannedRemark is one pre-labeled standard error a reviewer can tick off.
// Key doubles as the form field name of the checkbox.
type CannedRemark struct {
	Key   string `json:"key"`
	Group string `json:"group"`
	Label string `json:"label"`
}

// Canned-error groups.
const (
	GroupMain     = "main"
	GroupText     = "text"
	GroupHeaders  = "headers"
	GroupLists    = "lists"
	GroupTables   = "tables"
	GroupImages   = "images"
	GroupFormulas = "formulas"
	GroupFrames   = "frames"
	GroupLinks    = "links"
)

// CheckAllLabel is stored on a remark when the "check entire document" flag
// is set on the navigation form.
const CheckAllLabel = "Check throughout the entire document"

// CannedRemarks is the closed catalog of standard errors, in display order.
// Remarks created from checkboxes use the Label as their text verbatim.
var CannedRemarks = []CannedRemark{
	{Key: "err_main_1", Group: GroupMain, Label: "Page margins do not match the required layout"},
	{Key: "err_main_2", Group: GroupMain, Label: "Wrong font family is used for body text"},
	{Key: "err_main_3", Group: GroupMain, Label: "Font size does not match the required value"},
	{Key: "err_main_4", Group: GroupMain, Label: "Line spacing does not match the required value"},
	{Key: "err_main_5", Group: GroupMain, Label: "Paragraph indentation is inconsistent"},
	{Key: "err_main_6", Group: GroupMain, Label: "Page numbering is missing or misplaced"},
	{Key: "err_main_7", Group: GroupMain, Label: "Section does not start on a new page"},
	{Key: "err_main_8", Group: GroupMain, Label: "A required structural element is missing"},

	{Key: "err_text_1", Group: GroupText, Label: "Body text is not justified"},
	{Key: "err_text_2", Group: GroupText, Label: "Extra whitespace between words or paragraphs"},
	{Key: "err_text_3", Group: GroupText, Label: "Hyphenation is used where it is not allowed"},
	{Key: "err_text_4", Group: GroupText, Label: "An abbreviation is used without being introduced"},

	{Key: "err_header_1", Group: GroupHeaders, Label: "Heading ends with a period"},
	{Key: "err_header_2", Group: GroupHeaders, Label: "Heading numbering is incorrect"},
	{Key: "err_header_3", Group: GroupHeaders, Label: "Heading style does not match its level"},

	{Key: "err_list_1", Group: GroupLists, Label: "List items are formatted inconsistently"},

	{Key: "err_table_1", Group: GroupTables, Label: "Table is missing a caption"},
	{Key: "err_table_2", Group: GroupTables, Label: "Table numbering is incorrect"},
	{Key: "err_table_3", Group: GroupTables, Label: "Table is not referenced in the text"},
	{Key: "err_table_4", Group: GroupTables, Label: "Table continuation is not labelled on the next page"},

	{Key: "err_image_1", Group: GroupImages, Label: "Figure is missing a caption"},
	{Key: "err_image_2", Group: GroupImages, Label: "Figure numbering is incorrect"},
	{Key: "err_image_3", Group: GroupImages, Label: "Figure is not referenced in the text"},
	{Key: "err_image_4", Group: GroupImages, Label: "Figure is not centered on the page"},

	{Key: "err_formula_1", Group: GroupFormulas, Label: "Formula is not numbered"},
	{Key: "err_formula_2", Group: GroupFormulas, Label: "Formula symbols are not explained after first use"},
	{Key: "err_formula_3", Group: GroupFormulas, Label: "Formula is inserted as an image"},

	{Key: "err_frame_1", Group: GroupFrames, Label: "Frame stamp fields are not filled in"},
	{Key: "err_frame_2", Group: GroupFrames, Label: "Page frame is missing where required"},

	{Key: "err_link_1", Group: GroupLinks, Label: "Reference list is not ordered correctly"},
	{Key: "err_link_2", Group: GroupLinks, Label: "Source citation format is incorrect"},
}

var cannedByKey = func() map[string]CannedRemark {
	m := make(map[string]CannedRemark, len(CannedRemarks))
	for _, cr := range CannedRemarks {
		m[cr.Key] = cr
	}
	return m
}()

// CannedLabel resolves a checkbox key to its canned remark text.
func CannedLabel(key string) (string, bool) {
	cr, ok := cannedByKey[key]
	return cr.Label, ok
}
