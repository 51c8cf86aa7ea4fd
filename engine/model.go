// Package engine implements the slide edit engine: extraction of slide
// models from a deck, typed edit application with fuzzy text matching,
// non-mutating previews, template asset harvesting and deck synthesis.
package engine

import "slidesmith/deck"

// ShapeKind is the classifier's verdict for one shape.
type ShapeKind string

const (
	KindTitle    ShapeKind = "title"
	KindSubtitle ShapeKind = "subtitle"
	KindContent  ShapeKind = "content"
	KindTable    ShapeKind = "table"
	KindChart    ShapeKind = "chart"
	KindImage    ShapeKind = "image"
	KindText     ShapeKind = "text"
	KindUnknown  ShapeKind = "unknown"
)

// LayoutKind is the slide-level layout verdict derived during extraction.
// Chart layouts carry a subtype suffix, e.g. "chart.column".
type LayoutKind string

const (
	LayoutTitle   LayoutKind = "title"
	LayoutBullets LayoutKind = "bullets"
	LayoutTable   LayoutKind = "table"
	LayoutChart   LayoutKind = "chart"
	LayoutUnknown LayoutKind = "unknown"
)

// SeriesData is one named value sequence of a chart, order-preserving.
type SeriesData struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// FrameModel mirrors a shape frame in EMU for serialization.
type FrameModel struct {
	Left   int64 `json:"left"`
	Top    int64 `json:"top"`
	Width  int64 `json:"width"`
	Height int64 `json:"height"`
}

// TextBoxModel is one free text box captured during extraction, with enough
// geometry and font detail to re-create it during synthesis.
type TextBoxModel struct {
	Text            string     `json:"text"`
	Frame           FrameModel `json:"frame"`
	IsPlaceholder   bool       `json:"is_placeholder,omitempty"`
	PlaceholderKind string     `json:"placeholder_kind,omitempty"`
	FontName        string     `json:"font_name,omitempty"`
	FontSize        int        `json:"font_size,omitempty"`
	Bold            bool       `json:"bold,omitempty"`
	Italic          bool       `json:"italic,omitempty"`
}

// ImageModel is one picture captured during extraction.
type ImageModel struct {
	Name  string     `json:"name,omitempty"`
	Mime  string     `json:"mime,omitempty"`
	Frame FrameModel `json:"frame"`
	Data  []byte     `json:"-"`
}

// SlideModel is the canonical extracted form of one slide. It is the unit
// the content generator reasons over and the synthesizer builds from.
type SlideModel struct {
	Title       string         `json:"title,omitempty"`
	Layout      string         `json:"layout"`
	Subtitle    string         `json:"subtitle,omitempty"`
	Bullets     []string       `json:"bullets,omitempty"`
	Columns     []string       `json:"columns,omitempty"`
	Rows        [][]string     `json:"rows,omitempty"`
	Categories  []string       `json:"categories,omitempty"`
	Series      []SeriesData   `json:"series,omitempty"`
	TextBoxes   []TextBoxModel `json:"text_boxes,omitempty"`
	Images      []ImageModel   `json:"images,omitempty"`
	OtherShapes int            `json:"other_shapes,omitempty"`
}

// DeckMeta is deck-level extraction and synthesis metadata.
type DeckMeta struct {
	DeckTitle          string `json:"deck_title"`
	Template           string `json:"template,omitempty"`
	StoredTemplatePath string `json:"stored_template_path,omitempty"`
	HasTemplate        bool   `json:"has_template,omitempty"`
	TotalSlides        int    `json:"total_slides,omitempty"`
	OriginalFile       string `json:"original_file,omitempty"`
	ExtractedAt        string `json:"extracted_at,omitempty"`
}

// SlideDescription is the structured description a deck is synthesized
// from: deck-level meta plus one model per slide.
type SlideDescription struct {
	Meta   DeckMeta     `json:"meta"`
	Slides []SlideModel `json:"slides"`
}

// Edit actions and target elements, the closed vocabularies instructions
// are validated against at ingestion.
const (
	ActionModify       = "modify"
	ActionAdd          = "add"
	ActionReplace      = "replace"
	ActionDelete       = "delete"
	ActionChangeLayout = "change_layout"
)

const (
	TargetTitle   = "title"
	TargetText    = "text"
	TargetBullets = "bullets"
	TargetTable   = "table"
	TargetChart   = "chart"
	TargetImage   = "image"
)

// ChartData carries chart content for add/replace instructions.
type ChartData struct {
	Categories []string  `json:"categories,omitempty"`
	Values     []float64 `json:"values,omitempty"`
}

// TableData carries table content for add/replace instructions.
type TableData struct {
	Headers []string   `json:"headers,omitempty"`
	Rows    [][]string `json:"rows,omitempty"`
}

// Changes is the typed change payload of one instruction. Which fields are
// meaningful depends on (action, target); ValidateInstruction enforces the
// closed table at ingestion.
type Changes struct {
	Find       string     `json:"find,omitempty"`
	Replace    string     `json:"replace,omitempty"`
	NewContent string     `json:"new_content,omitempty"`
	Bullets    []string   `json:"bullets,omitempty"`
	AddBullet  string     `json:"add_bullet,omitempty"`
	ChartType  string     `json:"chart_type,omitempty"`
	ChartData  *ChartData `json:"chart_data,omitempty"`
	TableData  *TableData `json:"table_data,omitempty"`
	Containing string     `json:"containing,omitempty"`
	NewLayout  string     `json:"new_layout,omitempty"`
}

// EditInstruction is one typed edit. SlideIndex is 1-based.
type EditInstruction struct {
	SlideIndex    int     `json:"slide_index"`
	Action        string  `json:"action"`
	TargetElement string  `json:"target_element"`
	Changes       Changes `json:"changes"`
}

// EditInstructionSet is the generator's edit contract: a batch of
// instructions plus the slides the request was scoped to.
type EditInstructionSet struct {
	EditType     string            `json:"edit_type,omitempty"`
	TargetSlides []int             `json:"target_slides,omitempty"`
	Edits        []EditInstruction `json:"edits"`
}

// Outcome statuses for one applied instruction.
const (
	OutcomeApplied = "applied"
	OutcomeSkipped = "skipped"
	OutcomeWarned  = "warned"
)

// Outcome is the per-instruction result of a batch application.
type Outcome struct {
	Instruction EditInstruction `json:"instruction"`
	Status      string          `json:"status"`
	Message     string          `json:"message,omitempty"`
}

// BatchReport aggregates one Apply call: every instruction's outcome in
// input order plus the warnings raised along the way.
type BatchReport struct {
	Outcomes []Outcome `json:"outcomes"`
	Warnings []string  `json:"warnings,omitempty"`
}

// Applied counts instructions that mutated the deck.
func (r *BatchReport) Applied() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == OutcomeApplied {
			n++
		}
	}
	return n
}

// ImageAsset is one harvested picture with the scope it came from:
// "master", "layout_N" or "slide_N".
type ImageAsset struct {
	Scope string
	Name  string
	Mime  string
	Data  []byte
	Frame deck.Frame
}

// LayoutBackground is one layout's background descriptor.
type LayoutBackground struct {
	Index      int
	Name       string
	Descriptor string
}

// TemplateAssets is the harvester's result, owned by one synthesis call and
// passed by value through it.
type TemplateAssets struct {
	Logos       []ImageAsset
	Backgrounds []LayoutBackground
}

// Empty reports whether nothing was harvested.
func (a TemplateAssets) Empty() bool {
	return len(a.Logos) == 0 && len(a.Backgrounds) == 0
}

// ShapeSnapshot is one shape's pre-edit state in a preview.
type ShapeSnapshot struct {
	ShapeID int    `json:"shape_id"`
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

// ChangeDescription is one would-be change reported by a preview.
type ChangeDescription struct {
	Action   string `json:"action"`
	Summary  string `json:"summary"`
	OldValue string `json:"old_value,omitempty"`
	NewValue string `json:"new_value,omitempty"`
	ShapeID  int    `json:"shape_id,omitempty"`
}

// SlidePreview is the preview of one slide.
type SlidePreview struct {
	SlideNumber     int                 `json:"slide_number"`
	OriginalContent []ShapeSnapshot     `json:"original_content"`
	Changes         []ChangeDescription `json:"changes"`
}

// PreviewResult is the full dry-run report. Error carries a recoverable
// problem such as an out-of-range target slide; the source deck is never
// modified either way.
type PreviewResult struct {
	TotalSlides int            `json:"total_slides"`
	Slides      []SlidePreview `json:"slides"`
	EditSummary []string       `json:"edit_summary"`
	Error       string         `json:"error,omitempty"`
}
