package engine

import (
	"fmt"
	"strings"

	"slidesmith/deck"
	"slidesmith/logger"
)

// Interpreter applies typed edit instructions to a deck in place. Every
// instruction runs inside its own failure boundary: a bad instruction
// produces a warned outcome, never a failed batch.
type Interpreter struct {
	log *logger.Logger
}

// NewInterpreter returns an interpreter. The logger may be nil.
func NewInterpreter(log *logger.Logger) *Interpreter {
	return &Interpreter{log: log}
}

// Apply runs the instructions strictly in list order and returns one
// outcome per instruction. Later instructions observe earlier mutations.
func (it *Interpreter) Apply(d *deck.Deck, edits []EditInstruction) *BatchReport {
	report := &BatchReport{}
	for i, in := range edits {
		outcome := it.applyOne(d, i, in)
		report.Outcomes = append(report.Outcomes, outcome)
		if outcome.Status != OutcomeApplied {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("instruction %d (slide %d, %s %s): %s", i+1, in.SlideIndex, in.Action, in.TargetElement, outcome.Message))
		}
	}
	return report
}

func (it *Interpreter) applyOne(d *deck.Deck, idx int, in EditInstruction) (outcome Outcome) {
	outcome = Outcome{Instruction: in}
	defer func() {
		if r := recover(); r != nil {
			it.logf("apply: instruction %d panicked: %v", idx+1, r)
			outcome.Status = OutcomeWarned
			outcome.Message = fmt.Sprintf("instruction failed: %v", r)
		}
	}()

	if in.SlideIndex < 1 || in.SlideIndex > len(d.Slides) {
		outcome.Status = OutcomeWarned
		outcome.Message = fmt.Sprintf("slide %d out of range (deck has %d)", in.SlideIndex, len(d.Slides))
		return outcome
	}
	sl := d.Slides[in.SlideIndex-1]

	switch in.Action {
	case ActionModify:
		return it.applyModify(sl, in)
	case ActionAdd:
		return it.applyAdd(sl, in)
	case ActionReplace:
		return it.applyReplace(sl, in)
	case ActionDelete:
		return it.applyDelete(sl, in)
	case ActionChangeLayout:
		// intent only, the slide is not touched
		outcome.Status = OutcomeWarned
		outcome.Message = fmt.Sprintf("layout intent %q recorded; shapes are not migrated across layouts", in.Changes.NewLayout)
		return outcome
	}
	outcome.Status = OutcomeSkipped
	outcome.Message = fmt.Sprintf("unknown action %q", in.Action)
	return outcome
}

// applyModify rewrites existing text. With find/replace it runs the tiered
// matcher per shape in stored order and stops at the first hit; with
// new_content it replaces the first shape passing the target's selection
// rule wholesale.
func (it *Interpreter) applyModify(sl *deck.Slide, in EditInstruction) Outcome {
	outcome := Outcome{Instruction: in}
	c := in.Changes

	if c.Find != "" {
		for _, s := range sl.Shapes {
			if !s.HasText() {
				continue
			}
			if newText, tier, ok := ReplaceText(s.TextString(), c.Find, c.Replace); ok {
				s.SetText(newText)
				outcome.Status = OutcomeApplied
				outcome.Message = fmt.Sprintf("%s match replaced %q", tier, c.Find)
				return outcome
			}
		}
		outcome.Status = OutcomeWarned
		outcome.Message = fmt.Sprintf("text %q not found on slide %d", c.Find, in.SlideIndex)
		return outcome
	}

	if c.NewContent != "" {
		if s := selectTarget(sl, in.TargetElement); s != nil {
			s.SetText(c.NewContent)
			outcome.Status = OutcomeApplied
			outcome.Message = fmt.Sprintf("%s content replaced", in.TargetElement)
			return outcome
		}
		outcome.Status = OutcomeWarned
		outcome.Message = fmt.Sprintf("no %s shape on slide %d", in.TargetElement, in.SlideIndex)
		return outcome
	}

	// bullets-only payloads
	if len(c.Bullets) > 0 {
		if s := findBulletBox(sl); s != nil {
			s.SetText(bulletText(c.Bullets))
			outcome.Status = OutcomeApplied
			outcome.Message = fmt.Sprintf("bullet list replaced with %d items", len(c.Bullets))
			return outcome
		}
		outcome.Status = OutcomeWarned
		outcome.Message = "no bulleted text box to modify"
		return outcome
	}
	if c.AddBullet != "" {
		if s := findBulletBox(sl); s != nil {
			s.SetText(s.TextString() + "\n• " + c.AddBullet)
			outcome.Status = OutcomeApplied
			outcome.Message = "bullet appended"
			return outcome
		}
		outcome.Status = OutcomeWarned
		outcome.Message = "no bulleted text box to append to"
		return outcome
	}

	outcome.Status = OutcomeSkipped
	outcome.Message = "no applicable change payload"
	return outcome
}

// applyAdd attaches a new element, or appends to a compatible existing one
// instead of duplicating it.
func (it *Interpreter) applyAdd(sl *deck.Slide, in EditInstruction) Outcome {
	outcome := Outcome{Instruction: in}
	c := in.Changes

	switch in.TargetElement {
	case TargetTitle, TargetText:
		s := sl.AddShape(&deck.Shape{
			Frame: deck.Frame{Left: deck.Inches(0.5), Top: nextFreeTop(sl), Width: deck.Inches(9.0), Height: deck.Inches(1.0)},
			Text:  deck.NewText(c.NewContent, deck.Font{}, deck.StyleDefault),
		})
		if in.TargetElement == TargetTitle && sl.TitleShape() == nil {
			s.IsTitle = true
		}
		outcome.Status = OutcomeApplied
		outcome.Message = "text box added"

	case TargetBullets:
		items := c.Bullets
		if len(items) == 0 {
			items = []string{c.AddBullet}
		}
		if existing := findBulletBox(sl); existing != nil {
			existing.SetText(existing.TextString() + "\n" + bulletText(items))
			outcome.Message = fmt.Sprintf("%d bullets appended to existing list", len(items))
		} else {
			sl.AddShape(&deck.Shape{
				Frame: deck.Frame{Left: deck.Inches(0.5), Top: nextFreeTop(sl), Width: deck.Inches(9.0), Height: deck.Inches(2.5)},
				Text:  deck.NewText(bulletText(items), deck.Font{}, deck.StyleDefault),
			})
			outcome.Message = fmt.Sprintf("bullet list added with %d items", len(items))
		}
		outcome.Status = OutcomeApplied

	case TargetTable:
		t := &deck.TableContent{Columns: append([]string(nil), c.TableData.Headers...)}
		for _, row := range c.TableData.Rows {
			t.Rows = append(t.Rows, append([]string(nil), row...))
		}
		sl.AddShape(&deck.Shape{
			Frame: deck.Frame{Left: deck.Inches(0.5), Top: nextFreeTop(sl), Width: deck.Inches(9.0), Height: deck.Inches(3.0)},
			Table: t,
		})
		outcome.Status = OutcomeApplied
		outcome.Message = fmt.Sprintf("table added (%d columns, %d rows)", len(t.Columns), len(t.Rows))

	case TargetChart:
		chartType := c.ChartType
		if chartType == "" {
			chartType = "column"
		}
		ch := &deck.ChartContent{
			Type:       chartType,
			Categories: append([]string(nil), c.ChartData.Categories...),
		}
		if len(c.ChartData.Values) > 0 {
			ch.Series = []deck.Series{{Name: "Series 1", Values: append([]float64(nil), c.ChartData.Values...)}}
		}
		sl.AddShape(&deck.Shape{
			Frame: deck.Frame{Left: deck.Inches(0.5), Top: nextFreeTop(sl), Width: deck.Inches(9.0), Height: deck.Inches(3.5)},
			Chart: ch,
		})
		outcome.Status = OutcomeApplied
		outcome.Message = fmt.Sprintf("%s chart added (%d categories)", chartType, len(ch.Categories))

	default:
		outcome.Status = OutcomeSkipped
		outcome.Message = fmt.Sprintf("add does not support target %q", in.TargetElement)
	}
	return outcome
}

// applyReplace composes delete and add for the same target.
func (it *Interpreter) applyReplace(sl *deck.Slide, in EditInstruction) Outcome {
	removed := removeTargets(sl, in.TargetElement, in.Changes.Containing)
	outcome := it.applyAdd(sl, in)
	outcome.Instruction = in
	if outcome.Status == OutcomeApplied {
		outcome.Message = fmt.Sprintf("replaced %d existing %s shape(s): %s", removed, in.TargetElement, outcome.Message)
	}
	return outcome
}

func (it *Interpreter) applyDelete(sl *deck.Slide, in EditInstruction) Outcome {
	outcome := Outcome{Instruction: in}
	removed := removeTargets(sl, in.TargetElement, in.Changes.Containing)
	if removed == 0 {
		outcome.Status = OutcomeWarned
		outcome.Message = fmt.Sprintf("no %s shapes matched on slide %d", in.TargetElement, in.SlideIndex)
		return outcome
	}
	outcome.Status = OutcomeApplied
	outcome.Message = fmt.Sprintf("%d %s shape(s) removed", removed, in.TargetElement)
	return outcome
}

// removeTargets drops every shape of the target kind, optionally filtered
// by a case-insensitive containing test on the shape's text.
func removeTargets(sl *deck.Slide, target, containing string) int {
	return sl.RemoveShapes(func(s *deck.Shape) bool {
		if !targetMatches(s, target) {
			return false
		}
		if containing != "" && !ContainsFold(s.TextString(), containing) {
			return false
		}
		return true
	})
}

func targetMatches(s *deck.Shape, target string) bool {
	switch target {
	case TargetTable:
		return s.HasTable()
	case TargetChart:
		return s.HasChart()
	case TargetImage:
		return s.HasImage()
	case TargetTitle:
		return Classify(s) == KindTitle
	case TargetBullets:
		return s.HasText() && looksLikeBullets(s.TextString())
	case TargetText:
		return s.HasText()
	}
	return false
}

// selectTarget picks the first shape passing the target's selection rule
// for wholesale new_content replacement.
func selectTarget(sl *deck.Slide, target string) *deck.Shape {
	switch target {
	case TargetTitle:
		if s := sl.TitleShape(); s != nil {
			return s
		}
		for _, s := range sl.Shapes {
			if s.HasText() && looksLikeTitle(s.TextString()) {
				return s
			}
		}
	case TargetBullets:
		return findBulletBox(sl)
	case TargetText:
		for _, s := range sl.Shapes {
			if s.HasText() {
				return s
			}
		}
	}
	return nil
}

func findBulletBox(sl *deck.Slide) *deck.Shape {
	for _, s := range sl.Shapes {
		if s.IsTitle || !s.HasText() {
			continue
		}
		if s.Placeholder != nil && s.Placeholder.Index == 2 {
			return s
		}
		if looksLikeBullets(s.TextString()) {
			return s
		}
	}
	return nil
}

func bulletText(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "• " + item
	}
	return strings.Join(lines, "\n")
}

// nextFreeTop returns a top offset just below the lowest existing shape so
// added elements do not overlap, clamped to the slide body.
func nextFreeTop(sl *deck.Slide) int64 {
	bottom := deck.Inches(1.0)
	for _, s := range sl.Shapes {
		if b := s.Frame.Top + s.Frame.Height; b > bottom {
			bottom = b
		}
	}
	top := bottom + deck.Inches(0.2)
	if max := deck.Inches(6.5); top > max {
		top = max
	}
	return top
}

func (it *Interpreter) logf(format string, args ...interface{}) {
	if it.log != nil {
		it.log.Logf(format, args...)
	}
}
