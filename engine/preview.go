package engine

import (
	"fmt"

	"slidesmith/deck"
	"slidesmith/logger"
)

// Previewer dry-runs edit instructions against a deck snapshot and reports
// what would change. The caller's deck is never touched: the previewer
// works on a deep clone and even the clone is only read.
type Previewer struct {
	log *logger.Logger
}

// NewPreviewer returns a previewer. The logger may be nil.
func NewPreviewer(log *logger.Logger) *Previewer {
	return &Previewer{log: log}
}

// Preview evaluates the instructions without applying them. targetSlide is
// a 1-based slide filter; 0 previews the whole deck. An out-of-range
// target is reported in the result's Error field, not a crash.
func (p *Previewer) Preview(d *deck.Deck, edits []EditInstruction, targetSlide int) *PreviewResult {
	snapshot := d.Clone()
	result := &PreviewResult{TotalSlides: len(snapshot.Slides)}

	if targetSlide != 0 && (targetSlide < 1 || targetSlide > len(snapshot.Slides)) {
		result.Error = fmt.Sprintf("slide %d out of range (deck has %d slides)", targetSlide, len(snapshot.Slides))
		return result
	}

	for i, sl := range snapshot.Slides {
		num := i + 1
		if targetSlide != 0 && num != targetSlide {
			continue
		}
		sp := SlidePreview{SlideNumber: num, OriginalContent: snapshotShapes(sl)}
		for _, in := range edits {
			if in.SlideIndex != num {
				continue
			}
			sp.Changes = append(sp.Changes, describeChange(sl, in))
		}
		result.Slides = append(result.Slides, sp)
	}

	for _, in := range edits {
		if targetSlide != 0 && in.SlideIndex != targetSlide {
			continue
		}
		if in.SlideIndex < 1 || in.SlideIndex > len(snapshot.Slides) {
			result.EditSummary = append(result.EditSummary,
				fmt.Sprintf("Slide %d: skipped, slide does not exist", in.SlideIndex))
			continue
		}
		ch := describeChange(snapshot.Slides[in.SlideIndex-1], in)
		result.EditSummary = append(result.EditSummary,
			fmt.Sprintf("Slide %d: %s", in.SlideIndex, ch.Summary))
	}
	return result
}

func snapshotShapes(sl *deck.Slide) []ShapeSnapshot {
	snaps := make([]ShapeSnapshot, 0, len(sl.Shapes))
	for i, s := range sl.Shapes {
		snap := ShapeSnapshot{ShapeID: i, Kind: string(Classify(s))}
		switch {
		case s.HasTable():
			snap.Content = fmt.Sprintf("table %dx%d", len(s.Table.Columns), len(s.Table.Rows))
		case s.HasChart():
			snap.Content = fmt.Sprintf("chart (%s)", s.Chart.Type)
		case s.HasImage():
			snap.Content = fmt.Sprintf("image %s", s.Image.Name)
		default:
			snap.Content = s.TextString()
		}
		snaps = append(snaps, snap)
	}
	return snaps
}

// describeChange dry-runs one instruction against one slide. The matching
// logic is the interpreter's; only (old, new) values are recorded.
func describeChange(sl *deck.Slide, in EditInstruction) ChangeDescription {
	c := in.Changes
	switch in.Action {
	case ActionModify:
		if c.Find != "" {
			for i, s := range sl.Shapes {
				if !s.HasText() {
					continue
				}
				old := s.TextString()
				if newText, tier, ok := ReplaceText(old, c.Find, c.Replace); ok {
					return ChangeDescription{
						Action:   ActionModify,
						Summary:  fmt.Sprintf("would replace %q via %s match", c.Find, tier),
						OldValue: old,
						NewValue: newText,
						ShapeID:  i,
					}
				}
			}
			return ChangeDescription{
				Action:  ActionModify,
				Summary: fmt.Sprintf("no change, text %q not found", c.Find),
			}
		}
		if c.NewContent != "" {
			if s := selectTarget(sl, in.TargetElement); s != nil {
				return ChangeDescription{
					Action:   ActionModify,
					Summary:  fmt.Sprintf("would replace %s content wholesale", in.TargetElement),
					OldValue: s.TextString(),
					NewValue: c.NewContent,
					ShapeID:  shapeIndex(sl, s),
				}
			}
			return ChangeDescription{
				Action:  ActionModify,
				Summary: fmt.Sprintf("no change, no %s shape present", in.TargetElement),
			}
		}
		return ChangeDescription{Action: ActionModify, Summary: "no applicable change payload"}

	case ActionAdd:
		return ChangeDescription{
			Action:   ActionAdd,
			Summary:  fmt.Sprintf("would add %s", in.TargetElement),
			NewValue: addedValueSummary(in),
		}

	case ActionReplace:
		n := countTargets(sl, in.TargetElement, c.Containing)
		return ChangeDescription{
			Action:   ActionReplace,
			Summary:  fmt.Sprintf("would replace %d %s shape(s)", n, in.TargetElement),
			NewValue: addedValueSummary(in),
		}

	case ActionDelete:
		n := countTargets(sl, in.TargetElement, c.Containing)
		if n == 0 {
			return ChangeDescription{
				Action:  ActionDelete,
				Summary: fmt.Sprintf("no change, no %s shapes match", in.TargetElement),
			}
		}
		return ChangeDescription{
			Action:  ActionDelete,
			Summary: fmt.Sprintf("would delete %d %s shape(s)", n, in.TargetElement),
		}

	case ActionChangeLayout:
		return ChangeDescription{
			Action:   ActionChangeLayout,
			Summary:  fmt.Sprintf("would record layout intent %q (shapes not migrated)", c.NewLayout),
			NewValue: c.NewLayout,
		}
	}
	return ChangeDescription{Action: in.Action, Summary: "unknown action"}
}

func addedValueSummary(in EditInstruction) string {
	c := in.Changes
	switch in.TargetElement {
	case TargetTable:
		if c.TableData != nil {
			return fmt.Sprintf("table %dx%d", len(c.TableData.Headers), len(c.TableData.Rows))
		}
	case TargetChart:
		if c.ChartData != nil {
			return fmt.Sprintf("%s chart with %d categories", c.ChartType, len(c.ChartData.Categories))
		}
	case TargetBullets:
		if len(c.Bullets) > 0 {
			return bulletText(c.Bullets)
		}
		return "• " + c.AddBullet
	}
	return c.NewContent
}

func countTargets(sl *deck.Slide, target, containing string) int {
	n := 0
	for _, s := range sl.Shapes {
		if targetMatches(s, target) && (containing == "" || ContainsFold(s.TextString(), containing)) {
			n++
		}
	}
	return n
}

func shapeIndex(sl *deck.Slide, target *deck.Shape) int {
	for i, s := range sl.Shapes {
		if s == target {
			return i
		}
	}
	return -1
}
