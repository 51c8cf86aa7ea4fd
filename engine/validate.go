package engine

import "fmt"

// InstructionError is an ingestion-time validation failure for one
// instruction. Validation is strict: an instruction set with any invalid
// member is rejected before the interpreter ever sees it.
type InstructionError struct {
	Index   int
	Message string
}

func (e *InstructionError) Error() string {
	return fmt.Sprintf("instruction %d: %s", e.Index, e.Message)
}

var validActions = map[string]bool{
	ActionModify:       true,
	ActionAdd:          true,
	ActionReplace:      true,
	ActionDelete:       true,
	ActionChangeLayout: true,
}

var validTargets = map[string]bool{
	TargetTitle:   true,
	TargetText:    true,
	TargetBullets: true,
	TargetTable:   true,
	TargetChart:   true,
	TargetImage:   true,
}

// ValidateInstructionSet checks every instruction against the closed
// (action, target) table. The first failure is returned with its index.
// Slide index range is NOT checked here: that depends on the deck and is
// a warned no-op at apply time.
func ValidateInstructionSet(set *EditInstructionSet) error {
	for i := range set.Edits {
		if err := ValidateInstruction(&set.Edits[i]); err != nil {
			return &InstructionError{Index: i, Message: err.Error()}
		}
	}
	return nil
}

// ValidateInstruction checks one instruction's action, target and change
// payload. Which change fields are meaningful is a closed table per
// (action, target); a payload that fits no row is an error.
func ValidateInstruction(in *EditInstruction) error {
	if in.SlideIndex < 1 {
		return fmt.Errorf("slide_index must be 1-based, got %d", in.SlideIndex)
	}
	if !validActions[in.Action] {
		return fmt.Errorf("unknown action %q", in.Action)
	}
	if !validTargets[in.TargetElement] {
		return fmt.Errorf("unknown target_element %q", in.TargetElement)
	}

	c := &in.Changes
	switch in.Action {
	case ActionModify:
		switch in.TargetElement {
		case TargetTitle, TargetText:
			if !hasFindReplace(c) && c.NewContent == "" {
				return fmt.Errorf("modify %s needs find+replace or new_content", in.TargetElement)
			}
		case TargetBullets:
			if !hasFindReplace(c) && c.NewContent == "" && len(c.Bullets) == 0 && c.AddBullet == "" {
				return fmt.Errorf("modify bullets needs find+replace, new_content, bullets or add_bullet")
			}
		default:
			return fmt.Errorf("modify does not support target %q", in.TargetElement)
		}
	case ActionAdd, ActionReplace:
		switch in.TargetElement {
		case TargetTitle, TargetText:
			if c.NewContent == "" {
				return fmt.Errorf("%s %s needs new_content", in.Action, in.TargetElement)
			}
		case TargetBullets:
			if len(c.Bullets) == 0 && c.AddBullet == "" {
				return fmt.Errorf("%s bullets needs bullets or add_bullet", in.Action)
			}
		case TargetTable:
			if c.TableData == nil || len(c.TableData.Headers) == 0 {
				return fmt.Errorf("%s table needs table_data with headers", in.Action)
			}
		case TargetChart:
			if c.ChartData == nil || len(c.ChartData.Categories) == 0 {
				return fmt.Errorf("%s chart needs chart_data with categories", in.Action)
			}
		default:
			return fmt.Errorf("%s does not support target %q", in.Action, in.TargetElement)
		}
	case ActionDelete:
		// containing filter is optional, nothing else is read
	case ActionChangeLayout:
		if c.NewLayout == "" {
			return fmt.Errorf("change_layout needs new_layout")
		}
	}
	return nil
}

func hasFindReplace(c *Changes) bool {
	return c.Find != ""
}
