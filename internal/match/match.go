// Package match maps a consensus answer onto the question's answer field,
// producing the UI action the browser automation should perform.
package match

import (
	"errors"
	"strings"

	"quizsolver/internal/consensus"
	"quizsolver/internal/question"
)

// ErrNoMatch is returned when the answer resembles none of the options
// closely enough to click anything.
var ErrNoMatch = errors.New("answer matches no option")

// Kind enumerates the UI actions the automation can perform.
type Kind string

const (
	KindTypeText     Kind = "type_text"
	KindSelectOption Kind = "select_option"
	KindCheckOptions Kind = "check_options"
	KindPickDropdown Kind = "pick_dropdown"
)

// Action tells the automation what to do with the chosen answer.
type Action struct {
	Kind    Kind   `json:"kind"`
	Text    string `json:"text,omitempty"`
	Option  int    `json:"option,omitempty"`
	Options []int  `json:"options,omitempty"`
}

const (
	// choiceFloor gates radio/checkbox clicks; clicking a wrong option is
	// worse than skipping the question.
	choiceFloor = 0.5
	// dropdownFloor is laxer: dropdown labels are usually short and exact.
	dropdownFloor = 0.3
)

// Resolve turns a voted answer into the action for q's answer shape.
// The answer is matched against option labels with a tiered scoring scheme;
// for multi-choice questions every option clearing the floor is checked.
func Resolve(answer string, q question.Question) (Action, error) {
	switch q.Shape {
	case question.ShapeFreeText:
		return Action{Kind: KindTypeText, Text: answer}, nil

	case question.ShapeSingleChoice:
		idx, score := bestOption(answer, q.Options, OptionScore)
		if idx < 0 || score < choiceFloor {
			return Action{}, ErrNoMatch
		}
		return Action{Kind: KindSelectOption, Option: idx}, nil

	case question.ShapeMultiChoice:
		var picked []int
		for i, opt := range q.Options {
			if OptionScore(answer, opt) >= choiceFloor {
				picked = append(picked, i)
			}
		}
		if len(picked) == 0 {
			return Action{}, ErrNoMatch
		}
		return Action{Kind: KindCheckOptions, Options: picked}, nil

	case question.ShapeDropdown:
		idx, score := bestOption(answer, q.Options, consensus.Score)
		if idx < 0 || score < dropdownFloor {
			return Action{}, ErrNoMatch
		}
		return Action{Kind: KindPickDropdown, Option: idx}, nil
	}
	return Action{}, ErrNoMatch
}

// OptionScore rates how well the answer fits one option label, in [0, 1].
// Tiers: exact 1.0, containment 0.95, word overlap when strong enough,
// shared leading word 0.5. Weak overlap scores zero rather than its raw
// value so near-misses never clear the click floor.
func OptionScore(answer, option string) float64 {
	an := consensus.Normalize(answer)
	on := consensus.Normalize(option)
	if an == "" || on == "" {
		return 0
	}
	if an == on {
		return 1.0
	}
	if strings.Contains(an, on) || strings.Contains(on, an) {
		return 0.95
	}
	if ov := wordOverlap(an, on); ov >= 0.6 {
		return ov
	}
	if leadingWord(an) == leadingWord(on) {
		return 0.5
	}
	return 0
}

func bestOption(answer string, options []string, score func(a, b string) float64) (int, float64) {
	bestIdx := -1
	bestScore := 0.0
	for i, opt := range options {
		if s := score(answer, opt); s > bestScore {
			bestScore = s
			bestIdx = i
		}
	}
	return bestIdx, bestScore
}

func wordOverlap(a, b string) float64 {
	wa := strings.Fields(a)
	wb := strings.Fields(b)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(wa))
	for _, w := range wa {
		set[w] = struct{}{}
	}
	shared := 0
	seen := make(map[string]struct{}, len(wb))
	for _, w := range wb {
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		if _, ok := set[w]; ok {
			shared++
		}
	}
	larger := len(set)
	if len(seen) > larger {
		larger = len(seen)
	}
	return float64(shared) / float64(larger)
}

func leadingWord(s string) string {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i]
	}
	return s
}
