// Package anki generates Anki-importable .apkg flashcard decks from the
// structured card JSON a synthesis run can produce.
package anki

import (
	"fmt"
	"strconv"
	"strings"
)

// CardType identifies one of the supported note layouts.
type CardType string

const (
	CardConceptDefinition CardType = "concept_definition"
	CardQAPair            CardType = "q_a_pair"
	CardEventDate         CardType = "event_date"
	CardStepInProcess     CardType = "step_in_process"
)

// Model IDs are fixed so re-imports update existing notes instead of
// duplicating them.
const (
	conceptDefinitionModelID = 1607392319
	qaPairModelID            = 1607392320
	eventDateModelID         = 1607392321
	stepInProcessModelID     = 1607392322
)

// Flashcard is one card in the deck content envelope. Which fields are
// meaningful depends on Type.
type Flashcard struct {
	ID       string   `json:"id"`
	Type     CardType `json:"type"`
	Priority string   `json:"priority"`
	Tags     []string `json:"tags"`

	// concept_definition fields.
	Concept    string   `json:"concept,omitempty"`
	Definition string   `json:"definition,omitempty"`
	Context    string   `json:"context,omitempty"`
	Examples   []string `json:"examples,omitempty"`

	// q_a_pair fields.
	Question        string `json:"question,omitempty"`
	Answer          string `json:"answer,omitempty"`
	Explanation     string `json:"explanation,omitempty"`
	SourceTimestamp string `json:"source_timestamp,omitempty"`

	// event_date fields.
	Event        string   `json:"event,omitempty"`
	Date         string   `json:"date,omitempty"`
	Significance string   `json:"significance,omitempty"`
	KeyFigures   []string `json:"key_figures,omitempty"`

	// step_in_process fields.
	Process    string `json:"process,omitempty"`
	StepNumber int    `json:"step_number,omitempty"`
	Step       string `json:"step,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

// DeckContent is the top-level card JSON envelope.
type DeckContent struct {
	Metadata struct {
		SourceTitle    string `json:"source_title"`
		SourceType     string `json:"source_type,omitempty"`
		ProcessingDate string `json:"processing_date,omitempty"`
	} `json:"metadata"`
	Flashcards []Flashcard `json:"flashcard_content"`
}

var validPriorities = map[string]bool{"high": true, "medium": true, "low": true}

// Validate checks the envelope against the card schema: required metadata,
// known card types and priorities, and the per-type required fields.
func (d *DeckContent) Validate() error {
	if d.Metadata.SourceTitle == "" {
		return fmt.Errorf("metadata.source_title is required")
	}

	for i, card := range d.Flashcards {
		if card.ID == "" {
			return fmt.Errorf("card %d: id is required", i)
		}
		if !validPriorities[card.Priority] {
			return fmt.Errorf("card %q: invalid priority %q", card.ID, card.Priority)
		}
		if card.Tags == nil {
			return fmt.Errorf("card %q: tags are required", card.ID)
		}

		switch card.Type {
		case CardConceptDefinition:
			if card.Concept == "" || card.Definition == "" {
				return fmt.Errorf("card %q: concept_definition requires concept and definition", card.ID)
			}
		case CardQAPair:
			if card.Question == "" || card.Answer == "" {
				return fmt.Errorf("card %q: q_a_pair requires question and answer", card.ID)
			}
		case CardEventDate:
			if card.Event == "" || card.Date == "" || card.Significance == "" {
				return fmt.Errorf("card %q: event_date requires event, date, and significance", card.ID)
			}
		case CardStepInProcess:
			if card.Process == "" || card.Step == "" || card.StepNumber < 1 {
				return fmt.Errorf("card %q: step_in_process requires process, step, and a positive step_number", card.ID)
			}
		default:
			return fmt.Errorf("card %q: unknown type %q", card.ID, card.Type)
		}
	}

	return nil
}

// noteModel describes one Anki note type: its fields and card template.
type noteModel struct {
	id     int64
	name   string
	fields []string
	qfmt   string
	afmt   string
}

const cardCSS = `.card {
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
  font-size: 18px;
  text-align: left;
  color: #333;
  background-color: #f9f9f9;
  padding: 20px;
}
.context, .explanation, .figures, .examples {
  font-size: 14px;
  color: #666;
  margin-top: 10px;
  padding: 8px;
  background-color: #f0f0f0;
  border-radius: 4px;
  border-left: 3px solid #4CAF50;
}
hr#answer {
  border: none;
  border-top: 1px solid #ddd;
  margin: 15px 0;
}
.tags {
  font-size: 12px;
  color: #777;
  margin-top: 15px;
}`

var noteModels = map[CardType]noteModel{
	CardConceptDefinition: {
		id:     conceptDefinitionModelID,
		name:   "Concept Definition Model",
		fields: []string{"Concept", "Definition", "Context", "Examples", "Tags"},
		qfmt:   "{{Concept}}",
		afmt:   `{{FrontSide}}<hr id="answer">{{Definition}}<br><br>{{#Context}}<div class="context">Context: {{Context}}</div>{{/Context}}{{#Examples}}<div class="examples">Examples: {{Examples}}</div>{{/Examples}}`,
	},
	CardQAPair: {
		id:     qaPairModelID,
		name:   "Q&A Pair Model",
		fields: []string{"Question", "Answer", "Explanation", "Source", "Tags"},
		qfmt:   "{{Question}}",
		afmt:   `{{FrontSide}}<hr id="answer">{{Answer}}{{#Explanation}}<br><br><div class="explanation">Why: {{Explanation}}</div>{{/Explanation}}`,
	},
	CardEventDate: {
		id:     eventDateModelID,
		name:   "Timeline/Event Model",
		fields: []string{"Event", "Date", "Significance", "KeyFigures", "Tags"},
		qfmt:   "{{Event}} ({{Date}})",
		afmt:   `{{FrontSide}}<hr id="answer">{{Significance}}{{#KeyFigures}}<br><br><div class="figures">Key Figures: {{KeyFigures}}</div>{{/KeyFigures}}`,
	},
	CardStepInProcess: {
		id:     stepInProcessModelID,
		name:   "Process Step Model",
		fields: []string{"Process", "StepNumber", "Step", "Detail", "Tags"},
		qfmt:   "Step {{StepNumber}} of {{Process}}",
		afmt:   `{{FrontSide}}<hr id="answer">{{Step}}<br><br>{{Detail}}`,
	},
}

// fieldValues maps a flashcard onto its note model's field order.
func fieldValues(card Flashcard) []string {
	tags := strings.Join(card.Tags, ", ")

	switch card.Type {
	case CardConceptDefinition:
		return []string{card.Concept, card.Definition, card.Context, strings.Join(card.Examples, ", "), tags}
	case CardQAPair:
		return []string{card.Question, card.Answer, card.Explanation, card.SourceTimestamp, tags}
	case CardEventDate:
		return []string{card.Event, card.Date, card.Significance, strings.Join(card.KeyFigures, ", "), tags}
	case CardStepInProcess:
		return []string{card.Process, strconv.Itoa(card.StepNumber), card.Step, card.Detail, tags}
	}
	return []string{"", "", "", "", ""}
}
