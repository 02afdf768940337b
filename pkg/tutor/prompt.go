// Package tutor assembles tutoring prompts from live study state and
// relays the model's token stream to clients.
package tutor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/models"
)

// Mode selects the tutoring behavior for one chat turn.
type Mode string

const (
	ModeTeach   Mode = "TEACH"
	ModeQuiz    Mode = "QUIZ"
	ModeExplain Mode = "EXPLAIN"
	ModeCorrect Mode = "CORRECT"
	ModeChat    Mode = "CHAT"
)

// Validate checks that the mode is one of the five tutoring modes.
func (m Mode) Validate() error {
	switch m {
	case ModeTeach, ModeQuiz, ModeExplain, ModeCorrect, ModeChat:
		return nil
	}
	return errors.New("mode must be one of TEACH, QUIZ, EXPLAIN, CORRECT, CHAT")
}

// persona is the static system-prompt preamble. The no-translation rule is
// the product's core contract: the tutor teaches, it does not translate.
const persona = `You are a patient, encouraging Japanese tutor working fully offline with a single learner.

Rules you must always follow:
- Never translate text on demand. If the learner asks for a translation, decline briefly and instead teach the vocabulary and grammar they need to understand the text themselves.
- Write every kanji with furigana in ruby markup: <ruby>漢字<rt>かんじ</rt></ruby>.
- Match your Japanese to the learner's current JLPT level; explain in simple English where explanation is needed.
- Keep answers focused on the question at hand.`

// StudyContext is the live database state injected into the system prompt.
type StudyContext struct {
	Focus       models.JLPTLevel
	RecentItems []string
	WeakCards   []models.WeakCard
}

// maxRecentItems and maxWeakCards bound the context block.
const (
	maxRecentItems = 10
	maxWeakCards   = 5
)

// Builder composes system prompts. Stateless — all state comes from
// parameters.
type Builder struct{}

// NewBuilder creates a prompt Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// BuildSystem composes PERSONA, the live study context, and the mode
// instruction into the system prompt for one turn.
func (b *Builder) BuildSystem(sc StudyContext, mode Mode, userMessage string) string {
	var sb strings.Builder
	sb.WriteString(persona)
	sb.WriteString("\n\n")
	sb.WriteString(b.contextBlock(sc))
	sb.WriteString("\n\n")
	sb.WriteString(b.modeInstruction(sc, mode, userMessage))
	return sb.String()
}

func (b *Builder) contextBlock(sc StudyContext) string {
	var sb strings.Builder
	sb.WriteString("Learner context:\n")
	fmt.Fprintf(&sb, "- Current JLPT focus: %s\n", sc.Focus)

	recent := sc.RecentItems
	if len(recent) > maxRecentItems {
		recent = recent[:maxRecentItems]
	}
	if len(recent) > 0 {
		fmt.Fprintf(&sb, "- Recently studied: %s\n", strings.Join(recent, ", "))
	}

	weak := sc.WeakCards
	if len(weak) > maxWeakCards {
		weak = weak[:maxWeakCards]
	}
	if len(weak) > 0 {
		parts := make([]string, len(weak))
		for i, w := range weak {
			parts[i] = fmt.Sprintf("%s (ease %.2f)", w.Surface, w.EaseFactor)
		}
		fmt.Fprintf(&sb, "- Struggling with: %s\n", strings.Join(parts, ", "))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (b *Builder) modeInstruction(sc StudyContext, mode Mode, userMessage string) string {
	switch mode {
	case ModeTeach:
		return fmt.Sprintf("Introduce one grammar point or word class appropriate for %s. Give a short dialogue example that uses it naturally.", sc.Focus)
	case ModeQuiz:
		return "Generate one fill-in-the-blank question using an item from the learner's recently studied vocabulary. Offer 4 choices labelled A-D and mark which one is correct."
	case ModeExplain:
		return fmt.Sprintf("Explain %q deeply: etymology, on/kun readings where applicable, and 3 usage examples.", userMessage)
	case ModeCorrect:
		return fmt.Sprintf("The learner wrote: %q. Identify particle, conjugation, and register errors; explain each one; then give a corrected sentence. Do not merely re-translate.", userMessage)
	default: // ModeChat
		return "Freely converse in Japanese at the learner's level. Keep your turns short and invite a reply."
	}
}
