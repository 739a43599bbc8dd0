package game

import (
	"errors"
	"fmt"

	"github.com/playperu/boardquiz/internal/boardquiz"
)

// Validation errors. The action is aborted and the session is unchanged.
var (
	ErrInvalidTransition  = errors.New("action not allowed in current state")
	ErrInvalidLanguage    = errors.New("unsupported language")
	ErrInvalidTeamCount   = errors.New("team count must be between 2 and 4")
	ErrUnknownTeam        = errors.New("unknown team")
	ErrEmptyTeamName      = errors.New("team name is empty")
	ErrDuplicateTeamNames = errors.New("team names must be unique")
	ErrUnknownTool        = errors.New("unknown tool")
	ErrTooManyTools       = errors.New("a team may pick at most 3 tools")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrTooManyCategories  = errors.New("at most 6 categories may be selected")
	ErrNoCategories       = errors.New("select at least one category")
	ErrInvalidValue       = errors.New("cell value must be 200, 400 or 600")
	ErrCellCompleted      = errors.New("cell already played by this team")
	ErrNoCellSelected     = errors.New("select a cell first")
	ErrPitTargetRequired  = errors.New("select a target team for the pit first")
	ErrPitNotActive       = errors.New("the pit is not active this turn")
	ErrInvalidPitTarget   = errors.New("invalid pit target")
	ErrToolNotOwned       = errors.New("team did not pick this tool")
	ErrToolExhausted      = errors.New("tool already used by this team")
	ErrToolBeforeQuestion = errors.New("tool must be used before the question")
	ErrToolAfterQuestion  = errors.New("tool is only usable after the question appears")
	ErrQuestionLoaded     = errors.New("a question is already loaded for this turn")
	ErrTurnAnswered       = errors.New("turn already answered")
	ErrFetchInProgress    = errors.New("a question request is already in flight")
	ErrInvalidOption      = errors.New("answer option out of range")
	ErrToolsLocked        = errors.New("tools cannot change once the game has started")
	ErrTurnNotAnswered    = errors.New("answer the question or use skip before passing the turn")
)

// ErrStaleQuestion is returned when the turn changed while a question
// request was in flight; the result was discarded.
var ErrStaleQuestion = errors.New("question arrived for a turn that is no longer current")

// ErrSessionClosed is reported by Check after Close.
var ErrSessionClosed = errors.New("session closed")

var validationErrors = []error{
	ErrInvalidTransition, ErrInvalidLanguage, ErrInvalidTeamCount, ErrUnknownTeam,
	ErrEmptyTeamName, ErrDuplicateTeamNames, ErrUnknownTool, ErrTooManyTools,
	ErrUnknownCategory, ErrTooManyCategories, ErrNoCategories, ErrInvalidValue,
	ErrCellCompleted, ErrNoCellSelected, ErrPitTargetRequired, ErrPitNotActive,
	ErrInvalidPitTarget, ErrToolNotOwned, ErrToolExhausted, ErrToolBeforeQuestion,
	ErrToolAfterQuestion, ErrQuestionLoaded, ErrTurnAnswered, ErrFetchInProgress,
	ErrInvalidOption, ErrToolsLocked, ErrTurnNotAnswered,
}

// IsValidation reports whether err is a rejected user action.
func IsValidation(err error) bool {
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

// ProviderError wraps a failed question request. The turn keeps its
// selection so the same cell can be retried.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("question provider: %v", e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

var notices = map[error]boardquiz.Text{
	ErrDuplicateTeamNames: {AR: "يجب أن تكون أسماء الفرق مختلفة", EN: "Team names must be unique"},
	ErrEmptyTeamName:      {AR: "اسم الفريق لا يمكن أن يكون فارغاً", EN: "Team names cannot be empty"},
	ErrTooManyTools:       {AR: "أقصى عدد للمساعدات هو 3 لكل فريق", EN: "Max 3 powers allowed per team"},
	ErrTooManyCategories:  {AR: "لا يمكنك اختيار أكثر من 6 مجالات", EN: "Max 6 categories allowed"},
	ErrNoCategories:       {AR: "يرجى اختيار مجال واحد على الأقل للعب", EN: "Select at least 1 category to play"},
	ErrNoCellSelected:     {AR: "اختر قيمة من الجدول أولاً", EN: "Select a value from the table first"},
	ErrPitTargetRequired:  {AR: "يجب تحديد الفريق المستهدف للحفرة قبل السؤال", EN: "Select a target team for Pit first"},
	ErrToolBeforeQuestion: {AR: "هذه المساعدة تستخدم فقط قبل ظهور السؤال", EN: "This power must be used before the question"},
	ErrToolAfterQuestion:  {AR: "هذه المساعدة تستخدم فقط بعد ظهور السؤال", EN: "This power is only for after the question appears"},
	ErrToolExhausted:      {AR: "تم استخدام هذه المساعدة من قبل", EN: "This power was already used"},
	ErrCellCompleted:      {AR: "تم لعب هذه الخانة من قبل", EN: "This cell was already played"},
	ErrToolsLocked:        {AR: "لا يمكن تغيير المساعدات بعد بدء اللعبة", EN: "Powers cannot change after the game starts"},
	ErrTurnNotAnswered:    {AR: "أجب على السؤال أو استخدم التخطي أولاً", EN: "Answer the question or use Skip first"},
}

var providerNotice = boardquiz.Text{AR: "فشل في تحميل السؤال، جرب مرة أخرى", EN: "Failed to load question, try again"}

// Notice returns the user-facing text for err in lang, falling back to
// the error message.
func Notice(err error, lang boardquiz.Language) string {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return providerNotice.In(lang)
	}
	for target, text := range notices {
		if errors.Is(err, target) {
			return text.In(lang)
		}
	}
	return err.Error()
}
