package boardquiz

type ToolID string

const (
	ToolSkip         ToolID = "skip"
	ToolDoubleTry    ToolID = "double_try"
	ToolPit          ToolID = "pit"
	ToolCallFriend   ToolID = "call_friend"
	ToolDoublePoints ToolID = "double_points"
)

// UsageWindow says when a tool may be toggled relative to the question.
type UsageWindow string

const (
	UsageBefore UsageWindow = "before"
	UsageAfter  UsageWindow = "after"
)

type Tool struct {
	ID          ToolID      `json:"id"`
	Name        Text        `json:"name"`
	Description Text        `json:"description"`
	Icon        string      `json:"icon"`
	UsageTime   UsageWindow `json:"usageTime"`
}

var tools = []Tool{
	{ID: ToolSkip, Name: Text{AR: "استريح", EN: "Skip"}, Description: Text{AR: "تخطي السؤال الحالي", EN: "Skip current question"}, Icon: "✋", UsageTime: UsageAfter},
	{ID: ToolDoubleTry, Name: Text{AR: "جوابين", EN: "Two Answers"}, Description: Text{AR: "محاولتان للإجابة", EN: "Two attempts"}, Icon: "✌️", UsageTime: UsageBefore},
	{ID: ToolPit, Name: Text{AR: "الحفرة", EN: "The Pit"}, Description: Text{AR: "اخصم من فريق آخر", EN: "Deduct from another"}, Icon: "🕳️", UsageTime: UsageBefore},
	{ID: ToolCallFriend, Name: Text{AR: "صديق", EN: "Friend"}, Description: Text{AR: "اتصال بصديق", EN: "Call a friend"}, Icon: "📞", UsageTime: UsageBefore},
	{ID: ToolDoublePoints, Name: Text{AR: "مضاعفة", EN: "Double"}, Description: Text{AR: "مضاعفة النقاط", EN: "Double points"}, Icon: "✨", UsageTime: UsageBefore},
}

// Tools returns the registry in display order.
func Tools() []Tool {
	return append([]Tool{}, tools...)
}

// LookupTool finds a registered tool by id.
func LookupTool(id ToolID) (Tool, bool) {
	for _, t := range tools {
		if t.ID == id {
			return t, true
		}
	}
	return Tool{}, false
}
