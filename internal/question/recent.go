package question

// Recent keeps the last N question texts asked in a session, oldest first.
// It is not safe for concurrent use; the owning session serializes access.
type Recent struct {
	limit int
	texts []string
}

func NewRecent(limit int) *Recent {
	if limit < 1 {
		limit = 1
	}
	return &Recent{limit: limit}
}

// Add records text, moving an existing copy to the newest position.
func (r *Recent) Add(text string) {
	if text == "" {
		return
	}
	for i, t := range r.texts {
		if t == text {
			r.texts = append(r.texts[:i], r.texts[i+1:]...)
			break
		}
	}
	r.texts = append(r.texts, text)
	if len(r.texts) > r.limit {
		r.texts = r.texts[len(r.texts)-r.limit:]
	}
}

// List returns a copy of the retained texts.
func (r *Recent) List() []string {
	return append([]string{}, r.texts...)
}

func (r *Recent) Reset() {
	r.texts = nil
}
