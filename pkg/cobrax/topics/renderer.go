package topics

// Renderer formats topic content for display
type Renderer interface {
	// Render returns content formatted for the terminal. format is the
	// topic's file extension, such as ".md".
	Render(content string, format string) string
}

// PlainRenderer returns content unchanged
type PlainRenderer struct{}

func (r *PlainRenderer) Render(content string, format string) string {
	return content
}
