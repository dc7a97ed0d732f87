package services

const reviewInstruction = "Review this resume and provide feedback for improvement: "

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildReviewPrompt embeds the extracted resume text, unmodified, after the
// fixed review instruction.
func (pb *PromptBuilder) BuildReviewPrompt(resumeText string) string {
	return reviewInstruction + resumeText
}
