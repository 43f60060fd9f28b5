package services

// 面向用户的固定回复
const (
	MsgUnreadableDocument = "I couldn't extract any readable text."
	MsgNoRelevantSections = "No relevant sections found. Try rephrasing your question."
	MsgBackendUnavailable = "The AI engine is taking longer than expected. " +
		"This usually means it's still downloading the models (approx 130MB total). " +
		"Please check your connection or wait a few more moments."
	MsgEmptyQuestion = "Please enter a question about the document."
)
