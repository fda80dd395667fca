package chat

// DefaultConversationID is the single conversation served by this deployment.
const DefaultConversationID = "1"

// Placeholders stored for audio messages, which are not transcribed.
const (
	AudioPlaceholderText       = "[Audio Message]"
	AudioPlaceholderTranslated = "[Audio Message - Translated Placeholder]"
)

// SummaryOriginalText labels summary messages in the message list.
const SummaryOriginalText = "Generated Medical Summary"

// DemoSeed returns the opening exchange shown when the demo conversation starts.
func DemoSeed(conversationID string) []Draft {
	return []Draft{
		{
			ConversationID: conversationID,
			SenderRole:     RolePatient,
			OriginalText:   "Hello doctor, I have been having a headache for the past 3 days.",
			TranslatedText: "Hola doctor, he tenido dolor de cabeza durante los últimos 3 días.",
		},
		{
			ConversationID: conversationID,
			SenderRole:     RoleDoctor,
			OriginalText:   "Hello. Can you describe the headache? Is it a sharp pain or a dull ache?",
			TranslatedText: "Hola. ¿Puede describir el dolor de cabeza? ¿Es un dolor agudo o sordo?",
		},
	}
}
