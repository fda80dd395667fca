package ai

// Templates use eino's FString syntax: {name} is substituted, so literal
// braces must not appear in the template text. The output schema is passed
// in as the {schema} variable for the same reason.

const schemaInstruction = "\n\nRespond with a single JSON object that conforms to this JSON Schema, and nothing else:\n{schema}"

const translateSystemPrompt = "You are a translation expert working in a medical consultation. " +
	"Translate the provided text from the source language to the target language. " +
	"Preserve medical terms, numbers, dosages and durations exactly. Do not add commentary." +
	schemaInstruction

const translateUserPrompt = "Source Language: {source_language}\nTarget Language: {target_language}\nText to translate: {text}"

const replySystemPrompt = "You are acting as a {responder_role} in a medical consultation with a {sender_role}. " +
	"Your response should be in {responder_language}. " +
	"Keep your responses concise and natural for a chat conversation." +
	schemaInstruction

const replyUserPrompt = "Here is the conversation history:\n{transcript}\n\n" +
	"The {sender_role} just said: \"{current_message}\"\n\n" +
	"Generate a relevant and helpful reply from the perspective of the {responder_role}."

const summarySystemPrompt = "You are an AI assistant specialized in generating medical summaries from doctor-patient conversations. " +
	"Your goal is to extract key medical information from the provided conversation text and present it in a structured format.\n\n" +
	"Instructions:\n" +
	"1. Symptoms: list all symptoms discussed by the patient.\n" +
	"2. Diagnosis: if a diagnosis is mentioned, state it clearly.\n" +
	"3. Medications: list all medications mentioned, including dosages if available.\n" +
	"4. Follow-up: suggest follow-up actions such as further tests, specialist referrals, or return visits.\n" +
	"When the conversation says nothing relevant for a field, write \"None mentioned\"." +
	schemaInstruction

const summaryUserPrompt = "Conversation Text:\n{transcript}"
