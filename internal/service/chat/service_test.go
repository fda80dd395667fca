package chat_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/medbridge/backend/internal/model/chat"
	chatservice "github.com/zhouzirui/medbridge/backend/internal/service/chat"
)

func draft(role chat.Role, text string) chat.Draft {
	return chat.Draft{ConversationID: "1", SenderRole: role, OriginalText: text}
}

func TestListMessagesEmpty(t *testing.T) {
	svc := chatservice.NewService(nil)

	messages, err := svc.ListMessages(context.Background(), "1")
	require.NoError(t, err)
	assert.NotNil(t, messages)
	assert.Empty(t, messages)
}

func TestAppendPreservesOrderAndAssignsIdentity(t *testing.T) {
	svc := chatservice.NewService(nil)
	ctx := context.Background()

	var appended []chat.Message
	for i := 0; i < 25; i++ {
		role := chat.RolePatient
		if i%2 == 1 {
			role = chat.RoleDoctor
		}
		msg, err := svc.AppendMessage(ctx, draft(role, fmt.Sprintf("message %d", i)))
		require.NoError(t, err)
		appended = append(appended, msg)
	}

	listed, err := svc.ListMessages(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, appended, listed)

	seen := make(map[string]struct{}, len(listed))
	for i, msg := range listed {
		assert.Equal(t, fmt.Sprintf("message %d", i), msg.OriginalText)
		assert.NotEmpty(t, msg.ID)
		_, dup := seen[msg.ID]
		assert.False(t, dup, "duplicate id %s", msg.ID)
		seen[msg.ID] = struct{}{}
		if i > 0 {
			assert.False(t, msg.CreatedAt.Before(listed[i-1].CreatedAt), "timestamp went backwards at %d", i)
		}
	}
}

func TestAppendRoundTrip(t *testing.T) {
	svc := chatservice.NewService(nil)
	ctx := context.Background()

	in := chat.Draft{
		ConversationID: "1",
		SenderRole:     chat.RoleDoctor,
		OriginalText:   "Take ibuprofen twice a day.",
		TranslatedText: "Tome ibuprofeno dos veces al día.",
		AudioURL:       "data:audio/webm;base64,AAAA",
	}
	stored, err := svc.AppendMessage(ctx, in)
	require.NoError(t, err)

	listed, err := svc.ListMessages(ctx, "1")
	require.NoError(t, err)
	require.Len(t, listed, 1)

	got := listed[0]
	assert.Equal(t, stored, got)
	assert.NotEmpty(t, got.ID)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, in.ConversationID, got.ConversationID)
	assert.Equal(t, in.SenderRole, got.SenderRole)
	assert.Equal(t, in.OriginalText, got.OriginalText)
	assert.Equal(t, in.TranslatedText, got.TranslatedText)
	assert.Equal(t, in.AudioURL, got.AudioURL)
	assert.False(t, got.IsSummary)
	assert.Nil(t, got.Summary)
}

func TestListMessagesFiltersByConversation(t *testing.T) {
	svc := chatservice.NewService(nil)
	ctx := context.Background()

	_, err := svc.AppendMessage(ctx, draft(chat.RolePatient, "in one"))
	require.NoError(t, err)
	_, err = svc.AppendMessage(ctx, chat.Draft{ConversationID: "2", SenderRole: chat.RoleDoctor, OriginalText: "in two"})
	require.NoError(t, err)

	listed, err := svc.ListMessages(ctx, "1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "in one", listed[0].OriginalText)
}

func TestAppendValidation(t *testing.T) {
	svc := chatservice.NewService(nil)
	ctx := context.Background()

	_, err := svc.AppendMessage(ctx, chat.Draft{SenderRole: chat.RoleDoctor, OriginalText: "x"})
	assert.ErrorIs(t, err, chatservice.ErrConversationRequired)

	_, err = svc.AppendMessage(ctx, chat.Draft{ConversationID: "1", SenderRole: "Nurse", OriginalText: "x"})
	assert.ErrorIs(t, err, chat.ErrInvalidRole)

	_, err = svc.AppendMessage(ctx, chat.Draft{ConversationID: "1", SenderRole: chat.RoleDoctor, IsSummary: true})
	assert.ErrorIs(t, err, chatservice.ErrSummaryPayload)

	listed, err := svc.ListMessages(ctx, "1")
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestTranscriptTextExample(t *testing.T) {
	svc := chatservice.NewService(nil)
	ctx := context.Background()

	_, err := svc.AppendMessage(ctx, draft(chat.RolePatient, "Hello doctor, headache for 3 days"))
	require.NoError(t, err)
	_, err = svc.AppendMessage(ctx, draft(chat.RoleDoctor, "Can you describe the pain?"))
	require.NoError(t, err)

	transcript, err := svc.TranscriptText(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Patient: Hello doctor, headache for 3 days\nDoctor: Can you describe the pain?", transcript)
}

func TestTranscriptTextExcludesSummaryAndEmptyMessages(t *testing.T) {
	svc := chatservice.NewService(nil)
	ctx := context.Background()

	_, err := svc.AppendMessage(ctx, draft(chat.RolePatient, "I feel dizzy"))
	require.NoError(t, err)
	_, err = svc.AppendMessage(ctx, chat.Draft{
		ConversationID: "1",
		SenderRole:     chat.RoleDoctor,
		OriginalText:   chat.SummaryOriginalText,
		IsSummary:      true,
		Summary:        &chat.Summary{Symptoms: "dizziness"},
	})
	require.NoError(t, err)
	_, err = svc.AppendMessage(ctx, chat.Draft{ConversationID: "1", SenderRole: chat.RoleDoctor, AudioURL: "data:audio/ogg;base64,AA=="})
	require.NoError(t, err)
	_, err = svc.AppendMessage(ctx, draft(chat.RoleDoctor, "Since when?"))
	require.NoError(t, err)

	transcript, err := svc.TranscriptText(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Patient: I feel dizzy\nDoctor: Since when?", transcript)
}

func TestTranscriptTextEmpty(t *testing.T) {
	svc := chatservice.NewService(nil)

	transcript, err := svc.TranscriptText(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "", transcript)
}

func TestSearchMatchesOriginalAndTranslated(t *testing.T) {
	svc := chatservice.NewService(nil)
	ctx := context.Background()
	require.NoError(t, svc.Seed(ctx, chat.DemoSeed("1")))

	matched, err := svc.Search(ctx, "1", "HEADACHE")
	require.NoError(t, err)
	assert.Len(t, matched, 2)

	matched, err = svc.Search(ctx, "1", "sordo")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, chat.RoleDoctor, matched[0].SenderRole)

	matched, err = svc.Search(ctx, "1", "  ")
	require.NoError(t, err)
	assert.Len(t, matched, 2)
}
