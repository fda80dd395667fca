package chat

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/zhouzirui/medbridge/backend/internal/model/chat"
	"github.com/zhouzirui/medbridge/backend/internal/model/language"
	"github.com/zhouzirui/medbridge/backend/internal/service/ai"
	"github.com/zhouzirui/medbridge/backend/internal/service/audio"
	chatService "github.com/zhouzirui/medbridge/backend/internal/service/chat"
	"github.com/zhouzirui/medbridge/backend/internal/service/conversation"
	"github.com/zhouzirui/medbridge/backend/pkg/utils"
)

const maxJSONBody = 64 << 10

// Orchestrator runs the user actions that change a conversation.
type Orchestrator interface {
	SubmitTextMessage(ctx context.Context, req conversation.TextRequest) (conversation.Result, error)
	SubmitAudioMessage(ctx context.Context, req conversation.AudioRequest) (conversation.Result, error)
	RequestSummary(ctx context.Context, conversationID string) (conversation.Result, error)
}

// Handler serves the conversation endpoints.
type Handler struct {
	chatSvc       *chatService.Service
	actions       Orchestrator
	audioMaxBytes int64
}

func New(chatSvc *chatService.Service, actions Orchestrator, audioMaxBytes int64) *Handler {
	return &Handler{
		chatSvc:       chatSvc,
		actions:       actions,
		audioMaxBytes: audioMaxBytes,
	}
}

// RegisterRoutes mounts the routes on a router scoped to
// /conversations/{conversationID}.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/messages", h.handleListMessages)
	r.Post("/messages", h.handleSubmitMessage)
	r.Get("/transcript", h.handleTranscript)
	r.Post("/audio", h.handleSubmitAudio)
	r.Post("/summary", h.handleRequestSummary)
}

func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	messages, err := h.chatSvc.Search(r.Context(), conversationID, r.URL.Query().Get("q"))
	if err != nil {
		respondErr(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, messages)
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	transcript, err := h.chatSvc.TranscriptText(r.Context(), conversationID)
	if err != nil {
		respondErr(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"transcript": transcript})
}

type submitMessageRequest struct {
	Text              string `json:"text"`
	SenderRole        string `json:"senderRole" validate:"required"`
	SenderLanguage    string `json:"senderLanguage" validate:"required"`
	ResponderLanguage string `json:"responderLanguage"`
	AutoReply         *bool  `json:"autoReply"`
}

func (h *Handler) handleSubmitMessage(w http.ResponseWriter, r *http.Request) {
	var payload submitMessageRequest
	if err := utils.DecodeJSON(r, maxJSONBody, &payload); err != nil {
		respondErr(w, err)
		return
	}

	role, err := chat.ParseRole(payload.SenderRole)
	if err != nil {
		respondErr(w, err)
		return
	}

	result, err := h.actions.SubmitTextMessage(r.Context(), conversation.TextRequest{
		ConversationID:    chi.URLParam(r, "conversationID"),
		Text:              payload.Text,
		SenderRole:        role,
		SenderLanguage:    payload.SenderLanguage,
		ResponderLanguage: payload.ResponderLanguage,
		AutoReply:         payload.AutoReply,
	})
	respondResult(w, result, err)
}

func (h *Handler) handleSubmitAudio(w http.ResponseWriter, r *http.Request) {
	// leave room for the multipart envelope around the file
	r.Body = http.MaxBytesReader(w, r.Body, h.audioMaxBytes+(1<<20))
	if err := r.ParseMultipartForm(h.audioMaxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondErr(w, conversation.ErrAudioTooLarge)
			return
		}
		respondErr(w, utils.ErrInvalidBody)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	role, err := chat.ParseRole(r.FormValue("senderRole"))
	if err != nil {
		respondErr(w, err)
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			respondResult(w, conversation.Result{Messages: []chat.Message{}, Skipped: true}, nil)
			return
		}
		respondErr(w, utils.ErrInvalidBody)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.audioMaxBytes+1))
	if err != nil {
		respondErr(w, utils.ErrInvalidBody)
		return
	}

	result, err := h.actions.SubmitAudioMessage(r.Context(), conversation.AudioRequest{
		ConversationID: chi.URLParam(r, "conversationID"),
		SenderRole:     role,
		Data:           data,
		ContentType:    header.Header.Get("Content-Type"),
	})
	respondResult(w, result, err)
}

func (h *Handler) handleRequestSummary(w http.ResponseWriter, r *http.Request) {
	result, err := h.actions.RequestSummary(r.Context(), chi.URLParam(r, "conversationID"))
	respondResult(w, result, err)
}

// respondResult writes the appended messages. On failure the messages that
// were appended before the error are still returned next to it.
func respondResult(w http.ResponseWriter, result conversation.Result, err error) {
	if result.Messages == nil {
		result.Messages = []chat.Message{}
	}
	if err != nil {
		status := statusFor(err)
		if len(result.Messages) == 0 {
			respondErr(w, err)
			return
		}
		utils.RespondJSON(w, status, map[string]any{
			"error":    publicMessage(status, err),
			"messages": result.Messages,
		})
		return
	}

	status := http.StatusCreated
	if result.Skipped {
		status = http.StatusOK
	}
	utils.RespondJSON(w, status, result)
}

func respondErr(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logrus.WithError(err).Error("request failed")
	}
	utils.RespondError(w, status, publicMessage(status, err))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, utils.ErrInvalidBody),
		errors.Is(err, chat.ErrInvalidRole),
		errors.Is(err, language.ErrUnknownLanguage),
		errors.Is(err, chatService.ErrConversationRequired),
		errors.Is(err, conversation.ErrNoCounterpart),
		errors.Is(err, audio.ErrEmpty):
		return http.StatusBadRequest
	case errors.Is(err, conversation.ErrAudioTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ai.ErrUpstreamModel):
		return http.StatusBadGateway
	case errors.Is(err, conversation.ErrAIUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func publicMessage(status int, err error) string {
	switch status {
	case http.StatusInternalServerError:
		return "internal error"
	case http.StatusBadGateway:
		return "language model request failed"
	default:
		return err.Error()
	}
}
