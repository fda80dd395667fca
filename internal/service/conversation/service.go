package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/zhouzirui/medbridge/backend/internal/model/chat"
	"github.com/zhouzirui/medbridge/backend/internal/model/language"
	"github.com/zhouzirui/medbridge/backend/internal/service/audio"
	chatService "github.com/zhouzirui/medbridge/backend/internal/service/chat"
	"github.com/zhouzirui/medbridge/backend/internal/service/notify"
)

var (
	ErrAudioTooLarge   = errors.New("audio payload exceeds size limit")
	ErrNoCounterpart   = errors.New("no responder language available")
	ErrAIUnavailable   = errors.New("ai services are not configured")
	errMissingMessages = errors.New("message service is required")
)

type Translator interface {
	Translate(ctx context.Context, text, sourceLanguage, targetLanguage string) (string, error)
}

type ReplyGenerator interface {
	GenerateReply(ctx context.Context, transcript, currentMessage string, senderRole, responderRole chat.Role, responderLanguage string) (string, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (chat.Summary, error)
}

type Notifier interface {
	Publish(ev notify.Event)
}

// Options tune the orchestrator.
type Options struct {
	AutoReply     bool
	AudioMaxBytes int64
}

// Dependencies groups everything the orchestrator calls into. The AI
// collaborators may be nil, in which case text and summary actions fail
// with ErrAIUnavailable.
type Dependencies struct {
	Messages   *chatService.Service
	Languages  language.Store
	Translator Translator
	Replies    ReplyGenerator
	Summarizer Summarizer
	Notifier   Notifier
}

// Service runs each user action as one sequential chain of steps.
type Service struct {
	deps Dependencies
	opts Options
}

func NewService(deps Dependencies, opts Options) (*Service, error) {
	if deps.Messages == nil {
		return nil, errMissingMessages
	}
	if deps.Languages == nil {
		store, err := language.NewMemoryStore(language.Seed())
		if err != nil {
			return nil, err
		}
		deps.Languages = store
	}
	return &Service{deps: deps, opts: opts}, nil
}

// Result lists the messages an action appended, in order. Skipped is set
// when the input was empty and nothing happened.
type Result struct {
	Messages []chat.Message `json:"messages"`
	Skipped  bool           `json:"skipped"`
}

func skipped() Result {
	return Result{Messages: []chat.Message{}, Skipped: true}
}

// TextRequest is one typed message submission.
type TextRequest struct {
	ConversationID    string
	Text              string
	SenderRole        chat.Role
	SenderLanguage    string
	ResponderLanguage string
	// AutoReply overrides Options.AutoReply when set.
	AutoReply *bool
}

// SubmitTextMessage translates and appends the sender's message, then
// generates, translates and appends the counterpart's reply. A failure
// after the first append leaves the sender's message in place; the
// returned Result still lists it. The chain outlives the caller's context;
// each model call is bounded by the AI policy timeout instead.
func (s *Service) SubmitTextMessage(ctx context.Context, req TextRequest) (result Result, err error) {
	if strings.TrimSpace(req.Text) == "" {
		return skipped(), nil
	}
	if req.ConversationID == "" {
		return Result{}, chatService.ErrConversationRequired
	}
	if !req.SenderRole.Valid() {
		return Result{}, chat.ErrInvalidRole
	}
	if s.deps.Translator == nil || s.deps.Replies == nil {
		return Result{}, ErrAIUnavailable
	}

	senderLang, responderLang, err := s.resolveLanguages(req.SenderLanguage, req.ResponderLanguage)
	if err != nil {
		return Result{}, err
	}

	ctx = context.WithoutCancel(ctx)
	text := req.Text

	log := logrus.WithFields(logrus.Fields{
		"conversation_id": req.ConversationID,
		"sender_role":     req.SenderRole,
		"sender_lang":     senderLang.Code,
		"responder_lang":  responderLang.Code,
	})
	start := time.Now()

	result = Result{Messages: []chat.Message{}}
	defer func() {
		s.publish(req.ConversationID, notify.ReasonMessagesAppended, result.Messages)
		if err != nil {
			log.WithError(err).WithField("appended", len(result.Messages)).Error("text message chain failed")
			return
		}
		log.WithFields(logrus.Fields{
			"appended":   len(result.Messages),
			"latency_ms": time.Since(start).Milliseconds(),
		}).Info("text message chain completed")
	}()

	senderTranslation, err := s.deps.Translator.Translate(ctx, text, senderLang.Code, responderLang.Code)
	if err != nil {
		return result, fmt.Errorf("translate message: %w", err)
	}

	sent, err := s.deps.Messages.AppendMessage(ctx, chat.Draft{
		ConversationID: req.ConversationID,
		SenderRole:     req.SenderRole,
		OriginalText:   text,
		TranslatedText: senderTranslation,
	})
	if err != nil {
		return result, fmt.Errorf("append message: %w", err)
	}
	result.Messages = append(result.Messages, sent)

	autoReply := s.opts.AutoReply
	if req.AutoReply != nil {
		autoReply = *req.AutoReply
	}
	if !autoReply {
		return result, nil
	}

	responderRole := req.SenderRole.Opposite()
	transcript, err := s.deps.Messages.TranscriptText(ctx, req.ConversationID)
	if err != nil {
		return result, fmt.Errorf("build transcript: %w", err)
	}

	replyOriginal, err := s.deps.Replies.GenerateReply(ctx, transcript, text, req.SenderRole, responderRole, responderLang.Code)
	if err != nil {
		return result, fmt.Errorf("generate reply: %w", err)
	}

	replyTranslation, err := s.deps.Translator.Translate(ctx, replyOriginal, responderLang.Code, senderLang.Code)
	if err != nil {
		return result, fmt.Errorf("translate reply: %w", err)
	}

	reply, err := s.deps.Messages.AppendMessage(ctx, chat.Draft{
		ConversationID: req.ConversationID,
		SenderRole:     responderRole,
		OriginalText:   replyOriginal,
		TranslatedText: replyTranslation,
	})
	if err != nil {
		return result, fmt.Errorf("append reply: %w", err)
	}
	result.Messages = append(result.Messages, reply)
	return result, nil
}

func (s *Service) resolveLanguages(senderCode, responderCode string) (language.Language, language.Language, error) {
	sender, err := s.deps.Languages.Resolve(senderCode)
	if err != nil {
		return language.Language{}, language.Language{}, err
	}

	if responderCode == "" {
		responder, ok := s.deps.Languages.Counterpart(sender.Code)
		if !ok {
			return language.Language{}, language.Language{}, ErrNoCounterpart
		}
		return sender, responder, nil
	}

	responder, err := s.deps.Languages.Resolve(responderCode)
	if err != nil {
		return language.Language{}, language.Language{}, err
	}
	return sender, responder, nil
}

// AudioRequest is one recorded message submission.
type AudioRequest struct {
	ConversationID string
	SenderRole     chat.Role
	Data           []byte
	ContentType    string
}

// SubmitAudioMessage stores the recording as a data URI with placeholder
// texts. Recordings are not transcribed.
func (s *Service) SubmitAudioMessage(ctx context.Context, req AudioRequest) (Result, error) {
	if len(req.Data) == 0 {
		return skipped(), nil
	}
	if req.ConversationID == "" {
		return Result{}, chatService.ErrConversationRequired
	}
	if !req.SenderRole.Valid() {
		return Result{}, chat.ErrInvalidRole
	}
	if s.opts.AudioMaxBytes > 0 && int64(len(req.Data)) > s.opts.AudioMaxBytes {
		return Result{}, ErrAudioTooLarge
	}

	uri, err := audio.EncodeDataURI(req.Data, req.ContentType)
	if err != nil {
		return Result{}, fmt.Errorf("encode audio: %w", err)
	}

	msg, err := s.deps.Messages.AppendMessage(ctx, chat.Draft{
		ConversationID: req.ConversationID,
		SenderRole:     req.SenderRole,
		OriginalText:   chat.AudioPlaceholderText,
		TranslatedText: chat.AudioPlaceholderTranslated,
		AudioURL:       uri,
	})
	if err != nil {
		return Result{}, fmt.Errorf("append audio message: %w", err)
	}

	s.publish(req.ConversationID, notify.ReasonAudioAppended, []chat.Message{msg})
	logrus.WithFields(logrus.Fields{
		"conversation_id": req.ConversationID,
		"sender_role":     req.SenderRole,
		"bytes":           len(req.Data),
	}).Info("audio message appended")

	return Result{Messages: []chat.Message{msg}}, nil
}

// RequestSummary summarizes the eligible transcript and appends the summary
// as a Doctor message. An empty transcript is skipped without a model call.
func (s *Service) RequestSummary(ctx context.Context, conversationID string) (Result, error) {
	if conversationID == "" {
		return Result{}, chatService.ErrConversationRequired
	}

	transcript, err := s.deps.Messages.TranscriptText(ctx, conversationID)
	if err != nil {
		return Result{}, fmt.Errorf("build transcript: %w", err)
	}
	if transcript == "" {
		return skipped(), nil
	}
	if s.deps.Summarizer == nil {
		return Result{}, ErrAIUnavailable
	}

	ctx = context.WithoutCancel(ctx)
	start := time.Now()
	summary, err := s.deps.Summarizer.Summarize(ctx, transcript)
	if err != nil {
		return Result{}, fmt.Errorf("summarize: %w", err)
	}

	msg, err := s.deps.Messages.AppendMessage(ctx, chat.Draft{
		ConversationID: conversationID,
		SenderRole:     chat.RoleDoctor,
		OriginalText:   chat.SummaryOriginalText,
		IsSummary:      true,
		Summary:        &summary,
	})
	if err != nil {
		return Result{}, fmt.Errorf("append summary: %w", err)
	}

	s.publish(conversationID, notify.ReasonSummaryAppended, []chat.Message{msg})
	logrus.WithFields(logrus.Fields{
		"conversation_id": conversationID,
		"latency_ms":      time.Since(start).Milliseconds(),
	}).Info("summary appended")

	return Result{Messages: []chat.Message{msg}}, nil
}

func (s *Service) publish(conversationID, reason string, messages []chat.Message) {
	if s.deps.Notifier == nil || len(messages) == 0 {
		return
	}
	ids := make([]string, len(messages))
	for i, m := range messages {
		ids[i] = m.ID
	}
	s.deps.Notifier.Publish(notify.Event{
		ConversationID: conversationID,
		Reason:         reason,
		MessageIDs:     ids,
	})
}
