package service

import (
	"context"
	"encoding/json"
	"time"

	"ai-supportchat-be/internal/analysis"
	"ai-supportchat-be/internal/apperror"
	"ai-supportchat-be/internal/constant"
	"ai-supportchat-be/internal/dto"
	"ai-supportchat-be/internal/entity"
	"ai-supportchat-be/internal/pkg/logger"
	"ai-supportchat-be/internal/repository/specification"
	"ai-supportchat-be/internal/repository/unitofwork"
	"ai-supportchat-be/pkg/events"
	"ai-supportchat-be/pkg/llm"
	"ai-supportchat-be/pkg/usage"

	"github.com/google/uuid"
)

// IChatService owns the authenticated session-messaging flow and its
// read-only companions.
type IChatService interface {
	CreateSession(ctx context.Context, account *entity.Account) (*dto.CreateSessionResponse, error)
	ListSessions(ctx context.Context, account *entity.Account) ([]*dto.SessionSummaryResponse, error)
	GetSession(ctx context.Context, account *entity.Account, publicSessionId string) (*dto.SessionDetailResponse, error)
	GetHistory(ctx context.Context, account *entity.Account, publicSessionId string) ([]*dto.TurnResponse, error)
	SendMessage(ctx context.Context, account *entity.Account, publicSessionId string, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
}

type chatService struct {
	uowFactory   unitofwork.RepositoryFactory
	llmProvider  llm.LLMProvider
	relay        events.Publisher
	limiter      *usage.Limiter
	logger       logger.ILogger
	llmTimeout   time.Duration
	relayTimeout time.Duration
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	relay events.Publisher,
	limiter *usage.Limiter,
	sysLogger logger.ILogger,
	llmTimeout time.Duration,
	relayTimeout time.Duration,
) IChatService {
	return &chatService{
		uowFactory:   uowFactory,
		llmProvider:  llmProvider,
		relay:        relay,
		limiter:      limiter,
		logger:       sysLogger,
		llmTimeout:   llmTimeout,
		relayTimeout: relayTimeout,
	}
}

func (cs *chatService) CreateSession(ctx context.Context, account *entity.Account) (*dto.CreateSessionResponse, error) {
	if account == nil {
		return nil, apperror.New(apperror.KindUnauthenticated, "authentication required")
	}

	session := &entity.ChatSession{
		Id:        uuid.New(),
		PublicId:  uuid.NewString(),
		AccountId: account.Id,
		Title:     "New conversation",
		Status:    entity.SessionStatusActive,
		CreatedAt: time.Now(),
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, apperror.Wrap(apperror.KindPersistenceFailed, "failed to create session", err)
	}

	cs.logger.Info("chat", "session created", map[string]interface{}{
		"session_id": session.PublicId,
		"account_id": account.Id.String(),
	})

	return &dto.CreateSessionResponse{
		SessionId: session.PublicId,
		Title:     session.Title,
		Status:    string(session.Status),
		CreatedAt: session.CreatedAt,
	}, nil
}

func (cs *chatService) ListSessions(ctx context.Context, account *entity.Account) ([]*dto.SessionSummaryResponse, error) {
	if account == nil {
		return nil, apperror.New(apperror.KindUnauthenticated, "authentication required")
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.OwnedBy{AccountId: account.Id},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "failed to list sessions", err)
	}

	response := make([]*dto.SessionSummaryResponse, 0, len(sessions))
	for _, s := range sessions {
		// Last activity is the newest turn's timestamp, or the session's
		// creation time when no turns exist yet.
		lastActivity := s.CreatedAt
		lastTurn, err := uow.ChatMessageRepository().FindOne(ctx,
			specification.ByChatSessionId{ChatSessionId: s.Id},
			specification.OrderBy{Field: "seq", Desc: true},
		)
		if err != nil {
			return nil, apperror.Wrap(apperror.KindInternal, "failed to load session activity", err)
		}
		if lastTurn != nil {
			lastActivity = lastTurn.CreatedAt
		}

		response = append(response, &dto.SessionSummaryResponse{
			SessionId:      s.PublicId,
			Title:          s.Title,
			Status:         string(s.Status),
			CreatedAt:      s.CreatedAt,
			LastActivityAt: lastActivity,
		})
	}

	return response, nil
}

func (cs *chatService) GetSession(ctx context.Context, account *entity.Account, publicSessionId string) (*dto.SessionDetailResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := cs.loadOwnedSession(ctx, uow, account, publicSessionId)
	if err != nil {
		return nil, err
	}

	turns, err := cs.loadTurns(ctx, uow, session)
	if err != nil {
		return nil, err
	}

	return &dto.SessionDetailResponse{
		SessionId: session.PublicId,
		Title:     session.Title,
		Status:    string(session.Status),
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
		Turns:     turns,
	}, nil
}

func (cs *chatService) GetHistory(ctx context.Context, account *entity.Account, publicSessionId string) ([]*dto.TurnResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := cs.loadOwnedSession(ctx, uow, account, publicSessionId)
	if err != nil {
		return nil, err
	}

	return cs.loadTurns(ctx, uow, session)
}

// SendMessage runs the messaging flow in spec order: ownership check, relay,
// analysis, reply, append, persist. Every external failure is terminal for
// the request; nothing is retried or defaulted.
func (cs *chatService) SendMessage(ctx context.Context, account *entity.Account, publicSessionId string, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	if account == nil {
		return nil, apperror.New(apperror.KindUnauthenticated, "authentication required")
	}

	allowed, quota, err := cs.limiter.Allow(ctx, account.Id)
	if err != nil {
		// Fail open: a broken counter must not block the flow.
		cs.logger.Warn("chat", "usage counter unavailable", map[string]interface{}{"error": err.Error()})
	}
	if !allowed {
		return nil, apperror.New(apperror.KindLimitExceeded, "daily message limit exceeded").
			WithDetails(map[string]interface{}{
				"limit":       quota.Limit,
				"used":        quota.Used,
				"reset_after": quota.ResetAfter,
			})
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := cs.loadOwnedSession(ctx, uow, account, publicSessionId)
	if err != nil {
		return nil, err
	}

	priorTurns, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionId{ChatSessionId: session.Id},
		specification.OrderBy{Field: "seq", Desc: false},
	)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "failed to load session history", err)
	}

	// The relay is a required side channel: the publish attempt completes
	// within the request, and connectivity failure fails the request.
	if err := cs.relayMessageReceived(ctx, session, account, req.Message, priorTurns); err != nil {
		return nil, err
	}

	result, err := cs.analyzeMessage(ctx, req.Message)
	if err != nil {
		return nil, err
	}

	replyText, err := cs.generateReply(ctx, req.Message, result, priorTurns)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	userTurn := &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Role:          constant.ChatMessageRoleUser,
		Content:       req.Message,
		Seq:           len(priorTurns) + 1,
		CreatedAt:     now,
	}
	assistantTurn := &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Role:          constant.ChatMessageRoleAssistant,
		Content:       replyText,
		Seq:           len(priorTurns) + 2,
		Metadata: &entity.MessageMetadata{
			Analysis: result,
			Progress: result.Summary(),
		},
		CreatedAt: now,
	}

	if err := cs.persistTurns(ctx, uow, session, userTurn, assistantTurn); err != nil {
		// The generated reply is lost on this path; it is not cached for
		// redelivery. The caller gets the error, never a partial result.
		return nil, apperror.Wrap(apperror.KindPersistenceFailed, "failed to persist conversation", err)
	}

	cs.logger.Info("chat", "message processed", map[string]interface{}{
		"session_id": session.PublicId,
		"risk_level": result.RiskLevel,
	})

	return &dto.SendMessageResponse{
		SessionId: session.PublicId,
		Sent:      toTurnResponse(userTurn),
		Reply:     toTurnResponse(assistantTurn),
		Analysis:  toAnalysisDTO(result),
		Progress: &dto.ProgressSummaryDTO{
			EmotionalState: result.EmotionalState,
			RiskLevel:      result.RiskLevel,
		},
	}, nil
}

// loadOwnedSession resolves the public identifier and enforces ownership.
// Both identifiers are uuid.UUID values parsed from their textual forms, so
// the comparison is canonical regardless of how either side arrived.
func (cs *chatService) loadOwnedSession(ctx context.Context, uow unitofwork.UnitOfWork, account *entity.Account, publicSessionId string) (*entity.ChatSession, error) {
	if account == nil {
		return nil, apperror.New(apperror.KindUnauthenticated, "authentication required")
	}

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByPublicId{PublicId: publicSessionId})
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "session lookup failed", err)
	}
	if session == nil {
		return nil, apperror.New(apperror.KindSessionNotFound, "session not found")
	}
	if session.AccountId != account.Id {
		return nil, apperror.New(apperror.KindForbidden, "you do not have access to this session")
	}
	return session, nil
}

func (cs *chatService) loadTurns(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.ChatSession) ([]*dto.TurnResponse, error) {
	turns, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionId{ChatSessionId: session.Id},
		specification.OrderBy{Field: "seq", Desc: false},
	)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "failed to load session history", err)
	}

	response := make([]*dto.TurnResponse, 0, len(turns))
	for _, turn := range turns {
		response = append(response, toTurnResponse(turn))
	}
	return response, nil
}

func (cs *chatService) relayMessageReceived(ctx context.Context, session *entity.ChatSession, account *entity.Account, message string, priorTurns []*entity.ChatMessage) error {
	if cs.relay == nil {
		return apperror.New(apperror.KindRelayUnavailable, "event relay unavailable")
	}

	history := make([]events.TurnPayload, len(priorTurns))
	for i, turn := range priorTurns {
		history[i] = events.TurnPayload{Role: turn.Role, Content: turn.Content}
	}

	relayCtx, cancel := context.WithTimeout(ctx, cs.relayTimeout)
	defer cancel()

	event := events.NewChatMessageReceived(session.PublicId, account.Id.String(), message, constant.SupportSystemPromptV1, history)
	if err := cs.relay.Publish(relayCtx, event); err != nil {
		return apperror.Wrap(apperror.KindRelayUnavailable, "event relay unavailable", err)
	}
	return nil
}

func (cs *chatService) analyzeMessage(ctx context.Context, message string) (*entity.Analysis, error) {
	llmCtx, cancel := context.WithTimeout(ctx, cs.llmTimeout)
	defer cancel()

	raw, err := cs.llmProvider.Generate(llmCtx, constant.AnalysisInstructionV1+message, llm.WithTemperature(0.2))
	if err != nil {
		return nil, apperror.Wrap(apperror.KindGenerationUnavailable, "generation gateway unavailable", err)
	}

	result, err := analysis.Parse(raw)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindGenerationMalformed, "generation gateway returned malformed analysis", err)
	}
	return result, nil
}

func (cs *chatService) generateReply(ctx context.Context, message string, result *entity.Analysis, priorTurns []*entity.ChatMessage) (string, error) {
	analysisJSON, err := json.Marshal(result)
	if err != nil {
		return "", apperror.Wrap(apperror.KindInternal, "failed to encode analysis", err)
	}

	history := make([]llm.Message, 0, len(priorTurns)+2)
	history = append(history, llm.Message{
		Role:    constant.ChatMessageRoleSystem,
		Content: constant.SupportSystemPromptV1 + "\n\nCurrent read of the user's message:\n" + string(analysisJSON),
	})
	for _, turn := range priorTurns {
		history = append(history, llm.Message{Role: turn.Role, Content: turn.Content})
	}
	history = append(history, llm.Message{Role: constant.ChatMessageRoleUser, Content: message})

	llmCtx, cancel := context.WithTimeout(ctx, cs.llmTimeout)
	defer cancel()

	replyText, err := cs.llmProvider.Chat(llmCtx, history)
	if err != nil {
		return "", apperror.Wrap(apperror.KindGenerationUnavailable, "generation gateway unavailable", err)
	}
	return replyText, nil
}

// persistTurns appends both turns and touches the session in one
// transaction, so a failure leaves the turn sequence unchanged.
func (cs *chatService) persistTurns(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.ChatSession, turns ...*entity.ChatMessage) error {
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	for _, turn := range turns {
		if err := uow.ChatMessageRepository().Create(ctx, turn); err != nil {
			return err
		}
	}

	now := time.Now()
	touched := *session
	touched.UpdatedAt = &now
	if err := uow.ChatSessionRepository().Update(ctx, &touched); err != nil {
		return err
	}

	return uow.Commit()
}

func toTurnResponse(turn *entity.ChatMessage) *dto.TurnResponse {
	resp := &dto.TurnResponse{
		Id:        turn.Id,
		Role:      turn.Role,
		Content:   turn.Content,
		CreatedAt: turn.CreatedAt,
	}
	if turn.Metadata != nil {
		if turn.Metadata.Analysis != nil {
			resp.Analysis = toAnalysisDTO(turn.Metadata.Analysis)
		}
		if turn.Metadata.Progress != nil {
			resp.Progress = &dto.ProgressSummaryDTO{
				EmotionalState: turn.Metadata.Progress.EmotionalState,
				RiskLevel:      turn.Metadata.Progress.RiskLevel,
			}
		}
	}
	return resp
}

func toAnalysisDTO(a *entity.Analysis) *dto.AnalysisDTO {
	return &dto.AnalysisDTO{
		EmotionalState:      a.EmotionalState,
		Themes:              a.Themes,
		RiskLevel:           a.RiskLevel,
		RecommendedApproach: a.RecommendedApproach,
		ProgressIndicators:  a.ProgressIndicators,
	}
}
