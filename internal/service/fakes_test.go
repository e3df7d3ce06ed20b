package service

import (
	"context"
	"errors"
	"sort"

	"ai-supportchat-be/internal/entity"
	"ai-supportchat-be/internal/repository/contract"
	"ai-supportchat-be/internal/repository/specification"
	"ai-supportchat-be/internal/repository/unitofwork"
	"ai-supportchat-be/pkg/events"
	"ai-supportchat-be/pkg/llm"

	"github.com/google/uuid"
)

// fakeStore backs the fake unit of work with plain slices. Specifications
// are interpreted by type-switching on the concrete spec structs the
// services actually use.
type fakeStore struct {
	accounts []*entity.Account
	sessions []*entity.ChatSession
	messages []*entity.ChatMessage

	failMessageCreate bool
	failCommit        bool
}

type fakeFactory struct {
	store *fakeStore
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUnitOfWork{store: f.store}
}

type fakeUnitOfWork struct {
	store           *fakeStore
	inTx            bool
	pendingMessages []*entity.ChatMessage
	pendingSessions []*entity.ChatSession
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error {
	u.inTx = true
	return nil
}

func (u *fakeUnitOfWork) Commit() error {
	if u.store.failCommit {
		u.inTx = false
		u.pendingMessages = nil
		u.pendingSessions = nil
		return errors.New("commit failed")
	}
	u.store.messages = append(u.store.messages, u.pendingMessages...)
	for _, s := range u.pendingSessions {
		for i, existing := range u.store.sessions {
			if existing.Id == s.Id {
				u.store.sessions[i] = s
			}
		}
	}
	u.inTx = false
	u.pendingMessages = nil
	u.pendingSessions = nil
	return nil
}

func (u *fakeUnitOfWork) Rollback() error {
	u.inTx = false
	u.pendingMessages = nil
	u.pendingSessions = nil
	return nil
}

func (u *fakeUnitOfWork) AccountRepository() contract.AccountRepository {
	return &fakeAccountRepo{store: u.store}
}

func (u *fakeUnitOfWork) ChatSessionRepository() contract.ChatSessionRepository {
	return &fakeSessionRepo{uow: u}
}

func (u *fakeUnitOfWork) ChatMessageRepository() contract.ChatMessageRepository {
	return &fakeMessageRepo{uow: u}
}

type fakeAccountRepo struct {
	store *fakeStore
}

func (r *fakeAccountRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Account, error) {
	for _, a := range r.store.accounts {
		if accountMatches(a, specs) {
			return a, nil
		}
	}
	return nil, nil
}

func accountMatches(a *entity.Account, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ById:
			if a.Id != s.Id {
				return false
			}
		case specification.ByEmail:
			if a.Email != s.Email {
				return false
			}
		}
	}
	return true
}

type fakeSessionRepo struct {
	uow *fakeUnitOfWork
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.ChatSession) error {
	copied := *session
	if r.uow.inTx {
		r.uow.pendingSessions = append(r.uow.pendingSessions, &copied)
	} else {
		r.uow.store.sessions = append(r.uow.store.sessions, &copied)
	}
	return nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, session *entity.ChatSession) error {
	copied := *session
	if r.uow.inTx {
		r.uow.pendingSessions = append(r.uow.pendingSessions, &copied)
		return nil
	}
	for i, existing := range r.uow.store.sessions {
		if existing.Id == session.Id {
			r.uow.store.sessions[i] = &copied
		}
	}
	return nil
}

func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	for _, s := range r.uow.store.sessions {
		if sessionMatches(s, specs) {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	var result []*entity.ChatSession
	for _, s := range r.uow.store.sessions {
		if sessionMatches(s, specs) {
			copied := *s
			result = append(result, &copied)
		}
	}
	for _, spec := range specs {
		if order, ok := spec.(specification.OrderBy); ok && order.Field == "created_at" {
			sort.SliceStable(result, func(i, j int) bool {
				if order.Desc {
					return result[i].CreatedAt.After(result[j].CreatedAt)
				}
				return result[i].CreatedAt.Before(result[j].CreatedAt)
			})
		}
	}
	return result, nil
}

func (r *fakeSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func sessionMatches(s *entity.ChatSession, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByPublicId:
			if s.PublicId != sp.PublicId {
				return false
			}
		case specification.ById:
			if s.Id != sp.Id {
				return false
			}
		case specification.OwnedBy:
			if s.AccountId != sp.AccountId {
				return false
			}
		}
	}
	return true
}

type fakeMessageRepo struct {
	uow *fakeUnitOfWork
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	if r.uow.store.failMessageCreate {
		return errors.New("insert failed")
	}
	copied := *message
	if r.uow.inTx {
		r.uow.pendingMessages = append(r.uow.pendingMessages, &copied)
	} else {
		r.uow.store.messages = append(r.uow.store.messages, &copied)
	}
	return nil
}

func (r *fakeMessageRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	var result []*entity.ChatMessage
	for _, m := range r.uow.store.messages {
		if messageMatches(m, specs) {
			copied := *m
			result = append(result, &copied)
		}
	}
	for _, spec := range specs {
		if order, ok := spec.(specification.OrderBy); ok && order.Field == "seq" {
			sort.SliceStable(result, func(i, j int) bool {
				if order.Desc {
					return result[i].Seq > result[j].Seq
				}
				return result[i].Seq < result[j].Seq
			})
		}
	}
	return result, nil
}

func (r *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func messageMatches(m *entity.ChatMessage, specs []specification.Specification) bool {
	for _, spec := range specs {
		if sp, ok := spec.(specification.ByChatSessionId); ok {
			if m.ChatSessionId != sp.ChatSessionId {
				return false
			}
		}
	}
	return true
}

// fakeLLM pops queued responses in call order (analysis first, then reply).
type fakeLLM struct {
	responses []string
	errs      []error
	calls     int

	prompts []string
	chats   [][]llm.Message
}

func (f *fakeLLM) next() (string, error) {
	idx := f.calls
	f.calls++
	var err error
	if idx < len(f.errs) {
		err = f.errs[idx]
	}
	if err != nil {
		return "", err
	}
	if idx < len(f.responses) {
		return f.responses[idx], nil
	}
	return "", errors.New("no response queued")
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	f.chats = append(f.chats, history)
	return f.next()
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.next()
}

type fakeRelay struct {
	published []events.Event
	err       error
}

func (f *fakeRelay) Publish(ctx context.Context, event events.Event) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, event)
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func newTestAccount(email string) *entity.Account {
	return &entity.Account{
		Id:     uuid.New(),
		Email:  email,
		Status: entity.AccountStatusActive,
	}
}
