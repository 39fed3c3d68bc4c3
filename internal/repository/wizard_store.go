package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/PriyanshuSingh9/enrollio/internal/model"
	"github.com/PriyanshuSingh9/enrollio/pkg/redis"
)

// ErrSessionNotFound 向导会话不存在或已过期
var ErrSessionNotFound = errors.New("报名向导会话不存在或已过期")

// WizardSessionStore 报名向导会话存储接口
// 会话按 (userID, programID) 定位，独立于数据库：提交成功前不产生任何业务数据
type WizardSessionStore interface {
	Get(ctx context.Context, userID, programID int64) (*model.WizardSession, error)
	Save(ctx context.Context, session *model.WizardSession, ttl time.Duration) error
	Delete(ctx context.Context, userID, programID int64) error
}

// ── Redis 实现 ──

type redisWizardStore struct {
	rdb *redis.Client
}

// NewRedisWizardStore 创建 Redis 会话存储
func NewRedisWizardStore(rdb *redis.Client) WizardSessionStore {
	return &redisWizardStore{rdb: rdb}
}

func wizardKey(userID, programID int64) string {
	return fmt.Sprintf("wizard:%d:%d", userID, programID)
}

func (s *redisWizardStore) Get(ctx context.Context, userID, programID int64) (*model.WizardSession, error) {
	data, err := s.rdb.GetJSON(ctx, wizardKey(userID, programID))
	if err != nil {
		if errors.Is(err, redis.ErrKeyNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	var session model.WizardSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("反序列化向导会话失败: %w", err)
	}
	return &session, nil
}

func (s *redisWizardStore) Save(ctx context.Context, session *model.WizardSession, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("序列化向导会话失败: %w", err)
	}
	return s.rdb.SetJSON(ctx, wizardKey(session.UserID, session.ProgramID), data, ttl)
}

func (s *redisWizardStore) Delete(ctx context.Context, userID, programID int64) error {
	return s.rdb.Delete(ctx, wizardKey(userID, programID))
}

// ── 进程内实现（Redis 不可用时的降级路径，亦用于测试） ──

type memoryWizardStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

// NewMemoryWizardStore 创建进程内会话存储
// 与 Redis 实现一样走 JSON 序列化，未经 Save 的修改不会串入存储
func NewMemoryWizardStore() WizardSessionStore {
	return &memoryWizardStore{sessions: make(map[string][]byte)}
}

func (s *memoryWizardStore) Get(_ context.Context, userID, programID int64) (*model.WizardSession, error) {
	s.mu.RLock()
	data, ok := s.sessions[wizardKey(userID, programID)]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	var session model.WizardSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("反序列化向导会话失败: %w", err)
	}
	return &session, nil
}

func (s *memoryWizardStore) Save(_ context.Context, session *model.WizardSession, _ time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("序列化向导会话失败: %w", err)
	}
	s.mu.Lock()
	s.sessions[wizardKey(session.UserID, session.ProgramID)] = data
	s.mu.Unlock()
	return nil
}

func (s *memoryWizardStore) Delete(_ context.Context, userID, programID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, wizardKey(userID, programID))
	return nil
}

