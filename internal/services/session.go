package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fyerfyer/doc-analyzer/internal/cache"
)

// ErrDocumentNotFound 文档会话不存在或已过期
var ErrDocumentNotFound = errors.New("document not found")

// Session 文档会话
// 上传一次文档后可以多次提问，会话只保存在缓存中并随TTL过期
type Session struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionStore 文档会话存储
type SessionStore struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewSessionStore 创建会话存储
func NewSessionStore(c cache.Cache, ttl time.Duration) *SessionStore {
	return &SessionStore{
		cache: c,
		ttl:   ttl,
	}
}

func sessionKey(id string) string {
	return cache.GenerateCacheKey("session", id)
}

// Create 保存文档文本并返回新会话
func (s *SessionStore) Create(ctx context.Context, filename, text string) (*Session, error) {
	session := &Session{
		ID:        uuid.New().String(),
		Filename:  filename,
		Text:      text,
		CreatedAt: time.Now(),
	}

	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.cache.Set(ctx, sessionKey(session.ID), string(data), s.ttl); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return session, nil
}

// Get 读取会话
func (s *SessionStore) Get(ctx context.Context, id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrDocumentNotFound
	}

	data, found, err := s.cache.Get(ctx, sessionKey(id))
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !found {
		return nil, ErrDocumentNotFound
	}

	var session Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}

// Delete 删除会话
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.cache.Delete(ctx, sessionKey(id))
}
