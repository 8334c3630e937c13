package dashboard

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/postdesk/internal/cache"
)

const sessionKeyPrefix = "dashboard:session:"

// SessionStore 会话存储
type SessionStore interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id string) error
}

// NewSessionStore Redis 启用时使用 Redis，否则使用内存
func NewSessionStore(ttl time.Duration) SessionStore {
	if cache.Enabled() {
		return NewRedisSessionStore(ttl)
	}
	return NewMemorySessionStore(ttl)
}

// MemorySessionStore 进程内会话存储
type MemorySessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string][]byte
	expires  map[string]time.Time
	now      func() time.Time
}

// NewMemorySessionStore 创建内存会话存储
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		ttl:      ttl,
		sessions: make(map[string][]byte),
		expires:  make(map[string]time.Time),
		now:      time.Now,
	}
}

// Load 读取会话，不存在或已过期时返回新会话
func (s *MemorySessionStore) Load(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id = strings.TrimSpace(id)
	payload, ok := s.sessions[id]
	if !ok {
		return NewSession(id), nil
	}
	if expireAt, ok := s.expires[id]; ok && s.now().After(expireAt) {
		delete(s.sessions, id)
		delete(s.expires, id)
		return NewSession(id), nil
	}
	var session Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Save 保存会话
func (s *MemorySessionStore) Save(ctx context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session.UpdatedAt = s.now()
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	s.sessions[session.ID] = payload
	if s.ttl > 0 {
		s.expires[session.ID] = session.UpdatedAt.Add(s.ttl)
	}
	return nil
}

// Delete 删除会话
func (s *MemorySessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	delete(s.expires, id)
	return nil
}

// RedisSessionStore 基于 Redis 的会话存储，多实例部署时共享
type RedisSessionStore struct {
	ttl time.Duration
}

// NewRedisSessionStore 创建 Redis 会话存储
func NewRedisSessionStore(ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{ttl: ttl}
}

// Load 读取会话，不存在时返回新会话
func (s *RedisSessionStore) Load(ctx context.Context, id string) (*Session, error) {
	id = strings.TrimSpace(id)
	var session Session
	hit, err := cache.GetJSON(ctx, sessionKeyPrefix+id, &session)
	if err != nil {
		return nil, err
	}
	if !hit {
		return NewSession(id), nil
	}
	return &session, nil
}

// Save 保存会话并刷新过期时间
func (s *RedisSessionStore) Save(ctx context.Context, session *Session) error {
	session.UpdatedAt = time.Now()
	return cache.SetJSON(ctx, sessionKeyPrefix+session.ID, session, s.ttl)
}

// Delete 删除会话
func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return cache.Del(ctx, sessionKeyPrefix+strings.TrimSpace(id))
}
