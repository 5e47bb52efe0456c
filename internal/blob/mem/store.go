// 包 mem：内存制品存储，供测试与单机联调
package mem

import (
	"context"
	"strings"
	"sync"

	"showme/internal/blob"
)

// Store：互斥锁保护的字节表
// 背景：与对象存储后端不同，这里的检查与写入在同一把锁内完成，UploadIfAbsent 天然原子
type Store struct {
	mu     sync.RWMutex
	data   map[string][]byte
	base   string
	bucket string
}

func New(base, bucket string) *Store {
	return &Store{
		data:   make(map[string][]byte),
		base:   strings.TrimRight(base, "/"),
		bucket: bucket,
	}
}

func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[key]
	return ok, nil
}

func (s *Store) UploadIfAbsent(_ context.Context, key string, data []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; ok {
		return false, nil
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	s.data[key] = cp
	return true, nil
}

func (s *Store) Delete(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return false, nil
	}
	delete(s.data, key)
	return true, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.data[key]
	if !ok {
		return nil, blob.ErrNotFound
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp, nil
}

func (s *Store) URL(key string) string {
	return s.base + "/" + s.bucket + "/" + key
}

var _ blob.Store = (*Store)(nil)
