package export

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var ErrUnknownRef = errors.New("unknown download reference")

// Artifact 一个待下载的文件
type Artifact struct {
	Filename string
	MIMEType string
	Body     []byte
}

// Registry 持有临时下载引用；引用只在一次保存动作期间有效
type Registry struct {
	mu   sync.Mutex
	refs map[string]Artifact
}

func NewRegistry() *Registry {
	return &Registry{refs: map[string]Artifact{}}
}

// Acquire 登记 artifact，返回临时引用
func (r *Registry) Acquire(a Artifact) string {
	ref := uuid.NewString()
	r.mu.Lock()
	r.refs[ref] = a
	r.mu.Unlock()
	return ref
}

// Resolve 按引用取回 artifact
func (r *Registry) Resolve(ref string) (Artifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.refs[ref]
	if !ok {
		return Artifact{}, ErrUnknownRef
	}
	return a, nil
}

// Revoke 释放引用，重复释放无副作用
func (r *Registry) Revoke(ref string) {
	r.mu.Lock()
	delete(r.refs, ref)
	r.mu.Unlock()
}

// Outstanding 当前未释放的引用数
func (r *Registry) Outstanding() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.refs)
}

// Scoped 获取引用 -> 执行一次 save -> 无条件释放（save 出错或 panic 也释放）
func Scoped(r *Registry, a Artifact, save func(ref string) error) error {
	ref := r.Acquire(a)
	defer r.Revoke(ref)
	return save(ref)
}
