// Package backend 提供推理后端的惰性单例初始化
package backend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// InitFunc 后端初始化函数
type InitFunc[T any] func(ctx context.Context) (T, error)

// Lazy 惰性初始化的进程级资源句柄
// 第一次调用Get时触发初始化；初始化进行中到达的调用者等待同一次初始化，
// 初始化成功后所有调用者得到同一个实例。初始化失败不会被缓存，下次调用重新尝试
type Lazy[T any] struct {
	name   string
	init   InitFunc[T]
	logger *logrus.Logger

	group singleflight.Group
	mu    sync.RWMutex
	value T
	ready bool
}

// LazyOption Lazy配置选项
type LazyOption[T any] func(*Lazy[T])

// WithLogger 设置日志记录器
func WithLogger[T any](logger *logrus.Logger) LazyOption[T] {
	return func(l *Lazy[T]) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLazy 创建惰性资源
func NewLazy[T any](name string, init InitFunc[T], opts ...LazyOption[T]) *Lazy[T] {
	l := &Lazy[T]{
		name:   name,
		init:   init,
		logger: logrus.New(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Get 返回已初始化的实例，必要时触发或等待初始化
// ctx 只控制当前调用者的等待，不会中断共享的初始化过程
func (l *Lazy[T]) Get(ctx context.Context) (T, error) {
	if v, ok := l.loaded(); ok {
		return v, nil
	}

	ch := l.group.DoChan(l.name, func() (result interface{}, err error) {
		if v, ok := l.loaded(); ok {
			return v, nil
		}

		// DoChan 中的 panic 会导致进程退出，这里转换为错误
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s initialization panicked: %v", l.name, r)
			}
		}()

		start := time.Now()
		l.logger.WithField("backend", l.name).Info("Initializing inference backend")

		v, err := l.init(context.WithoutCancel(ctx))
		if err != nil {
			l.logger.WithFields(logrus.Fields{
				"backend": l.name,
				"error":   err.Error(),
			}).Warn("Inference backend initialization failed")
			return nil, err
		}

		l.mu.Lock()
		l.value = v
		l.ready = true
		l.mu.Unlock()

		l.logger.WithFields(logrus.Fields{
			"backend": l.name,
			"elapsed": time.Since(start).String(),
		}).Info("Inference backend ready")
		return v, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(T)
		return v, nil
	}
}

// EnsureReady 确保资源已初始化，可重复调用
func (l *Lazy[T]) EnsureReady(ctx context.Context) error {
	_, err := l.Get(ctx)
	return err
}

// Ready 报告资源是否已初始化完成
func (l *Lazy[T]) Ready() bool {
	_, ok := l.loaded()
	return ok
}

// Name 返回资源名称
func (l *Lazy[T]) Name() string {
	return l.name
}

func (l *Lazy[T]) loaded() (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.value, l.ready
}
