package repo

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bookstore-api/internal/domain"
)

// stagedOp 暂存的一次写操作，Save 时在事务内执行
type stagedOp func(tx *gorm.DB) *gorm.DB

// GormRepository 基于 GORM 的通用仓储实现。
// 处理请求时先 WithContext 拿到请求级副本，暂存区不会跨请求共享。
type GormRepository[T any] struct {
	db       *gorm.DB
	preloads []string

	mu     sync.Mutex
	staged []stagedOp
}

var _ domain.Repository[domain.Author] = (*GormRepository[domain.Author])(nil)

func NewGormRepository[T any](db *gorm.DB, preloads ...string) *GormRepository[T] {
	return &GormRepository[T]{db: db, preloads: preloads}
}

func (r *GormRepository[T]) WithContext(ctx context.Context) domain.Repository[T] {
	return &GormRepository[T]{db: r.db.WithContext(ctx), preloads: r.preloads}
}

func (r *GormRepository[T]) FindAll() ([]T, error) {
	items := make([]T, 0)
	if err := r.query().Find(&items).Error; err != nil {
		return nil, fmt.Errorf("find all %s: %w", entityName[T](), err)
	}
	return items, nil
}

func (r *GormRepository[T]) FindByID(id int) (*T, error) {
	var e T
	err := r.query().First(&e, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find %s %d: %w", entityName[T](), id, err)
	}
	return &e, nil
}

func (r *GormRepository[T]) IsExists(id int) (bool, error) {
	var n int64
	if err := r.db.Model(new(T)).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("probe %s %d: %w", entityName[T](), id, err)
	}
	return n > 0, nil
}

func (r *GormRepository[T]) Create(entity *T) (bool, error) {
	r.stage(func(tx *gorm.DB) *gorm.DB {
		return tx.Omit(clause.Associations).Create(entity)
	})
	return r.Save()
}

// Update 整行覆盖（created_at 除外），与 EF 的 Update 语义一致
func (r *GormRepository[T]) Update(entity *T) (bool, error) {
	r.stage(func(tx *gorm.DB) *gorm.DB {
		return tx.Model(entity).Select("*").Omit("created_at", clause.Associations).Updates(entity)
	})
	return r.Save()
}

func (r *GormRepository[T]) Delete(entity *T) (bool, error) {
	r.stage(func(tx *gorm.DB) *gorm.DB {
		return tx.Delete(entity)
	})
	return r.Save()
}

func (r *GormRepository[T]) Save() (bool, error) {
	r.mu.Lock()
	ops := r.staged
	r.staged = nil
	r.mu.Unlock()

	if len(ops) == 0 {
		return false, nil
	}

	var changes int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, op := range ops {
			res := op(tx)
			if res.Error != nil {
				return res.Error
			}
			changes += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("save %s: %w", entityName[T](), err)
	}
	return changes > 0, nil
}

func (r *GormRepository[T]) stage(op stagedOp) {
	r.mu.Lock()
	r.staged = append(r.staged, op)
	r.mu.Unlock()
}

func (r *GormRepository[T]) query() *gorm.DB {
	q := r.db
	for _, p := range r.preloads {
		q = q.Preload(p)
	}
	return q
}

func entityName[T any]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}
