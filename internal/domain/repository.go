package domain

import "context"

// Repository 通用仓储契约。
//
// Create/Update/Delete 先暂存变更再调用 Save；Save 在一个事务里提交全部暂存变更，
// 只有影响行数 > 0 才返回 true。返回 (false, nil) 表示"执行了但未确认落库"。
// 暂存区属于 WithContext 返回的请求级副本，仓储本身不持有可变状态。
type Repository[T any] interface {
	WithContext(ctx context.Context) Repository[T]

	FindAll() ([]T, error)
	// FindByID 不存在时返回 (nil, nil)
	FindByID(id int) (*T, error)
	IsExists(id int) (bool, error)

	Create(entity *T) (bool, error)
	Update(entity *T) (bool, error)
	Delete(entity *T) (bool, error)
	Save() (bool, error)
}

// Models 需要自动迁移的全部模型
func Models() []any {
	return []any{&Author{}, &Book{}, &Role{}, &User{}}
}
