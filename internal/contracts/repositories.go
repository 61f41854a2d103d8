package contracts

import "context"

// ⭐ SSOT: Repository 인터페이스 정의는 여기서만

// ProductRepository manages catalog products.
// List는 생성 순서를 유지하며, 반환값은 호출자 소유의 복사본이다.
type ProductRepository interface {
	List(ctx context.Context) ([]*Product, error)
	Get(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id string) error
}
