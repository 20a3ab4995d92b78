package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/waterfire-source/Mycalinks-sub015/internal/application/dto"
	"github.com/waterfire-source/Mycalinks-sub015/internal/application/inventory"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/repository"
)

// ProductUseCase alta y consulta de productos. Stock y costo se manejan vía el libro.
type ProductUseCase struct {
	repo     repository.ProductRepository
	txRunner inventory.TxRunner
	now      func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, txRunner inventory.TxRunner) *ProductUseCase {
	return &ProductUseCase{repo: repo, txRunner: txRunner, now: time.Now}
}

// Create registra un producto con stock 0.
func (uc *ProductUseCase) Create(ctx context.Context, storeID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	category := entity.ProductCategory(in.Category)
	if !category.Valid() {
		return nil, fmt.Errorf("%w: categoría %q", domain.ErrInvalidInput, in.Category)
	}
	if in.InfiniteStock && category == entity.CategoryBundle {
		return nil, fmt.Errorf("%w: un bundle no puede tener stock infinito", domain.ErrInvalidInput)
	}
	now := uc.now()
	product := &entity.Product{
		ID:                    uuid.New().String(),
		StoreID:               storeID,
		DisplayName:           in.DisplayName,
		Category:              category,
		InfiniteStock:         in.InfiniteStock,
		IsSpecialPriceProduct: in.IsSpecialPriceProduct,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// GetByID obtiene un producto de la tienda.
func (uc *ProductUseCase) GetByID(ctx context.Context, storeID, id string) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, uc.repo, storeID, id)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

func (uc *ProductUseCase) get(ctx context.Context, repo repository.ProductRepository, storeID, id string) (*entity.Product, error) {
	product, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.StoreID != storeID {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return product, nil
}

// List lista productos de la tienda con paginación.
func (uc *ProductUseCase) List(ctx context.Context, storeID string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByStore(ctx, storeID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// GetBundleComponents devuelve la composición de un bundle.
func (uc *ProductUseCase) GetBundleComponents(ctx context.Context, storeID, bundleID string) (*dto.BundleComponentsResponse, error) {
	var components []entity.BundleComponent
	err := uc.txRunner.Run(ctx, func(repos inventory.Repositories) error {
		if _, err := uc.bundle(ctx, repos.Products, storeID, bundleID); err != nil {
			return err
		}
		var err error
		components, err = repos.Bundles.ListComponents(ctx, bundleID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toBundleComponentsResponse(bundleID, components), nil
}

// SetBundleComponents reemplaza la composición. Solo se permite con el bundle sin stock: las
// unidades armadas retienen lotes de la composición anterior.
func (uc *ProductUseCase) SetBundleComponents(ctx context.Context, storeID, bundleID string, in dto.SetBundleComponentsRequest) (*dto.BundleComponentsResponse, error) {
	components := make([]entity.BundleComponent, 0, len(in.Components))
	seen := make(map[string]bool, len(in.Components))
	for _, c := range in.Components {
		if c.Quantity <= 0 {
			return nil, fmt.Errorf("%w: cantidad de %s", domain.ErrInvalidQuantity, c.ProductID)
		}
		if c.ProductID == bundleID || seen[c.ProductID] {
			return nil, fmt.Errorf("%w: componente %s repetido", domain.ErrInvalidInput, c.ProductID)
		}
		seen[c.ProductID] = true
		components = append(components, entity.BundleComponent{BundleProductID: bundleID, ProductID: c.ProductID, Quantity: c.Quantity})
	}

	err := uc.txRunner.Run(ctx, func(repos inventory.Repositories) error {
		bundle, err := uc.bundle(ctx, repos.Products, storeID, bundleID)
		if err != nil {
			return err
		}
		if bundle.StockNumber != 0 {
			return fmt.Errorf("%w: el bundle %s tiene %d unidades armadas", domain.ErrConflict, bundleID, bundle.StockNumber)
		}
		for _, c := range components {
			p, err := uc.get(ctx, repos.Products, storeID, c.ProductID)
			if err != nil {
				return err
			}
			if p.Category == entity.CategoryBundle {
				return fmt.Errorf("%w: %s es un bundle", domain.ErrInvalidInput, c.ProductID)
			}
		}
		return repos.Bundles.ReplaceComponents(ctx, bundleID, components)
	})
	if err != nil {
		return nil, err
	}
	return toBundleComponentsResponse(bundleID, components), nil
}

func (uc *ProductUseCase) bundle(ctx context.Context, repo repository.ProductRepository, storeID, id string) (*entity.Product, error) {
	p, err := uc.get(ctx, repo, storeID, id)
	if err != nil {
		return nil, err
	}
	if p.Category != entity.CategoryBundle {
		return nil, fmt.Errorf("%w: %s no es un bundle", domain.ErrInvalidInput, id)
	}
	return p, nil
}

func toBundleComponentsResponse(bundleID string, components []entity.BundleComponent) *dto.BundleComponentsResponse {
	out := &dto.BundleComponentsResponse{BundleProductID: bundleID, Components: make([]dto.BundleComponentRequest, 0, len(components))}
	for _, c := range components {
		out.Components = append(out.Components, dto.BundleComponentRequest{ProductID: c.ProductID, Quantity: c.Quantity})
	}
	return out
}

// ToProductResponse mapea la entidad a su DTO.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:                    p.ID,
		StoreID:               p.StoreID,
		DisplayName:           p.DisplayName,
		Category:              string(p.Category),
		StockNumber:           p.StockNumber,
		InfiniteStock:         p.InfiniteStock,
		IsSpecialPriceProduct: p.IsSpecialPriceProduct,
		Deleted:               p.Deleted,
		AverageWholesalePrice: p.Wholesale.Average,
		MinimumWholesalePrice: p.Wholesale.Minimum,
		MaximumWholesalePrice: p.Wholesale.Maximum,
		TotalWholesalePrice:   p.Wholesale.Total,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}
