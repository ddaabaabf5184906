package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"shopstream/contexts/shop/catalog-service/domain/entities"
	domainerrors "shopstream/contexts/shop/catalog-service/domain/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateProductWithInventory(
	ctx context.Context,
	product entities.Product,
	inventory entities.Inventory,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		productRow := productModelFromEntity(product)
		if err := tx.Create(&productRow).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrDuplicateProduct
			}
			return err
		}

		inventoryRow := inventoryModelFromEntity(inventory)
		if err := tx.Create(&inventoryRow).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrDuplicateProduct
			}
			return err
		}
		return nil
	})
}

func (r *Repository) DeleteProductWithInventory(ctx context.Context, productID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("product_id = ?", productID).
			Delete(&inventoryModel{}).
			Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", productID).Delete(&productModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrProductNotFound
		}
		return nil
	})
}

func (r *Repository) GetProduct(ctx context.Context, productID string) (entities.Product, error) {
	var row productModel
	err := r.db.WithContext(ctx).
		Where("id = ?", productID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Product{}, domainerrors.ErrProductNotFound
		}
		return entities.Product{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListProducts(ctx context.Context) ([]entities.Product, error) {
	var rows []productModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Product, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetInventory(ctx context.Context, productID string) (entities.Inventory, bool, error) {
	var row inventoryModel
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Inventory{}, false, nil
		}
		return entities.Inventory{}, false, err
	}
	return row.toEntity(), true, nil
}

type productModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Name        string    `gorm:"column:name"`
	Price       int64     `gorm:"column:price"`
	Description string    `gorm:"column:description"`
	ImageURL    string    `gorm:"column:image_url"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (productModel) TableName() string {
	return "products"
}

func productModelFromEntity(product entities.Product) productModel {
	return productModel{
		ID:          product.ID,
		Name:        product.Name,
		Price:       product.Price,
		Description: product.Description,
		ImageURL:    product.ImageURL,
		CreatedAt:   product.CreatedAt.UTC(),
		UpdatedAt:   product.UpdatedAt.UTC(),
	}
}

func (m productModel) toEntity() entities.Product {
	return entities.Product{
		ID:          m.ID,
		Name:        m.Name,
		Price:       m.Price,
		Description: m.Description,
		ImageURL:    m.ImageURL,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

type inventoryModel struct {
	ID                int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID         string    `gorm:"column:product_id;uniqueIndex"`
	Quantity          int       `gorm:"column:quantity"`
	LowStockThreshold int       `gorm:"column:low_stock_threshold"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (inventoryModel) TableName() string {
	return "inventories"
}

func inventoryModelFromEntity(inventory entities.Inventory) inventoryModel {
	return inventoryModel{
		ProductID:         inventory.ProductID,
		Quantity:          inventory.Quantity,
		LowStockThreshold: inventory.LowStockThreshold,
		CreatedAt:         inventory.CreatedAt.UTC(),
		UpdatedAt:         inventory.UpdatedAt.UTC(),
	}
}

func (m inventoryModel) toEntity() entities.Inventory {
	return entities.Inventory{
		ProductID:         m.ProductID,
		Quantity:          m.Quantity,
		LowStockThreshold: m.LowStockThreshold,
		CreatedAt:         m.CreatedAt.UTC(),
		UpdatedAt:         m.UpdatedAt.UTC(),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
