package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"shopstream/contexts/shop/ordering-service/domain/entities"
	domainerrors "shopstream/contexts/shop/ordering-service/domain/errors"
	"shopstream/contexts/shop/ordering-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
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

func (r *Repository) CreateOrderAdjustingInventory(
	ctx context.Context,
	order entities.Order,
	inventoryUpdatedAt time.Time,
	policy ports.InventoryPolicy,
) (ports.OrderWriteResult, error) {
	var result ports.OrderWriteResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := orderModelFromEntity(order)
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrDuplicateOrder
			}
			return err
		}

		var inventory inventoryModel
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("product_id = ?", order.ProductID).
			First(&inventory).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Inventory was never provisioned for this product. The
				// order still stands.
				return nil
			}
			return err
		}

		remaining := inventory.Quantity - order.Quantity
		if remaining < 0 && !policy.AllowNegativeStock {
			return domainerrors.ErrInsufficientStock
		}

		if err := tx.
			Model(&inventoryModel{}).
			Where("product_id = ?", order.ProductID).
			Updates(map[string]any{
				"quantity":   remaining,
				"updated_at": inventoryUpdatedAt.UTC(),
			}).
			Error; err != nil {
			return err
		}

		result.InventoryAdjusted = true
		result.RemainingStock = remaining
		return nil
	})
	if err != nil {
		return ports.OrderWriteResult{}, err
	}
	return result, nil
}

func (r *Repository) GetOrder(ctx context.Context, orderID string) (entities.Order, error) {
	var row orderModel
	err := r.db.WithContext(ctx).
		Where("id = ?", orderID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Order{}, domainerrors.ErrOrderNotFound
		}
		return entities.Order{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListOrders(ctx context.Context) ([]entities.Order, error) {
	var rows []orderModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Order, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetProductSnapshot(ctx context.Context, productID string) (ports.ProductSnapshot, bool, error) {
	var row productModel
	err := r.db.WithContext(ctx).
		Where("id = ?", productID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ProductSnapshot{}, false, nil
		}
		return ports.ProductSnapshot{}, false, err
	}
	return ports.ProductSnapshot{
		ProductID:   row.ID,
		Name:        row.Name,
		Price:       row.Price,
		Description: row.Description,
		ImageURL:    row.ImageURL,
	}, true, nil
}

type orderModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	ProductID  string    `gorm:"column:product_id;index"`
	Quantity   int       `gorm:"column:quantity"`
	TotalPrice int64     `gorm:"column:total_price"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (orderModel) TableName() string {
	return "orders"
}

func orderModelFromEntity(order entities.Order) orderModel {
	return orderModel{
		ID:         order.ID,
		ProductID:  order.ProductID,
		Quantity:   order.Quantity,
		TotalPrice: order.TotalPrice,
		CreatedAt:  order.CreatedAt.UTC(),
		UpdatedAt:  order.UpdatedAt.UTC(),
	}
}

func (m orderModel) toEntity() entities.Order {
	return entities.Order{
		ID:         m.ID,
		ProductID:  m.ProductID,
		Quantity:   m.Quantity,
		TotalPrice: m.TotalPrice,
		CreatedAt:  m.CreatedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
	}
}

// inventoryModel mirrors the catalog-owned inventories table. Ordering only
// ever decrements the quantity column inside its creation transaction.
type inventoryModel struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID string    `gorm:"column:product_id;uniqueIndex"`
	Quantity  int       `gorm:"column:quantity"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (inventoryModel) TableName() string {
	return "inventories"
}

// productModel mirrors the catalog-owned products table, read-only here.
type productModel struct {
	ID          string `gorm:"column:id;primaryKey"`
	Name        string `gorm:"column:name"`
	Price       int64  `gorm:"column:price"`
	Description string `gorm:"column:description"`
	ImageURL    string `gorm:"column:image_url"`
}

func (productModel) TableName() string {
	return "products"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
