/**
 * @description
 * Service for order placement and status transitions.
 * Order creation snapshots product prices and deducts stock inside a single
 * transaction; cancellation restores stock the same way.
 *
 * @dependencies
 * - gorm.io/gorm
 * - github.com/shopspring/decimal
 */

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pasarin-app/backend/internal/logger"
	"github.com/pasarin-app/backend/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderService struct {
	DB *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{DB: db}
}

// OrderItemInput is one requested product line
type OrderItemInput struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// CreateOrder places an order for userID. Every product is locked, checked
// for stock and deducted in one transaction; any failure rolls the whole
// order back.
func (s *OrderService) CreateOrder(ctx context.Context, userID uuid.UUID, items []OrderItemInput) (*models.Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: order items are required", ErrValidation)
	}
	for _, item := range items {
		if item.ProductID == uuid.Nil || item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product_id and a positive quantity are required", ErrValidation)
		}
	}

	var order *models.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		total := decimal.Zero
		orderItems := make([]models.OrderItem, 0, len(items))

		for _, item := range items {
			var product models.Product
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, "id = ?", item.ProductID).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: product %s", ErrNotFound, item.ProductID)
				}
				return err
			}
			if product.Stock < item.Quantity {
				return fmt.Errorf("%w: %d available for %s", ErrInsufficientStock, product.Stock, product.Name)
			}

			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
			orderItems = append(orderItems, models.OrderItem{
				ProductID: product.ID,
				Quantity:  item.Quantity,
				Price:     product.Price,
			})

			err = tx.Model(&models.Product{}).Where("id = ?", product.ID).
				Update("stock", gorm.Expr("stock - ?", item.Quantity)).Error
			if err != nil {
				return err
			}
		}

		order = &models.Order{
			UserID:      userID,
			TotalAmount: total,
			Status:      models.OrderStatusPending,
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for i := range orderItems {
			orderItems[i].OrderID = order.ID
		}
		if err := tx.Create(&orderItems).Error; err != nil {
			return err
		}
		order.Items = orderItems
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Order created: %s for %s (%s)", order.ID, userID, order.TotalAmount)
	return order, nil
}

// UpdateStatus moves an order owned by userID to newStatus, restoring stock
// when the order is cancelled.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, userID uuid.UUID, newStatus models.OrderStatus) (*models.Order, error) {
	if !models.ValidOrderStatus(newStatus) {
		return nil, fmt.Errorf("%w: unknown order status %q", ErrValidation, newStatus)
	}

	var order models.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, "id = ? AND user_id = ?", orderID, userID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order", ErrNotFound)
			}
			return err
		}

		if !CanTransitionOrder(order.Status, newStatus) {
			return fmt.Errorf("%w: cannot move order from %s to %s", ErrConflict, order.Status, newStatus)
		}

		if newStatus == models.OrderStatusCancelled && order.Status != models.OrderStatusCancelled {
			var orderItems []models.OrderItem
			if err := tx.Where("order_id = ?", orderID).Find(&orderItems).Error; err != nil {
				return err
			}
			for _, item := range orderItems {
				err := tx.Model(&models.Product{}).Where("id = ?", item.ProductID).
					Update("stock", gorm.Expr("stock + ?", item.Quantity)).Error
				if err != nil {
					return err
				}
			}
		}

		order.Status = newStatus
		return tx.Model(&models.Order{}).Where("id = ?", orderID).
			Update("status", newStatus).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CanTransitionOrder encodes the allowed order status moves: shipped and
// cancelled are terminal.
func CanTransitionOrder(from, to models.OrderStatus) bool {
	switch from {
	case models.OrderStatusShipped:
		return to == models.OrderStatusShipped
	case models.OrderStatusCancelled:
		return false
	}
	return true
}
