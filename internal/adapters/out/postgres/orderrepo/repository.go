package orderrepo

import (
	"context"
	"errors"
	"iter"
	"time"

	"dormeal/internal/adapters/out/orderevents"
	"dormeal/internal/adapters/out/postgres/outboxrepo"
	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/core/domain/model/order"
	"dormeal/internal/core/ports"
	"dormeal/internal/pkg/errs"

	"gorm.io/gorm"
)

const defaultPageSize = 50

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db       *gorm.DB
	pageSize int
}

// NewGormOrderRepository creates a repository on db, which may be a transaction.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db, pageSize: defaultPageSize}
}

// WithPageSize sets the batch size of ListAvailable's keyset scan.
func (r *GormOrderRepository) WithPageSize(n int) *GormOrderRepository {
	if n > 0 {
		r.pageSize = n
	}
	return r
}

// Add saves a new order.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromRecord(aggregate.Record())
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	dto, err := r.get(r.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormOrderRepository) get(db *gorm.DB, id kernel.UUID) (OrderDTO, error) {
	if err := id.Validate(); err != nil {
		return OrderDTO{}, err
	}

	var dto OrderDTO
	if err := db.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderDTO{}, errs.NewObjectNotFoundError("order", id.String())
		}
		return OrderDTO{}, err
	}
	return dto, nil
}

// CompareAndUpdate runs read, mutate, conditional update and outbox insert in
// one (possibly nested) transaction. The conditional update is the arbiter:
// a concurrent writer makes it match zero rows.
func (r *GormOrderRepository) CompareAndUpdate(
	ctx context.Context,
	id kernel.UUID,
	expectedVersion int64,
	mutate order.Mutator,
) (*order.Order, error) {
	var updated *order.Order

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := r.get(tx, id)
		if err != nil {
			return err
		}
		if current.Version != expectedVersion {
			return errs.NewVersionConflictError(id.String(), expectedVersion, current.Version)
		}

		working, err := toDomain(current)
		if err != nil {
			return err
		}
		if err = mutate(working); err != nil {
			return err
		}

		next := working.Record()
		next.Version = expectedVersion + 1
		if updated, err = order.RestoreOrder(next); err != nil {
			return err
		}

		dto := fromRecord(next)
		result := tx.Model(&OrderDTO{}).
			Where("id = ? AND version = ?", dto.ID, expectedVersion).
			Select("*").Omit("id").
			Updates(&dto)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return r.conflict(tx, id, expectedVersion)
		}

		messages := make([]ports.OutboxMessage, 0, len(working.DomainEvents()))
		for _, ev := range working.DomainEvents() {
			msg, encodeErr := orderevents.Encode(ev)
			if encodeErr != nil {
				return encodeErr
			}
			messages = append(messages, msg)
		}
		return outboxrepo.Append(ctx, tx, messages)
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// conflict re-reads the row after a zero-row update to tell a concurrent
// write from a concurrent delete.
func (r *GormOrderRepository) conflict(tx *gorm.DB, id kernel.UUID, expectedVersion int64) error {
	dto, err := r.get(tx, id)
	if err != nil {
		return err
	}
	return errs.NewVersionConflictError(id.String(), expectedVersion, dto.Version)
}

// ListAvailable pages through Created orders with a (created_at, id) keyset.
func (r *GormOrderRepository) ListAvailable(ctx context.Context, schoolID kernel.UUID) iter.Seq2[*order.Order, error] {
	return func(yield func(*order.Order, error) bool) {
		var last *OrderDTO
		for {
			q := r.db.WithContext(ctx).
				Where("school_id = ? AND status = ?", schoolID.Bytes(), int(order.Created))
			if last != nil {
				q = q.Where("(created_at > ? OR (created_at = ? AND id > ?))", last.CreatedAt, last.CreatedAt, last.ID)
			}

			var page []OrderDTO
			if err := q.Order("created_at, id").Limit(r.pageSize).Find(&page).Error; err != nil {
				yield(nil, err)
				return
			}

			for _, dto := range page {
				o, err := toDomain(dto)
				if !yield(o, err) || err != nil {
					return
				}
			}

			if len(page) < r.pageSize {
				return
			}
			last = &page[len(page)-1]
		}
	}
}

// ListByStatusBefore filters on the timestamp that marks entry into status.
func (r *GormOrderRepository) ListByStatusBefore(
	ctx context.Context,
	status order.Status,
	cutoff time.Time,
) ([]*order.Order, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}
	column := map[order.Status]string{
		order.Created:   "created_at",
		order.Claimed:   "claimed_at",
		order.Retrieved: "retrieved_at",
	}[status]
	if column == "" {
		column = "resolved_at"
	}

	return r.find(r.db.WithContext(ctx).
		Where("status = ? AND "+column+" < ?", int(status), cutoff.UTC()).
		Order(column))
}

func (r *GormOrderRepository) ListByConsumer(ctx context.Context, consumerID kernel.UUID) ([]*order.Order, error) {
	return r.find(r.db.WithContext(ctx).
		Where("consumer_id = ?", consumerID.Bytes()).
		Order("created_at DESC"))
}

func (r *GormOrderRepository) ListByCarrier(ctx context.Context, carrierID kernel.UUID) ([]*order.Order, error) {
	return r.find(r.db.WithContext(ctx).
		Where("carrier_id = ? AND status IN ?", carrierID.Bytes(), []int{int(order.Claimed), int(order.Retrieved)}).
		Order("created_at"))
}

func (r *GormOrderRepository) CountByStatus(ctx context.Context) (map[order.Status]int, error) {
	var rows []struct {
		Status int
		Total  int
	}
	if err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[order.Status]int, len(rows))
	for _, row := range rows {
		counts[order.Status(row.Status)] = row.Total
	}
	return counts, nil
}

func (r *GormOrderRepository) find(q *gorm.DB) ([]*order.Order, error) {
	var dtos []OrderDTO
	if err := q.Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
