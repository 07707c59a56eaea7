package mysql

import (
	"context"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"storefront/pkg/domain/model"
	"storefront/pkg/domain/service"
)

const insertOrderQuery = `INSERT INTO order_submissions
	(first_name, last_name, email, address, city, zip, product_names, total_amount, date_time)
	VALUES (:first_name, :last_name, :email, :address, :city, :zip, :product_names, :total_amount, :date_time)`

const listOrdersQuery = `SELECT first_name, last_name, email, address, city, zip, product_names, total_amount, date_time
	FROM order_submissions ORDER BY id DESC LIMIT ?`

var (
	_ model.OrderSink      = &OrderSink{}
	_ service.OrderHistory = &OrderSink{}
)

func Connect(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "mysql", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "connect to mysql")
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

// OrderSink appends each order as a row of order_submissions.
type OrderSink struct {
	db *sqlx.DB
}

func NewOrderSink(db *sqlx.DB) *OrderSink {
	return &OrderSink{db: db}
}

func (s *OrderSink) Submit(ctx context.Context, payload model.OrderPayload) error {
	if _, err := s.db.NamedExecContext(ctx, insertOrderQuery, payload); err != nil {
		return errors.Wrap(err, "insert order submission")
	}
	return nil
}

// Recent returns the newest submissions first.
func (s *OrderSink) Recent(ctx context.Context, limit int) ([]model.OrderPayload, error) {
	var orders []model.OrderPayload
	if err := s.db.SelectContext(ctx, &orders, listOrdersQuery, limit); err != nil {
		return nil, errors.Wrap(err, "list order submissions")
	}
	return orders, nil
}
