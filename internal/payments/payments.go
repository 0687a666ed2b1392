// Package payments records manual payment evidence for orders paid outside
// a card gateway: mobile-wallet transfers with an uploaded proof image, and
// bank transfers confirmed by reference number.
package payments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hussein221k/Ecommerce/internal/orders"
)

const (
	ProviderBankAlAhly   = "BankAlAhly"
	ProviderVodafoneCash = "VodafoneCash"
)

const (
	StatusPending   = "Pending"
	StatusCompleted = "Completed"
	StatusFailed    = "Failed"
)

type Transaction struct {
	ID            int64           `json:"id"`
	TransactionID string          `json:"transaction_id"`
	OrderID       string          `json:"order_id"`
	UserID        string          `json:"user_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Provider      string          `json:"provider"`
	SenderPhone   string          `json:"sender_phone,omitempty"`
	ProofURL      string          `json:"proof_url,omitempty"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

type NewTransaction struct {
	OrderID     string
	UserID      string
	Amount      decimal.Decimal
	Provider    string
	SenderPhone string
	ProofURL    string
}

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (Conf, error) {
	if db == nil {
		return Conf{}, fmt.Errorf("db is nil")
	}
	return Conf{db: db}, nil
}

func generateTransactionID(provider string) string {
	prefix := "BAA"
	if provider == ProviderVodafoneCash {
		prefix = "VFC"
	}
	return fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixMilli(), rand.Intn(1000))
}

// RecordTransaction stores the evidence and flips the order's payment
// status to completed in the same transaction.
func (c *Conf) RecordTransaction(ctx context.Context, nt NewTransaction) (Transaction, error) {
	txn := Transaction{
		TransactionID: generateTransactionID(nt.Provider),
		OrderID:       nt.OrderID,
		UserID:        nt.UserID,
		Amount:        nt.Amount,
		Provider:      nt.Provider,
		SenderPhone:   nt.SenderPhone,
		ProofURL:      nt.ProofURL,
		Status:        StatusCompleted,
	}

	err := c.withTx(ctx, func(tx *sql.Tx) error {
		queryInsert := `
			INSERT INTO transactions (transaction_id, order_id, user_id, amount, provider,
				sender_phone, proof_url, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
			RETURNING id, created_at
		`
		var userID any
		if nt.UserID != "" {
			userID = nt.UserID
		}
		err := tx.QueryRowContext(ctx, queryInsert,
			txn.TransactionID, txn.OrderID, userID, txn.Amount, txn.Provider,
			txn.SenderPhone, txn.ProofURL, txn.Status,
		).Scan(&txn.ID, &txn.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}

		queryOrder := `UPDATE orders SET payment_status = $1, updated_at = NOW() WHERE id = $2`
		result, err := tx.ExecContext(ctx, queryOrder, orders.PaymentCompleted, txn.OrderID)
		if err != nil {
			return fmt.Errorf("failed to update order payment status: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read rows affected: %w", err)
		}
		if affected == 0 {
			return orders.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return Transaction{}, err
	}

	return txn, nil
}

func (c *Conf) ListTransactions(ctx context.Context) ([]Transaction, error) {
	query := `
		SELECT id, transaction_id, order_id, user_id, amount, provider, sender_phone, proof_url, status, created_at
		FROM transactions
		ORDER BY created_at DESC
	`
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var list []Transaction
	for rows.Next() {
		var txn Transaction
		var userID sql.NullString
		if err := rows.Scan(&txn.ID, &txn.TransactionID, &txn.OrderID, &userID, &txn.Amount,
			&txn.Provider, &txn.SenderPhone, &txn.ProofURL, &txn.Status, &txn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txn.UserID = userID.String
		list = append(list, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return list, nil
}

func (c *Conf) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		if er := tx.Rollback(); er != nil && !errors.Is(er, sql.ErrTxDone) {
			return fmt.Errorf("failed to rollback withTx: %w", err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit withTx: %w", err)
	}
	return nil
}
