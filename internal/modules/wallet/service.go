package wallet

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient balance")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Migrate() error {
	return s.db.AutoMigrate(&Wallet{}, &Transaction{})
}

func (s *Service) GetOrCreateWallet(ctx context.Context, userID int64) (*Wallet, error) {
	wallet, err := s.getWalletByUserID(ctx, userID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	wallet = &Wallet{UserID: userID, Balance: 0}
	if err := s.db.WithContext(ctx).Create(wallet).Error; err != nil {
		if isUniqueConstraintError(err) {
			return s.getWalletByUserID(ctx, userID)
		}
		return nil, err
	}
	return wallet, nil
}

func (s *Service) Add(ctx context.Context, userID int64, amount int64) (*Wallet, *Transaction, error) {
	if amount <= 0 {
		return nil, nil, ErrInvalidAmount
	}
	return s.apply(ctx, userID, amount, TransactionTypeAdd)
}

func (s *Service) Spend(ctx context.Context, userID int64, amount int64) (*Wallet, *Transaction, error) {
	if amount <= 0 {
		return nil, nil, ErrInvalidAmount
	}
	return s.apply(ctx, userID, -amount, TransactionTypeSpend)
}

func (s *Service) Refund(ctx context.Context, userID int64, amount int64) (*Wallet, *Transaction, error) {
	if amount <= 0 {
		return nil, nil, ErrInvalidAmount
	}
	return s.apply(ctx, userID, amount, TransactionTypeRefund)
}

// apply mutates the balance and writes the ledger row in one transaction,
// holding a row lock on the wallet so concurrent spends serialize.
func (s *Service) apply(ctx context.Context, userID, delta int64, txnType string) (*Wallet, *Transaction, error) {
	var wallet Wallet
	var txn Transaction

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := getOrCreateWalletForUpdate(tx, userID, &wallet); err != nil {
			return err
		}

		next := wallet.Balance + delta
		if next < 0 {
			return ErrInsufficientFunds
		}

		wallet.Balance = next
		if err := tx.Model(&Wallet{}).Where("id = ?", wallet.ID).Update("balance", next).Error; err != nil {
			return err
		}

		txn = Transaction{WalletID: wallet.ID, Amount: delta, Type: txnType}
		return tx.Create(&txn).Error
	})
	if err != nil {
		return nil, nil, err
	}

	return &wallet, &txn, nil
}

// SpendCredits and RefundCredits are the narrowed surface the booking
// module depends on.

func (s *Service) SpendCredits(ctx context.Context, userID, amount int64) error {
	_, _, err := s.Spend(ctx, userID, amount)
	return err
}

func (s *Service) RefundCredits(ctx context.Context, userID, amount int64) error {
	_, _, err := s.Refund(ctx, userID, amount)
	return err
}

func (s *Service) getWalletByUserID(ctx context.Context, userID int64) (*Wallet, error) {
	var wallet Wallet
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

func getOrCreateWalletForUpdate(tx *gorm.DB, userID int64, out *Wallet) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(out).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	*out = Wallet{UserID: userID, Balance: 0}
	if err := tx.Create(out).Error; err != nil {
		if isUniqueConstraintError(err) {
			return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("user_id = ?", userID).
				First(out).Error
		}
		return err
	}
	return nil
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
