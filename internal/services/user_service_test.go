package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rezahp/go-smm-backend/internal/domain"
	"github.com/rezahp/go-smm-backend/internal/repo"
)

func TestGetBalance_LazyCreates(t *testing.T) {
	db := newSvcDB(t)
	s := &UserService{DB: db}

	got, err := s.GetBalance(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if got.UserID != 42 || got.Balance != 0 || got.IsSeller || got.MarkupPercent != nil {
		t.Fatalf("fresh summary = %+v; want zeroed defaults", got)
	}
	if got.OrderCount != 0 || got.LastOrderAt != nil {
		t.Fatalf("fresh digest = count %d last %v; want empty", got.OrderCount, got.LastOrderAt)
	}

	// The read must have created the row.
	if _, err := repo.GetUser(context.Background(), db, 42); err != nil {
		t.Fatalf("expected user row after GetBalance: %v", err)
	}
}

func TestGetBalance_IncludesOrderDigest(t *testing.T) {
	db := newSvcDB(t)
	mk := 12.5
	seedUser(t, db, &domain.User{UserID: 42, Balance: 78000, IsSeller: true, MarkupPercent: &mk})

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	newest := base.Add(2 * time.Hour)
	for i, ts := range []time.Time{base, base.Add(time.Hour), newest} {
		o := &domain.Order{
			UserID: 42, Provider: "zaynflazz", ServiceID: "101", ServiceName: "IG Likes Indo",
			Target: "someuser", Quantity: int64(100 * (i + 1)), Price: 1000, Status: domain.StatusSubmitted,
			CreatedAt: ts,
		}
		if _, err := repo.CreateOrder(context.Background(), db, o); err != nil {
			t.Fatalf("seed order: %v", err)
		}
	}
	// Another user's orders stay out of the digest.
	if _, err := repo.CreateOrder(context.Background(), db, &domain.Order{
		UserID: 7, Provider: "zaynflazz", ServiceID: "101", ServiceName: "IG Likes Indo",
		Target: "other", Quantity: 100, Price: 1000, Status: domain.StatusFailed,
	}); err != nil {
		t.Fatalf("seed foreign order: %v", err)
	}

	s := &UserService{DB: db}
	got, err := s.GetBalance(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if got.Balance != 78000 || !got.IsSeller {
		t.Fatalf("summary = %+v", got)
	}
	if got.MarkupPercent == nil || *got.MarkupPercent != 12.5 {
		t.Fatalf("markup = %v; want 12.5", got.MarkupPercent)
	}
	if got.OrderCount != 3 {
		t.Fatalf("order count = %d; want 3", got.OrderCount)
	}
	if got.LastOrderAt == nil || !got.LastOrderAt.Equal(newest) {
		t.Fatalf("last order at = %v; want %v", got.LastOrderAt, newest)
	}
}

func TestAdminCredit_RejectsNonPositiveAmounts(t *testing.T) {
	db := newSvcDB(t)
	s := &UserService{DB: db}
	for _, amount := range []int64{0, -5} {
		if _, err := s.AdminCredit(context.Background(), 42, amount, ""); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("amount %d: err = %v; want ErrInvalidAmount", amount, err)
		}
	}
	if _, err := repo.GetUser(context.Background(), db, 42); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("rejected credit must not create the user, err = %v", err)
	}
}

func TestAdminCredit_AppliesAndReplays(t *testing.T) {
	db := newSvcDB(t)
	s := &UserService{DB: db}

	res, err := s.AdminCredit(context.Background(), 42, 50000, "k1")
	if err != nil {
		t.Fatalf("first credit: %v", err)
	}
	if res.Replayed {
		t.Fatalf("first use of a key must apply, not replay")
	}
	if res.User == nil || res.User.Balance != 50000 {
		t.Fatalf("balance = %+v; want 50000", res.User)
	}
	if res.Receipt == nil || res.Receipt.Amount != 50000 || res.Receipt.Key != "k1" {
		t.Fatalf("receipt = %+v; want amount 50000 under k1", res.Receipt)
	}

	// Same key again: no second increment.
	res, err = s.AdminCredit(context.Background(), 42, 50000, "k1")
	if err != nil {
		t.Fatalf("replayed credit: %v", err)
	}
	if !res.Replayed {
		t.Fatalf("second use of k1 must report a replay")
	}
	if res.User.Balance != 50000 {
		t.Fatalf("balance after replay = %d; want still 50000", res.User.Balance)
	}
	if res.Receipt == nil || res.Receipt.Amount != 50000 {
		t.Fatalf("replay should echo the original receipt, got %+v", res.Receipt)
	}

	// A different key applies normally.
	res, err = s.AdminCredit(context.Background(), 42, 25000, "k2")
	if err != nil {
		t.Fatalf("second key: %v", err)
	}
	if res.Replayed || res.User.Balance != 75000 {
		t.Fatalf("after k2: replayed=%v balance=%d; want fresh apply to 75000", res.Replayed, res.User.Balance)
	}

	// Same key for a different user is independent.
	res, err = s.AdminCredit(context.Background(), 43, 1000, "k1")
	if err != nil {
		t.Fatalf("other user, same key: %v", err)
	}
	if res.Replayed || res.User.Balance != 1000 {
		t.Fatalf("keys are scoped per user: %+v", res)
	}
}

func TestAdminCredit_NoKeyAlwaysApplies(t *testing.T) {
	db := newSvcDB(t)
	s := &UserService{DB: db}

	for i := 0; i < 2; i++ {
		res, err := s.AdminCredit(context.Background(), 42, 10000, "  ")
		if err != nil {
			t.Fatalf("credit %d: %v", i, err)
		}
		if res.Replayed || res.Receipt != nil {
			t.Fatalf("keyless credit %d must apply without a receipt: %+v", i, res)
		}
	}
	if got := userBalance(t, db, 42); got != 20000 {
		t.Fatalf("balance = %d; want 20000 after two keyless credits", got)
	}
}

func TestAdminCredit_TombstoneAfterExpiryStillBlocks(t *testing.T) {
	db := newSvcDB(t)
	s := &UserService{DB: db, ReceiptTTL: time.Nanosecond}

	if _, err := s.AdminCredit(context.Background(), 42, 50000, "k1"); err != nil {
		t.Fatalf("first credit: %v", err)
	}
	time.Sleep(time.Millisecond) // let the receipt expire

	// The receipt row outlives its TTL as a tombstone: the key never
	// re-applies money, it just can no longer echo the original receipt.
	res, err := s.AdminCredit(context.Background(), 42, 50000, "k1")
	if err != nil {
		t.Fatalf("credit against tombstone: %v", err)
	}
	if !res.Replayed {
		t.Fatalf("tombstoned key must report a replay")
	}
	if res.Receipt != nil {
		t.Fatalf("expired receipt must not be echoed, got %+v", res.Receipt)
	}
	if res.User.Balance != 50000 {
		t.Fatalf("balance = %d; want single application 50000", res.User.Balance)
	}
}

func TestSetMarkup(t *testing.T) {
	db := newSvcDB(t)
	s := &UserService{DB: db}

	if err := s.SetMarkup(context.Background(), 42, ptrFloat(12.5)); err != nil {
		t.Fatalf("set markup: %v", err)
	}
	u, err := repo.GetUser(context.Background(), db, 42)
	if err != nil {
		t.Fatalf("read user: %v", err)
	}
	if u.MarkupPercent == nil || *u.MarkupPercent != 12.5 {
		t.Fatalf("markup = %v; want 12.5", u.MarkupPercent)
	}

	// Zero percent is a valid override (sell at cost).
	if err := s.SetMarkup(context.Background(), 42, ptrFloat(0)); err != nil {
		t.Fatalf("set zero markup: %v", err)
	}

	// nil clears the override.
	if err := s.SetMarkup(context.Background(), 42, nil); err != nil {
		t.Fatalf("clear markup: %v", err)
	}
	u, err = repo.GetUser(context.Background(), db, 42)
	if err != nil {
		t.Fatalf("read user: %v", err)
	}
	if u.MarkupPercent != nil {
		t.Fatalf("markup = %v; want cleared", *u.MarkupPercent)
	}

	for _, bad := range []float64{-1, math.NaN(), math.Inf(1)} {
		if err := s.SetMarkup(context.Background(), 42, ptrFloat(bad)); !errors.Is(err, ErrInvalidMarkup) {
			t.Fatalf("markup %v: err = %v; want ErrInvalidMarkup", bad, err)
		}
	}
}

func TestListOrders_PagesNewestFirst(t *testing.T) {
	db := newSvcDB(t)
	seedUser(t, db, &domain.User{UserID: 42})

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		o := &domain.Order{
			UserID: 42, Provider: "zaynflazz", ServiceID: "101", ServiceName: "IG Likes Indo",
			Target: "someuser", Quantity: int64(i + 1), Price: 1000, Status: domain.StatusSubmitted,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if _, err := repo.CreateOrder(context.Background(), db, o); err != nil {
			t.Fatalf("seed order: %v", err)
		}
	}

	s := &UserService{DB: db}
	items, total, err := s.ListOrders(context.Background(), 42, 1, 2)
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if total != 3 || len(items) != 2 {
		t.Fatalf("page 1 = %d items of %d; want 2 of 3", len(items), total)
	}
	if items[0].Quantity != 3 || items[1].Quantity != 2 {
		t.Fatalf("page 1 order wrong: %d then %d; want newest first", items[0].Quantity, items[1].Quantity)
	}

	items, total, err = s.ListOrders(context.Background(), 42, 2, 2)
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if total != 3 || len(items) != 1 || items[0].Quantity != 1 {
		t.Fatalf("page 2 = %+v of %d; want the oldest row", items, total)
	}

	// Out-of-range page inputs fall back to sane defaults.
	items, _, err = s.ListOrders(context.Background(), 42, 0, 0)
	if err != nil {
		t.Fatalf("defaulted page: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("defaulted page = %d items; want all 3", len(items))
	}
}

func ptrFloat(f float64) *float64 { return &f }
