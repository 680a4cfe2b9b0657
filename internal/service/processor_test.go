// internal/service/processor_test.go
package service

import (
	"context"
	"errors"
	"testing"

	"greenledger/internal/domain"
	"greenledger/internal/finance"
	"greenledger/internal/util"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestProcessor(walletRepo *MockWalletRepository, txRepo *MockTransactionRepository, controller *MockTxController) TransactionProcessor {
	beginTx, commitTx, rollbackTx := txFuncs(controller)
	return NewTransactionProcessor(
		new(MockDBBeginner),
		new(MockDBExecutor),
		walletRepo,
		txRepo,
		finance.NewConverter(finance.DefaultRates()),
		beginTx,
		commitTx,
		rollbackTx,
	)
}

func TestProcessItemSale(t *testing.T) {
	userID := "u1"
	itemID := "i1"

	t.Run("SuccessfulSaleWithDefaultShare", func(t *testing.T) {
		ctx := context.Background()
		mockWalletRepo := new(MockWalletRepository)
		mockTxRepo := new(MockTransactionRepository)
		mockTxController := new(MockTxController)
		processor := newTestProcessor(mockWalletRepo, mockTxRepo, mockTxController)

		wallet := domain.NewWallet(userID)
		wallet.Balance = decimal.NewFromFloat(10.00)

		mockTxController.On("Commit").Return(nil).Once()
		mockTxController.On("Rollback").Return(nil).Maybe()
		mockWalletRepo.On("GetOrCreateForUpdate", ctx, mock.Anything, userID).Return(wallet, nil).Once()
		mockWalletRepo.On("SetWalletFields", ctx, mock.Anything, mock.AnythingOfType("*domain.Wallet")).Return(nil).Once()

		var appended *domain.Transaction
		mockTxRepo.On("AppendTransaction", ctx, mock.Anything, mock.AnythingOfType("*domain.Transaction")).
			Run(func(args mock.Arguments) {
				appended = args.Get(2).(*domain.Transaction)
			}).Return(nil).Once()

		res, err := processor.ProcessItemSale(ctx, itemID, userID, decimal.NewFromFloat(45.00), "Sold laptop")

		require.NoError(t, err)
		require.NotNil(t, res)
		assert.True(t, res.UserCredited.Equal(decimal.NewFromFloat(31.50)), "user credited: %s", res.UserCredited)
		assert.True(t, res.NatureFund.Equal(decimal.NewFromFloat(13.50)), "nature fund: %s", res.NatureFund)
		assert.True(t, res.NewBalance.Equal(decimal.NewFromFloat(41.50)), "new balance: %s", res.NewBalance)
		assert.Equal(t, int64(1), res.Impact.Trees)
		assert.Equal(t, int64(2), res.Impact.AnimalsFed)
		assert.True(t, res.Impact.CO2OffsetKg.Equal(decimal.NewFromFloat(27.0)))

		// Wallet counters folded in, recycled count bumped.
		assert.Equal(t, int64(1), wallet.TreesPlanted)
		assert.Equal(t, int64(2), wallet.AnimalsFed)
		assert.Equal(t, int64(1), wallet.ItemsRecycled)
		assert.True(t, wallet.CO2OffsetKg.Equal(decimal.NewFromFloat(27.0)))

		// Ledger record carries the full audit trail of the split.
		require.NotNil(t, appended)
		assert.Equal(t, domain.TransactionTypeSale, appended.Type)
		assert.Equal(t, domain.ReferenceTypeItem, appended.ReferenceType)
		assert.Equal(t, itemID, appended.ReferenceID)
		assert.True(t, appended.UserCredited.Equal(decimal.NewFromFloat(31.50)))
		assert.True(t, appended.NatureFund.Equal(decimal.NewFromFloat(13.50)))
		assert.True(t, appended.UserShare.Add(appended.NatureShare).Equal(decimal.NewFromInt(1)))
		assert.NotEmpty(t, appended.ID)

		mock.AssertExpectationsForObjects(t, mockTxController, mockWalletRepo, mockTxRepo)
	})

	t.Run("PerUserShareOverride", func(t *testing.T) {
		ctx := context.Background()
		mockWalletRepo := new(MockWalletRepository)
		mockTxRepo := new(MockTransactionRepository)
		mockTxController := new(MockTxController)
		processor := newTestProcessor(mockWalletRepo, mockTxRepo, mockTxController)

		override := decimal.NewFromFloat(0.50)
		wallet := domain.NewWallet(userID)
		wallet.SaleUserShare = &override

		mockTxController.On("Commit").Return(nil).Once()
		mockTxController.On("Rollback").Return(nil).Maybe()
		mockWalletRepo.On("GetOrCreateForUpdate", ctx, mock.Anything, userID).Return(wallet, nil).Once()
		mockWalletRepo.On("SetWalletFields", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		mockTxRepo.On("AppendTransaction", ctx, mock.Anything, mock.Anything).Return(nil).Once()

		res, err := processor.ProcessItemSale(ctx, itemID, userID, decimal.NewFromFloat(100.00), "Sold bike")

		require.NoError(t, err)
		assert.True(t, res.UserCredited.Equal(decimal.NewFromFloat(50.00)))
		assert.True(t, res.NatureFund.Equal(decimal.NewFromFloat(50.00)))

		mock.AssertExpectationsForObjects(t, mockTxController, mockWalletRepo, mockTxRepo)
	})

	t.Run("NonPositiveAmount", func(t *testing.T) {
		ctx := context.Background()
		mockWalletRepo := new(MockWalletRepository)
		mockTxRepo := new(MockTransactionRepository)
		mockTxController := new(MockTxController)
		processor := newTestProcessor(mockWalletRepo, mockTxRepo, mockTxController)

		res, err := processor.ProcessItemSale(ctx, itemID, userID, decimal.NewFromFloat(-5.00), "bad")

		assert.ErrorIs(t, err, util.ErrInvalidInput)
		assert.Nil(t, res)
		mockTxController.AssertNotCalled(t, "Commit")
		mockTxController.AssertNotCalled(t, "Rollback")
		mockWalletRepo.AssertNotCalled(t, "GetOrCreateForUpdate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("WalletWriteFailureRollsBack", func(t *testing.T) {
		ctx := context.Background()
		mockWalletRepo := new(MockWalletRepository)
		mockTxRepo := new(MockTransactionRepository)
		mockTxController := new(MockTxController)
		processor := newTestProcessor(mockWalletRepo, mockTxRepo, mockTxController)

		wallet := domain.NewWallet(userID)
		mockWalletRepo.On("GetOrCreateForUpdate", ctx, mock.Anything, userID).Return(wallet, nil).Once()
		mockWalletRepo.On("SetWalletFields", ctx, mock.Anything, mock.Anything).Return(errors.New("db error")).Once()
		mockTxController.On("Rollback").Return(nil).Once()

		res, err := processor.ProcessItemSale(ctx, itemID, userID, decimal.NewFromFloat(45.00), "Sold laptop")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to update wallet")
		assert.Nil(t, res)
		mockTxController.AssertNotCalled(t, "Commit")
		mockTxRepo.AssertNotCalled(t, "AppendTransaction", mock.Anything, mock.Anything, mock.Anything)

		mock.AssertExpectationsForObjects(t, mockTxController, mockWalletRepo, mockTxRepo)
	})

	t.Run("AppendFailureRollsBack", func(t *testing.T) {
		ctx := context.Background()
		mockWalletRepo := new(MockWalletRepository)
		mockTxRepo := new(MockTransactionRepository)
		mockTxController := new(MockTxController)
		processor := newTestProcessor(mockWalletRepo, mockTxRepo, mockTxController)

		wallet := domain.NewWallet(userID)
		mockWalletRepo.On("GetOrCreateForUpdate", ctx, mock.Anything, userID).Return(wallet, nil).Once()
		mockWalletRepo.On("SetWalletFields", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		mockTxRepo.On("AppendTransaction", ctx, mock.Anything, mock.Anything).Return(errors.New("db error")).Once()
		mockTxController.On("Rollback").Return(nil).Once()

		res, err := processor.ProcessItemSale(ctx, itemID, userID, decimal.NewFromFloat(45.00), "Sold laptop")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to append transaction")
		assert.Nil(t, res)
		mockTxController.AssertNotCalled(t, "Commit")

		mock.AssertExpectationsForObjects(t, mockTxController, mockWalletRepo, mockTxRepo)
	})
}

func TestProcessEventReward(t *testing.T) {
	userID := "u1"
	eventID := "e1"

	t.Run("FullAmountCreditedNoImpact", func(t *testing.T) {
		ctx := context.Background()
		mockWalletRepo := new(MockWalletRepository)
		mockTxRepo := new(MockTransactionRepository)
		mockTxController := new(MockTxController)
		processor := newTestProcessor(mockWalletRepo, mockTxRepo, mockTxController)

		wallet := domain.NewWallet(userID)
		wallet.Balance = decimal.NewFromFloat(5.00)

		mockTxController.On("Commit").Return(nil).Once()
		mockTxController.On("Rollback").Return(nil).Maybe()
		mockWalletRepo.On("GetOrCreateForUpdate", ctx, mock.Anything, userID).Return(wallet, nil).Once()
		mockWalletRepo.On("SetWalletFields", ctx, mock.Anything, mock.Anything).Return(nil).Once()

		var appended *domain.Transaction
		mockTxRepo.On("AppendTransaction", ctx, mock.Anything, mock.AnythingOfType("*domain.Transaction")).
			Run(func(args mock.Arguments) {
				appended = args.Get(2).(*domain.Transaction)
			}).Return(nil).Once()

		res, err := processor.ProcessEventReward(ctx, eventID, userID, decimal.NewFromFloat(20.00), "Beach Cleanup Day")

		require.NoError(t, err)
		assert.True(t, res.NewBalance.Equal(decimal.NewFromFloat(25.00)))

		// No split, no impact: the full reward goes to the user.
		require.NotNil(t, appended)
		assert.Equal(t, domain.TransactionTypeEventReward, appended.Type)
		assert.True(t, appended.UserCredited.Equal(decimal.NewFromFloat(20.00)))
		assert.True(t, appended.NatureFund.IsZero())
		assert.Equal(t, int64(0), appended.TreesPlanted)
		assert.Equal(t, int64(0), appended.AnimalsFed)
		assert.True(t, appended.CO2OffsetKg.IsZero())
		assert.Equal(t, "Reward for attending: Beach Cleanup Day", appended.Description)
		assert.Equal(t, domain.ReferenceTypeEvent, appended.ReferenceType)
		assert.Equal(t, eventID, appended.ReferenceID)

		// Impact counters untouched.
		assert.Equal(t, int64(0), wallet.TreesPlanted)
		assert.True(t, wallet.TotalDonated.IsZero())

		mock.AssertExpectationsForObjects(t, mockTxController, mockWalletRepo, mockTxRepo)
	})

	t.Run("NonPositiveAmount", func(t *testing.T) {
		ctx := context.Background()
		processor := newTestProcessor(new(MockWalletRepository), new(MockTransactionRepository), new(MockTxController))

		res, err := processor.ProcessEventReward(ctx, eventID, userID, decimal.Zero, "Beach Cleanup Day")

		assert.ErrorIs(t, err, util.ErrInvalidInput)
		assert.Nil(t, res)
	})
}

func TestProcessCampaignDonation(t *testing.T) {
	userID := "u1"
	campaignID := "c1"

	t.Run("OverdraftClampsBalanceToZero", func(t *testing.T) {
		ctx := context.Background()
		mockWalletRepo := new(MockWalletRepository)
		mockTxRepo := new(MockTransactionRepository)
		mockTxController := new(MockTxController)
		processor := newTestProcessor(mockWalletRepo, mockTxRepo, mockTxController)

		wallet := domain.NewWallet(userID)
		wallet.Balance = decimal.NewFromFloat(50.00)

		mockTxController.On("Commit").Return(nil).Once()
		mockTxController.On("Rollback").Return(nil).Maybe()
		mockWalletRepo.On("GetOrCreateForUpdate", ctx, mock.Anything, userID).Return(wallet, nil).Once()
		mockWalletRepo.On("SetWalletFields", ctx, mock.Anything, mock.Anything).Return(nil).Once()

		var appended *domain.Transaction
		mockTxRepo.On("AppendTransaction", ctx, mock.Anything, mock.AnythingOfType("*domain.Transaction")).
			Run(func(args mock.Arguments) {
				appended = args.Get(2).(*domain.Transaction)
			}).Return(nil).Once()

		res, err := processor.ProcessCampaignDonation(ctx, campaignID, userID, decimal.NewFromFloat(80.00), "Beach Cleanup")

		require.NoError(t, err)

		// Debiting past zero truncates, it never goes negative.
		assert.True(t, res.NewBalance.IsZero(), "balance: %s", res.NewBalance)
		assert.True(t, wallet.Balance.IsZero())
		assert.True(t, wallet.TotalDonated.Equal(decimal.NewFromFloat(80.00)))

		// The full donation converts to impact: toImpact(80) with defaults.
		assert.Equal(t, int64(8), res.Impact.Trees)
		assert.Equal(t, int64(16), res.Impact.AnimalsFed)
		assert.Equal(t, int64(1), res.Impact.HabitatsProtected)
		assert.True(t, res.Impact.CO2OffsetKg.Equal(decimal.NewFromFloat(160.0)))
		assert.Equal(t, int64(8), wallet.TreesPlanted)
		assert.Equal(t, int64(16), wallet.AnimalsFed)

		require.NotNil(t, appended)
		assert.Equal(t, domain.TransactionTypeDonation, appended.Type)
		assert.True(t, appended.Amount.Equal(decimal.NewFromFloat(80.00)))
		assert.True(t, appended.UserCredited.Equal(decimal.NewFromFloat(-80.00)), "user credited: %s", appended.UserCredited)
		assert.True(t, appended.NatureFund.Equal(decimal.NewFromFloat(80.00)))
		assert.Equal(t, "Donation to: Beach Cleanup", appended.Description)
		assert.Equal(t, domain.ReferenceTypeCampaign, appended.ReferenceType)
		assert.Equal(t, campaignID, appended.ReferenceID)

		mock.AssertExpectationsForObjects(t, mockTxController, mockWalletRepo, mockTxRepo)
	})

	t.Run("DonationWithinBalance", func(t *testing.T) {
		ctx := context.Background()
		mockWalletRepo := new(MockWalletRepository)
		mockTxRepo := new(MockTransactionRepository)
		mockTxController := new(MockTxController)
		processor := newTestProcessor(mockWalletRepo, mockTxRepo, mockTxController)

		wallet := domain.NewWallet(userID)
		wallet.Balance = decimal.NewFromFloat(100.00)

		mockTxController.On("Commit").Return(nil).Once()
		mockTxController.On("Rollback").Return(nil).Maybe()
		mockWalletRepo.On("GetOrCreateForUpdate", ctx, mock.Anything, userID).Return(wallet, nil).Once()
		mockWalletRepo.On("SetWalletFields", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		mockTxRepo.On("AppendTransaction", ctx, mock.Anything, mock.Anything).Return(nil).Once()

		res, err := processor.ProcessCampaignDonation(ctx, campaignID, userID, decimal.NewFromFloat(25.00), "Reef Restoration")

		require.NoError(t, err)
		assert.True(t, res.NewBalance.Equal(decimal.NewFromFloat(75.00)))
		assert.True(t, wallet.TotalDonated.Equal(decimal.NewFromFloat(25.00)))

		mock.AssertExpectationsForObjects(t, mockTxController, mockWalletRepo, mockTxRepo)
	})

	t.Run("NonPositiveAmount", func(t *testing.T) {
		ctx := context.Background()
		processor := newTestProcessor(new(MockWalletRepository), new(MockTransactionRepository), new(MockTxController))

		res, err := processor.ProcessCampaignDonation(ctx, campaignID, userID, decimal.NewFromFloat(-1), "Reef Restoration")

		assert.ErrorIs(t, err, util.ErrInvalidInput)
		assert.Nil(t, res)
	})
}

func TestGetWallet(t *testing.T) {
	t.Run("AbsentWalletYieldsZeroDefaults", func(t *testing.T) {
		ctx := context.Background()
		mockWalletRepo := new(MockWalletRepository)
		processor := newTestProcessor(mockWalletRepo, new(MockTransactionRepository), new(MockTxController))

		mockWalletRepo.On("GetWallet", ctx, mock.Anything, "new-user").Return(nil, util.ErrNotFound).Once()

		wallet, err := processor.GetWallet(ctx, "new-user")

		require.NoError(t, err)
		assert.Equal(t, "new-user", wallet.UserID)
		assert.True(t, wallet.Balance.IsZero())
		assert.True(t, wallet.TotalDonated.IsZero())
		assert.Equal(t, int64(0), wallet.AnimalsSaved)
		assert.Nil(t, wallet.SaleUserShare)

		mockWalletRepo.AssertExpectations(t)
	})

	t.Run("PersistenceErrorPropagates", func(t *testing.T) {
		ctx := context.Background()
		mockWalletRepo := new(MockWalletRepository)
		processor := newTestProcessor(mockWalletRepo, new(MockTransactionRepository), new(MockTxController))

		mockWalletRepo.On("GetWallet", ctx, mock.Anything, "u1").Return(nil, errors.New("connection refused")).Once()

		wallet, err := processor.GetWallet(ctx, "u1")

		assert.Error(t, err)
		assert.Nil(t, wallet)
	})
}

func TestGetTransactionHistory(t *testing.T) {
	ctx := context.Background()
	mockTxRepo := new(MockTransactionRepository)
	processor := newTestProcessor(new(MockWalletRepository), mockTxRepo, new(MockTxController))

	history := []domain.Transaction{
		{ID: "t2", UserID: "u1", Type: domain.TransactionTypeDonation},
		{ID: "t1", UserID: "u1", Type: domain.TransactionTypeSale},
	}
	mockTxRepo.On("GetTransactionsByUserID", ctx, mock.Anything, "u1", 10, 0).Return(history, int64(2), nil).Once()

	transactions, total, err := processor.GetTransactionHistory(ctx, "u1", 10, 0)

	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, transactions, 2)

	mockTxRepo.AssertExpectations(t)
}
