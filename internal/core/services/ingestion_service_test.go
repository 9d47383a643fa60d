package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/vladisc/financial-server/internal/apperrors"
	"github.com/vladisc/financial-server/internal/core/domain"
	portsrepo "github.com/vladisc/financial-server/internal/core/ports/repositories"
	portssvc "github.com/vladisc/financial-server/internal/core/ports/services"
	"github.com/vladisc/financial-server/internal/core/services"
	"github.com/vladisc/financial-server/internal/dto"
	"github.com/vladisc/financial-server/internal/utils"
)

type IngestionServiceTestSuite struct {
	suite.Suite
	mockTxnRepo   *MockTransactionRepository
	mockNotifRepo *MockNotificationRepository
	mockUserRepo  *MockUserRepository
	mockExtractor *MockExtractor
	service       portssvc.NotificationSvcFacade

	userID string
	user   *domain.User
}

func (suite *IngestionServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockNotifRepo = new(MockNotificationRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockExtractor = new(MockExtractor)

	userSvc := services.NewUserService(suite.mockUserRepo)
	suite.service = services.NewIngestionService(suite.mockTxnRepo, suite.mockNotifRepo, userSvc, suite.mockExtractor)

	suite.userID = "user-1"
	suite.user = &domain.User{
		UserID:    suite.userID,
		Username:  "jdoe",
		FirstName: "Jane",
		LastName:  "Doe",
		Company:   "Acme GmbH",
	}
}

func (suite *IngestionServiceTestSuite) expectUserLookup() {
	suite.mockUserRepo.On("FindUserByID", mock.Anything, suite.userID).Return(suite.user, nil).Once()
}

func (suite *IngestionServiceTestSuite) expectEmptyHistory() {
	suite.mockTxnRepo.On("FindLatestPerType", mock.Anything, suite.userID).
		Return([]domain.Transaction{}, nil).Once()
}

func (suite *IngestionServiceTestSuite) TestIngest_CompleteExtraction() {
	ctx := context.Background()
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	req := dto.IngestNotificationsRequest{
		{Timestamp: ts, Title: "Payment received", Body: "You received 1500.00 EUR from Acme GmbH"},
	}

	amount := decimal.NewFromFloat(1500.00)
	name := "Acme GmbH"
	txType := domain.Income
	suite.expectUserLookup()
	suite.expectEmptyHistory()
	suite.mockExtractor.On("ExtractTransactions", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.ExtractionResult{{Amount: &amount, Name: &name, Type: &txType}}, nil).Once()

	var savedTxns []domain.Transaction
	suite.mockTxnRepo.On("SaveTransactions", mock.Anything, mock.AnythingOfType("[]domain.Transaction")).
		Run(func(args mock.Arguments) { savedTxns = args.Get(1).([]domain.Transaction) }).
		Return([]portsrepo.SaveOutcome{{ID: utils.TransactionFingerprint(suite.userID, ts, req[0].Title, req[0].Body), Created: true}}, nil).Once()
	suite.mockNotifRepo.On("SaveNotifications", mock.Anything, mock.AnythingOfType("[]domain.Notification")).
		Return([]portsrepo.SaveOutcome{{ID: utils.NotificationFingerprint(ts, req[0].Title, req[0].Body), Created: true}}, nil).Once()

	resp, err := suite.service.IngestNotifications(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.Require().Len(resp.Transactions, 1)
	suite.Require().Len(resp.Notifications, 1)
	suite.Empty(resp.Errors)

	suite.Require().Len(savedTxns, 1)
	suite.Equal(domain.EditedByAuto, savedTxns[0].EditedBy)
	suite.True(amount.Equal(savedTxns[0].Amount))
	suite.Equal(name, savedTxns[0].Name)
	suite.Require().NotNil(savedTxns[0].Type)
	suite.Equal(domain.Income, *savedTxns[0].Type)

	// Notification and transaction are linked one-to-one.
	suite.Equal(resp.Transactions[0].TransactionID, resp.Notifications[0].TransactionID)
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockNotifRepo.AssertExpectations(suite.T())
}

func (suite *IngestionServiceTestSuite) TestIngest_ExtractionFailureFallsBackToPlaceholder() {
	ctx := context.Background()
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	req := dto.IngestNotificationsRequest{
		{Timestamp: ts, Title: "Payment", Body: "Unreadable"},
	}

	suite.expectUserLookup()
	suite.expectEmptyHistory()
	suite.mockExtractor.On("ExtractTransactions", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("model unreachable")).Once()

	var savedTxns []domain.Transaction
	suite.mockTxnRepo.On("SaveTransactions", mock.Anything, mock.AnythingOfType("[]domain.Transaction")).
		Run(func(args mock.Arguments) { savedTxns = args.Get(1).([]domain.Transaction) }).
		Return([]portsrepo.SaveOutcome{{ID: utils.TransactionFingerprint(suite.userID, ts, req[0].Title, req[0].Body), Created: true}}, nil).Once()
	suite.mockNotifRepo.On("SaveNotifications", mock.Anything, mock.Anything).
		Return([]portsrepo.SaveOutcome{{ID: "n1", Created: true}}, nil).Once()

	resp, err := suite.service.IngestNotifications(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.Require().Len(resp.Transactions, 1)
	suite.Require().Len(savedTxns, 1)
	suite.Equal(domain.PlaceholderName, savedTxns[0].Name)
	suite.True(savedTxns[0].Amount.IsZero())
	suite.Nil(savedTxns[0].Type)
	suite.Equal(domain.EditedByAuto, savedTxns[0].EditedBy)
}

func (suite *IngestionServiceTestSuite) TestIngest_IncompleteCandidateBecomesPlaceholder() {
	ctx := context.Background()
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	req := dto.IngestNotificationsRequest{
		{Timestamp: ts, Title: "Invoice", Body: "Invoice from utility provider"},
	}

	// INVOICE candidate missing due date and status is not promotable.
	amount := decimal.NewFromFloat(89.90)
	name := "Utility Co"
	txType := domain.Invoice
	suite.expectUserLookup()
	suite.expectEmptyHistory()
	suite.mockExtractor.On("ExtractTransactions", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.ExtractionResult{{Amount: &amount, Name: &name, Type: &txType}}, nil).Once()

	var savedTxns []domain.Transaction
	suite.mockTxnRepo.On("SaveTransactions", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { savedTxns = args.Get(1).([]domain.Transaction) }).
		Return([]portsrepo.SaveOutcome{{ID: "t1", Created: true}}, nil).Once()
	suite.mockNotifRepo.On("SaveNotifications", mock.Anything, mock.Anything).
		Return([]portsrepo.SaveOutcome{{ID: "n1", Created: true}}, nil).Once()

	_, err := suite.service.IngestNotifications(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.Require().Len(savedTxns, 1)
	suite.Equal(domain.PlaceholderName, savedTxns[0].Name)
	suite.Nil(savedTxns[0].InvoiceStatus)
}

func (suite *IngestionServiceTestSuite) TestIngest_ReingestionConvergesOnSameIDs() {
	ctx := context.Background()
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	req := dto.IngestNotificationsRequest{
		{Timestamp: ts, Title: "Payment", Body: "You paid 12.50 EUR"},
	}

	txnID := utils.TransactionFingerprint(suite.userID, ts, req[0].Title, req[0].Body)
	notifID := utils.NotificationFingerprint(ts, req[0].Title, req[0].Body)

	suite.expectUserLookup()
	suite.expectEmptyHistory()
	suite.mockExtractor.On("ExtractTransactions", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil).Once()

	// Both rows already exist; inserts are no-ops reporting the prior IDs.
	suite.mockTxnRepo.On("SaveTransactions", mock.Anything, mock.Anything).
		Return([]portsrepo.SaveOutcome{{ID: txnID, Created: false}}, nil).Once()
	suite.mockNotifRepo.On("SaveNotifications", mock.Anything, mock.Anything).
		Return([]portsrepo.SaveOutcome{{ID: notifID, Created: false}}, nil).Once()

	resp, err := suite.service.IngestNotifications(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.Require().Len(resp.Transactions, 1)
	suite.Equal(txnID, resp.Transactions[0].TransactionID)
	suite.Require().Len(resp.Notifications, 1)
	suite.Equal(notifID, resp.Notifications[0].NotificationID)
	suite.Empty(resp.Errors)
}

func (suite *IngestionServiceTestSuite) TestIngest_SameSecondNotificationsStayDistinct() {
	ctx := context.Background()
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	req := dto.IngestNotificationsRequest{
		{Timestamp: ts, Title: "Payment", Body: "You paid 12.50 EUR"},
		{Timestamp: ts, Title: "Payment", Body: "You paid 8.00 EUR"},
	}

	suite.expectUserLookup()
	suite.expectEmptyHistory()
	suite.mockExtractor.On("ExtractTransactions", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil).Once()

	var savedTxns []domain.Transaction
	suite.mockTxnRepo.On("SaveTransactions", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { savedTxns = args.Get(1).([]domain.Transaction) }).
		Return([]portsrepo.SaveOutcome{
			{ID: utils.TransactionFingerprint(suite.userID, ts, req[0].Title, req[0].Body), Created: true},
			{ID: utils.TransactionFingerprint(suite.userID, ts, req[1].Title, req[1].Body), Created: true},
		}, nil).Once()
	suite.mockNotifRepo.On("SaveNotifications", mock.Anything, mock.Anything).
		Return([]portsrepo.SaveOutcome{{ID: "n1", Created: true}, {ID: "n2", Created: true}}, nil).Once()

	resp, err := suite.service.IngestNotifications(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.Require().Len(savedTxns, 2)
	suite.NotEqual(savedTxns[0].TransactionID, savedTxns[1].TransactionID)
	suite.Len(resp.Transactions, 2)
	suite.Empty(resp.Errors)
}

func (suite *IngestionServiceTestSuite) TestIngest_PartialBatchReportsRecordErrors() {
	ctx := context.Background()
	ts1 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	ts2 := time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC)
	req := dto.IngestNotificationsRequest{
		{Timestamp: ts1, Title: "A", Body: "first"},
		{Timestamp: ts2, Title: "B", Body: "second"},
	}

	suite.expectUserLookup()
	suite.expectEmptyHistory()
	suite.mockExtractor.On("ExtractTransactions", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil).Once()

	// First record fails at the store, second persists.
	suite.mockTxnRepo.On("SaveTransactions", mock.Anything, mock.Anything).
		Return([]portsrepo.SaveOutcome{
			{Err: errors.New("value too long for column")},
			{ID: utils.TransactionFingerprint(suite.userID, ts2, req[1].Title, req[1].Body), Created: true},
		}, nil).Once()

	var savedNotifs []domain.Notification
	suite.mockNotifRepo.On("SaveNotifications", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { savedNotifs = args.Get(1).([]domain.Notification) }).
		Return([]portsrepo.SaveOutcome{{ID: "n2", Created: true}}, nil).Once()

	resp, err := suite.service.IngestNotifications(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.Len(resp.Transactions, 1)
	suite.Require().Len(resp.Errors, 1)
	suite.Equal(0, resp.Errors[0].Index)

	// Only the resolved record's notification goes to the store.
	suite.Require().Len(savedNotifs, 1)
	suite.Equal("second", savedNotifs[0].Body)
}

func (suite *IngestionServiceTestSuite) TestIngest_ZeroResolvedIsConflict() {
	ctx := context.Background()
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	req := dto.IngestNotificationsRequest{
		{Timestamp: ts, Title: "A", Body: "first"},
	}

	suite.expectUserLookup()
	suite.expectEmptyHistory()
	suite.mockExtractor.On("ExtractTransactions", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil).Once()
	suite.mockTxnRepo.On("SaveTransactions", mock.Anything, mock.Anything).
		Return([]portsrepo.SaveOutcome{{Err: errors.New("insert failed")}}, nil).Once()

	_, err := suite.service.IngestNotifications(ctx, suite.userID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockNotifRepo.AssertNotCalled(suite.T(), "SaveNotifications", mock.Anything, mock.Anything)
}

func (suite *IngestionServiceTestSuite) TestIngest_EmptyBatchRejected() {
	_, err := suite.service.IngestNotifications(context.Background(), suite.userID, dto.IngestNotificationsRequest{})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *IngestionServiceTestSuite) TestIngest_UnknownUserRejected() {
	suite.mockUserRepo.On("FindUserByID", mock.Anything, suite.userID).
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.IngestNotifications(context.Background(), suite.userID, dto.IngestNotificationsRequest{
		{Timestamp: time.Now(), Title: "A", Body: "first"},
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *IngestionServiceTestSuite) TestIngest_HistoryPassedToExtractor() {
	ctx := context.Background()
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	req := dto.IngestNotificationsRequest{
		{Timestamp: ts, Title: "Payment", Body: "You paid 12.50 EUR"},
	}

	priorType := domain.Expense
	prior := domain.Transaction{TransactionID: "prior-1", UserID: suite.userID, Type: &priorType}
	priorNotif := domain.Notification{NotificationID: "pn-1", TransactionID: "prior-1", Body: "older payment"}

	suite.expectUserLookup()
	suite.mockTxnRepo.On("FindLatestPerType", mock.Anything, suite.userID).
		Return([]domain.Transaction{prior}, nil).Once()
	suite.mockNotifRepo.On("FindNotificationsByTransactionIDs", mock.Anything, suite.userID, []string{"prior-1"}).
		Return([]domain.Notification{priorNotif}, nil).Once()

	var gotHistory domain.ExtractionContext
	var gotHints domain.ExtractionHints
	suite.mockExtractor.On("ExtractTransactions", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			gotHints = args.Get(2).(domain.ExtractionHints)
			gotHistory = args.Get(3).(domain.ExtractionContext)
		}).
		Return(nil, nil).Once()

	suite.mockTxnRepo.On("SaveTransactions", mock.Anything, mock.Anything).
		Return([]portsrepo.SaveOutcome{{ID: "t1", Created: true}}, nil).Once()
	suite.mockNotifRepo.On("SaveNotifications", mock.Anything, mock.Anything).
		Return([]portsrepo.SaveOutcome{{ID: "n1", Created: true}}, nil).Once()

	_, err := suite.service.IngestNotifications(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.Equal("Jane", gotHints.FirstName)
	suite.Equal("Acme GmbH", gotHints.Company)
	suite.Require().Len(gotHistory.Transactions, 1)
	suite.Equal("prior-1", gotHistory.Transactions[0].TransactionID)
	suite.Require().Len(gotHistory.Notifications, 1)
	suite.Equal("older payment", gotHistory.Notifications[0].Body)
}

func (suite *IngestionServiceTestSuite) TestIngest_HistoryReadFailureDegradesToEmptyContext() {
	ctx := context.Background()
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	req := dto.IngestNotificationsRequest{
		{Timestamp: ts, Title: "Payment", Body: "You paid 12.50 EUR"},
	}

	suite.expectUserLookup()
	suite.mockTxnRepo.On("FindLatestPerType", mock.Anything, suite.userID).
		Return(nil, errors.New("connection reset")).Once()

	var gotHistory domain.ExtractionContext
	suite.mockExtractor.On("ExtractTransactions", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { gotHistory = args.Get(3).(domain.ExtractionContext) }).
		Return(nil, nil).Once()
	suite.mockTxnRepo.On("SaveTransactions", mock.Anything, mock.Anything).
		Return([]portsrepo.SaveOutcome{{ID: "t1", Created: true}}, nil).Once()
	suite.mockNotifRepo.On("SaveNotifications", mock.Anything, mock.Anything).
		Return([]portsrepo.SaveOutcome{{ID: "n1", Created: true}}, nil).Once()

	_, err := suite.service.IngestNotifications(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.Empty(gotHistory.Transactions)
	suite.Empty(gotHistory.Notifications)
}

func (suite *IngestionServiceTestSuite) TestListNotifications() {
	ctx := context.Background()
	window := portsrepo.TimeWindow{}
	stored := []domain.Notification{{NotificationID: "n1", UserID: suite.userID}}

	suite.mockNotifRepo.On("FindNotifications", mock.Anything, suite.userID, window).
		Return(stored, nil).Once()

	got, err := suite.service.ListNotifications(ctx, suite.userID, window)

	suite.Require().NoError(err)
	suite.Equal(stored, got)
}

func TestIngestionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(IngestionServiceTestSuite))
}
