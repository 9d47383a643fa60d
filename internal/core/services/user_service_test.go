package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/vladisc/financial-server/internal/apperrors"
	"github.com/vladisc/financial-server/internal/core/domain"
	portssvc "github.com/vladisc/financial-server/internal/core/ports/services"
	"github.com/vladisc/financial-server/internal/core/services"
	"github.com/vladisc/financial-server/internal/dto"
	"github.com/vladisc/financial-server/internal/utils"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockRepo *MockUserRepository
	service  portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockRepo)
}

func (suite *UserServiceTestSuite) TestRegisterUser_HashesPassword() {
	req := dto.RegisterUserRequest{
		Username:  "jdoe",
		Password:  "correct horse battery",
		FirstName: "Jane",
		LastName:  "Doe",
		Company:   "Acme GmbH",
	}

	var saved domain.User
	suite.mockRepo.On("SaveUser", mock.Anything, mock.AnythingOfType("domain.User")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.User) }).
		Return(nil).Once()

	user, err := suite.service.RegisterUser(context.Background(), req)

	suite.Require().NoError(err)
	suite.NotEmpty(user.UserID)
	suite.NotEqual(req.Password, saved.PasswordHash)
	suite.True(utils.CheckPasswordHash(req.Password, saved.PasswordHash))
}

func (suite *UserServiceTestSuite) TestRegisterUser_DuplicateUsername() {
	req := dto.RegisterUserRequest{
		Username:  "jdoe",
		Password:  "correct horse battery",
		FirstName: "Jane",
		LastName:  "Doe",
	}

	suite.mockRepo.On("SaveUser", mock.Anything, mock.Anything).
		Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.RegisterUser(context.Background(), req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_Success() {
	hash, err := utils.HashPassword("correct horse battery")
	suite.Require().NoError(err)

	stored := &domain.User{UserID: "user-1", Username: "jdoe", PasswordHash: hash}
	suite.mockRepo.On("FindUserByUsername", mock.Anything, "jdoe").Return(stored, nil).Once()

	user, err := suite.service.AuthenticateUser(context.Background(), "jdoe", "correct horse battery")

	suite.Require().NoError(err)
	suite.Equal("user-1", user.UserID)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_WrongPassword() {
	hash, err := utils.HashPassword("correct horse battery")
	suite.Require().NoError(err)

	stored := &domain.User{UserID: "user-1", Username: "jdoe", PasswordHash: hash}
	suite.mockRepo.On("FindUserByUsername", mock.Anything, "jdoe").Return(stored, nil).Once()

	_, err = suite.service.AuthenticateUser(context.Background(), "jdoe", "wrong")

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidCredentials)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_UnknownUsername() {
	suite.mockRepo.On("FindUserByUsername", mock.Anything, "ghost").
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.AuthenticateUser(context.Background(), "ghost", "whatever")

	// Unknown usernames and wrong passwords are indistinguishable.
	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidCredentials)
}

func (suite *UserServiceTestSuite) TestUpdateUser_PartialFields() {
	stored := &domain.User{UserID: "user-1", Username: "jdoe", FirstName: "Jane", LastName: "Doe", Company: "Acme GmbH"}
	newCompany := "Initech"

	suite.mockRepo.On("FindUserByID", mock.Anything, "user-1").Return(stored, nil).Once()

	var saved domain.User
	suite.mockRepo.On("UpdateUser", mock.Anything, mock.AnythingOfType("domain.User")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.User) }).
		Return(nil).Once()

	user, err := suite.service.UpdateUser(context.Background(), "user-1", dto.UpdateUserRequest{Company: &newCompany})

	suite.Require().NoError(err)
	suite.Equal("Initech", user.Company)
	suite.Equal("Jane", saved.FirstName)
	suite.Equal("Initech", saved.Company)
}

func (suite *UserServiceTestSuite) TestDeleteUser_UnknownUser() {
	suite.mockRepo.On("FindUserByID", mock.Anything, "ghost").
		Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.DeleteUser(context.Background(), "ghost")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteUser", mock.Anything, mock.Anything)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
