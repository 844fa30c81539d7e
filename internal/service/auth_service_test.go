// internal/service/auth_service_test.go
package service

import (
	"context"
	"testing"

	"go_skill_track/internal/config"
	"go_skill_track/internal/model"
	"go_skill_track/internal/repository/mocks"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.SecretKey = "test-secret-key"
	cfg.JWT.ExpiryMinutes = 60
	return cfg
}

func Test_authService_Register(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBProgress()
	cfg := newTestAuthConfig()

	req := &model.RegisterRequest{
		Name:     "テスト太郎",
		Email:    "taro@example.com",
		Password: "password123",
	}

	tests := []struct {
		name      string
		setupMock func(userRepo *mocks.UserRepository)
		wantErr   error
	}{
		{
			name: "正常系: ユーザー登録成功",
			setupMock: func(userRepo *mocks.UserRepository) {
				userRepo.On("FindByEmail", ctx, mock.AnythingOfType("*gorm.DB"), req.Email).
					Return(nil, model.ErrNotFound).Once()
				userRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.User")).
					Run(func(args mock.Arguments) {
						user := args.Get(2).(*model.User)
						assert.Equal(t, req.Name, user.Name)
						assert.Equal(t, req.Email, user.Email)
						assert.NotEqual(t, uuid.Nil, user.UserID)
						// 平文パスワードは保存されない
						assert.NotEqual(t, req.Password, user.PasswordHash)
						assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)))
					}).Return(nil).Once()
			},
			wantErr: nil,
		},
		{
			name: "異常系: メールアドレス重複",
			setupMock: func(userRepo *mocks.UserRepository) {
				userRepo.On("FindByEmail", ctx, mock.AnythingOfType("*gorm.DB"), req.Email).
					Return(&model.User{UserID: uuid.New(), Email: req.Email}, nil).Once()
			},
			wantErr: model.ErrConflict,
		},
		{
			name: "異常系: Createでの重複検知 (レースコンディション)",
			setupMock: func(userRepo *mocks.UserRepository) {
				userRepo.On("FindByEmail", ctx, mock.AnythingOfType("*gorm.DB"), req.Email).
					Return(nil, model.ErrNotFound).Once()
				userRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.User")).
					Return(model.ErrConflict).Once()
			},
			wantErr: model.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(mocks.UserRepository)
			svc := NewAuthService(db, userRepo, cfg)
			if tt.setupMock != nil {
				tt.setupMock(userRepo)
			}

			user, err := svc.Register(ctx, req)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
			}
			userRepo.AssertExpectations(t)
		})
	}
}

func Test_authService_Login(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBProgress()
	cfg := newTestAuthConfig()

	userID := uuid.New()
	password := "password123"
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	storedUser := &model.User{
		UserID:       userID,
		Name:         "テスト太郎",
		Email:        "taro@example.com",
		PasswordHash: string(hash),
	}

	tests := []struct {
		name      string
		req       *model.LoginRequest
		setupMock func(userRepo *mocks.UserRepository)
		wantErr   error
	}{
		{
			name: "正常系: 認証成功でJWTが返る",
			req:  &model.LoginRequest{Email: storedUser.Email, Password: password},
			setupMock: func(userRepo *mocks.UserRepository) {
				userRepo.On("FindByEmail", ctx, mock.AnythingOfType("*gorm.DB"), storedUser.Email).
					Return(storedUser, nil).Once()
			},
			wantErr: nil,
		},
		{
			name: "異常系: パスワード不一致",
			req:  &model.LoginRequest{Email: storedUser.Email, Password: "wrong-password"},
			setupMock: func(userRepo *mocks.UserRepository) {
				userRepo.On("FindByEmail", ctx, mock.AnythingOfType("*gorm.DB"), storedUser.Email).
					Return(storedUser, nil).Once()
			},
			wantErr: model.ErrInvalidInput,
		},
		{
			name: "異常系: 存在しないユーザー",
			req:  &model.LoginRequest{Email: "nobody@example.com", Password: password},
			setupMock: func(userRepo *mocks.UserRepository) {
				userRepo.On("FindByEmail", ctx, mock.AnythingOfType("*gorm.DB"), "nobody@example.com").
					Return(nil, model.ErrNotFound).Once()
			},
			wantErr: model.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(mocks.UserRepository)
			svc := NewAuthService(db, userRepo, cfg)
			if tt.setupMock != nil {
				tt.setupMock(userRepo)
			}

			resp, err := svc.Login(ctx, tt.req)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, resp)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, resp)
			require.NotEmpty(t, resp.AccessToken)

			// 返ったトークンが正しい鍵で検証でき、subにユーザーIDが入っている
			token, err := jwt.Parse(resp.AccessToken, func(token *jwt.Token) (interface{}, error) {
				return []byte(cfg.JWT.SecretKey), nil
			})
			require.NoError(t, err)
			require.True(t, token.Valid)
			sub, err := token.Claims.GetSubject()
			require.NoError(t, err)
			assert.Equal(t, userID.String(), sub)

			assert.Equal(t, "Bearer", resp.TokenType)
			assert.Equal(t, cfg.JWT.ExpiryMinutes*60, resp.ExpiresIn)

			userRepo.AssertExpectations(t)
		})
	}
}

func Test_authService_GetUser(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBProgress()
	cfg := newTestAuthConfig()

	userID := uuid.New()
	storedUser := &model.User{
		UserID: userID,
		Name:   "テスト太郎",
		Email:  "taro@example.com",
	}

	t.Run("正常系: ユーザー情報を返す", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		svc := NewAuthService(db, userRepo, cfg)

		userRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), userID).
			Return(storedUser, nil).Once()

		got, err := svc.GetUser(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, userID, got.UserID)
		assert.Equal(t, storedUser.Email, got.Email)

		userRepo.AssertExpectations(t)
	})

	t.Run("異常系: 存在しないユーザーはNotFound", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		svc := NewAuthService(db, userRepo, cfg)

		userRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), userID).
			Return(nil, model.ErrNotFound).Once()

		got, err := svc.GetUser(ctx, userID)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrNotFound)
		assert.Nil(t, got)
	})
}
