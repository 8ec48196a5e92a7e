package register

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/stockflowhq/stockflow-backend/internal/models"
	authservices "github.com/stockflowhq/stockflow-backend/internal/services/auth"
)

type RegisterServiceMock struct {
	mock.Mock
}

func (m *RegisterServiceMock) Register(ctx context.Context, in authservices.RegisterInput) (*models.User, error) {
	args := m.Called(ctx, in)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

type SenderMock struct {
	sent chan *models.User
}

func (m *SenderMock) SendWelcome(user *models.User) error {
	m.sent <- user
	return nil
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	createdUser := &models.User{
		ID:          primitive.NewObjectID(),
		Username:    "user1",
		Email:       "user1@example.com",
		Role:        "staff",
		Permissions: []string{"inventory:read"},
		IsActive:    true,
		Status:      models.UserStatusActive,
	}

	tests := []struct {
		name           string
		requestBody    any
		mockResp       *models.User
		mockErr        error
		wantStatusCode int
		wantData       map[string]any
		wantError      string
		wantStatus     string
	}{
		{
			name: "valid registration",
			requestBody: Request{
				Username: "user1",
				Email:    "user1@example.com",
				Password: "password123",
				Role:     "staff",
			},
			mockResp:       createdUser,
			wantStatusCode: http.StatusOK,
			wantData: map[string]any{
				"username": "user1",
				"email":    "user1@example.com",
				"role":     "staff",
				"status":   "active",
			},
			wantStatus: "OK",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name: "validation error - missing email",
			requestBody: Request{
				Username: "user1",
				Password: "password123",
				Role:     "staff",
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Email is a required field",
			wantStatus:     "Error",
		},
		{
			name: "email already taken",
			requestBody: Request{
				Username: "user1",
				Email:    "user1@example.com",
				Password: "password123",
				Role:     "staff",
			},
			mockErr:        authservices.ErrEmailTaken,
			wantStatusCode: http.StatusBadRequest,
			wantError:      authservices.ErrEmailTaken.Error(),
			wantStatus:     "Error",
		},
		{
			name: "unknown privilege",
			requestBody: Request{
				Username:    "user1",
				Email:       "user1@example.com",
				Password:    "password123",
				Role:        "staff",
				Permissions: []string{"flux:capacitor"},
			},
			mockErr:        authservices.ErrUnknownPrivilege,
			wantStatusCode: http.StatusBadRequest,
			wantError:      authservices.ErrUnknownPrivilege.Error(),
			wantStatus:     "Error",
		},
		{
			name: "service error",
			requestBody: Request{
				Username: "user1",
				Email:    "user1@example.com",
				Password: "password123",
				Role:     "staff",
			},
			mockErr:        errors.New("storage is down"),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "failed to register user",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(RegisterServiceMock)
			handler := New(newNoopLogger(), serviceMock, nil)

			if tt.mockResp != nil || tt.mockErr != nil {
				serviceMock.On("Register", mock.Anything, mock.AnythingOfType("services.RegisterInput")).
					Return(tt.mockResp, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
			} else {
				assert.Nil(t, got["error"])
			}

			if tt.wantData != nil {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				for k, v := range tt.wantData {
					assert.Equal(t, v, data[k])
				}
				// Хеш пароля не должен попадать в ответ.
				_, leaked := data["hashed_password"]
				assert.False(t, leaked)
			} else {
				assert.Nil(t, got["data"])
			}

			if tt.mockResp != nil || tt.mockErr != nil {
				serviceMock.AssertExpectations(t)
			}
		})
	}
}

func TestRegisterHandler_SendsWelcomeEmail(t *testing.T) {
	serviceMock := new(RegisterServiceMock)
	sender := &SenderMock{sent: make(chan *models.User, 1)}
	handler := New(newNoopLogger(), serviceMock, sender)

	createdUser := &models.User{
		ID:       primitive.NewObjectID(),
		Username: "user1",
		Email:    "user1@example.com",
		Role:     "viewer",
		IsActive: true,
		Status:   models.UserStatusActive,
	}
	serviceMock.On("Register", mock.Anything, mock.AnythingOfType("services.RegisterInput")).
		Return(createdUser, nil).Once()

	body, err := json.Marshal(Request{
		Username: "user1",
		Email:    "user1@example.com",
		Password: "password123",
		Role:     "viewer",
	})
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	select {
	case u := <-sender.sent:
		assert.Equal(t, createdUser.Email, u.Email)
	case <-time.After(time.Second):
		t.Fatal("welcome email was not sent")
	}
}
