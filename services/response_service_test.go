package services

import (
	"encoding/json"
	"testing"

	"github.com/daydaylx/gamex-sub000/comparison"
	"github.com/daydaylx/gamex-sub000/logger"
	"github.com/daydaylx/gamex-sub000/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestResponseService_SubmitResponse(t *testing.T) {
	t.Run("Normalizes and marks the session ready", func(t *testing.T) {
		sessionRepo := new(MockSessionRepository)
		responseRepo := new(MockResponseRepository)
		service := NewResponseService(sessionRepo, responseRepo, logger.Nop())

		sessionRepo.On("GetSessionByID", "s1").Return(&models.Session{ID: "s1", Status: models.SessionStatusOpen}, nil).Once()
		var stored *models.SessionResponse
		responseRepo.On("UpsertResponse", mock.AnythingOfType("*models.SessionResponse")).Run(func(args mock.Arguments) {
			stored = args.Get(0).(*models.SessionResponse)
		}).Return(nil).Once()
		responseRepo.On("CountSides", "s1").Return(int64(2), nil).Once()
		sessionRepo.On("UpdateSessionStatus", "s1", models.SessionStatusReady).Return(nil).Once()

		_, err := service.SubmitResponse("s1", models.SideB, comparison.ResponseMap{
			"Q1": {"status": "NO", "intensity": 12},
		})

		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, models.SideB, stored.Side)
		var decoded map[string]map[string]any
		require.NoError(t, json.Unmarshal(stored.Answers, &decoded))
		assert.Equal(t, true, decoded["Q1"]["hardNo"])
		assert.EqualValues(t, 5, decoded["Q1"]["intensity"])
		sessionRepo.AssertExpectations(t)
		responseRepo.AssertExpectations(t)
	})

	t.Run("First side leaves the session open", func(t *testing.T) {
		sessionRepo := new(MockSessionRepository)
		responseRepo := new(MockResponseRepository)
		service := NewResponseService(sessionRepo, responseRepo, logger.Nop())

		sessionRepo.On("GetSessionByID", "s1").Return(&models.Session{ID: "s1", Status: models.SessionStatusOpen}, nil).Once()
		responseRepo.On("UpsertResponse", mock.Anything).Return(nil).Once()
		responseRepo.On("CountSides", "s1").Return(int64(1), nil).Once()

		_, err := service.SubmitResponse("s1", models.SideA, comparison.ResponseMap{})
		require.NoError(t, err)
		sessionRepo.AssertNotCalled(t, "UpdateSessionStatus", mock.Anything, mock.Anything)
	})

	t.Run("Invalid side", func(t *testing.T) {
		service := NewResponseService(new(MockSessionRepository), new(MockResponseRepository), logger.Nop())
		_, err := service.SubmitResponse("s1", models.Side("C"), nil)
		assert.ErrorIs(t, err, ErrInvalidSide)
	})

	t.Run("Unknown session", func(t *testing.T) {
		sessionRepo := new(MockSessionRepository)
		service := NewResponseService(sessionRepo, new(MockResponseRepository), logger.Nop())
		sessionRepo.On("GetSessionByID", "nope").Return(nil, nil).Once()

		_, err := service.SubmitResponse("nope", models.SideA, nil)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestResponseService_GetResponse(t *testing.T) {
	responseRepo := new(MockResponseRepository)
	service := NewResponseService(new(MockSessionRepository), responseRepo, logger.Nop())

	responseRepo.On("GetResponse", "s1", models.SideA).Return(&models.SessionResponse{
		Answers: datatypes.JSON(`{"Q1":{"value":4}}`),
	}, nil).Once()
	responseRepo.On("GetResponse", "s1", models.SideB).Return(nil, nil).Once()

	got, err := service.GetResponse("s1", models.SideA)
	require.NoError(t, err)
	assert.EqualValues(t, 4, got["Q1"]["value"])

	none, err := service.GetResponse("s1", models.SideB)
	assert.NoError(t, err)
	assert.Nil(t, none)
}
