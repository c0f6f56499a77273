package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nusacargo/backoffice-auth/internal/auth/domain"
	"github.com/nusacargo/backoffice-auth/internal/auth/service"
	autherror "github.com/nusacargo/backoffice-auth/internal/errors"
	"github.com/nusacargo/backoffice-auth/internal/mocks"
)

func TestIssueChallenge_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUsers := mocks.NewMockUserStore(ctrl)
	mockSender := mocks.NewMockNotificationSender(ctrl)
	mockRandom := mocks.NewMockSecureRandom(ctrl)
	mockClock := mocks.NewMockClock(ctrl)

	now := time.Now()
	user := &domain.User{ID: "user-1", Email: "clerk@nusacargo.example"}
	record := &domain.UserSecurityRecord{UserID: "user-1"}

	mockRandom.EXPECT().Digits(6).Return("042719", nil)
	mockClock.EXPECT().Now().Return(now)
	mockUsers.EXPECT().SaveSecurityRecord(gomock.Any(), record).Return(nil)
	mockSender.EXPECT().Send(gomock.Any(), user.Email, gomock.Any(), gomock.Any()).Return(nil)

	m := service.NewOtpChallengeManager(mockUsers, mockSender, mockRandom, mockClock)
	err := m.IssueChallenge(context.Background(), user, record)

	require.NoError(t, err)
	require.NotNil(t, record.PendingOtpCode)
	assert.Equal(t, "042719", *record.PendingOtpCode)
	require.NotNil(t, record.OtpExpiresAt)
	assert.Equal(t, now.Add(10*time.Minute), *record.OtpExpiresAt)
}

func TestIssueChallenge_DeliveryFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUsers := mocks.NewMockUserStore(ctrl)
	mockSender := mocks.NewMockNotificationSender(ctrl)
	mockRandom := mocks.NewMockSecureRandom(ctrl)
	mockClock := mocks.NewMockClock(ctrl)

	user := &domain.User{ID: "user-1", Email: "clerk@nusacargo.example"}
	record := &domain.UserSecurityRecord{UserID: "user-1"}

	mockRandom.EXPECT().Digits(6).Return("042719", nil)
	mockClock.EXPECT().Now().Return(time.Now())
	// One save to persist the challenge, one to roll it back.
	mockUsers.EXPECT().SaveSecurityRecord(gomock.Any(), record).Return(nil).Times(2)
	mockSender.EXPECT().Send(gomock.Any(), user.Email, gomock.Any(), gomock.Any()).
		Return(errors.New("smtp relay down"))

	m := service.NewOtpChallengeManager(mockUsers, mockSender, mockRandom, mockClock)
	err := m.IssueChallenge(context.Background(), user, record)

	assert.ErrorIs(t, err, autherror.ErrDeliveryFailure)
	// The challenge is not considered issued.
	assert.Nil(t, record.PendingOtpCode)
	assert.Nil(t, record.OtpExpiresAt)
}

func TestValidateChallenge(t *testing.T) {
	m := service.NewOtpChallengeManager(nil, nil, nil, nil)
	now := time.Now()

	challenge := func(code string, expiresIn time.Duration) *domain.UserSecurityRecord {
		expiry := now.Add(expiresIn)
		return &domain.UserSecurityRecord{
			UserID:         "user-1",
			PendingOtpCode: &code,
			OtpExpiresAt:   &expiry,
		}
	}

	t.Run("match within window clears the challenge", func(t *testing.T) {
		record := challenge("042719", 10*time.Minute)

		require.NoError(t, m.ValidateChallenge(record, "042719", now))
		assert.Nil(t, record.PendingOtpCode)
		assert.Nil(t, record.OtpExpiresAt)

		// One-time use: a validated code cannot replay.
		assert.ErrorIs(t, m.ValidateChallenge(record, "042719", now), autherror.ErrChallengeExpired)
	})

	t.Run("mismatch keeps the challenge for retry", func(t *testing.T) {
		record := challenge("042719", 10*time.Minute)

		assert.ErrorIs(t, m.ValidateChallenge(record, "999999", now), autherror.ErrInvalidCredential)
		assert.NotNil(t, record.PendingOtpCode)
	})

	t.Run("leading zeros are significant", func(t *testing.T) {
		record := challenge("004213", 10*time.Minute)

		assert.ErrorIs(t, m.ValidateChallenge(record, "4213", now), autherror.ErrInvalidCredential)
	})

	t.Run("expiry observation clears the challenge", func(t *testing.T) {
		record := challenge("042719", 10*time.Minute)
		after := now.Add(10*time.Minute + time.Second)

		assert.ErrorIs(t, m.ValidateChallenge(record, "042719", after), autherror.ErrChallengeExpired)
		assert.Nil(t, record.PendingOtpCode)
		assert.Nil(t, record.OtpExpiresAt)
	})

	t.Run("no outstanding challenge", func(t *testing.T) {
		record := &domain.UserSecurityRecord{UserID: "user-1"}

		assert.ErrorIs(t, m.ValidateChallenge(record, "042719", now), autherror.ErrChallengeExpired)
	})
}

func TestCryptoRand_Digits(t *testing.T) {
	random := service.CryptoRand{}

	for i := 0; i < 50; i++ {
		code, err := random.Digits(6)
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9')
		}
	}

	_, err := random.Digits(0)
	assert.Error(t, err)
}
