package activity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/spacelease/internal/domain/activity"
	"github.com/rpggio/spacelease/internal/repository/mocks"
	"github.com/stretchr/testify/require"
)

func TestActivityService_LogAndList(t *testing.T) {
	ctx := context.Background()
	spaceID := "space1"

	repo := &mocks.ActivityRepository{}
	entry := &activity.ActivityEntry{
		SpaceID:      &spaceID,
		ActivityType: activity.TypeContractCreated,
		Summary:      "created",
	}

	repo.On("Log", ctx, entry).Return(nil)
	repo.On("List", ctx, activity.ListActivityOptions{SpaceID: &spaceID, Limit: 50}).Return([]activity.ActivityEntry{*entry}, nil)

	svc := activity.NewService(repo, nil)
	require.NoError(t, svc.LogActivity(ctx, entry))
	require.False(t, entry.CreatedAt.IsZero())

	entries, err := svc.GetRecentActivity(ctx, activity.ListActivityOptions{SpaceID: &spaceID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestActivityService_RejectsEmptyEntry(t *testing.T) {
	svc := activity.NewService(&mocks.ActivityRepository{}, nil)
	require.ErrorIs(t, svc.LogActivity(context.Background(), nil), activity.ErrInvalidInput)
	require.ErrorIs(t, svc.LogActivity(context.Background(), &activity.ActivityEntry{}), activity.ErrInvalidInput)
}

func TestRecord_WrapsRepositoryError(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	boom := errors.New("locked")
	entry := &activity.ActivityEntry{ActivityType: activity.TypeSpaceOccupied, Summary: "occupied"}
	repo.On("Log", ctx, entry).Return(boom)

	require.ErrorIs(t, activity.Record(ctx, repo, entry), boom)
}

func TestDetails(t *testing.T) {
	require.JSONEq(t, `{"reason":"moved"}`, activity.Details(map[string]string{"reason": "moved"}))
}
