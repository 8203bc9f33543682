package businesstype

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/mileage-log-generator/internal/models"
)

// RepoMock реализует интерфейс CustomRepository
type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetCustomType(ctx context.Context, uid, username string) (*models.CustomBusinessType, error) {
	args := m.Called(ctx, uid, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CustomBusinessType), args.Error(1)
}

func newTestResolver(repo CustomRepository) *Resolver {
	return NewResolver(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		want RefKind
	}{
		{name: "пустая строка — тип по умолчанию", ref: "", want: RefDefault},
		{name: "название из каталога — предустановленный тип", ref: "Real Estate", want: RefPredefined},
		{name: "произвольная строка — пользовательский UID", ref: "3f1a7c92-0b1d-4f7e-9a40-6a1f0c5d2b11", want: RefCustom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRef(tt.ref).Kind)
		})
	}
}

func TestResolve_Predefined(t *testing.T) {
	r := newTestResolver(nil)

	bt, err := r.Resolve(context.Background(), ParseRef("Delivery"), "testuser")
	require.NoError(t, err)
	assert.Equal(t, "Delivery", bt.DisplayName)
	assert.NotEmpty(t, bt.Purposes)
	assert.Greater(t, bt.AverageTripsPerWorkday, 0.0)
}

func TestResolve_Default(t *testing.T) {
	r := newTestResolver(nil)

	bt, err := r.Resolve(context.Background(), ParseRef(""), "testuser")
	require.NoError(t, err)
	assert.Equal(t, DefaultName, bt.DisplayName)
}

func TestResolve_Custom(t *testing.T) {
	custom := &models.CustomBusinessType{
		UID:                    "uid-1",
		Username:               "testuser",
		DisplayName:            "Courier",
		AverageTripsPerWorkday: 6,
		Purposes:               []models.PurposeRule{{Name: "Parcel Drop"}},
	}
	repo := new(RepoMock)
	repo.On("GetCustomType", mock.Anything, "uid-1", "testuser").Return(custom, nil)

	r := newTestResolver(repo)

	bt, err := r.Resolve(context.Background(), ParseRef("uid-1"), "testuser")
	require.NoError(t, err)
	assert.Equal(t, "Courier", bt.DisplayName)
	repo.AssertExpectations(t)
}

func TestResolve_CustomNotFound(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetCustomType", mock.Anything, "missing", "testuser").Return(nil, ErrNotFound)

	r := newTestResolver(repo)

	_, err := r.Resolve(context.Background(), ParseRef("missing"), "testuser")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_CustomFetchError(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetCustomType", mock.Anything, "uid-1", "testuser").
		Return(nil, errors.New("connection refused"))

	r := newTestResolver(repo)

	_, err := r.Resolve(context.Background(), ParseRef("uid-1"), "testuser")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
