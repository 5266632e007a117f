package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lifequest-lab/backend/internal/entity"
	"github.com/lifequest-lab/backend/internal/model"
	"github.com/lifequest-lab/backend/internal/repository"
	"github.com/lifequest-lab/backend/pkg/authenticator"
	"github.com/lifequest-lab/backend/pkg/errorx"
	"github.com/lifequest-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type UserDomain interface {
	Register(context.Context, *model.RegisterRequest) (*model.RegisterResponse, error)
	GetMe(context.Context, *model.GetMeRequest) (*model.GetMeResponse, error)
}

type userDomain struct {
	userRepo     repository.UserRepository
	progressRepo repository.UserProgressRepository
	tokenEngine  authenticator.TokenEngine[model.AccessToken]
}

func NewUserDomain(
	userRepo repository.UserRepository,
	progressRepo repository.UserProgressRepository,
	tokenEngine authenticator.TokenEngine[model.AccessToken],
) *userDomain {
	return &userDomain{
		userRepo:     userRepo,
		progressRepo: progressRepo,
		tokenEngine:  tokenEngine,
	}
}

func (d *userDomain) Register(
	ctx context.Context, req *model.RegisterRequest,
) (*model.RegisterResponse, error) {
	timezone := req.Timezone
	if timezone == "" {
		timezone = "UTC"
	}

	if _, err := time.LoadLocation(timezone); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid timezone %s", timezone)
	}

	_, err := d.userRepo.GetByName(ctx, req.Name)
	if err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "This name is already taken")
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get user by name: %v", err)
		return nil, errorx.Unknown
	}

	user := &entity.User{
		Base:     entity.Base{ID: uuid.NewString()},
		Name:     req.Name,
		Timezone: timezone,
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer func() {
		ctx = xcontext.WithRollbackDBTransaction(ctx)
	}()

	if err := d.userRepo.Create(ctx, user); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
		return nil, errorx.Unknown
	}

	err = d.progressRepo.Create(ctx, &entity.UserProgress{UserID: user.ID, Level: 1})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create user progress: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithCommitDBTransaction(ctx)

	token, err := d.tokenEngine.Generate(user.ID, model.AccessToken{ID: user.ID, Name: user.Name})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate access token: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RegisterResponse{User: model.ConvertUser(user), AccessToken: token}, nil
}

func (d *userDomain) GetMe(
	ctx context.Context, req *model.GetMeRequest,
) (*model.GetMeResponse, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetMeResponse{User: model.ConvertUser(user)}, nil
}
