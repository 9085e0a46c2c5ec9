package domain

import (
	"context"
	"errors"
	"time"

	"github.com/questx-lab/focus/internal/model"
	"github.com/questx-lab/focus/internal/repository"
	"github.com/questx-lab/focus/pkg/errorx"
	"github.com/questx-lab/focus/pkg/xcontext"
	"gorm.io/gorm"
)

type UserDomain interface {
	InitUser(context.Context, *model.InitUserRequest) (*model.InitUserResponse, error)
	GetUser(context.Context, *model.GetUserRequest) (*model.GetUserResponse, error)
}

type userDomain struct {
	userRepo repository.UserRepository
	now      func() time.Time
}

func NewUserDomain(userRepo repository.UserRepository) *userDomain {
	return &userDomain{userRepo: userRepo, now: time.Now}
}

func (d *userDomain) InitUser(
	ctx context.Context, req *model.InitUserRequest,
) (*model.InitUserResponse, error) {
	identity := xcontext.RequestIdentity(ctx)
	if identity.ID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Missing user identity")
	}

	user := newUser(ctx, identity.ID, todayKey(ctx, d.now()))
	user.Email = identity.Email
	user.Name = identity.Name
	user.PhotoURL = identity.Picture

	created, err := d.userRepo.CreateIfAbsent(ctx, user)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
		return nil, errorx.Unknown
	}

	if created {
		xcontext.Logger(ctx).Infof("Initialized user %s", user.ID)
	}

	return &model.InitUserResponse{Created: created}, nil
}

func (d *userDomain) GetUser(
	ctx context.Context, req *model.GetUserRequest,
) (*model.GetUserResponse, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.GetUserResponse(model.ConvertUser(user, todayKey(ctx, d.now())))
	return &resp, nil
}
