package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"carewell-server/models"
	"carewell-server/role"
	"carewell-server/util"
)

type UserService struct {
	store UserStore
}

func NewUserService(store UserStore) *UserService {
	return &UserService{store: store}
}

func (s *UserService) List(ctx context.Context, roleFilter string) ([]models.User, error) {
	if roleFilter == "" {
		return s.store.FindAll(ctx)
	}
	if !role.Valid(roleFilter) {
		return nil, util.ValidationError("unknown role %q", roleFilter)
	}
	return s.store.FindByRole(ctx, roleFilter)
}

func (s *UserService) ListPatients(ctx context.Context) ([]models.User, error) {
	return s.store.FindByRole(ctx, role.Patient)
}

func (s *UserService) ListAdmins(ctx context.Context) ([]models.User, error) {
	admins, err := s.store.FindByRole(ctx, role.Admin)
	if err != nil {
		return nil, err
	}
	supers, err := s.store.FindByRole(ctx, role.SuperAdmin)
	if err != nil {
		return nil, err
	}
	return append(admins, supers...), nil
}

func (s *UserService) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.store.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, util.NotFoundError("user not found")
	}
	return user, err
}

func (s *UserService) Update(ctx context.Context, id primitive.ObjectID, upd UserUpdate) (*models.User, error) {
	if upd.Role != nil && !role.Valid(*upd.Role) {
		return nil, util.ValidationError("unknown role %q", *upd.Role)
	}
	user, err := s.store.Update(ctx, id, upd)
	if errors.Is(err, ErrNotFound) {
		return nil, util.NotFoundError("user not found")
	}
	return user, err
}

func (s *UserService) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := s.store.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return util.NotFoundError("user not found")
	}
	return err
}
