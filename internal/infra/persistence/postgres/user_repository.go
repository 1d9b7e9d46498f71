package postgres

import (
	"context"

	"market/internal/domain/entity"
	domainerrors "market/internal/domain/errors"
	"market/internal/domain/repository"
	"market/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// userRepository implements the domain.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a domain interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByID retrieves a single user by their unique ID, preloading both role profiles.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Preload("FarmerProfile.Farms").
		Preload("BuyerProfile").
		Where("id = ?", id).
		First(&userM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return toUserDomain(&userM), nil
}

// FindByEmail retrieves a single user by their email address, preloading both role profiles.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Preload("FarmerProfile.Farms").
		Preload("BuyerProfile").
		Where("email = ?", email).
		First(&userM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	return toUserDomain(&userM), nil
}

// FindByFarmerID retrieves the user owning the given farmer profile.
func (repo *userRepository) FindByFarmerID(ctx context.Context, farmerID uuid.UUID) (*entity.User, error) {
	var profileM model.FarmerProfileModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", farmerID).
		First(&profileM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrFarmerNotFound
		}

		return nil, errors.Wrap(err, "failed to find farmer profile")
	}

	return repo.FindByID(ctx, profileM.UserID)
}

// FindByBuyerID retrieves the user owning the given buyer profile.
func (repo *userRepository) FindByBuyerID(ctx context.Context, buyerID uuid.UUID) (*entity.User, error) {
	var profileM model.BuyerProfileModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", buyerID).
		First(&profileM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find buyer profile")
	}

	return repo.FindByID(ctx, profileM.UserID)
}

// Create persists a new user entity, including its profile extensions, in one write.
// GORM's Create with associations inserts into users, farmer_profiles/buyer_profiles
// and farms together.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrAlreadyExists.WrapMessage("email already registered")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required user information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	// Propagate generated IDs and timestamps back to the entity.
	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt
	if user.FarmerProfile != nil && userM.FarmerProfile != nil {
		user.FarmerProfile.ID = userM.FarmerProfile.ID
		user.FarmerProfile.UserID = userM.ID
		for i, farmM := range userM.FarmerProfile.Farms {
			user.FarmerProfile.Farms[i].ID = farmM.ID
			user.FarmerProfile.Farms[i].FarmerID = userM.FarmerProfile.ID
		}
	}
	if user.BuyerProfile != nil && userM.BuyerProfile != nil {
		user.BuyerProfile.ID = userM.BuyerProfile.ID
		user.BuyerProfile.UserID = userM.ID
	}

	return nil
}

// Update modifies an existing user entity and its profiles.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	err := repo.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(userM).Error
	if err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrAlreadyExists.WrapMessage("email already registered")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update user")
	}

	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// Delete hard-deletes a user row; profiles and farms cascade at the database level.
func (repo *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.UserModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// DeleteFarmerProfile removes only the farmer extension; the base user
// record survives, so the email can still authenticate into other roles.
func (repo *userRepository) DeleteFarmerProfile(ctx context.Context, farmerID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", farmerID).
		Delete(&model.FarmerProfileModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete farmer profile")
	}
	if result.RowsAffected == 0 {
		return repository.ErrFarmerNotFound
	}

	return nil
}

// ListPendingFarmers returns users whose farmer profile awaits approval.
func (repo *userRepository) ListPendingFarmers(ctx context.Context) ([]*entity.User, error) {
	var userMs []*model.UserModel
	err := repo.db.WithContext(ctx).
		Preload("FarmerProfile.Farms").
		Joins("JOIN farmer_profiles ON farmer_profiles.user_id = users.id").
		Where("farmer_profiles.pending = ?", true).
		Find(&userMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list pending farmers")
	}

	return toUserDomainSlice(userMs), nil
}

// ListNonAdmins returns all users without the admin flag.
func (repo *userRepository) ListNonAdmins(ctx context.Context) ([]*entity.User, error) {
	var userMs []*model.UserModel
	err := repo.db.WithContext(ctx).
		Preload("FarmerProfile.Farms").
		Preload("BuyerProfile").
		Where("admin = ?", false).
		Find(&userMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list non-admin users")
	}

	return toUserDomainSlice(userMs), nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

func toUserDomainSlice(data []*model.UserModel) []*entity.User {
	users := make([]*entity.User, 0, len(data))
	for _, userM := range data {
		users = append(users, toUserDomain(userM))
	}

	return users
}

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:            data.ID,
		Email:         data.Email,
		Name:          data.Name,
		PasswordHash:  data.PasswordHash,
		Phone:         data.Phone,
		Admin:         data.Admin,
		Active:        data.Active,
		FarmerProfile: toFarmerProfileDomain(data.FarmerProfile),
		BuyerProfile:  toBuyerProfileDomain(data.BuyerProfile),
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}

// fromUserDomain converts a domain User entity to a GORM UserModel for persistence.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:            data.ID,
		Email:         data.Email,
		Name:          data.Name,
		PasswordHash:  data.PasswordHash,
		Phone:         data.Phone,
		Admin:         data.Admin,
		Active:        data.Active,
		FarmerProfile: fromFarmerProfileDomain(data.FarmerProfile),
		BuyerProfile:  fromBuyerProfileDomain(data.BuyerProfile),
	}
}

func toFarmerProfileDomain(data *model.FarmerProfileModel) *entity.FarmerProfile {
	if data == nil {
		return nil
	}

	farms := make([]*entity.Farm, 0, len(data.Farms))
	for _, farmM := range data.Farms {
		farms = append(farms, &entity.Farm{
			ID:        farmM.ID,
			FarmerID:  farmM.FarmerID,
			Address:   farmM.Address,
			Size:      farmM.Size,
			CreatedAt: farmM.CreatedAt,
		})
	}

	return &entity.FarmerProfile{
		ID:        data.ID,
		UserID:    data.UserID,
		Pending:   data.Pending,
		Farms:     farms,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

func fromFarmerProfileDomain(data *entity.FarmerProfile) *model.FarmerProfileModel {
	if data == nil {
		return nil
	}

	farms := make([]*model.FarmModel, 0, len(data.Farms))
	for _, farm := range data.Farms {
		farms = append(farms, &model.FarmModel{
			ID:       farm.ID,
			FarmerID: farm.FarmerID,
			Address:  farm.Address,
			Size:     farm.Size,
		})
	}

	return &model.FarmerProfileModel{
		ID:      data.ID,
		UserID:  data.UserID,
		Pending: data.Pending,
		Farms:   farms,
	}
}

func toBuyerProfileDomain(data *model.BuyerProfileModel) *entity.BuyerProfile {
	if data == nil {
		return nil
	}

	return &entity.BuyerProfile{
		ID:            data.ID,
		UserID:        data.UserID,
		Address:       data.Address,
		PaymentMethod: data.PaymentMethod,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}

func fromBuyerProfileDomain(data *entity.BuyerProfile) *model.BuyerProfileModel {
	if data == nil {
		return nil
	}

	return &model.BuyerProfileModel{
		ID:            data.ID,
		UserID:        data.UserID,
		Address:       data.Address,
		PaymentMethod: data.PaymentMethod,
	}
}
