package users

import (
	"errors"
	"fmt"

	"github.com/lance0/RubyRidge/internal/repository"
	"github.com/lance0/RubyRidge/pkg/apperrors"
	"github.com/lance0/RubyRidge/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUserHasTrips  = errors.New("user has recorded range trips")
	ErrUsernameTaken = errors.New("username is already taken")
)

type UserRepository interface {
	PersistUser(req models.CreateUserRequest, hashedPassword []byte) error
	GetUser(id int) (*models.User, error)
	GetUsers() ([]models.User, error)
	UpdateUser(id int, changes *models.UserChanges) error
	DeleteUser(id int) error
}

type userRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) UserRepository {
	return &userRepositoryImpl{repository: r}
}

func (r *userRepositoryImpl) PersistUser(req models.CreateUserRequest, hashedPassword []byte) error {
	query := r.repository.GoquDBWrapper.Insert("users").
		Rows(goqu.Record{
			"password_hash": string(hashedPassword),
			"username":      req.Username,
			"fullname":      req.Fullname,
			"role":          req.Role,
		})

	if _, err := query.Executor().Exec(); err != nil {
		if wrapped := apperrors.FromPQError(err); apperrors.IsUniqueViolation(wrapped) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

func (r *userRepositoryImpl) GetUsers() ([]models.User, error) {
	var users []models.User
	query := r.repository.GoquDBWrapper.
		Select("id", "username", "fullname", "role").
		From("users").
		Order(goqu.I("username").Asc())

	if err := query.Executor().ScanStructs(&users); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return users, nil
}

func (r *userRepositoryImpl) GetUser(id int) (*models.User, error) {
	var user models.User
	query := r.repository.GoquDBWrapper.
		Select("id", "username", "fullname", "password_hash", "role").
		From("users").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !found {
		return nil, ErrUserNotFound
	}

	return &user, nil
}

func (r *userRepositoryImpl) UpdateUser(id int, changes *models.UserChanges) error {
	record := goqu.Record{}
	if changes.PasswordHash != nil {
		record["password_hash"] = *changes.PasswordHash
	}
	if changes.Fullname != nil {
		record["fullname"] = *changes.Fullname
	}
	if changes.Role != nil {
		record["role"] = *changes.Role
	}
	if len(record) == 0 {
		return nil
	}

	result, err := r.repository.GoquDBWrapper.Update("users").
		Set(record).
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

// DeleteUser refuses to remove a user who owns range trips, the trip
// history would lose its owner. The ownership guard is part of the DELETE
// so a trip created concurrently cannot be orphaned.
func (r *userRepositoryImpl) DeleteUser(id int) error {
	result, err := deleteUserQuery(r.repository.GoquDBWrapper, id).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		var tripCount int
		countQuery := r.repository.GoquDBWrapper.
			Select(goqu.COUNT("id")).
			From("trips").
			Where(goqu.Ex{"user_id": id})

		if _, err := countQuery.Executor().ScanVal(&tripCount); err != nil {
			return fmt.Errorf("failed to count user trips: %w", err)
		}
		if tripCount > 0 {
			return ErrUserHasTrips
		}
		return ErrUserNotFound
	}

	return nil
}

func deleteUserQuery(db *goqu.Database, id int) *goqu.DeleteDataset {
	return db.Delete("users").
		Where(goqu.C("id").Eq(id)).
		Where(goqu.L("NOT EXISTS (SELECT 1 FROM trips WHERE user_id = ?)", id))
}
