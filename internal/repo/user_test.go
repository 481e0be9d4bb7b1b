package repo

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/travel-journal/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

var userCols = []string{"id", "full_name", "email", "password_hash", "created_on"}

func TestUserRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	id := uuid.New()
	now := time.Now()
	mock.ExpectQuery(`INSERT INTO users \(full_name, email, password_hash\)`).
		WithArgs("Ann", "a@x.com", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(id.String(), "Ann", "a@x.com", "$2a$10$hash", now))

	repo := NewUserRepo(db)
	user, err := repo.Create(context.Background(), "Ann", "a@x.com", "pw")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.ID != id || user.FullName != "Ann" || user.Email != "a@x.com" {
		t.Errorf("unexpected user: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

// hashArg checks that the stored value is a cost-10 bcrypt hash of the password.
type hashArg struct{ password string }

func (h hashArg) Match(v driver.Value) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	cost, err := bcrypt.Cost([]byte(s))
	if err != nil || cost != BcryptCost {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(s), []byte(h.password)) == nil
}

func TestUserRepo_Create_StoresSaltedHash(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("Ann", "a@x.com", hashArg{password: "pw"}).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(uuid.New().String(), "Ann", "a@x.com", "h", time.Now()))

	if _, err := NewUserRepo(db).Create(context.Background(), "Ann", "a@x.com", "pw"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserRepo_Create_DuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("Ann", "a@x.com", sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err = NewUserRepo(db).Create(context.Background(), "Ann", "a@x.com", "other")
	if !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserRepo_GetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	id := uuid.New()
	mock.ExpectQuery(`SELECT id, full_name, email, password_hash, created_on\s+FROM users\s+WHERE email = \$1`).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(id.String(), "Ann", "a@x.com", "h", time.Now()))

	user, err := NewUserRepo(db).GetByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if user.ID != id || user.PasswordHash != "h" {
		t.Errorf("unexpected user: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserRepo_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	id := uuid.New()
	mock.ExpectQuery(`WHERE id = \$1`).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err = NewUserRepo(db).GetByID(context.Background(), id)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := &models.User{PasswordHash: string(hash)}

	if !VerifyPassword(user, "pw") {
		t.Error("expected matching password to verify")
	}
	if VerifyPassword(user, "wrong") {
		t.Error("expected wrong password to fail")
	}
	if VerifyPassword(&models.User{}, "pw") {
		t.Error("expected empty hash to fail")
	}
}
