package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
)

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	SAPNo     string    `json:"sap_no"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type UserFile struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"-"`
	FileType   string    `json:"file_type"`
	Filename   string    `json:"filename"`
	BlobKey    string    `json:"-"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// UserStore holds platform accounts and uploaded-file metadata.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Register(ctx context.Context, email, password, sapNo, fullName, role string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return User{}, ErrInvalidCredentials
	}
	if role != RoleAdmin {
		role = RoleStudent
	}
	if _, err := s.GetByEmail(ctx, email); err == nil {
		return User{}, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return User{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	now := time.Now()
	var id int64
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO users (email, password_hash, sap_no, full_name, role, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
		email, string(hash), nullable(sapNo), fullName, role, now.Unix()).Scan(&id)
	if err != nil {
		return User{}, fmt.Errorf("register: %w", err)
	}
	return User{ID: id, Email: email, SAPNo: sapNo, FullName: fullName, Role: role, CreatedAt: now}, nil
}

// Authenticate verifies email+password against the stored bcrypt hash.
func (s *UserStore) Authenticate(ctx context.Context, email, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, sap_no, full_name, role, created_at FROM users WHERE email=$1`, email)
	u, hash, err := scanUser(row)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, sap_no, full_name, role, created_at FROM users WHERE email=$1`, email)
	u, _, err := scanUser(row)
	return u, err
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, sap_no, full_name, role, created_at FROM users WHERE id=$1`, id)
	u, _, err := scanUser(row)
	return u, err
}

// ListStudents pages through student accounts, newest first.
func (s *UserStore) ListStudents(ctx context.Context, page, limit int) ([]User, int, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE role=$1`, RoleStudent).Scan(&total); err != nil {
		return nil, 0, err
	}
	rs, err := s.db.QueryContext(ctx,
		`SELECT id, email, password_hash, sap_no, full_name, role, created_at FROM users
		 WHERE role=$1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`,
		RoleStudent, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rs.Close()
	var out []User
	for rs.Next() {
		u, _, err := scanUserRows(rs)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rs.Err()
}

func (s *UserStore) AddFile(ctx context.Context, userID int64, fileType, filename, blobKey string) (UserFile, error) {
	now := time.Now()
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO user_files (user_id, file_type, filename, blob_key, uploaded_at)
		 VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		userID, fileType, filename, blobKey, now.Unix()).Scan(&id)
	if err != nil {
		return UserFile{}, err
	}
	return UserFile{ID: id, UserID: userID, FileType: fileType, Filename: filename, BlobKey: blobKey, UploadedAt: now}, nil
}

func (s *UserStore) ListFiles(ctx context.Context, userID int64) ([]UserFile, error) {
	rs, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, file_type, filename, blob_key, uploaded_at FROM user_files
		 WHERE user_id=$1 ORDER BY uploaded_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rs.Close()
	out := []UserFile{}
	for rs.Next() {
		var f UserFile
		var ts int64
		if err := rs.Scan(&f.ID, &f.UserID, &f.FileType, &f.Filename, &f.BlobKey, &ts); err != nil {
			return nil, err
		}
		f.UploadedAt = time.Unix(ts, 0)
		out = append(out, f)
	}
	return out, rs.Err()
}

type rowScanner interface{ Scan(dest ...any) error }

func scanUser(row rowScanner) (User, string, error) {
	var u User
	var hash string
	var sap sql.NullString
	var ts int64
	if err := row.Scan(&u.ID, &u.Email, &hash, &sap, &u.FullName, &u.Role, &ts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, "", ErrUserNotFound
		}
		return User{}, "", err
	}
	u.SAPNo = sap.String
	u.CreatedAt = time.Unix(ts, 0)
	return u, hash, nil
}

func scanUserRows(rs *sql.Rows) (User, string, error) {
	return scanUser(rs)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
