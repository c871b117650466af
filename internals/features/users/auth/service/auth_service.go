package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolhub_backend/internals/cache"
	"schoolhub_backend/internals/constants"
	studentModel "schoolhub_backend/internals/features/school/students/model"
	"schoolhub_backend/internals/features/users/auth/dto"
	authHelper "schoolhub_backend/internals/features/users/auth/helper"
	authRepo "schoolhub_backend/internals/features/users/auth/repository"
	userModel "schoolhub_backend/internals/features/users/user/model"
	helper "schoolhub_backend/internals/helpers"
	helperAuth "schoolhub_backend/internals/helpers/auth"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrGoogleToken        = errors.New("invalid google id token")
	ErrEmailTaken         = errors.New("email already registered")
	ErrSignupForbidden    = errors.New("role is not allowed to create this account")
	ErrNoSchool           = errors.New(constants.MsgSchoolNotInSession)
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrWeakPassword       = errors.New("password must contain letters and numbers")
)

/* ==========================
   Google
========================== */

type GoogleIdentity struct {
	Email   string
	Name    string
	Subject string
}

// GoogleVerifier checks an ID token against the OAuth client id.
type GoogleVerifier interface {
	Verify(idToken, clientID string) (GoogleIdentity, error)
}

type FuturendaVerifier struct{}

func (FuturendaVerifier) Verify(idToken, clientID string) (GoogleIdentity, error) {
	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(idToken, []string{clientID}); err != nil {
		return GoogleIdentity{}, fmt.Errorf("%w: %v", ErrGoogleToken, err)
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return GoogleIdentity{}, fmt.Errorf("%w: %v", ErrGoogleToken, err)
	}
	return GoogleIdentity{Email: claimSet.Email, Name: claimSet.Name, Subject: claimSet.Sub}, nil
}

/* ==========================
   Login
========================== */

func Login(ctx context.Context, db *gorm.DB, req dto.LoginRequest) (*userModel.UserModel, error) {
	user, err := authRepo.FindUserByEmail(ctx, db, req.Email)
	if err != nil {
		if helper.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := authHelper.CheckPasswordHash(user.Password, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}
	return user, nil
}

// LoginGoogle only signs in accounts that already exist; schools provision their users.
func LoginGoogle(ctx context.Context, db *gorm.DB, v GoogleVerifier, clientID, idToken string) (*userModel.UserModel, error) {
	id, err := v.Verify(idToken, clientID)
	if err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(id.Email))
	if email == "" {
		return nil, ErrGoogleToken
	}
	user, err := authRepo.FindUserByEmail(ctx, db, email)
	if err != nil {
		if helper.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}
	if user.GoogleID == nil && id.Subject != "" {
		if err := authRepo.LinkGoogleID(ctx, db, user.ID, id.Subject); err != nil {
			return nil, err
		}
		user.GoogleID = &id.Subject
	}
	return user, nil
}

// SessionFor builds the token session, resolving the student profile for STUDENT users.
func SessionFor(ctx context.Context, db *gorm.DB, user *userModel.UserModel) (helperAuth.Session, error) {
	s := helperAuth.Session{
		UserID:   user.ID,
		Role:     user.Role,
		Name:     user.UserName,
		SchoolID: user.SchoolID,
	}
	studentID, err := helperAuth.ResolveStudentID(ctx, db, s)
	if err != nil {
		return s, err
	}
	s.StudentID = studentID
	return s, nil
}

/* ==========================
   Password
========================== */

func ChangePassword(ctx context.Context, db *gorm.DB, userID uuid.UUID, req dto.ChangePasswordRequest) error {
	user, err := authRepo.FindUserByID(ctx, db, userID)
	if err != nil {
		return err
	}
	if err := authHelper.CheckPasswordHash(user.Password, req.CurrentPassword); err != nil {
		return ErrWrongPassword
	}
	if !authHelper.IsStrongEnough(req.NewPassword) {
		return ErrWeakPassword
	}
	hash, err := authHelper.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return authRepo.UpdateUserPassword(ctx, db, userID, hash)
}

/* ==========================
   Signup (admin provisioning)
========================== */

// CanCreate reports whether caller may provision an account with role.
func CanCreate(callerRole, role string) bool {
	switch callerRole {
	case constants.RoleSuperAdmin:
		return role == constants.RoleSchoolAdmin
	case constants.RoleSchoolAdmin:
		return role == constants.RoleTeacher || role == constants.RoleStudent
	}
	return false
}

// Signup creates the account; a STUDENT also gets its student row in the caller's school.
func Signup(ctx context.Context, db *gorm.DB, ca *cache.Aside, caller helperAuth.Session, req dto.SignupRequest) (*userModel.UserModel, error) {
	if !CanCreate(caller.Role, req.Role) {
		return nil, ErrSignupForbidden
	}
	if !authHelper.IsStrongEnough(req.Password) {
		return nil, ErrWeakPassword
	}

	var schoolID *uuid.UUID
	if caller.Role == constants.RoleSchoolAdmin {
		sid, err := helperAuth.ResolveSchoolID(ctx, db, caller)
		if err != nil {
			return nil, err
		}
		if sid == nil {
			return nil, ErrNoSchool
		}
		schoolID = sid
	}

	hash, err := authHelper.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := userModel.UserModel{
		UserName: req.Name,
		Email:    req.Email,
		Password: hash,
		Role:     req.Role,
		SchoolID: schoolID,
		Mobile:   req.Mobile,
		IsActive: true,
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := authRepo.CreateUser(ctx, tx, &user); err != nil {
			if helper.IsUniqueViolation(err) {
				return ErrEmailTaken
			}
			return err
		}
		if req.Role != constants.RoleStudent {
			return nil
		}
		st := studentModel.StudentModel{
			StudentUserID:   user.ID,
			StudentSchoolID: *schoolID,
			StudentName:     user.UserName,
			StudentEmail:    user.Email,
			StudentPhoneNo:  req.Mobile,
			StudentIsActive: true,
		}
		return tx.Create(&st).Error
	})
	if err != nil {
		return nil, err
	}

	if schoolID != nil {
		switch req.Role {
		case constants.RoleTeacher:
			ca.Forget(ctx, cache.Key("teachers", schoolID.String()))
		case constants.RoleStudent:
			ca.Forget(ctx, cache.Key("students", schoolID.String()))
		}
	}
	return &user, nil
}
