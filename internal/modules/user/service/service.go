package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"medshare.app/backend/internal/config"
	"medshare.app/backend/internal/entity"
	donationRepo "medshare.app/backend/internal/modules/donation/repository"
	notifRepo "medshare.app/backend/internal/modules/notification/repository"
	requestRepo "medshare.app/backend/internal/modules/request/repository"
	search "medshare.app/backend/internal/modules/search/service"
	"medshare.app/backend/internal/modules/user/dto"
	"medshare.app/backend/internal/modules/user/repository"
	"medshare.app/backend/pkg/apperror"
	"medshare.app/backend/pkg/mailer"
	"medshare.app/backend/pkg/storage"
)

const resetTokenTTL = 15 * time.Minute

type UserService interface {
	Register(ctx context.Context, in dto.RegisterInput) (*dto.AuthResponse, error)
	Login(ctx context.Context, in dto.LoginInput) (*dto.AuthResponse, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	VerifyPassword(ctx context.Context, userID uuid.UUID, password string) (bool, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in dto.UpdateProfileInput) (*entity.User, error)
	// DeleteAccount removes the account and cascades through the user's
	// donations, requests and notifications synchronously.
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}

type userService struct {
	repo         repository.UserRepository
	donationRepo donationRepo.DonationRepository
	requestRepo  requestRepo.RequestRepository
	notifRepo    notifRepo.NotificationRepository
	imageStorage storage.ImageStorage
	mail         mailer.Mailer
	search       search.SearchService
	secret       string
	tokenTTL     time.Duration
	frontendURL  string
}

func NewUserService(
	cfg *config.Config,
	repo repository.UserRepository,
	donationRepo donationRepo.DonationRepository,
	requestRepo requestRepo.RequestRepository,
	notifRepo notifRepo.NotificationRepository,
	imageStorage storage.ImageStorage,
	mail mailer.Mailer,
	search search.SearchService,
) UserService {
	return &userService{
		repo:         repo,
		donationRepo: donationRepo,
		requestRepo:  requestRepo,
		notifRepo:    notifRepo,
		imageStorage: imageStorage,
		mail:         mail,
		search:       search,
		secret:       cfg.JWTSecret,
		tokenTTL:     cfg.JWTTTL,
		frontendURL:  cfg.FrontendURL,
	}
}

func (s *userService) Register(ctx context.Context, in dto.RegisterInput) (*dto.AuthResponse, error) {
	if !in.AcceptTerms {
		return nil, apperror.New(http.StatusBadRequest, "Please accept the Terms & Conditions.", apperror.ErrInvalidInput)
	}

	fullName := strings.TrimSpace(in.FullName)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	role := strings.TrimSpace(in.Role)
	password := strings.TrimSpace(in.Password)
	contactNumber := strings.TrimSpace(in.ContactNumber)
	address := strings.TrimSpace(in.Address)

	if !validEmail(email) {
		return nil, apperror.New(http.StatusBadRequest, "Invalid email format. Please enter a valid email.", apperror.ErrInvalidInput)
	}
	if !validPhone(contactNumber) {
		return nil, apperror.New(http.StatusBadRequest, "Invalid phone number or missing digits (must be exactly 11 digits).", apperror.ErrInvalidInput)
	}
	if !validPassword(password) {
		return nil, apperror.New(http.StatusBadRequest, "Password must be at least 8 characters & include a letter, number & symbol.", apperror.ErrInvalidInput)
	}
	if len(fullName) < 3 || isGibberish(fullName) {
		return nil, apperror.New(http.StatusBadRequest, "Please enter a valid full name (no random characters or gibberish).", apperror.ErrInvalidInput)
	}
	if !validAddress(address) {
		return nil, apperror.New(http.StatusBadRequest, "Please enter a valid address (include street, house number, or known location).", apperror.ErrInvalidInput)
	}

	// One account per email per role
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		if existing.Role == role {
			return nil, apperror.New(http.StatusBadRequest, "User already registered with this role.", apperror.ErrInvalidInput)
		}
		return nil, apperror.New(http.StatusBadRequest, "This email is already registered with another role. Please use a different email.", apperror.ErrInvalidInput)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		FullName:      fullName,
		Email:         email,
		ContactNumber: contactNumber,
		Address:       address,
		Role:          role,
		PasswordHash:  string(hashed),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, expiresAt, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""

	return &dto.AuthResponse{
		Message:   "Registration successful!",
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: expiresAt,
		User:      user,
	}, nil
}

func (s *userService) Login(ctx context.Context, in dto.LoginInput) (*dto.AuthResponse, error) {
	fullName := strings.TrimSpace(in.FullName)
	role := strings.TrimSpace(in.Role)

	user, err := s.repo.FindByFullNameAndRole(ctx, fullName, role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusBadRequest, "User not found.", apperror.ErrBadRequest)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(strings.TrimSpace(in.Password))); err != nil {
		return nil, apperror.New(http.StatusBadRequest, "Incorrect password.", apperror.ErrBadRequest)
	}

	token, expiresAt, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	redirectTo := "ReceiverHomeScreen"
	if role == entity.RoleDonor {
		redirectTo = "DonorHomeScreen"
	}

	return &dto.AuthResponse{
		Message:    "Login successful!",
		Token:      token,
		TokenType:  "Bearer",
		ExpiresIn:  expiresAt,
		RedirectTo: redirectTo,
	}, nil
}

func (s *userService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.New(http.StatusBadRequest, "User not found.", apperror.ErrBadRequest)
		}
		return err
	}

	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return err
	}
	token := hex.EncodeToString(buf)
	expires := time.Now().Add(resetTokenTTL)

	user.ResetPasswordToken = &token
	user.ResetPasswordExpires = &expires
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}

	resetLink := fmt.Sprintf("%s/reset-password/%s", strings.TrimRight(s.frontendURL, "/"), token)
	return s.mail.SendPasswordResetEmail(user.Email, resetLink)
}

func (s *userService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.repo.FindByResetToken(ctx, strings.TrimSpace(token), time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.New(http.StatusBadRequest, "Invalid or expired token.", apperror.ErrBadRequest)
		}
		return err
	}

	if !validPassword(newPassword) {
		return apperror.New(http.StatusBadRequest, "Password must contain at least 8 characters, one letter, one number, and one special character.", apperror.ErrInvalidInput)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hashed)
	user.ResetPasswordToken = nil
	user.ResetPasswordExpires = nil
	return s.repo.Update(ctx, user)
}

func (s *userService) VerifyPassword(ctx context.Context, userID uuid.UUID, password string) (bool, error) {
	user, err := s.repo.FindByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperror.New(http.StatusNotFound, "User not found.", apperror.ErrNotFound)
		}
		return false, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.repo.FindByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusNotFound, "User not found.", apperror.ErrNotFound)
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, in dto.UpdateProfileInput) (*entity.User, error) {
	user, err := s.repo.FindByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusNotFound, "User not found.", apperror.ErrNotFound)
		}
		return nil, err
	}

	if in.FullName != "" {
		user.FullName = strings.TrimSpace(in.FullName)
	}
	if in.Email != "" {
		user.Email = strings.ToLower(strings.TrimSpace(in.Email))
	}
	if in.ContactNumber != "" {
		user.ContactNumber = strings.TrimSpace(in.ContactNumber)
	}
	if in.Address != "" {
		user.Address = strings.TrimSpace(in.Address)
	}
	if strings.TrimSpace(in.Password) != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hashed)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *userService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	user, err := s.repo.FindByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.New(http.StatusNotFound, "User not found.", apperror.ErrNotFound)
		}
		return err
	}

	if user.Role == entity.RoleDonor {
		// Stored images and search entries go first; failures there are
		// absorbed since the row deletes below are what actually matter.
		donations, err := s.donationRepo.ListByDonor(ctx, user.ID)
		if err != nil {
			return err
		}
		for _, donation := range donations {
			for _, imageURL := range donation.Images {
				if err := s.imageStorage.DeleteImage(ctx, imageURL); err != nil {
					log.Printf("Failed to delete image %s: %v", imageURL, err)
				}
			}
			if s.search != nil {
				if err := s.search.DeleteDonation(donation.ID.String()); err != nil {
					log.Printf("Failed to remove donation %s from search index: %v", donation.ID, err)
				}
			}
		}

		if err := s.donationRepo.DeleteByDonor(ctx, user.ID); err != nil {
			return err
		}
		if err := s.requestRepo.DeleteByDonor(ctx, user.ID); err != nil {
			return err
		}
	} else {
		if err := s.requestRepo.DeleteByReceiver(ctx, user.ID); err != nil {
			return err
		}
	}

	if err := s.notifRepo.DeleteByUser(user.ID); err != nil {
		return err
	}

	return s.repo.Delete(ctx, user.ID)
}

func (s *userService) generateToken(user *entity.User) (string, int64, error) {
	expiresAt := time.Now().Add(s.tokenTTL)

	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", 0, err
	}

	return signed, expiresAt.Unix(), nil
}
