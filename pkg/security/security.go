package security

import (
	"log"
	"os"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/AsonyaGh/Bina/internal/repository"
	"github.com/AsonyaGh/Bina/pkg/models"
)

var jwtSecret []byte

func init() {
	secret := os.Getenv("JWT_SECRET")

	if secret == "" {
		// main may not have loaded the .env file yet
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: no .env file found: %v", err)
		}
		secret = os.Getenv("JWT_SECRET")
	}

	if secret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtSecret = []byte(secret)
}

func AuthenticateUser(email, password string, repo *repository.Repository) (*models.User, error) {
	var flat models.FlatUserRecord

	query := repo.GoquDBWrapper.
		Select("id", "name", "email", "password_hash", "role", "location_id", "is_active").
		From("users").
		Where(goqu.Ex{"email": email})

	found, err := query.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, bcrypt.ErrMismatchedHashAndPassword
	}

	if err := bcrypt.CompareHashAndPassword([]byte(flat.PasswordHash), []byte(password)); err != nil {
		return nil, err
	}

	user := flat.TransformToUser()
	return &user, nil
}

func GenerateJWT(user *models.User) (string, error) {
	locationID := ""
	if user.LocationID != nil {
		locationID = *user.LocationID
	}

	claims := jwt.MapClaims{
		"userID":     user.ID,
		"role":       user.Role.String(),
		"name":       user.Name,
		"locationID": locationID,
		"exp":        time.Now().Add(time.Hour * 12).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}
