package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/Lucifergene/bookswap-connect/internal/constants"
	"github.com/Lucifergene/bookswap-connect/internal/middleware"
	"github.com/Lucifergene/bookswap-connect/internal/models"
	"github.com/Lucifergene/bookswap-connect/internal/utils"
)

const bcryptCost = 10

type AuthHandler struct {
	UserCollection *mongo.Collection
	AuditLogger    utils.Logger
}

func NewAuthHandler(userColl *mongo.Collection, logger utils.Logger) *AuthHandler {
	return &AuthHandler{UserCollection: userColl, AuditLogger: logger}
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/register
func (a *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		utils.JSONError(w, "Please enter all required fields.", http.StatusBadRequest)
		return
	}

	if len(req.Password) < models.MinPasswordLength {
		utils.JSONError(w, "Password must be at least 6 characters.", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := a.UserCollection.FindOne(ctx, bson.M{"email": req.Email}).Err()
	if err == nil {
		utils.JSONError(w, "Email already in use. Please choose a different one.", http.StatusConflict)
		return
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		utils.JSONError(w, "An unexpected error occurred. Please try again later.", http.StatusInternalServerError)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		utils.JSONError(w, "An unexpected error occurred. Please try again later.", http.StatusInternalServerError)
		return
	}

	user := models.User{
		ID:         primitive.NewObjectID(),
		Username:   req.Username,
		Email:      req.Email,
		Password:   string(hash),
		CreateDate: time.Now(),
	}

	if _, err := a.UserCollection.InsertOne(ctx, user); err != nil {
		utils.JSONError(w, "An unexpected error occurred. Please try again later.", http.StatusInternalServerError)
		return
	}

	a.AuditLogger.Log(ctx, models.UserEntity, constants.Register, user.ID.Hex(), user.Email)

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":  "User registered successfully",
		"userId":   user.ID.Hex(),
		"username": user.Username,
	})
}

// POST /api/auth/login
func (a *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		utils.JSONError(w, "Please enter both email and password.", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Unknown email and wrong password answer identically so the endpoint
	// is not an account-existence oracle.
	var user models.User
	err := a.UserCollection.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.JSONError(w, "Invalid email or password.", http.StatusUnauthorized)
		return
	}
	if err != nil {
		utils.JSONError(w, "An unexpected error occurred. Please try again later.", http.StatusInternalServerError)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.JSONError(w, "Invalid email or password.", http.StatusUnauthorized)
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex())
	if err != nil {
		utils.JSONError(w, "An unexpected error occurred. Please try again later.", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":  "Login successful",
		"userId":   user.ID.Hex(),
		"username": user.Username,
		"token":    token,
	})
}

// POST /api/auth/logout
//
// Tokens are stateless and carry their own expiry; the client discards
// its copy and the server just confirms.
func (a *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]string{"message": "Logout successful"})
}

// GET /api/auth/user
func (a *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		utils.JSONError(w, "User not found.", http.StatusNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	err = a.UserCollection.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.JSONError(w, "User not found.", http.StatusNotFound)
		return
	}
	if err != nil {
		utils.JSONError(w, "An unexpected error occurred. Please try again later.", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"userId":     user.ID.Hex(),
		"username":   user.Username,
		"email":      user.Email,
		"createDate": user.CreateDate,
	})
}
